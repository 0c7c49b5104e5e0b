package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/roles"
)

type matrixEntry struct {
	Role   roles.Role         `json:"role"`
	Grants []permission.Grant `json:"grants"`
}

func newMatrixCmd() *cobra.Command {
	var role string
	c := &cobra.Command{
		Use:         "matrix",
		Short:       "Print the effective grants of every role, inherited ones included",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStoreless: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver := mustApp(cmd.Context()).resolver

			selected := resolver.Roles()
			if role != "" {
				r := roles.Role(role)
				if !r.Valid() {
					return fmt.Errorf("%w: %q", permission.ErrUnknownRole, role)
				}
				selected = []roles.Role{r}
			}

			entries := make([]matrixEntry, 0, len(selected))
			for _, r := range selected {
				entries = append(entries, matrixEntry{Role: r, Grants: resolver.Permissions(r)})
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	c.Flags().StringVar(&role, "role", "", "print a single role")
	return c
}
