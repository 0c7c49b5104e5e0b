package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/paper/pgstore"
	"github.com/smartplace/idrole/pkg/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := mustApp(cmd.Context())
			if a.pool == nil {
				return errNeedsPostgres
			}
			if err := pg.Migrate(cmd.Context(), a.pool, a.pgConfig, pgstore.Migrations, a.log); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"status": "migrated"})
		},
	}
}
