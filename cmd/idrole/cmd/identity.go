package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/paper"
)

func newIdentityCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "identity",
		Short: "Register and deactivate identities",
	}
	c.AddCommand(newIdentityRegisterCmd(), newIdentityDeactivateCmd(), newIdentityShowCmd())
	return c
}

func newIdentityRegisterCmd() *cobra.Command {
	var (
		kind   string
		fields paper.IdentityFields
	)
	c := &cobra.Command{
		Use:   "register",
		Short: "Register a new identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := mustApp(cmd.Context())
			fields.Kind = paper.IdentityKind(kind)
			id, err := a.service.RegisterIdentity(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), id)
		},
	}
	c.Flags().StringVar(&kind, "kind", string(paper.KindPersonal), "identity kind")
	c.Flags().StringVar(&fields.DisplayName, "name", "", "display name")
	c.Flags().StringVar(&fields.Email, "email", "", "contact email")
	c.Flags().StringVar(&fields.Phone, "phone", "", "contact phone in international format")
	_ = c.MarkFlagRequired("name")
	return c
}

func newIdentityDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <identity-id>",
		Short: "Deactivate an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			if err := mustApp(cmd.Context()).service.DeactivateIdentity(cmd.Context(), id); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"identity_id": id, "active": false})
		},
	}
}

func newIdentityShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <identity-id>",
		Short: "Print an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			identity, err := mustApp(cmd.Context()).store.GetIdentity(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), identity)
		},
	}
}
