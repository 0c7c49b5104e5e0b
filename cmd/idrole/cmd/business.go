package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/paper"
)

func newBusinessCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "business",
		Short: "Register businesses",
	}
	c.AddCommand(newBusinessRegisterCmd())
	return c
}

func newBusinessRegisterCmd() *cobra.Command {
	var (
		businessType string
		fields       paper.BusinessFields
	)
	c := &cobra.Command{
		Use:   "register <owner-id>",
		Short: "Register a business owned by the identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseID("owner-id", args[0])
			if err != nil {
				return err
			}
			fields.BusinessType = paper.BusinessType(businessType)
			reg, err := mustApp(cmd.Context()).service.CreateBusinessRegistration(cmd.Context(), owner, fields)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), reg)
		},
	}
	c.Flags().StringVar(&fields.LegalName, "name", "", "legal name")
	c.Flags().StringVar(&businessType, "type", string(paper.BusinessSoleProprietorship), "business type")
	c.Flags().StringVar(&fields.RegistrationNumber, "number", "", "registration number")
	_ = c.MarkFlagRequired("name")
	return c
}
