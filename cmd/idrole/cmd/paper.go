package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/paper"
)

func newPaperCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "paper",
		Short: "Add, deactivate and list papers",
	}
	c.AddCommand(newPaperAddCmd(), newPaperDeactivateCmd(), newPaperListCmd())
	return c
}

func newPaperAddCmd() *cobra.Command {
	var (
		paperType string
		business  string
		party     string
		payload   []string
	)
	c := &cobra.Command{
		Use:   "add <identity-id>",
		Short: "Add a paper to an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			businessID, err := parseOptionalID("business", business)
			if err != nil {
				return err
			}
			data, err := parsePayload(payload)
			if err != nil {
				return err
			}
			if party != "" {
				if data == nil {
					data = map[string]any{}
				}
				data[paper.PayloadParty] = party
			}

			p, err := mustApp(cmd.Context()).service.CreatePaper(cmd.Context(), identityID, paper.Type(paperType), businessID, data)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	c.Flags().StringVar(&paperType, "type", "", "paper type")
	c.Flags().StringVar(&business, "business", "", "related business id")
	c.Flags().StringVar(&party, "party", "", "franchise party: franchisor or franchisee")
	c.Flags().StringSliceVar(&payload, "payload", nil, "payload entries as key=value")
	_ = c.MarkFlagRequired("type")
	return c
}

func newPaperDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <identity-id> <paper-id>",
		Short: "Deactivate a paper",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			paperID, err := parseID("paper-id", args[1])
			if err != nil {
				return err
			}
			if err := mustApp(cmd.Context()).service.DeactivatePaper(cmd.Context(), identityID, paperID); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"paper_id": paperID, "active": false})
		},
	}
}

func newPaperListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <identity-id>",
		Short: "List every paper of an identity, inactive ones included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			papers, err := mustApp(cmd.Context()).store.GetPapersForIdentity(cmd.Context(), identityID)
			if err != nil {
				return err
			}
			if papers == nil {
				papers = []paper.Paper{}
			}
			return printJSON(cmd.OutOrStdout(), papers)
		},
	}
}
