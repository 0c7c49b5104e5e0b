package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/identity"
	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/roles"
)

// buildContext builds the identity context and stores it in the command
// context, so later log records carry the identity id.
func buildContext(cmd *cobra.Command, identityID uuid.UUID) (*identity.Context, error) {
	ictx, err := mustApp(cmd.Context()).builder.BuildContext(cmd.Context(), identityID)
	if err != nil {
		return nil, err
	}
	cmd.SetContext(identity.WithContext(cmd.Context(), ictx))
	return ictx, nil
}

func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <identity-id>",
		Short: "Build the authorization context of an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			ictx, err := buildContext(cmd, identityID)
			if err != nil {
				return err
			}
			mustApp(cmd.Context()).log.DebugContext(cmd.Context(), "context printed",
				logger.Role(ictx.PrimaryRole),
				logger.Count(len(ictx.Assignments)),
			)
			return printJSON(cmd.OutOrStdout(), ictx)
		},
	}
}

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <identity-id> <business-id>",
		Short: "Narrow the context of an identity to one business",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			businessID, err := parseID("business-id", args[1])
			if err != nil {
				return err
			}
			ictx, err := buildContext(cmd, identityID)
			if err != nil {
				return err
			}

			log := mustApp(cmd.Context()).log
			sw, err := ictx.Switch(businessID)
			if err != nil {
				log.InfoContext(cmd.Context(), "business context switch denied", logger.BusinessID(businessID))
				return err
			}
			log.DebugContext(cmd.Context(), "context switched",
				logger.BusinessID(businessID),
				logger.Role(sw.PrimaryRole),
			)
			return printJSON(cmd.OutOrStdout(), sw)
		},
	}
}

func newPotentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "potential <identity-id>",
		Short: "Show the roles one more paper would earn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			// the context already holds exactly the active papers of one snapshot
			ictx, err := buildContext(cmd, identityID)
			if err != nil {
				return err
			}
			papers := ictx.Papers
			if papers == nil {
				papers = []paper.Paper{}
			}
			potential := roles.AnalyzePotential(papers)
			mustApp(cmd.Context()).log.DebugContext(cmd.Context(), "potential analyzed",
				logger.Count(len(potential.Potential)),
			)
			return printJSON(cmd.OutOrStdout(), potential)
		},
	}
}
