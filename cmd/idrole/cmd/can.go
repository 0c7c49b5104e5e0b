package cmd

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/roles"
)

type canResult struct {
	Allowed    bool         `json:"allowed"`
	Permission string       `json:"permission"`
	Business   roles.Scope  `json:"business"`
	Roles      []roles.Role `json:"roles"`
}

func newCanCmd() *cobra.Command {
	var business, target string
	c := &cobra.Command{
		Use:   "can <identity-id> <resource> <action>",
		Short: "Check a permission; exits non-zero when denied",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := mustApp(cmd.Context())

			identityID, err := parseID("identity-id", args[0])
			if err != nil {
				return err
			}
			businessID, err := parseOptionalID("business", business)
			if err != nil {
				return err
			}
			targetID, err := parseOptionalID("target", target)
			if err != nil {
				return err
			}

			ictx, err := buildContext(cmd, identityID)
			if err != nil {
				return err
			}

			pctx := permission.Context{TargetUserID: targetID}
			if businessID != uuid.Nil {
				pctx = permission.InBusiness(businessID).ForUser(targetID)
			}

			resource, action := permission.Resource(args[1]), permission.Action(args[2])
			authErr := a.resolver.Authorize(ictx.Subject(), resource, action, pctx)
			a.log.InfoContext(cmd.Context(), "permission checked",
				slog.String("permission", permission.Permission(resource, action)),
				slog.Bool("allowed", authErr == nil),
				logger.BusinessID(businessID),
			)

			if err := printJSON(cmd.OutOrStdout(), canResult{
				Allowed:    authErr == nil,
				Permission: permission.Permission(resource, action),
				Business:   pctx.Business,
				Roles:      ictx.AvailableRoles,
			}); err != nil {
				return err
			}
			return authErr
		},
	}
	c.Flags().StringVar(&business, "business", "", "business the action happens in")
	c.Flags().StringVar(&target, "target", "", "identity the action is about, for self-only grants")
	return c
}
