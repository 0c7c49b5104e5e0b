package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/paper/redispub"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Stream paper events from Redis until interrupted",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStoreless: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := mustApp(cmd.Context())
			if a.redis == nil {
				return errNeedsRedis
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			a.log.InfoContext(ctx, "watching paper events", slog.String("channel", a.redispubCfg.Channel))
			return redispub.Subscribe(ctx, a.redis, a.redispubCfg, a.log, func(e paper.Event) {
				if err := printJSON(out, e); err != nil {
					a.log.WarnContext(ctx, "failed to print event", logger.Error(err))
				}
			})
		},
	}
}
