package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartplace/idrole/pkg/mongo"
	"github.com/smartplace/idrole/pkg/pg"
	"github.com/smartplace/idrole/pkg/redis"
)

var errUnhealthy = errors.New("idrole.unhealthy")

type healthStatus struct {
	Backend string `json:"backend"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

type healthCheck struct {
	backend string
	check   func(context.Context) error
}

// checks lists the backends this run is connected to. The memory store has
// nothing to ping.
func (a *app) checks() []healthCheck {
	var checks []healthCheck
	if a.pool != nil {
		checks = append(checks, healthCheck{storePostgres, pg.Healthcheck(a.pool)})
	}
	if a.mongo != nil {
		checks = append(checks, healthCheck{storeMongo, mongo.Healthcheck(a.mongo)})
	}
	if a.redis != nil {
		checks = append(checks, healthCheck{"redis", redis.Healthcheck(a.redis)})
	}
	return checks
}

func newHealthCmd() *cobra.Command {
	var timeout time.Duration
	c := &cobra.Command{
		Use:   "health",
		Short: "Ping the configured store and event backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			statuses := []healthStatus{}
			var failed error
			for _, hc := range mustApp(ctx).checks() {
				status := healthStatus{Backend: hc.backend, Healthy: true}
				if err := hc.check(ctx); err != nil {
					status.Healthy = false
					status.Error = err.Error()
					failed = errUnhealthy
				}
				statuses = append(statuses, status)
			}

			if err := printJSON(cmd.OutOrStdout(), statuses); err != nil {
				return err
			}
			return failed
		},
	}
	c.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "time allowed for all checks")
	return c
}
