package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// annotationStoreless marks commands that never touch stored papers.
const annotationStoreless = "idrole/storeless"

type rootOptions struct {
	store    string
	envFiles []string
	seed     string
}

// NewRootCmd builds the idrole command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "idrole",
		Short: "Inspect and manage papers, roles and permissions",
		Long: `idrole derives the roles an identity holds from its papers and answers
permission checks against the role matrix. Every command prints JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			run := *opts
			if cmd.Annotations[annotationStoreless] == "true" {
				run.store = storeMemory
			}
			a, err := newApp(cmd.Context(), run, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), a))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.store, "store", storePostgres, "paper store: postgres, mongo or memory")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load before reading configuration")
	root.PersistentFlags().StringVar(&opts.seed, "seed", "", "YAML fixture of identities, businesses and papers to write before the command runs")

	root.AddCommand(
		newMigrateCmd(),
		newIdentityCmd(),
		newBusinessCmd(),
		newPaperCmd(),
		newContextCmd(),
		newSwitchCmd(),
		newPotentialCmd(),
		newCanCmd(),
		newMatrixCmd(),
		newWatchCmd(),
		newHealthCmd(),
	)
	closeAfterRun(root)
	return root
}

// closeAfterRun wraps every RunE in the tree so the app opened by
// PersistentPreRunE is closed when the command returns, failed or not.
// PersistentPostRunE does not run when RunE fails.
func closeAfterRun(c *cobra.Command) {
	for _, sub := range c.Commands() {
		closeAfterRun(sub)
	}
	if c.RunE == nil {
		return
	}
	run := c.RunE
	c.RunE = func(cmd *cobra.Command, args []string) error {
		defer func() {
			if a, ok := appFromContext(cmd.Context()); ok {
				a.Close()
			}
		}()
		return run(cmd, args)
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
