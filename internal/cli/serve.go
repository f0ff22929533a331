package cli

import (
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

The configured store is opened and migrated first. SIGINT or SIGTERM
drains in-flight requests within server.shutdown_timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Serve(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "serve", err)
			}
			return nil
		},
	}
}
