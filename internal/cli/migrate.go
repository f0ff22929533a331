package cli

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-capture/internal/app"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if err := app.Migrate(cmd.Context(), cfg, logger); err != nil {
				return WrapExitError(ExitCommandError, "migrate", err)
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(map[string]string{"status": "ok", "store": cfg.Store.Driver}, "Migrations applied ("+cfg.Store.Driver+").")
		},
	}
}
