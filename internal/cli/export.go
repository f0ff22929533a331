package cli

import (
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of every entry to the export sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.Export.Export(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "export", err)
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(map[string]string{"key": key}, "Exported "+key)
		},
	}
}
