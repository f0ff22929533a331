package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <text...>",
		Short: "Show the clause structure of a sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			analysis, err := a.Grammar.AnalyzeText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return WrapExitError(ExitFailure, "analyze", err)
			}

			lines := []string{analysis.Summary}
			for _, h := range analysis.Hints {
				lines = append(lines, "  - "+h)
			}
			p := printer{format: rootOpts.Format, w: cmd.OutOrStdout()}
			return p.print(analysis, lines...)
		},
	}
}
