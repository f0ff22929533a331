package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-capture/internal/service/capture"
)

// CaptureOptions holds flags for the capture command.
type CaptureOptions struct {
	*RootOptions
	URL string
}

// NewCaptureCommand creates the capture command.
func NewCaptureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaptureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "capture [text...]",
		Short: "Capture a word, phrase or article",
		Long: `Capture text (or, with --url, the readable text of a web page),
enrich it and store it.

Example:
  myenglish capture serendipity
  myenglish capture "break the ice"
  myenglish capture --url https://example.com/post`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if (strings.TrimSpace(text) == "") == (opts.URL == "") {
				return NewExitError(ExitCommandError, "pass either text or --url")
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var res capture.Result
			if opts.URL != "" {
				res, err = a.Capture.CaptureURL(cmd.Context(), opts.URL)
			} else {
				res, err = a.Capture.Capture(cmd.Context(), text)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "capture", err)
			}

			lines := []string{res.Message()}
			if res.Diagnostic != "" {
				lines = append(lines, "Enrichment: "+res.Diagnostic)
			}
			p := printer{format: opts.Format, w: cmd.OutOrStdout()}
			return p.print(res, lines...)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "capture the readable text of this web page")

	return cmd
}
