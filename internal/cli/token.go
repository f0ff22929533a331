package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-capture/internal/app"
	"github.com/heartmarshall/myenglish-capture/internal/auth"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Client string
	Scope  string
}

type tokenOutput struct {
	Token     string    `json:"token"`
	Client    string    `json:"client"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token",
		Long: `Mint a bearer token for the HTTP API.

Scope "capture" only allows POST /api/captures (browser extensions,
shortcuts); scope "full" allows every endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}

			token, exp, err := app.NewTokenManager(cfg.Auth).Mint(opts.Client, opts.Scope)
			if err != nil {
				return WrapExitError(ExitCommandError, "mint token", err)
			}

			out := tokenOutput{Token: token, Client: opts.Client, Scope: opts.Scope, ExpiresAt: exp}
			p := printer{format: opts.Format, w: cmd.OutOrStdout()}
			return p.print(out, token, fmt.Sprintf("# client=%s scope=%s expires=%s", opts.Client, opts.Scope, exp.Format(time.RFC3339)))
		},
	}

	cmd.Flags().StringVar(&opts.Client, "client", "cli", "name of the client the token is issued to")
	cmd.Flags().StringVar(&opts.Scope, "scope", auth.ScopeFull, "token scope (full|capture)")

	return cmd
}
