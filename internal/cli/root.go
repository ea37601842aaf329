// Package cli implements the jargoyle-cli commands.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNotSignedIn = errors.New("not signed in")

const (
	defaultServer   = "http://localhost:8080"
	defaultProvider = "google"
	defaultTimeout  = 10 * time.Second
)

// NewRootCommand builds the command tree. Flags fall back to JARGOYLE_*
// environment variables.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("jargoyle")
	v.AutomaticEnv()

	var app *App

	root := &cobra.Command{
		Use:   "jargoyle-cli",
		Short: "Terminal client for Jargoyle",
		Long: `jargoyle-cli talks to a Jargoyle server with the session of a browser login.

Sign in through the browser, copy the jargoyle_session cookie, and pass it
with --session or JARGOYLE_SESSION.

Example usage:
  jargoyle-cli login            # Print the sign-in URL
  jargoyle-cli show             # Render the dashboard or login view
  jargoyle-cli whoami           # Print the signed-in user
  jargoyle-cli documents        # List your documents
  jargoyle-cli logout           # End the session`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("no_color") {
				color.NoColor = true
			}

			var err error
			app, err = NewApp(Settings{
				Server:   v.GetString("server"),
				Session:  v.GetString("session"),
				Provider: v.GetString("provider"),
				Timeout:  v.GetDuration("timeout"),
			})
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("server", defaultServer, "server origin (env JARGOYLE_SERVER)")
	flags.String("session", "", "session cookie value (env JARGOYLE_SESSION)")
	flags.String("provider", defaultProvider, "sign-in provider for login links (env JARGOYLE_PROVIDER)")
	flags.Duration("timeout", defaultTimeout, "request timeout (env JARGOYLE_TIMEOUT)")
	flags.Bool("no-color", false, "disable colored output")

	_ = v.BindPFlag("server", flags.Lookup("server"))
	_ = v.BindPFlag("session", flags.Lookup("session"))
	_ = v.BindPFlag("provider", flags.Lookup("provider"))
	_ = v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("no_color", flags.Lookup("no-color"))

	appFn := func() *App { return app }
	root.AddCommand(
		newShowCommand(appFn),
		newWhoAmICommand(appFn),
		newLoginCommand(appFn),
		newLogoutCommand(appFn),
		newDocumentsCommand(appFn),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	err := NewRootCommand().Execute()
	if errors.Is(err, errNotSignedIn) {
		return fmt.Errorf("%w: run jargoyle-cli login", err)
	}
	return err
}
