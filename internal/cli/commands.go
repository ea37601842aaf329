package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/jargoyle/jargoyle/internal/web"
	"github.com/spf13/cobra"
)

func newShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Render the view for a path",
		Long: `Render the view the browser would show for path.

Every path other than / redirects to /, which shows the dashboard when
signed in and the login view otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := web.RootPath
			if len(args) == 1 {
				path = args[0]
			}
			_, err := app().Show(cmd.Context(), cmd.OutOrStdout(), path)
			return err
		},
	}
}

func newWhoAmICommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app().WhoAmI(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st.User)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", color.New(color.Bold).Sprint(st.User.DisplayName), st.User.Email)
			fmt.Fprintf(out, "id:       %s\n", st.User.ID)
			fmt.Fprintf(out, "provider: %s\n", st.User.OAuthProvider)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func newLoginCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Print the sign-in URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open this URL in a browser to sign in:")
			fmt.Fprintln(out, app().LoginURL())
			fmt.Fprintln(out, "Then pass the jargoyle_session cookie with --session or JARGOYLE_SESSION.")
			return nil
		},
	}
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Logout(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newDocumentsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "List your documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("size")

			a := app()
			ctx, cancel := a.context(cmd.Context())
			defer cancel()

			result, err := a.docs.List(ctx, page, size)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(result.Items) == 0 {
				fmt.Fprintln(out, "No documents.")
				return nil
			}
			for _, d := range result.Items {
				title := d.Title
				if title == "" {
					title = color.New(color.Faint).Sprint("(untitled)")
				}
				fmt.Fprintf(out, "%s  %-10s  %s\n", d.ID, d.Status, title)
			}
			fmt.Fprintf(out, "page %d, %d of %d\n", result.Page, len(result.Items), result.Total)
			return nil
		},
	}
	cmd.Flags().Int("page", 0, "zero-based page")
	cmd.Flags().Int("size", 20, "page size")
	return cmd
}
