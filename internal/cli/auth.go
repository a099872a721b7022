package cli

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Provider keys live in ~/.shelf/credentials.json (mode 0600).
SHELF_TMDB_API_KEY, SHELF_GAMESDB_API_KEY, SHELF_PODCASTINDEX_API_KEY and
SHELF_PODCASTINDEX_API_SECRET take precedence over the file.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("auth: missing subcommand")
		},
	}
	cmd.AddCommand(a.authSetCmd(), a.authStatusCmd(), a.authLogoutCmd())
	return cmd
}

func (a *app) authSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> [key] [secret]",
		Short: "Store a key for tmdb, gamesdb or podcastindex",
		Long: `Set stores a provider key. Missing values are read from stdin, one per
line, so keys stay out of shell history.`,
		Example: `  shelf auth set tmdb
  shelf auth set podcastindex KEY SECRET`,
		Args: usageArgs(cobra.RangeArgs(1, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := strings.ToLower(args[0])
			if _, ok := (&config.Credentials{}).Configured()[provider]; !ok {
				return usagef("unknown provider %q (want tmdb, gamesdb or podcastindex)", args[0])
			}
			key, secret := "", ""
			if len(args) > 1 {
				key = args[1]
			}
			if len(args) > 2 {
				secret = args[2]
			}

			in := bufio.NewScanner(a.in)
			prompt := func(what string) (string, error) {
				fmt.Fprintf(a.out, "Paste your %s: ", what)
				if !in.Scan() {
					if err := in.Err(); err != nil {
						return "", fmt.Errorf("read %s: %w", what, err)
					}
					return "", fmt.Errorf("read %s: no input", what)
				}
				return strings.TrimSpace(in.Text()), nil
			}
			var err error
			if key == "" {
				if key, err = prompt(provider + " API key"); err != nil {
					return err
				}
			}
			if provider == config.ProviderPodcastIndex && secret == "" {
				if secret, err = prompt("podcastindex API secret"); err != nil {
					return err
				}
			}

			path := config.CredentialsPath()
			creds, err := config.LoadCredentialsFile(path)
			if err != nil {
				return err
			}
			if err := creds.Set(provider, key, secret); err != nil {
				return usageError{err}
			}
			if err := config.SaveCredentials(path, creds); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}
			ui.OK(a.out, "saved "+provider+" key")
			return nil
		},
	}
}

func (a *app) authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which providers have keys",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := config.LoadCredentials(config.CredentialsPath())
			if err != nil {
				return err
			}
			t := ui.Current()
			configured := creds.Configured()
			names := make([]string, 0, len(configured))
			for name := range configured {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				state := t.Muted.Render("not set (placeholder results)")
				if configured[name] {
					state = t.Success.Render("configured")
				}
				fmt.Fprintf(a.out, "%-13s %s\n", name, state)
			}
			if creds.Source != "" {
				fmt.Fprintf(a.out, "source: %s\n", creds.Source)
			}
			return nil
		},
	}
}

func (a *app) authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout [provider]",
		Short: "Forget one provider's key, or all of them",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.CredentialsPath()
			if len(args) == 0 {
				if err := config.DeleteCredentials(path); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK(a.out, "removed all stored keys")
				return nil
			}
			creds, err := config.LoadCredentialsFile(path)
			if err != nil {
				return err
			}
			if err := creds.Clear(args[0]); err != nil {
				return usageError{err}
			}
			if err := config.SaveCredentials(path, creds); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}
			ui.OK(a.out, "removed "+strings.ToLower(args[0])+" key")
			return nil
		},
	}
}
