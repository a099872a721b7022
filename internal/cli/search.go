package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shelf/internal/search"
	"github.com/idilsaglam/shelf/internal/ui"
)

func (a *app) searchCmd() *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "search <category> <query...>",
		Short: "Look a title up in the category's catalogue",
		Long: `Search queries the provider behind the category (TMDB for movies and TV,
Google Books, TheGamesDB, Podcast Index) and prints the hits. Categories
without a provider get a single placeholder result. --add N stores hit N.`,
		Example: `  shelf search Movies dune
  shelf search Books "the left hand of darkness" --add 1`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args[1:], " "))
			if !search.Eligible(q, a.cfg.Search.MinQueryLength) {
				return usagef("query must be at least %d characters", a.cfg.Search.MinQueryLength)
			}
			if pick < 0 {
				return usagef("--add must be a result number")
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			s, err := a.searcherFor()
			if err != nil {
				return err
			}

			results := s.Search(cmd.Context(), q, c.Type)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			t := ui.Current()
			if len(results) == 0 {
				fmt.Fprintln(a.out, t.Muted.Render(fmt.Sprintf("No results found for %q", q)))
				if pick > 0 {
					return errors.New("nothing to add")
				}
				return nil
			}

			if pick == 0 {
				for i, r := range results {
					line := fmt.Sprintf("%s %s", t.Accent.Render(fmt.Sprintf("%2d.", i+1)), r.Title)
					if r.Subtitle != "" {
						line += " " + t.Muted.Render("("+r.Subtitle+")")
					}
					fmt.Fprintln(a.out, line)
				}
				return nil
			}

			if pick > len(results) {
				return usagef("--add %d: only %d results", pick, len(results))
			}
			it := search.ToItem(results[pick-1], c.Type, a.now())
			if err := st.AddItem(cmd.Context(), it); err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("added %s to %s", it.Title, c.Label))
			return nil
		},
	}
	cmd.Flags().IntVar(&pick, "add", 0, "add result `N` (1-based) to the category")
	return cmd
}
