package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/store"
	"github.com/idilsaglam/shelf/internal/tui"
	"github.com/idilsaglam/shelf/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	var (
		plain  bool
		sortBy string
	)
	cmd := &cobra.Command{
		Use:   "ls [category]",
		Short: "Browse the collection (interactive on a terminal)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := model.ParseSortOption(sortBy)
			if err != nil {
				return usageError{err}
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			var cat *model.CategoryDef
			if len(args) == 1 {
				c, err := resolveCategory(st, args[0])
				if err != nil {
					return err
				}
				cat = &c
			}

			if !plain && isTerminal(a.out) {
				s, err := a.searcherFor()
				if err != nil {
					return err
				}
				d := tui.Deps{
					Store:          st,
					Searcher:       s,
					Debounce:       a.cfg.GetDebounce(),
					MinQueryLength: a.cfg.Search.MinQueryLength,
					Log:            a.log,
					Now:            a.now,
				}
				if cat != nil {
					d.Category = cat.ID
				}
				return tui.Run(cmd.Context(), d)
			}

			if cat != nil {
				ui.Panel(a.out, categoryLines(*cat, model.Sorted(st.ItemsByCategory(cat.Type), opt)))
				return nil
			}
			for _, c := range st.Categories() {
				items := st.ItemsByCategory(c.Type)
				if len(items) == 0 {
					continue
				}
				ui.Panel(a.out, categoryLines(c, model.Sorted(items, opt)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print instead of starting the interactive view")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "order: date, title, rating or completed")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var (
		subtitle, image, notes string
		rating                 float64
	)
	cmd := &cobra.Command{
		Use:   "add <category> <title...>",
		Short: "Add an item by hand",
		Example: `  shelf add Wines "Barolo 2016" --rating 9
  shelf add "To-Do" Call the plumber`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usagef("add: empty title")
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			it := model.Item{
				ID:       model.NewItemID(),
				Category: c.Type,
				Title:    title,
				Subtitle: subtitle,
				Image:    image,
				Notes:    notes,
				AddedAt:  a.now().UnixMilli(),
			}
			if cmd.Flags().Changed("rating") {
				it.Rating = &rating
			}
			if err := st.AddItem(cmd.Context(), it); err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("added %s to %s (%s)", it.Title, c.Label, shortID(it.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "year, author or any short detail")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes (markdown)")
	cmd.Flags().Float64Var(&rating, "rating", 0, "rating")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle an item between pending and completed",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(st, args[0])
			if err != nil {
				return err
			}
			if err := st.ToggleCompleted(cmd.Context(), it.ID); err != nil {
				return err
			}
			state := "completed"
			if it.Completed {
				state = "pending"
			}
			ui.OK(a.out, it.Title+" marked "+state)
			return nil
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(st, args[0])
			if err != nil {
				return err
			}
			if err := st.RemoveItem(cmd.Context(), it.ID); err != nil {
				return err
			}
			ui.OK(a.out, "removed "+it.Title)
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	var (
		title, subtitle, image, notes string
		rating                        float64
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an item",
		Example: `  shelf edit 3f2c --rating 8 --notes "Rewatch in IMAX"`,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.ItemPatch
			f := cmd.Flags()
			if f.Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return usagef("edit: empty title")
				}
				p.Title = &t
			}
			if f.Changed("subtitle") {
				p.Subtitle = &subtitle
			}
			if f.Changed("image") {
				p.Image = &image
			}
			if f.Changed("notes") {
				p.Notes = &notes
			}
			if f.Changed("rating") {
				p.Rating = &rating
			}
			if p.IsEmpty() {
				return usagef("edit: nothing to change (use --title, --subtitle, --image, --notes or --rating)")
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			it, err := resolveItem(st, args[0])
			if err != nil {
				return err
			}
			if err := st.UpdateItem(cmd.Context(), it.ID, p); err != nil {
				return err
			}
			ui.OK(a.out, "updated "+shortID(it.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "new subtitle")
	cmd.Flags().StringVar(&image, "image", "", "new image URL")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes (markdown)")
	cmd.Flags().Float64Var(&rating, "rating", 0, "new rating")
	return cmd
}

func (a *app) countsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show how many items each category holds",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			ui.Panel(a.out, countLines(st))
			return nil
		},
	}
}

// resolveCategory matches s against category ids, types and labels,
// ignoring case.
func resolveCategory(st *store.Store, s string) (model.CategoryDef, error) {
	s = strings.TrimSpace(s)
	if c, ok := st.Category(s); ok {
		return c, nil
	}
	for _, c := range st.Categories() {
		if strings.EqualFold(c.Type, s) || strings.EqualFold(c.Label, s) {
			return c, nil
		}
	}
	return model.CategoryDef{}, usagef("unknown category %q (see `shelf cat ls`)", s)
}

// resolveItem accepts a full id or an unambiguous prefix of one.
func resolveItem(st *store.Store, s string) (model.Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Item{}, usagef("empty id")
	}
	if it, ok := st.Item(s); ok {
		return it, nil
	}
	var found []model.Item
	for _, it := range st.Items() {
		if strings.HasPrefix(it.ID, s) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return model.Item{}, usagef("no item with id %q (see `shelf ls --plain`)", s)
	case 1:
		return found[0], nil
	}
	return model.Item{}, usagef("id %q matches %d items, use more characters", s, len(found))
}
