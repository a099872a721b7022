package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/ui"
)

func (a *app) catCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Manage categories",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("cat: missing subcommand")
		},
	}
	cmd.AddCommand(a.catLsCmd(), a.catAddCmd(), a.catRmCmd(), a.catRenameCmd())
	return cmd
}

func (a *app) catLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List categories with their ids",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			t := ui.Current()
			counts := st.Counts()
			for _, c := range st.Categories() {
				line := fmt.Sprintf("%-15s %-20s %4d", t.Muted.Render(c.ID), ui.Label(c.Icon, c.Label), counts[c.Type])
				if c.Type != c.Label {
					line += " " + t.Muted.Render("type "+c.Type)
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
}

func (a *app) catAddCmd() *cobra.Command {
	var icon string
	cmd := &cobra.Command{
		Use:   "add <label...>",
		Short: "Create a category",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(strings.Join(args, " "))
			if label == "" {
				return usagef("cat add: empty label")
			}
			if !slices.Contains(ui.IconNames(), icon) {
				return usagef("unknown icon %q (one of %s)", icon, strings.Join(ui.IconNames(), ", "))
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c := model.NewCategory(label, icon, a.now())
			if err := st.AddCategory(cmd.Context(), c); err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("created %s (%s)", ui.Label(c.Icon, c.Label), c.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", ui.DefaultIcon, "icon name")
	return cmd
}

func (a *app) catRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <category>",
		Short: "Delete a category; its items are kept",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			kept := len(st.ItemsByCategory(c.Type))
			if err := st.RemoveCategory(cmd.Context(), c.ID); err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("deleted %s, %d items kept", c.Label, kept))
			return nil
		},
	}
}

func (a *app) catRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <label...>",
		Short: "Change a category's label",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(strings.Join(args[1:], " "))
			if label == "" {
				return usagef("cat rename: empty label")
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			if err := st.UpdateCategory(cmd.Context(), c.ID, model.CategoryPatch{Label: &label}); err != nil {
				return err
			}
			ui.OK(a.out, fmt.Sprintf("renamed %s to %s", c.Label, label))
			return nil
		},
	}
}
