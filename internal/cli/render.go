package cli

import (
	"fmt"
	"strconv"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/store"
	"github.com/idilsaglam/shelf/internal/ui"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func categoryLines(c model.CategoryDef, items []model.Item) []string {
	t := ui.Current()
	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render(ui.Label(c.Icon, c.Label)),
		t.Success.Render(t.BoxChecked), d,
		t.Pending.Render(t.BoxUnchecked), p,
		t.Accent.Render("Total"), len(items),
	)
	lines := []string{header, ui.ProgressBar(d, d+p, 28), ""}
	return append(lines, itemLines(items)...)
}

func itemLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		title := it.Title
		if r := []rune(title); len(r) > 60 {
			title = string(r[:57]) + "..."
		}
		if it.Completed {
			title = t.Done.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", t.Muted.Render(shortID(it.ID)), ui.Checkbox(it.Completed), title)
		if it.Subtitle != "" {
			line += " " + t.Muted.Render("("+it.Subtitle+")")
		}
		if it.Rating != nil {
			line += " " + t.Pending.Render("★"+strconv.FormatFloat(*it.Rating, 'f', -1, 64))
		}
		out = append(out, line)
	}
	return out
}

// countLines lists every category with its size and completion bar.
func countLines(st *store.Store) []string {
	t := ui.Current()
	counts := st.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}
	lines := []string{t.Title.Render(fmt.Sprintf("Shelf  %d items", total)), ""}
	for _, c := range st.Categories() {
		items := st.ItemsByCategory(c.Type)
		d, _ := stats(items)
		lines = append(lines, fmt.Sprintf("%-18s %4d  %s",
			ui.Label(c.Icon, c.Label), counts[c.Type], ui.ProgressBar(d, len(items), 20)))
	}
	return lines
}
