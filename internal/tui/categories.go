package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/ui"
)

// categoryEntry adapts a category to bubbles/list.Item
type categoryEntry struct {
	cat   model.CategoryDef
	count int
}

func (c categoryEntry) FilterValue() string { return c.cat.Label }

type categoryDelegate struct{}

func (d categoryDelegate) Height() int                               { return 1 }
func (d categoryDelegate) Spacing() int                              { return 0 }
func (d categoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(categoryEntry)
	if !ok {
		return
	}
	t := ui.Current()
	glyph := ui.Glyph(c.cat.Icon)
	if glyph == "" {
		glyph = " "
	}
	line := fmt.Sprintf("%s %s %s", glyph, c.cat.Label, t.Muted.Render(fmt.Sprintf("(%d)", c.count)))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var (
	openBind   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	newBind    = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	renameBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename"))
	removeBind = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete"))
)

func newCategoryList() list.Model {
	t := ui.Current()
	l := list.New(nil, categoryDelegate{}, 0, 0)
	l.Title = "Shelf"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("category", "categories")
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	extra := func() []key.Binding { return []key.Binding{openBind, newBind, renameBind, removeBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	return l
}

func (m *Model) refreshCategories() {
	counts := m.store.Counts()
	cats := m.store.Categories()
	entries := make([]list.Item, 0, len(cats))
	total := 0
	for _, c := range cats {
		entries = append(entries, categoryEntry{cat: c, count: counts[c.Type]})
		total += counts[c.Type]
	}
	m.cats.SetItems(entries)
	m.cats.Title = fmt.Sprintf("%s   %s %d", ui.Current().Title.Render("Shelf"), ui.Current().Accent.Render("Total"), total)
}

func (m Model) selectedCategory() (model.CategoryDef, bool) {
	c, ok := m.cats.SelectedItem().(categoryEntry)
	return c.cat, ok
}

func (m Model) updateCategories(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.cats.FilterState() != list.Filtering {
		switch k.String() {
		case "enter":
			if c, ok := m.selectedCategory(); ok {
				m.openCategory(c)
			}
			return m, nil
		case "n":
			return m.startPrompt(promptNewCategory, "", "New category label...")
		case "r":
			if c, ok := m.selectedCategory(); ok {
				m.promptID = c.ID
				return m.startPrompt(promptRenameCategory, c.Label, "Category label...")
			}
			return m, nil
		case "x":
			m.removeCategory()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.cats, cmd = m.cats.Update(msg)
	return m, cmd
}

func (m *Model) openCategory(c model.CategoryDef) {
	m.category = c
	m.screen = screenItems
	m.undo = nil
	m.status = ""
	m.refreshItems()
	m.items.Select(0)
}

// removeCategory drops the selected category. Its items stay in the store
// and show up again if a category with the same type is created.
func (m *Model) removeCategory() {
	c, ok := m.selectedCategory()
	if !ok {
		return
	}
	kept := len(m.store.ItemsByCategory(c.Type))
	if err := m.store.RemoveCategory(m.ctx, c.ID); err != nil {
		m.fail("delete category", err)
	} else {
		m.setStatus(fmt.Sprintf("deleted %q, %d items kept", c.Label, kept))
	}
	m.refreshCategories()
}

func (m *Model) addCategory(label string) {
	c := model.NewCategory(label, ui.DefaultIcon, m.now())
	if err := m.store.AddCategory(m.ctx, c); err != nil {
		m.fail("new category", err)
	} else {
		m.setStatus("created " + c.Label)
	}
	m.refreshCategories()
}

func (m *Model) renameCategory(id, label string) {
	if err := m.store.UpdateCategory(m.ctx, id, model.CategoryPatch{Label: &label}); err != nil {
		m.fail("rename category", err)
	} else {
		m.setStatus("renamed to " + label)
	}
	m.refreshCategories()
}

// Inline prompt

func (m Model) startPrompt(p prompt, value, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = p
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.resize()
	cmd := m.ti.Focus()
	return m, cmd
}

func (m Model) endPrompt() Model {
	m.prompt = promptNone
	m.promptID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
	return m
}

func (m Model) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m.endPrompt(), nil
		case "enter":
			value := strings.TrimSpace(m.ti.Value())
			if value == "" {
				m.status, m.statusErr = "value cannot be empty", true
				return m, nil
			}
			switch m.prompt {
			case promptNewCategory:
				m.addCategory(value)
			case promptRenameCategory:
				m.renameCategory(m.promptID, value)
			case promptEditTitle:
				m.editTitle(m.promptID, value)
			}
			return m.endPrompt(), nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) viewPrompt() string {
	title := "New category"
	switch m.prompt {
	case promptRenameCategory:
		title = "Rename category"
	case promptEditTitle:
		title = "Edit title"
	}
	var b strings.Builder
	ui.Panel(&b, []string{ui.Current().Title.Render(title), m.ti.View()})
	return strings.TrimRight(b.String(), "\n")
}
