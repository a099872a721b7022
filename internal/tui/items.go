package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/ui"
)

// itemEntry adapts an Item to bubbles/list.Item
type itemEntry struct {
	it model.Item
}

func (i itemEntry) FilterValue() string { return i.it.Title + " " + i.it.Subtitle }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(itemEntry)
	if !ok {
		return
	}
	t := ui.Current()
	title := e.it.Title
	if e.it.Completed {
		title = t.Done.Render(title)
	}
	line := ui.Checkbox(e.it.Completed) + " " + title
	if e.it.Subtitle != "" {
		line += " " + t.Muted.Render(e.it.Subtitle)
	}
	if e.it.Rating != nil {
		line += " " + t.Pending.Render("★"+strconv.FormatFloat(*e.it.Rating, 'f', -1, 64))
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var (
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind   = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	sortBind   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort"))
	backBind   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)

func newItemList() list.Model {
	t := ui.Current()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	short := func() []key.Binding { return []key.Binding{toggleBind, addBind, deleteBind, undoBind} }
	full := func() []key.Binding {
		return []key.Binding{toggleBind, addBind, editBind, deleteBind, undoBind, sortBind, backBind}
	}
	l.AdditionalShortHelpKeys = short
	l.AdditionalFullHelpKeys = full
	return l
}

var sortCycle = []model.SortOption{model.SortByDate, model.SortByTitle, model.SortByRating, model.SortByCompleted}

func nextSort(cur model.SortOption) model.SortOption {
	for i, s := range sortCycle {
		if s == cur {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return model.SortByDate
}

// refreshItems reloads the open category from the store, keeping the cursor.
func (m *Model) refreshItems() {
	items := model.Sorted(m.store.ItemsByCategory(m.category.Type), m.sort)
	entries := make([]list.Item, 0, len(items))
	done := 0
	for _, it := range items {
		entries = append(entries, itemEntry{it: it})
		if it.Completed {
			done++
		}
	}
	idx := m.items.Index()
	m.items.SetItems(entries)
	if idx >= len(entries) {
		idx = len(entries) - 1
	}
	if idx >= 0 {
		m.items.Select(idx)
	}

	t := ui.Current()
	m.items.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %s",
		t.Title.Render(ui.Label(m.category.Icon, m.category.Label)),
		t.Success.Render(t.BoxChecked), done,
		t.Pending.Render(t.BoxUnchecked), len(items)-done,
		t.Muted.Render("sort:"), m.sort,
	)
}

func (m Model) selectedItem() (model.Item, bool) {
	e, ok := m.items.SelectedItem().(itemEntry)
	return e.it, ok
}

func (m Model) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.items.FilterState() != list.Filtering {
		switch k.String() {
		case "esc":
			if m.items.FilterState() == list.FilterApplied {
				break
			}
			m.screen = screenCategories
			m.status = ""
			m.refreshCategories()
			return m, nil
		case " ":
			if it, ok := m.selectedItem(); ok {
				if err := m.store.ToggleCompleted(m.ctx, it.ID); err != nil {
					m.fail("toggle", err)
				}
				m.refreshItems()
			}
			return m, nil
		case "d":
			if it, ok := m.selectedItem(); ok {
				if err := m.store.RemoveItem(m.ctx, it.ID); err != nil {
					m.fail("delete", err)
				} else {
					m.setStatus("deleted " + it.Title + " (u to undo)")
				}
				m.undo = &it
				m.refreshItems()
			}
			return m, nil
		case "u":
			if m.undo != nil {
				it := *m.undo
				m.undo = nil
				if err := m.store.AddItem(m.ctx, it); err != nil {
					m.fail("undo", err)
				} else {
					m.setStatus("restored " + it.Title)
				}
				m.refreshItems()
			}
			return m, nil
		case "s":
			m.sort = nextSort(m.sort)
			m.refreshItems()
			return m, nil
		case "e":
			if it, ok := m.selectedItem(); ok {
				m.promptID = it.ID
				return m.startPrompt(promptEditTitle, it.Title, "Item title...")
			}
			return m, nil
		case "enter":
			if it, ok := m.selectedItem(); ok {
				m.detail = it
				m.screen = screenDetail
				m.ensureRenderer()
			}
			return m, nil
		case "a":
			return m.openAdd()
		}
	}
	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m *Model) editTitle(id, title string) {
	if err := m.store.UpdateItem(m.ctx, id, model.ItemPatch{Title: &title}); err != nil {
		m.fail("edit", err)
	} else {
		m.setStatus("renamed to " + title)
	}
	m.refreshItems()
}
