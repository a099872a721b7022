package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/search"
	"github.com/idilsaglam/shelf/internal/ui"
)

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.screen = screenAdd
	m.field = search.NewField(m.searcher, m.category.Type, m.minLen)
	m.pending = search.Request{}
	m.eligible = false
	m.results = nil
	m.selected = 0
	m.loading = false
	m.searched = false
	m.status = ""
	m.query.SetValue("")
	m.query.Placeholder = "Search " + m.category.Label + "..."
	cmd := m.query.Focus()
	return m, cmd
}

func (m Model) closeAdd() Model {
	m.screen = screenItems
	m.query.Blur()
	m.field = nil
	m.loading = false
	m.refreshItems()
	return m
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m.closeAdd(), nil
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.results)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			return m.commit()
		}
	}

	before := m.query.Value()
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() == before {
		return m, cmd
	}
	tick := m.submit(m.query.Value())
	return m, tea.Batch(cmd, tick)
}

// submit stamps the edit and schedules the debounced search for it. Every
// edit advances the field's sequence, so only the last tick in a burst of
// typing survives onDebounce.
func (m *Model) submit(q string) tea.Cmd {
	req, ok := m.field.Submit(q)
	m.pending, m.eligible = req, ok
	field := m.field
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{field: field, seq: req.Seq}
	})
}

func (m Model) onDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenAdd || msg.field != m.field || msg.seq != m.field.Current() {
		return m, nil
	}
	if !m.eligible {
		m.results, m.selected, m.loading, m.searched = nil, 0, false, false
		return m, nil
	}
	m.loading = true
	ctx, field, req := m.ctx, m.field, m.pending
	fetch := func() tea.Msg {
		return resultsMsg{field: field, resp: field.Fetch(ctx, req)}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m Model) onResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenAdd || msg.field != m.field || !m.field.Accept(msg.resp) {
		m.log.Debug("dropping stale search response", zap.Uint64("seq", msg.resp.Seq))
		return m, nil
	}
	m.results = msg.resp.Results
	m.selected = 0
	m.loading = false
	m.searched = true
	return m, nil
}

// commit adds the selected result, or a manual item titled after the query
// when the search came back empty.
func (m Model) commit() (tea.Model, tea.Cmd) {
	var it model.Item
	switch {
	case len(m.results) > 0:
		it = search.ToItem(m.results[m.selected], m.category.Type, m.now())
	case m.searched && strings.TrimSpace(m.query.Value()) != "":
		it = model.Item{
			ID:       model.NewItemID(),
			Category: m.category.Type,
			Title:    strings.TrimSpace(m.query.Value()),
			AddedAt:  m.now().UnixMilli(),
		}
	default:
		return m, nil
	}

	if err := m.store.AddItem(m.ctx, it); err != nil {
		m.fail("add", err)
	} else {
		m.setStatus("added " + it.Title)
	}
	m = m.closeAdd()
	m.items.Select(0)
	return m, nil
}

func (m Model) viewAdd() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(t.Title.Render("Add to "+ui.Label(m.category.Icon, m.category.Label)) + "\n\n")
	b.WriteString(m.query.View() + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " searching...\n")
	case len(m.results) > 0:
		for i, r := range m.results {
			line := r.Title
			if r.Subtitle != "" {
				line += " " + t.Muted.Render(r.Subtitle)
			}
			prefix := "  "
			if i == m.selected {
				prefix = t.Selected.Render("> ")
			}
			b.WriteString(prefix + line + "\n")
		}
	case m.searched:
		b.WriteString(t.Muted.Render(fmt.Sprintf("No results found for %q. Enter adds it as typed.", strings.TrimSpace(m.query.Value()))) + "\n")
	}
	b.WriteString("\n" + t.Help.Render("enter add • ↑/↓ select • esc back"))
	return b.String()
}
