package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/idilsaglam/shelf/internal/ui"
)

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "q", "backspace":
			m.screen = screenItems
			m.refreshItems()
		case " ":
			if err := m.store.ToggleCompleted(m.ctx, m.detail.ID); err != nil {
				m.fail("toggle", err)
			}
			if it, ok := m.store.Item(m.detail.ID); ok {
				m.detail = it
			}
		}
	}
	return m, nil
}

func (m Model) viewDetail() string {
	t := ui.Current()
	it := m.detail

	lines := []string{t.Title.Render(it.Title)}
	if it.Subtitle != "" {
		lines = append(lines, t.Muted.Render(it.Subtitle))
	}
	lines = append(lines, "")
	state := "pending"
	if it.Completed {
		state = "completed"
	}
	lines = append(lines, ui.Checkbox(it.Completed)+" "+state)
	if it.Rating != nil {
		lines = append(lines, "Rating: "+strconv.FormatFloat(*it.Rating, 'f', -1, 64))
	}
	lines = append(lines, "Added: "+time.UnixMilli(it.AddedAt).Format("2006-01-02 15:04"))
	if it.Image != "" {
		lines = append(lines, "Image: "+t.Accent.Render(it.Image))
	}
	if it.ExternalID != "" {
		lines = append(lines, "Source id: "+it.ExternalID)
	}

	var b strings.Builder
	ui.Panel(&b, lines)
	if notes := strings.TrimSpace(it.Notes); notes != "" {
		b.WriteString(m.renderNotes(notes))
	}
	b.WriteString("\n" + t.Help.Render("space toggle • esc back"))
	return b.String()
}

// ensureRenderer builds the markdown renderer for the current width.
func (m *Model) ensureRenderer() {
	if m.renderer != nil {
		return
	}
	style := "dark"
	if ui.Current().Name == "mono" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(20, m.width-8)),
	)
	if err != nil {
		m.log.Debug("markdown renderer unavailable", zap.Error(err))
		return
	}
	m.renderer = r
}

// renderNotes renders markdown notes, falling back to the raw text.
func (m Model) renderNotes(notes string) string {
	if m.renderer == nil {
		return notes + "\n"
	}
	out, err := m.renderer.Render(notes)
	if err != nil {
		return fmt.Sprintf("%s\n", notes)
	}
	return out
}
