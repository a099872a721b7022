// Package tui is the interactive shelf browser built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/search"
	"github.com/idilsaglam/shelf/internal/store"
	"github.com/idilsaglam/shelf/internal/ui"
)

// Deps is what the TUI needs from the rest of the program.
type Deps struct {
	Store          *store.Store
	Searcher       search.Searcher
	Debounce       time.Duration
	MinQueryLength int
	Log            *zap.Logger
	Now            func() time.Time
	Category       string // id of a category to open at start, optional
}

type screen int

const (
	screenCategories screen = iota
	screenItems
	screenAdd
	screenDetail
)

type prompt int

const (
	promptNone prompt = iota
	promptNewCategory
	promptRenameCategory
	promptEditTitle
)

// Model is the Bubble Tea model for the whole app.
type Model struct {
	ctx      context.Context
	store    *store.Store
	searcher search.Searcher
	debounce time.Duration
	minLen   int
	log      *zap.Logger
	now      func() time.Time

	screen        screen
	width, height int

	cats     list.Model
	items    list.Model
	category model.CategoryDef // open category
	sort     model.SortOption

	// Inline prompt shared by new/rename category and edit title
	prompt   prompt
	ti       textinput.Model
	promptID string

	// Add view
	field    *search.Field
	query    textinput.Model
	pending  search.Request
	eligible bool
	results  []search.Result
	selected int
	loading  bool
	searched bool
	spinner  spinner.Model

	// Detail view
	detail   model.Item
	renderer *glamour.TermRenderer

	// Undo support (single-level)
	undo *model.Item

	status    string
	statusErr bool
}

type debounceMsg struct {
	field *search.Field
	seq   uint64
}

type resultsMsg struct {
	field *search.Field
	resp  search.Response
}

// New builds the model. Zero Deps fields get defaults.
func New(ctx context.Context, d Deps) Model {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Debounce <= 0 {
		d.Debounce = config.DefaultDebounce
	}
	if d.MinQueryLength < 1 {
		d.MinQueryLength = config.DefaultMinQueryLength
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	q := textinput.New()
	q.Prompt = "/ "
	q.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Accent

	m := Model{
		ctx:      ctx,
		store:    d.Store,
		searcher: d.Searcher,
		debounce: d.Debounce,
		minLen:   d.MinQueryLength,
		log:      d.Log,
		now:      d.Now,
		width:    80,
		height:   24,
		cats:     newCategoryList(),
		items:    newItemList(),
		sort:     model.SortByDate,
		ti:       ti,
		query:    q,
		spinner:  sp,
	}
	m.refreshCategories()
	m.resize()
	if d.Category != "" {
		if c, ok := d.Store.Category(d.Category); ok {
			m.openCategory(c)
		}
	}
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, d Deps) error {
	p := tea.NewProgram(New(ctx, d), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err == nil || (errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return nil
	}
	return fmt.Errorf("tui: %w", err)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderer = nil
		if m.screen == screenDetail {
			m.ensureRenderer()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case debounceMsg:
		return m.onDebounce(msg)
	case resultsMsg:
		return m.onResults(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.prompt != promptNone {
		return m.updatePrompt(msg)
	}
	switch m.screen {
	case screenItems:
		return m.updateItems(msg)
	case screenAdd:
		return m.updateAdd(msg)
	case screenDetail:
		return m.updateDetail(msg)
	default:
		return m.updateCategories(msg)
	}
}

func (m Model) View() string {
	var content string
	switch m.screen {
	case screenItems:
		content = m.items.View()
	case screenAdd:
		content = m.viewAdd()
	case screenDetail:
		content = m.viewDetail()
	default:
		content = m.cats.View()
	}
	if m.prompt != promptNone {
		content += "\n" + m.viewPrompt()
	}
	if m.status != "" {
		style := ui.Current().Muted
		if m.statusErr {
			style = ui.Current().Error
		}
		content += "\n" + style.Render(m.status)
	}
	return content
}

func (m *Model) resize() {
	h := m.height - 4
	if m.prompt != promptNone {
		h -= 3
	}
	m.cats.SetSize(m.width-2, h)
	m.items.SetSize(m.width-2, h)
	m.ti.Width = m.width - 8
	m.query.Width = m.width - 8
}

func (m *Model) setStatus(msg string) {
	m.status, m.statusErr = msg, false
}

// fail reports a store error. Persistence failures keep the change in
// memory, so the message says so.
func (m *Model) fail(action string, err error) {
	m.log.Warn("tui action failed", zap.String("action", action), zap.Error(err))
	m.statusErr = true
	if errors.Is(err, store.ErrPersist) {
		m.status = action + ": not saved to disk (" + err.Error() + ")"
		return
	}
	m.status = action + ": " + err.Error()
}
