package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shelf/internal/model"
	"github.com/idilsaglam/shelf/internal/search"
	"github.com/idilsaglam/shelf/internal/store"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

type recordingSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordingSearcher) Search(_ context.Context, query, category string) []search.Result {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return []search.Result{{
		ID:       "ext-" + query,
		Title:    strings.ToUpper(query),
		Subtitle: "2021",
		Source:   "stub",
		Metadata: model.Metadata(`{"q":"` + query + `"}`),
	}}
}

func (r *recordingSearcher) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, press(string(r)))
	}
	return m
}

func newTestModel(t *testing.T) (Model, *store.Store, *recordingSearcher) {
	t.Helper()
	st := store.New(store.WithClock(func() time.Time { return fixedNow }))
	rs := &recordingSearcher{}
	m := New(context.Background(), Deps{
		Store:    st,
		Searcher: rs,
		Debounce: time.Millisecond,
		Now:      func() time.Time { return fixedNow },
	})
	return m, st, rs
}

func categoryByType(t *testing.T, st *store.Store, typ string) model.CategoryDef {
	t.Helper()
	c, ok := st.CategoryByType(typ)
	require.True(t, ok, typ)
	return c
}

// runFetch executes the batch returned for an accepted debounce tick and
// returns the search response inside it.
func runFetch(t *testing.T, cmd tea.Cmd) resultsMsg {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(resultsMsg); ok {
			return res
		}
	}
	t.Fatal("no search response in batch")
	return resultsMsg{}
}

func TestCategoriesListCounts(t *testing.T) {
	m, st, _ := newTestModel(t)
	entries := m.cats.Items()
	require.Len(t, entries, len(st.Categories()))

	counts := map[string]int{}
	for _, e := range entries {
		ce := e.(categoryEntry)
		counts[ce.cat.Type] = ce.count
	}
	assert.Equal(t, 3, counts[model.Movies])
	assert.Equal(t, 1, counts[model.Books])
	assert.Equal(t, 0, counts[model.Wines])
}

func TestItemsToggleDeleteUndo(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Movies))
	require.Len(t, m.items.Items(), 3)

	first, ok := m.selectedItem()
	require.True(t, ok)

	m, _ = send(t, m, press(" "))
	got, _ := st.Item(first.ID)
	assert.True(t, got.Completed)

	m, _ = send(t, m, press("d"))
	_, ok = st.Item(first.ID)
	assert.False(t, ok)
	assert.Len(t, m.items.Items(), 2)

	m, _ = send(t, m, press("u"))
	restored, ok := st.Item(first.ID)
	require.True(t, ok)
	assert.True(t, restored.Completed)
	assert.Len(t, m.items.Items(), 3)

	// Undo is single-level.
	m, _ = send(t, m, press("u"))
	assert.Len(t, st.ItemsByCategory(model.Movies), 3)
}

func TestEditTitlePrompt(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Books))
	it, ok := m.selectedItem()
	require.True(t, ok)

	m, _ = send(t, m, press("e"))
	require.Equal(t, promptEditTitle, m.prompt)
	m.ti.SetValue("  The Hobbit  ")
	m, _ = send(t, m, press("enter"))

	assert.Equal(t, promptNone, m.prompt)
	got, _ := st.Item(it.ID)
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestNewRenameAndDeleteCategory(t *testing.T) {
	m, st, _ := newTestModel(t)
	before := len(st.Categories())

	m, _ = send(t, m, press("n"))
	m, _ = send(t, m, press("enter"))
	assert.True(t, m.statusErr, "empty label is rejected")
	assert.Len(t, st.Categories(), before)

	m = typeText(t, m, "Vinyl")
	m, _ = send(t, m, press("enter"))
	require.Len(t, st.Categories(), before+1)
	vinyl := categoryByType(t, st, "Vinyl")
	assert.Equal(t, "Circle", vinyl.Icon)
	assert.False(t, vinyl.IsSystem)

	require.NoError(t, st.AddItem(context.Background(), model.Item{ID: "v1", Category: "Vinyl", Title: "Blue Train"}))

	// Rename the movies category: only the label changes.
	m.cats.Select(indexOfCategory(t, m, model.Movies))
	m, _ = send(t, m, press("r"))
	m.ti.SetValue("Films")
	m, _ = send(t, m, press("enter"))
	movies := categoryByType(t, st, model.Movies)
	assert.Equal(t, "Films", movies.Label)

	// Deleting a category keeps its items.
	m.cats.Select(indexOfCategory(t, m, "Vinyl"))
	m, _ = send(t, m, press("x"))
	_, ok := st.CategoryByType("Vinyl")
	assert.False(t, ok)
	_, ok = st.Item("v1")
	assert.True(t, ok)
	assert.Contains(t, m.status, "1 items kept")
}

func indexOfCategory(t *testing.T, m Model, typ string) int {
	t.Helper()
	for i, e := range m.cats.Items() {
		if e.(categoryEntry).cat.Type == typ {
			return i
		}
	}
	t.Fatalf("category %q not listed", typ)
	return -1
}

func TestAdd_ShortQueryNeverSearches(t *testing.T) {
	m, st, rs := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Movies))
	m, _ = send(t, m, press("a"))
	require.Equal(t, screenAdd, m.screen)

	m = typeText(t, m, "a")
	m, cmd := send(t, m, debounceMsg{field: m.field, seq: m.field.Current()})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
	assert.Empty(t, rs.calls())
}

func TestAdd_DebounceKeepsOnlyLastEdit(t *testing.T) {
	m, st, rs := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Movies))
	m, _ = send(t, m, press("a"))

	m = typeText(t, m, "dun")
	field := m.field
	require.Equal(t, uint64(3), field.Current())

	// Ticks from earlier keystrokes are ignored.
	m, cmd := send(t, m, debounceMsg{field: field, seq: 2})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)

	m, cmd = send(t, m, debounceMsg{field: field, seq: 3})
	assert.True(t, m.loading)
	res := runFetch(t, cmd)
	assert.Equal(t, []string{"dun"}, rs.calls())

	m, _ = send(t, m, res)
	assert.False(t, m.loading)
	require.Len(t, m.results, 1)
	assert.Equal(t, "DUN", m.results[0].Title)
}

func TestAdd_StaleResponseDiscarded(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Movies))
	m, _ = send(t, m, press("a"))

	m = typeText(t, m, "du")
	m, cmd := send(t, m, debounceMsg{field: m.field, seq: m.field.Current()})
	stale := runFetch(t, cmd)

	// The user keeps typing before the answer for "du" lands.
	m = typeText(t, m, "ne")
	m, _ = send(t, m, stale)
	assert.Empty(t, m.results)

	m, cmd = send(t, m, debounceMsg{field: m.field, seq: m.field.Current()})
	fresh := runFetch(t, cmd)
	m, _ = send(t, m, fresh)
	require.Len(t, m.results, 1)
	assert.Equal(t, "DUNE", m.results[0].Title)
}

func TestAdd_CommitSelectedResult(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Movies))
	m, _ = send(t, m, press("a"))
	m = typeText(t, m, "dune")
	m, cmd := send(t, m, debounceMsg{field: m.field, seq: m.field.Current()})
	m, _ = send(t, m, runFetch(t, cmd))

	m, _ = send(t, m, press("enter"))
	assert.Equal(t, screenItems, m.screen)

	got, ok := st.Item("ext-dune")
	require.True(t, ok)
	assert.Equal(t, model.Movies, got.Category)
	assert.Equal(t, "DUNE", got.Title)
	assert.Equal(t, "ext-dune", got.ExternalID)
	assert.Equal(t, fixedNow.UnixMilli(), got.AddedAt)
	assert.JSONEq(t, `{"q":"dune"}`, string(got.Metadata))
	assert.Len(t, st.ItemsByCategory(model.Movies), 4)
}

func TestAdd_EscDropsLateResults(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.openCategory(categoryByType(t, st, model.Books))
	m, _ = send(t, m, press("a"))
	m = typeText(t, m, "hobbit")
	m, cmd := send(t, m, debounceMsg{field: m.field, seq: m.field.Current()})
	late := runFetch(t, cmd)

	m, _ = send(t, m, press("esc"))
	require.Equal(t, screenItems, m.screen)
	m, _ = send(t, m, late)
	assert.Empty(t, m.results)
	assert.Len(t, st.ItemsByCategory(model.Books), 1)
}

func TestDetailRendersNotes(t *testing.T) {
	m, st, _ := newTestModel(t)
	require.NoError(t, st.AddItem(context.Background(), model.Item{
		ID: "n1", Category: model.Wines, Title: "Barolo", AddedAt: fixedNow.UnixMilli(),
		Notes: "Great with **truffles**",
	}))
	m.openCategory(categoryByType(t, st, model.Wines))
	m, _ = send(t, m, press("enter"))
	require.Equal(t, screenDetail, m.screen)

	view := m.View()
	assert.Contains(t, view, "Barolo")
	assert.Contains(t, view, "truffles")

	m, _ = send(t, m, press(" "))
	assert.True(t, m.detail.Completed)

	m, _ = send(t, m, press("esc"))
	assert.Equal(t, screenItems, m.screen)
}

func TestPersistFailureShowsStatus(t *testing.T) {
	m, st, _ := newTestModel(t)
	b := store.NewMemoryBackend()
	b.PutError = assert.AnError
	st.Attach(b)

	m.openCategory(categoryByType(t, st, model.Movies))
	m, _ = send(t, m, press(" "))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "not saved")
}

func TestSortCycle(t *testing.T) {
	assert.Equal(t, model.SortByTitle, nextSort(model.SortByDate))
	assert.Equal(t, model.SortByDate, nextSort(model.SortByCompleted))
	assert.Equal(t, model.SortByDate, nextSort("bogus"))
}

func TestNew_OpensStartCategory(t *testing.T) {
	st := store.New(store.WithClock(func() time.Time { return fixedNow }))
	m := New(context.Background(), Deps{Store: st, Searcher: &recordingSearcher{}, Category: "books"})
	assert.Equal(t, screenItems, m.screen)
	assert.Equal(t, model.Books, m.category.Type)
	assert.Len(t, m.items.Items(), 1)

	m = New(context.Background(), Deps{Store: st, Searcher: &recordingSearcher{}, Category: "nope"})
	assert.Equal(t, screenCategories, m.screen)
}
