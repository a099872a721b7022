package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/model"
)

type stubProvider struct {
	name    string
	results []Result
	err     error
	panics  bool
	block   chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, q string) ([]Result, error) {
	s.calls.Add(1)
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.panics {
		panic("boom")
	}
	return s.results, s.err
}

func quietOptions() Options {
	return Options{MockLatency: 0, Timeout: time.Second}
}

func TestAggregator_Routes(t *testing.T) {
	a := NewAggregator(quietOptions())

	cases := map[string]string{
		model.Movies:   "tmdb-movie",
		model.TVShows:  "tmdb-tv",
		model.Books:    "googlebooks",
		model.Games:    "thegamesdb",
		model.Podcasts: "podcastindex",
		model.Wines:    "mock",
		"Vinyl":        "mock",
	}
	for category, want := range cases {
		assert.Equal(t, want, a.ProviderFor(category).Name(), category)
	}
}

func TestAggregator_MissingCredentialsFallBack(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := NewAggregator(quietOptions())
	ctx := context.Background()

	assert.Empty(t, a.Search(ctx, "Dune", model.Movies))

	games := a.Search(ctx, "zelda", model.Games)
	require.Len(t, games, 1)
	assert.Contains(t, games[0].Title, "zelda")
	assert.Equal(t, "mock", games[0].Source)

	pods := a.Search(ctx, "serial", model.Podcasts)
	require.Len(t, pods, 1)
	assert.Equal(t, "serial (Mock)", pods[0].Title)
}

func TestAggregator_FailurePolicy(t *testing.T) {
	defer goleak.VerifyNone(t)

	failing := &stubProvider{name: "down", err: errors.New("status 503")}
	a := NewAggregator(quietOptions(),
		WithProvider(model.Games, failing),
		WithProvider(model.Books, failing),
	)
	ctx := context.Background()

	got := a.Search(ctx, "zelda", model.Games)
	require.Len(t, got, 1)
	assert.Equal(t, "zelda (Mock)", got[0].Title)

	assert.Empty(t, a.Search(ctx, "hobbit", model.Books))
	assert.Equal(t, int32(2), failing.calls.Load())
}

func TestAggregator_RecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	bad := &stubProvider{name: "bad", panics: true}
	a := NewAggregator(quietOptions(),
		WithProvider(model.Podcasts, bad),
		WithProvider(model.Movies, bad),
	)

	got := a.Search(context.Background(), "serial", model.Podcasts)
	require.Len(t, got, 1)
	assert.Equal(t, "serial (Mock)", got[0].Title)

	assert.Empty(t, a.Search(context.Background(), "Dune", model.Movies))
}

func TestAggregator_OtherCategoriesUseMock(t *testing.T) {
	mock := &stubProvider{name: "mock", results: []Result{{ID: "m-1", Title: "Barolo (Mock)"}}}
	a := NewAggregator(quietOptions(), WithMock(mock))

	got := a.Search(context.Background(), "Barolo", model.Wines)
	require.Len(t, got, 1)
	assert.Equal(t, "Barolo (Mock)", got[0].Title)

	got = a.Search(context.Background(), "Barolo", "My Cellar")
	require.Len(t, got, 1)
	assert.Equal(t, int32(2), mock.calls.Load())
}

func TestAggregator_BlankQuerySkipsProviders(t *testing.T) {
	p := &stubProvider{name: "p", results: []Result{{ID: "1"}}}
	a := NewAggregator(quietOptions(), WithProvider(model.Books, p))

	assert.Nil(t, a.Search(context.Background(), "   ", model.Books))
	assert.Nil(t, a.Search(context.Background(), "", model.Books))
	assert.Zero(t, p.calls.Load())
}

func TestAggregator_TrimsQuery(t *testing.T) {
	a := NewAggregator(quietOptions())
	got := a.Search(context.Background(), "  chess  ", model.BoardGames)
	require.Len(t, got, 1)
	assert.Equal(t, "chess (Mock)", got[0].Title)
}

func TestAggregator_LogsProviderFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	failing := &stubProvider{name: "down", err: errors.New("status 503")}
	a := NewAggregator(quietOptions(), WithLogger(zap.New(core)), WithProvider(model.Books, failing))

	a.Search(context.Background(), "hobbit", model.Books)

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	fields := warns[0].ContextMap()
	assert.Equal(t, "down", fields["provider"])
	assert.Equal(t, model.Books, fields["category"])
}

func TestAggregator_CoalescesIdenticalSearches(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &stubProvider{
		name:    "slow",
		results: []Result{{ID: "1", Title: "Dune"}},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	a := NewAggregator(quietOptions(), WithProvider(model.Books, p))

	var wg sync.WaitGroup
	out := make([][]Result, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out[0] = a.Search(context.Background(), "dune", model.Books)
	}()
	<-p.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		out[1] = a.Search(context.Background(), "dune", model.Books)
	}()
	time.Sleep(50 * time.Millisecond)
	close(p.block)
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, out[0], out[1])

	out[0][0].Title = "changed"
	assert.Equal(t, "Dune", out[1][0].Title)
}

func TestOptionsFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.MockLatency = "1s"
	creds := &config.Credentials{TMDBAPIKey: "t", PodcastIndexKey: "k", PodcastIndexSecret: "s"}

	o := OptionsFrom(cfg, creds)
	assert.Equal(t, "t", o.TMDBAPIKey)
	assert.Equal(t, "k", o.PodcastIndexKey)
	assert.Equal(t, "s", o.PodcastIndexSecret)
	assert.Equal(t, time.Second, o.MockLatency)
	assert.Equal(t, cfg.Providers.GamesDB.RelayURL, o.GamesDBRelayURL)

	o = OptionsFrom(cfg, nil)
	assert.Empty(t, o.TMDBAPIKey)
}

func TestToItem(t *testing.T) {
	r := Result{ID: "438631", Title: "Dune", Subtitle: "2021", Image: "https://img.test/abc.jpg",
		Metadata: model.Metadata(`{"id":438631}`)}
	now := time.UnixMilli(1_700_000_000_000)

	it := ToItem(r, model.Movies, now)
	assert.Equal(t, "438631", it.ID)
	assert.Equal(t, "438631", it.ExternalID)
	assert.Equal(t, model.Movies, it.Category)
	assert.Equal(t, "Dune", it.Title)
	assert.Equal(t, now.UnixMilli(), it.AddedAt)
	assert.False(t, it.Completed)
	assert.True(t, it.Metadata.Equal(r.Metadata))
}
