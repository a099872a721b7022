package search

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/model"
)

// Options carries the endpoints, keys and timings the providers need.
type Options struct {
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string

	BooksBaseURL string

	GamesDBAPIKey   string
	GamesDBBaseURL  string
	GamesDBRelayURL string

	PodcastIndexKey       string
	PodcastIndexSecret    string
	PodcastIndexBaseURL   string
	PodcastIndexUserAgent string

	MockLatency time.Duration
	Timeout     time.Duration
}

// OptionsFrom merges the config file and the credentials.
func OptionsFrom(cfg *config.Config, creds *config.Credentials) Options {
	p := cfg.Providers
	o := Options{
		TMDBBaseURL:           p.TMDB.BaseURL,
		TMDBImageBaseURL:      p.TMDB.ImageBaseURL,
		BooksBaseURL:          p.Books.BaseURL,
		GamesDBBaseURL:        p.GamesDB.BaseURL,
		GamesDBRelayURL:       p.GamesDB.RelayURL,
		PodcastIndexBaseURL:   p.PodcastIndex.BaseURL,
		PodcastIndexUserAgent: p.PodcastIndex.UserAgent,
		MockLatency:           cfg.GetMockLatency(),
		Timeout:               cfg.GetTimeout(),
	}
	if creds != nil {
		o.TMDBAPIKey = creds.TMDBAPIKey
		o.GamesDBAPIKey = creds.GamesDBAPIKey
		o.PodcastIndexKey = creds.PodcastIndexKey
		o.PodcastIndexSecret = creds.PodcastIndexSecret
	}
	return o
}

type fallback int

const (
	fallbackEmpty fallback = iota
	fallbackMock
)

type route struct {
	provider Provider
	fallback fallback
}

// Aggregator routes a query to the provider registered for its category and
// turns every failure into that route's fallback.
type Aggregator struct {
	routes map[string]route
	mock   Provider
	log    *zap.Logger
	group  singleflight.Group
}

var _ Searcher = (*Aggregator)(nil)

type settings struct {
	log       *zap.Logger
	client    *http.Client
	mock      Provider
	overrides map[string]Provider
}

// Option configures an Aggregator.
type Option func(*settings)

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHTTPClient replaces the client shared by the HTTP providers.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithProvider serves category with p. The category keeps its fallback.
func WithProvider(category string, p Provider) Option {
	return func(s *settings) {
		s.overrides[category] = p
	}
}

// WithMock replaces the placeholder provider.
func WithMock(p Provider) Option {
	return func(s *settings) {
		if p != nil {
			s.mock = p
		}
	}
}

func NewAggregator(o Options, opts ...Option) *Aggregator {
	s := settings{
		log:       zap.NewNop(),
		client:    &http.Client{Timeout: o.Timeout},
		overrides: map[string]Provider{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.mock == nil {
		s.mock = NewMock(o.MockLatency)
	}

	routes := map[string]route{
		model.Movies:   {NewTMDB(TMDBMovie, o.TMDBAPIKey, o.TMDBBaseURL, o.TMDBImageBaseURL, s.client), fallbackEmpty},
		model.TVShows:  {NewTMDB(TMDBTV, o.TMDBAPIKey, o.TMDBBaseURL, o.TMDBImageBaseURL, s.client), fallbackEmpty},
		model.Books:    {NewGoogleBooks(o.BooksBaseURL, s.client), fallbackEmpty},
		model.Games:    {NewGamesDB(o.GamesDBAPIKey, o.GamesDBBaseURL, o.GamesDBRelayURL, s.client), fallbackMock},
		model.Podcasts: {NewPodcastIndex(o.PodcastIndexKey, o.PodcastIndexSecret, o.PodcastIndexBaseURL, o.PodcastIndexUserAgent, s.client), fallbackMock},
	}
	for category, p := range s.overrides {
		r := routes[category]
		r.provider = p
		routes[category] = r
	}

	return &Aggregator{routes: routes, mock: s.mock, log: s.log}
}

// ProviderFor returns the provider serving category. Unknown categories get
// the mock.
func (a *Aggregator) ProviderFor(category string) Provider {
	return a.route(category).provider
}

func (a *Aggregator) route(category string) route {
	if r, ok := a.routes[category]; ok {
		return r
	}
	return route{provider: a.mock, fallback: fallbackEmpty}
}

// Search never fails. Identical (category, query) calls in flight share one
// provider request, bound to the first caller's context.
func (a *Aggregator) Search(ctx context.Context, query, category string) []Result {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	v, _, _ := a.group.Do(category+"\x00"+q, func() (any, error) {
		return a.run(ctx, a.route(category), category, q), nil
	})
	return slices.Clone(v.([]Result))
}

func (a *Aggregator) run(ctx context.Context, r route, category, q string) []Result {
	start := time.Now()
	res, err := a.guard(ctx, r.provider, q)
	if err == nil {
		a.log.Debug("search done",
			zap.String("provider", r.provider.Name()),
			zap.String("category", category),
			zap.Int("results", len(res)),
			zap.Duration("took", time.Since(start)))
		return res
	}
	a.log.Warn("search provider failed",
		zap.String("provider", r.provider.Name()),
		zap.String("category", category),
		zap.Error(err))

	if r.fallback != fallbackMock || r.provider == a.mock {
		return nil
	}
	a.log.Debug("falling back to mock", zap.String("category", category))
	res, err = a.guard(ctx, a.mock, q)
	if err != nil {
		a.log.Warn("mock provider failed", zap.String("category", category), zap.Error(err))
		return nil
	}
	return res
}

// guard turns a panic inside a provider into an error.
func (a *Aggregator) guard(ctx context.Context, p Provider, q string) (res []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%s: panic: %v", p.Name(), r)
		}
	}()
	return p.Search(ctx, q)
}
