package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shelf/internal/config"
)

func jsonServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestTMDB_Movie(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Dune", r.URL.Query().Get("query"))
		writeJSON(w, `{"page":1,"results":[
			{"id":438631,"title":"Dune","release_date":"2021-09-15","poster_path":"/abc.jpg","vote_average":7.8}
		]}`)
	})

	p := NewTMDB(TMDBMovie, "k", srv.URL, "https://img.test/w500/", srv.Client())
	got, err := p.Search(context.Background(), "Dune")
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "438631", r.ID)
	assert.Equal(t, "Dune", r.Title)
	assert.Equal(t, "2021", r.Subtitle)
	assert.Equal(t, "https://img.test/w500/abc.jpg", r.Image)
	assert.Equal(t, "tmdb-movie", r.Source)

	meta, err := DecodeTMDB(r.Metadata)
	require.NoError(t, err)
	assert.Equal(t, int64(438631), meta.ID)
	assert.InDelta(t, 7.8, meta.VoteAverage, 0.001)
}

func TestTMDB_TVUsesNameAndFirstAirDate(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		writeJSON(w, `{"results":[
			{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","poster_path":"/got.jpg"},
			{"id":7,"name":"Undated","first_air_date":"","poster_path":null}
		]}`)
	})

	p := NewTMDB(TMDBTV, "k", srv.URL, "https://img.test", srv.Client())
	got, err := p.Search(context.Background(), "thrones")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Game of Thrones", got[0].Title)
	assert.Equal(t, "2011", got[0].Subtitle)
	assert.Equal(t, "Unknown", got[1].Subtitle)
	assert.Empty(t, got[1].Image)
}

func TestTMDB_MissingKeyFailsWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, `{"results":[]}`)
	})

	_, err := NewTMDB(TMDBMovie, "", srv.URL, "", srv.Client()).Search(context.Background(), "Dune")
	assert.ErrorIs(t, err, config.ErrNoCredentials)
	assert.Zero(t, hits.Load())
}

func TestTMDB_StatusErrorHidesKey(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := NewTMDB(TMDBMovie, "secret-key", srv.URL, "", srv.Client()).Search(context.Background(), "Dune")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGoogleBooks_Fallbacks(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "hobbit", r.URL.Query().Get("q"))
		writeJSON(w, `{"totalItems":3,"items":[
			{"id":"a1","volumeInfo":{"title":"The Hobbit","authors":["J.R.R. Tolkien","C. Tolkien"],
				"imageLinks":{"thumbnail":"http://books.test/cover.jpg"}}},
			{"id":"a2","volumeInfo":{"publishedDate":"1937-09-21"}},
			{"id":"a3","volumeInfo":{"title":"Bare"}}
		]}`)
	})

	got, err := NewGoogleBooks(srv.URL+"/", srv.Client()).Search(context.Background(), "hobbit")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "The Hobbit", got[0].Title)
	assert.Equal(t, "J.R.R. Tolkien, C. Tolkien", got[0].Subtitle)
	assert.Equal(t, "https://books.test/cover.jpg", got[0].Image)

	assert.Equal(t, "Unknown Title", got[1].Title)
	assert.Equal(t, "1937", got[1].Subtitle)

	assert.Equal(t, "", got[2].Subtitle)
	assert.Empty(t, got[2].Image)

	v, err := DecodeVolume(got[0].Metadata)
	require.NoError(t, err)
	assert.Equal(t, "a1", v.ID)
}

func TestGoogleBooks_NoItems(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"totalItems":0}`)
	})
	got, err := NewGoogleBooks(srv.URL, srv.Client()).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

const gamesBody = `{"code":200,"data":{"count":2,"games":[
	{"id":1,"game_title":"The Legend of Zelda","release_date":"1986-02-21","platform":7},
	{"id":2,"game_title":"Zelda II","release_date":null}
]},"include":{"boxart":{
	"base_url":{"original":"https://cdn.test/original/"},
	"data":{"1":[{"id":10,"filename":"boxart/front/1-1.jpg"}]}
}}}`

func TestGamesDB_Direct(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Games/ByGameName", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "gk", q.Get("apikey"))
		assert.Equal(t, "zelda", q.Get("name"))
		assert.Equal(t, "boxart", q.Get("include"))
		assert.Equal(t, "overview,publishers,genres", q.Get("fields"))
		writeJSON(w, gamesBody)
	})

	got, err := NewGamesDB("gk", srv.URL, "", srv.Client()).Search(context.Background(), "zelda")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "The Legend of Zelda", got[0].Title)
	assert.Equal(t, "1986", got[0].Subtitle)
	assert.Equal(t, "https://cdn.test/original/boxart/front/1-1.jpg", got[0].Image)

	assert.Equal(t, "Unknown", got[1].Subtitle)
	assert.Empty(t, got[1].Image)

	g, err := DecodeGame(got[0].Metadata)
	require.NoError(t, err)
	assert.Equal(t, int64(7), g.Platform)
}

func TestGamesDB_ThroughRelay(t *testing.T) {
	var target string
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/relay", r.URL.Path)
		target = r.URL.Query().Get("url")
		writeJSON(w, `{"data":{"games":[]},"include":{"boxart":{"base_url":{"original":""},"data":[]}}}`)
	})

	p := NewGamesDB("gk", "https://games.test/v1", srv.URL+"/relay?url=", srv.Client())
	got, err := p.Search(context.Background(), "mario kart")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, strings.HasPrefix(target, "https://games.test/v1/Games/ByGameName?"), target)
	assert.Contains(t, target, "name=mario+kart")
}

func TestGamesDB_EmptyBoxartArray(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data":{"games":[{"id":5,"game_title":"Tetris","release_date":"1984-06-06"}]},
			"include":{"boxart":{"base_url":{"original":"https://cdn.test/"},"data":[]}}}`)
	})
	got, err := NewGamesDB("gk", srv.URL, "", srv.Client()).Search(context.Background(), "tetris")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Image)
}

func TestAuthHash(t *testing.T) {
	assert.Equal(t, "abaf71c02050c31e4d4e6b08c1625173af0445ba", AuthHash("key", "secret", "1700000000"))
}

func TestPodcastIndex_SignsRequest(t *testing.T) {
	srv := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/byterm", r.URL.Path)
		assert.Equal(t, "serial", r.URL.Query().Get("q"))
		assert.Equal(t, "key", r.Header.Get("X-Auth-Key"))
		assert.Equal(t, "1700000000", r.Header.Get("X-Auth-Date"))
		assert.Equal(t, "abaf71c02050c31e4d4e6b08c1625173af0445ba", r.Header.Get("Authorization"))
		assert.Equal(t, "shelf-test/1", r.Header.Get("User-Agent"))
		writeJSON(w, `{"status":"true","feeds":[
			{"id":920666,"title":"Serial","author":"This American Life","image":"https://img.test/serial.jpg"},
			{"id":3,"title":"Anon"}
		]}`)
	})

	p := NewPodcastIndex("key", "secret", srv.URL, "shelf-test/1", srv.Client())
	p.now = func() time.Time { return time.Unix(1700000000, 0) }

	got, err := p.Search(context.Background(), "serial")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "920666", got[0].ID)
	assert.Equal(t, "This American Life", got[0].Subtitle)
	assert.Equal(t, "https://img.test/serial.jpg", got[0].Image)
	assert.Equal(t, "Unknown Author", got[1].Subtitle)

	f, err := DecodeFeed(got[0].Metadata)
	require.NoError(t, err)
	assert.Equal(t, "Serial", f.Title)
}

func TestPodcastIndex_NeedsSecret(t *testing.T) {
	_, err := NewPodcastIndex("key", "", "http://unused.test", "", http.DefaultClient).Search(context.Background(), "x")
	assert.ErrorIs(t, err, config.ErrNoCredentials)
}

func TestMock(t *testing.T) {
	m := NewMock(0)
	m.now = func() time.Time { return time.UnixMilli(1234) }

	got, err := m.Search(context.Background(), "zelda")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m-1234", got[0].ID)
	assert.Equal(t, "zelda (Mock)", got[0].Title)
	assert.Equal(t, "Add manually", got[0].Subtitle)
	assert.Equal(t, "https://picsum.photos/200/300", got[0].Image)
}

func TestMock_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMock(time.Hour).Search(ctx, "zelda")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, "2021", yearOf("2021-09-15", "Unknown"))
	assert.Equal(t, "1999", yearOf("1999", "Unknown"))
	assert.Equal(t, "Unknown", yearOf("  ", "Unknown"))
}
