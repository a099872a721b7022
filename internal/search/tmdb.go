package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/model"
)

// TMDB media types.
const (
	TMDBMovie = "movie"
	TMDBTV    = "tv"
)

// TMDB searches The Movie Database for movies or TV shows.
type TMDB struct {
	kind         string
	apiKey       string
	baseURL      string
	imageBaseURL string
	client       *http.Client
}

func NewTMDB(kind, apiKey, baseURL, imageBaseURL string, client *http.Client) *TMDB {
	return &TMDB{
		kind:         kind,
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		client:       client,
	}
}

func (t *TMDB) Name() string { return "tmdb-" + t.kind }

// TMDBResult is one entry of a TMDB search response. Movies fill Title and
// ReleaseDate, shows fill Name and FirstAirDate.
type TMDBResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
}

// DecodeTMDB reads the metadata of a movie or TV result.
func DecodeTMDB(m model.Metadata) (TMDBResult, error) {
	var r TMDBResult
	err := m.Decode(&r)
	return r, err
}

func (t *TMDB) Search(ctx context.Context, query string) ([]Result, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tmdb: %w", config.ErrNoCredentials)
	}
	q := url.Values{}
	q.Set("api_key", t.apiKey)
	q.Set("query", query)
	u := t.baseURL + "/search/" + t.kind + "?" + q.Encode()

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := getJSON(ctx, t.client, u, nil, &body); err != nil {
		return nil, fmt.Errorf("tmdb: %w", err)
	}

	out := make([]Result, 0, len(body.Results))
	for _, raw := range body.Results {
		var r TMDBResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("tmdb: decode result: %w", err)
		}
		title, date := r.Title, r.ReleaseDate
		if t.kind == TMDBTV {
			title, date = r.Name, r.FirstAirDate
		}
		res := Result{
			ID:       strconv.FormatInt(r.ID, 10),
			Title:    title,
			Subtitle: yearOf(date, "Unknown"),
			Source:   t.Name(),
			Metadata: rawMetadata(raw),
		}
		if r.PosterPath != "" {
			res.Image = t.imageBaseURL + r.PosterPath
		}
		out = append(out, res)
	}
	return out, nil
}
