package search

import (
	"bytes"
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

// GamesDB searches TheGamesDB by game name. When relayURL is set the request
// goes through it, with the target URL appended query-escaped.
type GamesDB struct {
	apiKey   string
	baseURL  string
	relayURL string
	client   *http.Client
}

func NewGamesDB(apiKey, baseURL, relayURL string, client *http.Client) *GamesDB {
	return &GamesDB{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		relayURL: relayURL,
		client:   client,
	}
}

func (g *GamesDB) Name() string { return "thegamesdb" }

// Game is one TheGamesDB hit.
type Game struct {
	ID          int64   `json:"id"`
	GameTitle   string  `json:"game_title"`
	ReleaseDate string  `json:"release_date"`
	Platform    int64   `json:"platform"`
	Overview    string  `json:"overview"`
	Publishers  []int64 `json:"publishers"`
	Genres      []int64 `json:"genres"`
}

// DecodeGame reads the metadata of a game result.
func DecodeGame(m model.Metadata) (Game, error) {
	var g Game
	err := m.Decode(&g)
	return g, err
}

type gamesResponse struct {
	Data struct {
		Games []json.RawMessage `json:"games"`
	} `json:"data"`
	Include struct {
		Boxart struct {
			BaseURL struct {
				Original string `json:"original"`
			} `json:"base_url"`
			// An object keyed by game id, or [] when nothing matched.
			Data json.RawMessage `json:"data"`
		} `json:"boxart"`
	} `json:"include"`
}

type boxart struct {
	Filename string `json:"filename"`
}

func (g *GamesDB) requestURL(query string) string {
	q := url.Values{}
	q.Set("apikey", g.apiKey)
	q.Set("name", query)
	q.Set("fields", "overview,publishers,genres")
	q.Set("include", "boxart")
	target := g.baseURL + "/Games/ByGameName?" + q.Encode()
	if g.relayURL == "" {
		return target
	}
	return g.relayURL + url.QueryEscape(target)
}

func (g *GamesDB) Search(ctx context.Context, query string) ([]Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("thegamesdb: %w", config.ErrNoCredentials)
	}

	var body gamesResponse
	if err := getJSON(ctx, g.client, g.requestURL(query), nil, &body); err != nil {
		return nil, fmt.Errorf("thegamesdb: %w", err)
	}

	arts := map[string][]boxart{}
	if data := bytes.TrimSpace(body.Include.Boxart.Data); len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &arts); err != nil {
			return nil, fmt.Errorf("thegamesdb: decode boxart: %w", err)
		}
	}
	base := body.Include.Boxart.BaseURL.Original

	out := make([]Result, 0, len(body.Data.Games))
	for _, raw := range body.Data.Games {
		var game Game
		if err := json.Unmarshal(raw, &game); err != nil {
			return nil, fmt.Errorf("thegamesdb: decode game: %w", err)
		}
		id := strconv.FormatInt(game.ID, 10)
		res := Result{
			ID:       id,
			Title:    game.GameTitle,
			Subtitle: yearOf(game.ReleaseDate, "Unknown"),
			Source:   g.Name(),
			Metadata: rawMetadata(raw),
		}
		if a := arts[id]; len(a) > 0 {
			res.Image = base + a[0].Filename
		}
		out = append(out, res)
	}
	return out, nil
}
