package search

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/model"
)

// PodcastIndex searches podcastindex.org feeds by term.
type PodcastIndex struct {
	key       string
	secret    string
	baseURL   string
	userAgent string
	client    *http.Client
	now       func() time.Time
}

func NewPodcastIndex(key, secret, baseURL, userAgent string, client *http.Client) *PodcastIndex {
	return &PodcastIndex{
		key:       key,
		secret:    secret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		now:       time.Now,
	}
}

func (p *PodcastIndex) Name() string { return "podcastindex" }

// Feed is one PodcastIndex search hit.
type Feed struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// DecodeFeed reads the metadata of a podcast result.
func DecodeFeed(m model.Metadata) (Feed, error) {
	var f Feed
	err := m.Decode(&f)
	return f, err
}

// AuthHash is the Authorization value PodcastIndex expects: the hex SHA-1
// of key, secret and the unix timestamp concatenated.
func AuthHash(key, secret, timestamp string) string {
	sum := sha1.Sum([]byte(key + secret + timestamp))
	return hex.EncodeToString(sum[:])
}

func (p *PodcastIndex) Search(ctx context.Context, query string) ([]Result, error) {
	if p.key == "" || p.secret == "" {
		return nil, fmt.Errorf("podcastindex: %w", config.ErrNoCredentials)
	}
	ts := strconv.FormatInt(p.now().Unix(), 10)
	h := http.Header{}
	h.Set("X-Auth-Key", p.key)
	h.Set("X-Auth-Date", ts)
	h.Set("Authorization", AuthHash(p.key, p.secret, ts))
	if p.userAgent != "" {
		h.Set("User-Agent", p.userAgent)
	}

	u := p.baseURL + "/search/byterm?" + url.Values{"q": {query}}.Encode()
	var body struct {
		Feeds []json.RawMessage `json:"feeds"`
	}
	if err := getJSON(ctx, p.client, u, h, &body); err != nil {
		return nil, fmt.Errorf("podcastindex: %w", err)
	}

	out := make([]Result, 0, len(body.Feeds))
	for _, raw := range body.Feeds {
		var f Feed
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("podcastindex: decode feed: %w", err)
		}
		author := f.Author
		if author == "" {
			author = "Unknown Author"
		}
		out = append(out, Result{
			ID:       strconv.FormatInt(f.ID, 10),
			Title:    f.Title,
			Subtitle: author,
			Image:    f.Image,
			Source:   p.Name(),
			Metadata: rawMetadata(raw),
		})
	}
	return out, nil
}
