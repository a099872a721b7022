package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/idilsaglam/shelf/internal/model"
)

// GoogleBooks searches the Google Books volumes endpoint. It needs no key.
type GoogleBooks struct {
	baseURL string
	client  *http.Client
}

func NewGoogleBooks(baseURL string, client *http.Client) *GoogleBooks {
	return &GoogleBooks{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *GoogleBooks) Name() string { return "googlebooks" }

// Volume is one Google Books search hit.
type Volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		PageCount     int      `json:"pageCount"`
		ImageLinks    struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// DecodeVolume reads the metadata of a book result.
func DecodeVolume(m model.Metadata) (Volume, error) {
	var v Volume
	err := m.Decode(&v)
	return v, err
}

func (g *GoogleBooks) Search(ctx context.Context, query string) ([]Result, error) {
	u := g.baseURL + "/volumes?" + url.Values{"q": {query}}.Encode()

	var body struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := getJSON(ctx, g.client, u, nil, &body); err != nil {
		return nil, fmt.Errorf("googlebooks: %w", err)
	}

	out := make([]Result, 0, len(body.Items))
	for _, raw := range body.Items {
		var v Volume
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("googlebooks: decode volume: %w", err)
		}
		info := v.VolumeInfo
		title := info.Title
		if title == "" {
			title = "Unknown Title"
		}
		subtitle := strings.Join(info.Authors, ", ")
		if subtitle == "" {
			subtitle = yearOf(info.PublishedDate, "")
		}
		out = append(out, Result{
			ID:       v.ID,
			Title:    title,
			Subtitle: subtitle,
			Image:    secureURL(info.ImageLinks.Thumbnail),
			Source:   g.Name(),
			Metadata: rawMetadata(raw),
		})
	}
	return out, nil
}

// secureURL upgrades a plain http link to https.
func secureURL(s string) string {
	if rest, ok := strings.CutPrefix(s, "http:"); ok {
		return "https:" + rest
	}
	return s
}
