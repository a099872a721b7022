// Package search looks titles up in external metadata providers and
// normalizes their answers into Results. It never returns an error to its
// caller: a failing provider yields no results or a placeholder.
package search

import (
	"context"
	"time"

	"github.com/idilsaglam/shelf/internal/model"
)

// Result is one normalized provider hit.
type Result struct {
	ID       string
	Title    string
	Subtitle string
	Image    string
	Source   string         // provider name
	Metadata model.Metadata // the provider's own object for this hit
}

// Provider is one external source, queried by free text.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// Searcher is what callers use: a query plus a category type, never an error.
type Searcher interface {
	Search(ctx context.Context, query, category string) []Result
}

// ToItem turns a picked result into the item stored in category.
func ToItem(r Result, category string, now time.Time) model.Item {
	return model.Item{
		ID:         r.ID,
		Category:   category,
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Image:      r.Image,
		AddedAt:    now.UnixMilli(),
		ExternalID: r.ID,
		Metadata:   r.Metadata.Clone(),
	}
}
