package model

import (
	"github.com/google/uuid"
)

// Item is a tracked entry in a collection.
// ID is fixed at creation; everything else changes through ItemPatch.
type Item struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"` // CategoryDef.Type, not checked
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"` // year, author, platform...
	Image      string   `json:"image,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	AddedAt    int64    `json:"addedAt"` // epoch millis
	Completed  bool     `json:"completed,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	ExternalID string   `json:"externalId,omitempty"`
	Metadata   Metadata `json:"metadata,omitempty"`
}

// NewItemID returns an id for items that did not come from a provider.
func NewItemID() string {
	return uuid.NewString()
}

// ItemPatch is a partial update. Nil fields are left alone.
type ItemPatch struct {
	Category   *string
	Title      *string
	Subtitle   *string
	Image      *string
	Rating     *float64
	AddedAt    *int64
	Completed  *bool
	Notes      *string
	ExternalID *string
	Metadata   Metadata
}

// IsEmpty reports whether applying p would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Category == nil && p.Title == nil && p.Subtitle == nil && p.Image == nil &&
		p.Rating == nil && p.AddedAt == nil && p.Completed == nil && p.Notes == nil &&
		p.ExternalID == nil && p.Metadata == nil
}

// Apply returns it with p merged in.
func (p ItemPatch) Apply(it Item) Item {
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Subtitle != nil {
		it.Subtitle = *p.Subtitle
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.Rating != nil {
		r := *p.Rating
		it.Rating = &r
	}
	if p.AddedAt != nil {
		it.AddedAt = *p.AddedAt
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	if p.ExternalID != nil {
		it.ExternalID = *p.ExternalID
	}
	if p.Metadata != nil {
		it.Metadata = p.Metadata.Clone()
	}
	return it
}

// Clone copies the pointer and byte fields so the result shares nothing with it.
func (it Item) Clone() Item {
	if it.Rating != nil {
		r := *it.Rating
		it.Rating = &r
	}
	it.Metadata = it.Metadata.Clone()
	return it
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
