package model

import (
	"strconv"
	"time"
)

// CategoryType is the join key between items and categories.
// System categories use the constants below; user categories use their label.
type CategoryType = string

const (
	Movies     CategoryType = "Movies"
	TVShows    CategoryType = "TV Shows"
	Books      CategoryType = "Books"
	Games      CategoryType = "Video Games"
	BoardGames CategoryType = "Board Games"
	Podcasts   CategoryType = "Podcasts"
	Music      CategoryType = "Music"
	Wines      CategoryType = "Wines"
	Beers      CategoryType = "Beers"
	Links      CategoryType = "Links"
	ToDo       CategoryType = "To-Do"
)

// CategoryDef is a user-visible grouping of items.
type CategoryDef struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Icon     string `json:"icon"`
	Label    string `json:"label"`
	IsSystem bool   `json:"isSystem,omitempty"` // hint only, nothing enforces it
}

// NewCategory builds a user category. The id is the creation time in
// milliseconds and the type is the label.
func NewCategory(label, icon string, now time.Time) CategoryDef {
	return CategoryDef{
		ID:    strconv.FormatInt(now.UnixMilli(), 10),
		Type:  label,
		Icon:  icon,
		Label: label,
	}
}

// CategoryPatch is a partial update. Nil fields are left alone.
type CategoryPatch struct {
	Type     *string
	Icon     *string
	Label    *string
	IsSystem *bool
}

// Apply returns c with p merged in.
func (p CategoryPatch) Apply(c CategoryDef) CategoryDef {
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
	if p.IsSystem != nil {
		c.IsSystem = *p.IsSystem
	}
	return c
}
