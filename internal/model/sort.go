package model

import (
	"fmt"
	"sort"
	"strings"
)

// SortOption selects the order items are shown in.
type SortOption string

const (
	SortByDate      SortOption = "date"
	SortByTitle     SortOption = "title"
	SortByRating    SortOption = "rating"
	SortByCompleted SortOption = "completed"
)

// ParseSortOption accepts the names above; "" means date.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByTitle:
		return SortByTitle, nil
	case SortByRating:
		return SortByRating, nil
	case SortByCompleted:
		return SortByCompleted, nil
	}
	return "", fmt.Errorf("unknown sort option %q (want date, title, rating or completed)", s)
}

// Sorted returns a sorted copy of items. Date order is newest first.
// Unrated items go last under rating order; pending items come first under completed order.
func Sorted(items []Item, opt SortOption) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	newest := func(a, b Item) bool { return a.AddedAt > b.AddedAt }

	var less func(a, b Item) bool
	switch opt {
	case SortByTitle:
		less = func(a, b Item) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByRating:
		less = func(a, b Item) bool {
			switch {
			case a.Rating == nil && b.Rating == nil:
				return newest(a, b)
			case a.Rating == nil:
				return false
			case b.Rating == nil:
				return true
			case *a.Rating != *b.Rating:
				return *a.Rating > *b.Rating
			}
			return newest(a, b)
		}
	case SortByCompleted:
		less = func(a, b Item) bool {
			if a.Completed != b.Completed {
				return !a.Completed
			}
			return newest(a, b)
		}
	default:
		less = newest
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
