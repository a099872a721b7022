package model

import "time"

// DefaultCategories is the first-run category list, in display order.
func DefaultCategories() []CategoryDef {
	return []CategoryDef{
		{ID: "todo", Type: ToDo, Icon: "CheckSquare", Label: "To-Do", IsSystem: true},
		{ID: "movies", Type: Movies, Icon: "Film", Label: "Movies", IsSystem: true},
		{ID: "tv", Type: TVShows, Icon: "Tv", Label: "TV Shows", IsSystem: true},
		{ID: "music", Type: Music, Icon: "Music", Label: "Music Artists", IsSystem: true},
		{ID: "podcasts", Type: Podcasts, Icon: "Mic", Label: "Podcasts", IsSystem: true},
		{ID: "books", Type: Books, Icon: "Book", Label: "Books", IsSystem: true},
		{ID: "boardgames", Type: BoardGames, Icon: "Dices", Label: "Boardgames", IsSystem: true},
		{ID: "wines", Type: Wines, Icon: "Wine", Label: "Wines", IsSystem: true},
		{ID: "games", Type: Games, Icon: "Gamepad2", Label: "Games", IsSystem: true},
		{ID: "beers", Type: Beers, Icon: "Beer", Label: "Beers", IsSystem: true},
		{ID: "links", Type: Links, Icon: "LinkIcon", Label: "Links", IsSystem: true},
	}
}

// InitialItems is the first-run item list.
func InitialItems(now time.Time) []Item {
	ms := now.UnixMilli()
	return []Item{
		{
			ID:        "1",
			Category:  Movies,
			Title:     "Top Gun: Maverick",
			Subtitle:  "2022",
			Image:     "https://image.tmdb.org/t/p/w500/62HCnUTziyWcpDaBO2i1DX17dbH.jpg",
			AddedAt:   ms,
			Completed: true,
			Rating:    Ptr(9.0),
		},
		{
			ID:        "2",
			Category:  Movies,
			Title:     "Everything Everywhere All At Once",
			Subtitle:  "2022",
			Image:     "https://image.tmdb.org/t/p/w500/rKtDFPbfHfUbArZ6OOOKsXcv0Bm.jpg",
			AddedAt:   ms - 10000,
			Completed: true,
			Rating:    Ptr(10.0),
		},
		{
			ID:       "3",
			Category: Movies,
			Title:    "The Whale",
			Subtitle: "2022",
			Image:    "https://image.tmdb.org/t/p/w500/jQ0gylJMxWSL490sy0RrPj1Lj7e.jpg",
			AddedAt:  ms - 20000,
		},
		{
			ID:        "4",
			Category:  Books,
			Title:     "Project Hail Mary",
			Subtitle:  "Andy Weir",
			Image:     "https://books.google.com/books/content?id=zQAxEAAAQBAJ&printsec=frontcover&img=1&zoom=1&edge=curl&source=gbs_api",
			AddedAt:   ms,
			Completed: true,
		},
		{
			ID:       "5",
			Category: TVShows,
			Title:    "The Last of Us",
			Subtitle: "2023",
			Image:    "https://image.tmdb.org/t/p/w500/u3bZgnGQ9T01sWNhyve4z0w4T/uC6.jpg",
			AddedAt:  ms,
		},
	}
}
