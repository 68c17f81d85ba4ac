package domain

import "time"

// List kinds. Each user owns one independent document per kind.
const (
	ListWatchlist = "watchlist"
	ListWatched   = "watched"
)

// ListEntry is one movie inside a user's list. The timestamp is stored as a
// serialized string so that documents written by older clients (or by hand)
// still unmarshal; At degrades to the zero time instead of failing.
type ListEntry struct {
	MovieID int    `json:"id" dynamodbav:"movie_id"`
	Title   string `json:"title" dynamodbav:"title"`
	Poster  string `json:"poster" dynamodbav:"poster"`
	AddedAt string `json:"addedAt" dynamodbav:"added_at"`
}

// At parses the entry timestamp. Unparseable values sort as the zero time.
func (e ListEntry) At() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, e.AddedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ListDocument is the whole list for one user. Movie ids are unique within
// Movies. Version backs the conditional rewrite: 0 means the document has
// never been written.
type ListDocument struct {
	UserID  string      `json:"user_id" dynamodbav:"user_id"`
	Movies  []ListEntry `json:"movies" dynamodbav:"movies"`
	Version int64       `json:"-" dynamodbav:"version"`
}
