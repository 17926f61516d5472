// Package model holds the shapes that travel between the API, the services
// and the bookmark store.
package model

// Bookmark is a post a user saved, together with the content idea they kept for it.
//
// Rows live in the external data store (a "bookmarks" table behind PostgREST).
// This service never owns them; it relays reads and writes scoped by UserID.
//
// The `json:"..."` tags match the column names of the upstream table, so the
// same struct decodes PostgREST rows and encodes our API responses.
type Bookmark struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	URL       string `json:"url"`
	Idea      string `json:"idea"`
}

// BookmarkPatch is a partial update. A nil field means "leave unchanged".
//
// WHY POINTERS?
// With plain strings we couldn't tell "not sent" from "set to empty".
// With omitempty on a pointer, only the fields the client sent are encoded,
// which is exactly the PATCH body PostgREST expects.
//
// There is deliberately no ID or UserID here: ownership cannot be patched.
type BookmarkPatch struct {
	Title     *string `json:"title,omitempty"`
	Subreddit *string `json:"subreddit,omitempty"`
	URL       *string `json:"url,omitempty"`
	Idea      *string `json:"idea,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p BookmarkPatch) IsEmpty() bool {
	return p.Title == nil && p.Subreddit == nil && p.URL == nil && p.Idea == nil
}
