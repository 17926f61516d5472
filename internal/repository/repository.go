// Package repository defines the bookmark store capability.
//
// REPOSITORY PATTERN:
// The service layer talks to this interface, never to a concrete store.
// Two implementations exist:
//   - postgrest: the production store (Supabase's REST interface)
//   - sqlite:    an embedded file for offline development and tests
//
// CALLER, NOT USER ID:
// Every method takes a Caller rather than a bare user id. The remote store
// needs the caller's own token so its row-level security applies with the
// caller's rights; the local store only needs the id. Both MUST filter
// every statement by Caller.UserID.
package repository

import (
	"context"

	"github.com/sakif/trendfinder/internal/model"
)

// Caller identifies who a store call is made on behalf of.
type Caller struct {
	UserID string
	Token  string
}

// ListOptions controls which columns List returns.
// An empty Columns slice means every column.
type ListOptions struct {
	Columns []string
}

type BookmarkRepository interface {
	// List returns the caller's bookmarks.
	List(ctx context.Context, caller Caller, opts ListOptions) ([]model.Bookmark, error)
	// Create inserts b owned by caller and fills in b.ID.
	Create(ctx context.Context, caller Caller, b *model.Bookmark) error
	// Update applies patch to the caller's bookmark with the given id.
	// A non-matching id is not an error; nothing is changed.
	Update(ctx context.Context, caller Caller, id string, patch model.BookmarkPatch) error
	// Delete removes the caller's bookmark with the given id.
	// A non-matching id (including another user's bookmark) is not an error.
	Delete(ctx context.Context, caller Caller, id string) error
}
