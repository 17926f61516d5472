package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB stops satisfying BookmarkRepository, the build fails here.
var _ repository.BookmarkRepository = (*DB)(nil)

// List returns the caller's bookmarks, oldest first.
//
// opts.Columns is accepted for parity with the remote store; every column is
// always read here because a local row is cheap and the caller only reads the
// fields it asked for.
func (db *DB) List(ctx context.Context, caller repository.Caller, _ repository.ListOptions) ([]model.Bookmark, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, subreddit, url, idea
		 FROM bookmarks
		 WHERE user_id = ?
		 ORDER BY created_at ASC, rowid ASC`,
		caller.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookmarks: %w", err)
	}
	// ALWAYS close rows: an unclosed *sql.Rows holds a connection forever.
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Subreddit, &b.URL, &b.Idea); err != nil {
			return nil, fmt.Errorf("sqlite: scanning bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Create inserts b owned by caller.
//
// IDs are random UUIDs, the same shape the remote table generates, so the
// PATCH route's UUID check works against both stores.
func (db *DB) Create(ctx context.Context, caller repository.Caller, b *model.Bookmark) error {
	b.ID = uuid.NewString()
	b.UserID = caller.UserID

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO bookmarks (id, user_id, title, subreddit, url, idea)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Subreddit, b.URL, b.Idea,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating bookmark: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch to the caller's bookmark.
//
// The SET clause is built from a fixed list of column names, never from
// user input; values still go through ? placeholders.
func (db *DB) Update(ctx context.Context, caller repository.Caller, id string, patch model.BookmarkPatch) error {
	var sets []string
	var args []any

	add := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	add("title", patch.Title)
	add("subreddit", patch.Subreddit)
	add("url", patch.URL)
	add("idea", patch.Idea)

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, caller.UserID)
	query := `UPDATE bookmarks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: updating bookmark %s: %w", id, err)
	}
	return nil
}

// Delete removes the caller's bookmark. Another user's id matches no row.
func (db *DB) Delete(ctx context.Context, caller repository.Caller, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE id = ? AND user_id = ?`,
		id, caller.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bookmark %s: %w", id, err)
	}
	return nil
}
