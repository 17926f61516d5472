package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/reddit"
	"github.com/sakif/trendfinder/internal/repository"
)

// =========================================================================
// FAKE REPOSITORY
// =========================================================================
//
// fakeRepo stores bookmarks in memory and applies the same owner scoping as
// the real stores. It also counts calls so tests can assert that a rejected
// request never reached the store.

type fakeRepo struct {
	rows   []model.Bookmark
	nextID int
	calls  int

	lastCaller repository.Caller
	lastOpts   repository.ListOptions

	// err, when set, is returned by every method.
	err error
}

func (f *fakeRepo) List(_ context.Context, caller repository.Caller, opts repository.ListOptions) ([]model.Bookmark, error) {
	f.calls++
	f.lastCaller, f.lastOpts = caller, opts
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Bookmark{}
	for _, b := range f.rows {
		if b.UserID == caller.UserID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, caller repository.Caller, b *model.Bookmark) error {
	f.calls++
	f.lastCaller = caller
	if f.err != nil {
		return f.err
	}
	f.nextID++
	b.ID = fmt.Sprintf("bm-%d", f.nextID)
	b.UserID = caller.UserID
	f.rows = append(f.rows, *b)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, caller repository.Caller, id string, patch model.BookmarkPatch) error {
	f.calls++
	f.lastCaller = caller
	if f.err != nil {
		return f.err
	}
	for i := range f.rows {
		b := &f.rows[i]
		if b.ID != id || b.UserID != caller.UserID {
			continue
		}
		if patch.Title != nil {
			b.Title = *patch.Title
		}
		if patch.Subreddit != nil {
			b.Subreddit = *patch.Subreddit
		}
		if patch.URL != nil {
			b.URL = *patch.URL
		}
		if patch.Idea != nil {
			b.Idea = *patch.Idea
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, caller repository.Caller, id string) error {
	f.calls++
	f.lastCaller = caller
	if f.err != nil {
		return f.err
	}
	kept := f.rows[:0]
	for _, b := range f.rows {
		if b.ID == id && b.UserID == caller.UserID {
			continue
		}
		kept = append(kept, b)
	}
	f.rows = kept
	return nil
}

// =========================================================================
// FAKE TRENDING SOURCE AND GENERATOR
// =========================================================================

type fakeSource struct {
	listings  []reddit.Listing
	err       error
	calls     int
	subreddit string
	limit     int
}

func (f *fakeSource) Hot(_ context.Context, subreddit string, limit int) ([]reddit.Listing, error) {
	f.calls++
	f.subreddit, f.limit = subreddit, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

type fakeGenerator struct {
	text  string
	err   error
	calls int
	title string
}

func (f *fakeGenerator) Generate(_ context.Context, title string) (string, error) {
	f.calls++
	f.title = title
	return f.text, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var (
	alice = repository.Caller{UserID: "user-alice", Token: "alice-token"}
	bob   = repository.Caller{UserID: "user-bob", Token: "bob-token"}
)
