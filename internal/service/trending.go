package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/trendfinder/internal/apperror"
	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/reddit"
	"github.com/sakif/trendfinder/internal/repository"
)

const (
	// DefaultSubreddit is used when the client doesn't name one.
	DefaultSubreddit = "popular"
	// TrendingLimit is how many hot posts we fetch per request.
	TrendingLimit = 5
)

// TrendingSource lists the hot posts of a subreddit in the upstream's order.
// *reddit.Client implements it.
type TrendingSource interface {
	Hot(ctx context.Context, subreddit string, limit int) ([]reddit.Listing, error)
}

// TrendingService returns trending posts annotated with the caller's bookmarks.
type TrendingService struct {
	repo   repository.BookmarkRepository
	source TrendingSource
	logger *slog.Logger
}

// NewTrendingService creates a TrendingService.
func NewTrendingService(repo repository.BookmarkRepository, source TrendingSource, logger *slog.Logger) *TrendingService {
	return &TrendingService{repo: repo, source: source, logger: logger}
}

// Trending fetches up to TrendingLimit hot posts from subreddit and marks the
// ones whose URL the caller has bookmarked.
//
// ORDER OF CALLS:
//  1. the caller's bookmarks (id,url only)
//  2. the subreddit's hot listing
//
// The first failure is reported; the posts are not fetched if the bookmarks
// can't be read, since we couldn't annotate them.
func (s *TrendingService) Trending(ctx context.Context, caller repository.Caller, subreddit string) ([]model.Post, error) {
	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		subreddit = DefaultSubreddit
	}

	bookmarks, err := s.repo.List(ctx, caller, repository.ListOptions{Columns: []string{"id", "url"}})
	if err != nil {
		s.logger.Error("failed to fetch bookmarks for trending",
			slog.String("userID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return nil, upstream(err, "Failed to fetch bookmarks")
	}

	// url → bookmark id. If a URL was bookmarked twice the later row wins.
	bookmarked := make(map[string]string, len(bookmarks))
	for _, b := range bookmarks {
		bookmarked[b.URL] = b.ID
	}

	listings, err := s.source.Hot(ctx, subreddit, TrendingLimit)
	if err != nil {
		s.logger.Error("failed to fetch trending posts",
			slog.String("subreddit", subreddit),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("Failed to fetch trending posts", err.Error())
	}

	return annotate(listings, subreddit, bookmarked), nil
}

// annotate converts listings to Posts, setting IsBookmarked and BookmarkID
// exactly when the post URL is in bookmarked. Order is preserved.
func annotate(listings []reddit.Listing, subreddit string, bookmarked map[string]string) []model.Post {
	posts := make([]model.Post, 0, len(listings))
	for _, l := range listings {
		p := model.Post{
			Title:     l.Title,
			URL:       l.URL,
			Subreddit: subreddit,
			Score:     l.Score,
			Idea:      "",
		}
		if id, ok := bookmarked[l.URL]; ok {
			p.IsBookmarked = true
			p.BookmarkID = &id
		}
		posts = append(posts, p)
	}
	return posts
}
