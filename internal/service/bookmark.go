// Package service contains the business rules of the API.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates input, scopes every call to the caller
//	Repository (data layer)  → talks to the bookmark store
//
// The services never see an *http.Request and never pick a status code.
// They return apperror values; handler.writeError turns those into HTTP.
//
// DEPENDENCY INJECTION:
// Every external collaborator (bookmark store, content API, text generator)
// arrives as an interface, so tests run against in-memory fakes.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/trendfinder/internal/apperror"
	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
)

// MaxTitleLength is Reddit's title cap, in characters. The `max=300` tags on
// the title fields below must stay equal to it.
const MaxTitleLength = 300

// CreateBookmarkInput is what a client may send to create a bookmark.
// Note there is no user id: ownership always comes from the verified token.
type CreateBookmarkInput struct {
	Title     string `json:"title" validate:"required,max=300"`
	URL       string `json:"url" validate:"required,max=2048"`
	Subreddit string `json:"subreddit" validate:"max=100"`
	Idea      string `json:"idea" validate:"max=10000"`
}

// patchInput validates a BookmarkPatch. Present fields may not be blank
// (except idea, which may be cleared); absent fields are skipped.
type patchInput struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Title     *string `json:"title" validate:"omitnil,min=1,max=300"`
	URL       *string `json:"url" validate:"omitnil,min=1,max=2048"`
	Subreddit *string `json:"subreddit" validate:"omitnil,max=100"`
	Idea      *string `json:"idea" validate:"omitnil,max=10000"`
}

// BookmarkService handles bookmark business logic.
type BookmarkService struct {
	repo     repository.BookmarkRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewBookmarkService creates a BookmarkService backed by repo.
func NewBookmarkService(repo repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		repo:     repo,
		validate: newValidator(),
		logger:   logger,
	}
}

// List returns every bookmark the caller owns.
func (s *BookmarkService) List(ctx context.Context, caller repository.Caller) ([]model.Bookmark, error) {
	bookmarks, err := s.repo.List(ctx, caller, repository.ListOptions{})
	if err != nil {
		s.logger.Error("failed to list bookmarks",
			slog.String("userID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return nil, upstream(err, "Failed to fetch")
	}
	return bookmarks, nil
}

// Create validates in and stores a bookmark owned by caller.
//
// Validation happens BEFORE the store is called: a request missing its
// title or url never produces an upstream call.
func (s *BookmarkService) Create(ctx context.Context, caller repository.Caller, in CreateBookmarkInput) (*model.Bookmark, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	in.Subreddit = strings.TrimSpace(in.Subreddit)

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err, "Missing title or url")
	}

	b := &model.Bookmark{
		UserID:    caller.UserID,
		Title:     in.Title,
		Subreddit: in.Subreddit,
		URL:       in.URL,
		Idea:      in.Idea,
	}

	if err := s.repo.Create(ctx, caller, b); err != nil {
		s.logger.Error("failed to create bookmark",
			slog.String("userID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return nil, upstream(err, "Failed to insert")
	}

	s.logger.Info("bookmark created",
		slog.String("id", b.ID),
		slog.String("userID", caller.UserID),
	)
	return b, nil
}

// Update applies patch to the caller's bookmark id.
// id must be a UUID and the patch must change at least one field.
func (s *BookmarkService) Update(ctx context.Context, caller repository.Caller, id string, patch model.BookmarkPatch) error {
	id = strings.TrimSpace(id)
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.URL != nil {
		u := strings.TrimSpace(*patch.URL)
		patch.URL = &u
	}

	in := patchInput{
		ID:        id,
		Title:     patch.Title,
		URL:       patch.URL,
		Subreddit: patch.Subreddit,
		Idea:      patch.Idea,
	}
	if err := s.validate.Struct(in); err != nil {
		return validationError(err, "Bookmark ID is required")
	}
	if patch.IsEmpty() {
		return apperror.ValidationFailed("body", "No updatable fields provided")
	}

	if err := s.repo.Update(ctx, caller, id, patch); err != nil {
		s.logger.Error("failed to update bookmark",
			slog.String("id", id),
			slog.String("userID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return upstream(err, "Failed to update.")
	}

	s.logger.Info("bookmark updated", slog.String("id", id), slog.String("userID", caller.UserID))
	return nil
}

// Delete removes the caller's bookmark id. The store filters by both id and
// owner, so an id belonging to someone else deletes nothing.
func (s *BookmarkService) Delete(ctx context.Context, caller repository.Caller, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "Bookmark ID is required")
	}

	if err := s.repo.Delete(ctx, caller, id); err != nil {
		s.logger.Error("failed to delete bookmark",
			slog.String("id", id),
			slog.String("userID", caller.UserID),
			slog.String("error", err.Error()),
		)
		return upstream(err, "Failed to delete.")
	}

	s.logger.Info("bookmark deleted", slog.String("id", id), slog.String("userID", caller.UserID))
	return nil
}
