package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/trendfinder/internal/apperror"
	"github.com/sakif/trendfinder/internal/auth"
	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
	"github.com/sakif/trendfinder/internal/service"
)

// BookmarkService is the subset of *service.BookmarkService the handler uses.
// Accepting an interface lets handler tests swap in a fake.
type BookmarkService interface {
	List(ctx context.Context, caller repository.Caller) ([]model.Bookmark, error)
	Create(ctx context.Context, caller repository.Caller, in service.CreateBookmarkInput) (*model.Bookmark, error)
	Update(ctx context.Context, caller repository.Caller, id string, patch model.BookmarkPatch) error
	Delete(ctx context.Context, caller repository.Caller, id string) error
}

// BookmarkHandler serves the bookmark CRUD routes.
type BookmarkHandler struct {
	service BookmarkService
	logger  *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(svc BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: svc, logger: logger}
}

// CreateResponse is returned after a bookmark is stored.
type CreateResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ListResponse wraps the caller's bookmarks.
type ListResponse struct {
	Bookmarks []model.Bookmark `json:"bookmarks"`
}

// HandleCreate saves a bookmark for the caller.
//
// HTTP: POST /bookmark
// REQUEST BODY: {"title": "...", "url": "...", "subreddit": "...", "idea": "..."}
//
// Any user_id in the body is ignored: the decoder has nowhere to put it.
func (h *BookmarkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in service.CreateBookmarkInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	b, err := h.service.Create(r.Context(), caller, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateResponse{Message: "Bookmark saved!", ID: b.ID})
}

// HandleList returns every bookmark the caller owns.
//
// HTTP: GET /get_bookmarks
func (h *BookmarkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	bookmarks, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if bookmarks == nil {
		// Encode as [] rather than null.
		bookmarks = []model.Bookmark{}
	}

	writeJSON(w, http.StatusOK, ListResponse{Bookmarks: bookmarks})
}

// HandleDelete removes one of the caller's bookmarks.
//
// HTTP: DELETE /bookmark/{id}
//
// Deleting an id that doesn't exist (or belongs to someone else) still answers
// 200: the store filters by owner and reports nothing to delete, not an error.
func (h *BookmarkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Bookmark deleted."})
}

// HandleUpdate applies a partial update to one of the caller's bookmarks.
//
// HTTP: PATCH /bookmark/{id}/update
// REQUEST BODY: any of {"title", "subreddit", "url", "idea"}
//
// Only those four fields are forwarded. Unknown keys (including user_id and id)
// are dropped by the decoder.
func (h *BookmarkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var patch model.BookmarkPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Bookmark updated."})
}

// callerFrom builds the store Caller from the identity RequireAuth attached.
// A handler mounted without the gate fails closed with 401.
func callerFrom(r *http.Request) (repository.Caller, error) {
	id, err := callerIdentity(r)
	if err != nil {
		return repository.Caller{}, err
	}
	return repository.Caller{UserID: id.UserID, Token: id.Token}, nil
}

func callerIdentity(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, apperror.Unauthorized("valid authentication required")
	}
	return id, nil
}
