package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/trendfinder/internal/model"
	"github.com/sakif/trendfinder/internal/repository"
)

// TrendingService is implemented by *service.TrendingService.
type TrendingService interface {
	Trending(ctx context.Context, caller repository.Caller, subreddit string) ([]model.Post, error)
}

// TrendingHandler serves the trending feed.
type TrendingHandler struct {
	service TrendingService
	logger  *slog.Logger
}

// NewTrendingHandler creates a new TrendingHandler.
func NewTrendingHandler(svc TrendingService, logger *slog.Logger) *TrendingHandler {
	return &TrendingHandler{service: svc, logger: logger}
}

// TrendingResponse wraps the annotated posts.
type TrendingResponse struct {
	Posts []model.Post `json:"posts"`
}

// HandleTrending returns the hot posts of a subreddit, each marked with
// whether the caller already bookmarked it.
//
// HTTP: GET /trending?subreddit=golang
func (h *TrendingHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	posts, err := h.service.Trending(r.Context(), caller, r.URL.Query().Get("subreddit"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}

	writeJSON(w, http.StatusOK, TrendingResponse{Posts: posts})
}
