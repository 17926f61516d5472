package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// IdeaService is implemented by *service.IdeaService.
type IdeaService interface {
	Generate(ctx context.Context, title string) (string, error)
}

// IdeaHandler serves idea generation.
type IdeaHandler struct {
	service IdeaService
	logger  *slog.Logger
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(svc IdeaService, logger *slog.Logger) *IdeaHandler {
	return &IdeaHandler{service: svc, logger: logger}
}

// IdeaRequest is the body of POST /generate_idea.
type IdeaRequest struct {
	Title string `json:"title"`
}

// IdeaResponse carries the generated text, unmodified.
type IdeaResponse struct {
	Idea string `json:"idea"`
}

// HandleGenerate asks the model for a content idea based on a post title.
//
// HTTP: POST /generate_idea
// REQUEST BODY: {"title": "..."}
func (h *IdeaHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	// The identity isn't used here, but the route is still gated.
	if _, err := callerFrom(r); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req IdeaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	idea, err := h.service.Generate(r.Context(), req.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, IdeaResponse{Idea: idea})
}
