// Package handler contains the HTTP handlers.
//
// Each handler struct owns one area of the API and receives its service as
// an interface. Handlers decode requests, pull the caller out of the context
// and turn service results into JSON. They never call an upstream directly.
package handler

import (
	"log/slog"
	"net/http"
)

// RootHandler serves the unauthenticated banner and the token check.
type RootHandler struct {
	logger *slog.Logger
}

// NewRootHandler creates a new RootHandler.
func NewRootHandler(logger *slog.Logger) *RootHandler {
	return &RootHandler{logger: logger}
}

// ProtectedResponse echoes the verified identity back to the caller.
type ProtectedResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

// HandleRoot is the liveness banner.
//
// HTTP: GET /
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "TrendFinder API is live!"})
}

// HandleHealth is for load balancers; it touches no upstream.
//
// HTTP: GET /healthz
func (h *RootHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleProtected lets a client check that its token is accepted.
//
// HTTP: GET /protected
func (h *RootHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	id, err := callerIdentity(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ProtectedResponse{
		Message: "Token is valid",
		UserID:  id.UserID,
		Email:   id.Email,
	})
}
