package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"error": "validation_error", "message": "Missing title or url"}
//
// Upstream failures also carry the raw body the upstream sent back, so the
// client can see why PostgREST or the model refused:
//   {"error": "upstream_error", "message": "Failed to insert", "details": "..."}

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/trendfinder/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`             // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`           // Human-readable description
	Details string `json:"details,omitempty"` // Upstream body, upstream_error only
	Ref     string `json:"ref,omitempty"`     // Log reference, internal_error only
}

// MessageResponse is the body of every success answer that only says what happened.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code go out BEFORE the body. Once Encode writes,
// later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrUnauthorized → 401 unauthorized
//	apperror.ErrValidation   → 400 validation_error
//	apperror.ErrNotFound     → 404 not_found
//	apperror.ErrUpstream     → 500 upstream_error (with details)
//	anything else            → 500 internal_error
//
// An unknown error is never echoed to the client: its text may contain hosts,
// file paths or tokens. Instead we log it under a fresh xid and return only
// the reference, so an operator can grep the logs for it.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		resp := ErrorResponse{Error: "internal_error", Message: appErr.Message}

		switch {
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			resp.Error = "unauthorized"
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			resp.Error = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			resp.Error = "not_found"
		case errors.Is(err, apperror.ErrUpstream):
			resp.Error = "upstream_error"
			resp.Details = appErr.Details
		}

		writeJSON(w, status, resp)
		return
	}

	ref := xid.New().String()
	logger.Error("unhandled error",
		slog.String("ref", ref),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
		Ref:     ref,
	})
}

// decodeJSON reads a single JSON object from the request body into dst.
// An empty body decodes as {} so the service reports the missing field;
// a malformed body becomes a validation error so it answers 400.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return nil
}

// maxBodyBytes caps request bodies. A bookmark with a long idea fits easily.
const maxBodyBytes = 1 << 20
