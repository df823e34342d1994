package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/repositories"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errBadRequestBody = errors.New("invalid request body")

// errorBody is the shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// responder carries the response helpers shared by all controllers.
type responder struct {
	logger logging.Logger
}

func (rs responder) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Warn(context.Background(), "failed to encode response", "error", err)
	}
}

func (rs responder) sendError(w http.ResponseWriter, status int, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	rs.sendJSON(w, status, errorBody{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// fail maps err onto a status code and a message that is safe to show the
// client. Unexpected errors are logged and reported as a bare 500.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		rs.sendError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrUnauthenticated):
		rs.sendError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		rs.sendError(w, http.StatusForbidden, "You do not own this resource")
	case errors.Is(err, repositories.ErrNotFound):
		rs.sendError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, repositories.ErrEmailTaken):
		rs.sendError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, models.ErrValidation), errors.Is(err, errBadRequestBody):
		rs.sendError(w, http.StatusBadRequest, err.Error())
	default:
		rs.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		rs.sendError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields
// and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequestBody)
	}
	return nil
}

// NotFoundHandler answers unmatched routes with a JSON 404.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder{logger: logging.Discard()}.sendError(w, http.StatusNotFound, "Route not found")
	})
}

// MethodNotAllowedHandler answers a known route with the wrong method.
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder{logger: logging.Discard()}.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
