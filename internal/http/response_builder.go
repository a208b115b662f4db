// Package http provides the JSON REST API.
//
// This file implements a small builder for JSON responses and the mapping
// from domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Maverick2506/Fintrack-backend/internal/advice"
	"github.com/Maverick2506/Fintrack-backend/internal/auth"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
)

// JSONResponseBuilder provides a fluent API for JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header sets a custom header on the response.
func (b *JSONResponseBuilder) Header(key, value string) *JSONResponseBuilder {
	b.headers[key] = value
	return b
}

// Send writes headers, status and body encoded as JSON.
func (b *JSONResponseBuilder) Send(w http.ResponseWriter, body any) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// SendError writes {"error": message}.
func (b *JSONResponseBuilder) SendError(w http.ResponseWriter, message string) {
	b.Send(w, ErrorBody{Error: message})
}

// NoContent writes a bodiless 204.
func (b *JSONResponseBuilder) NoContent(w http.ResponseWriter) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// errorStatus maps err to a status code and the message safe to show the client.
func errorStatus(err error) (int, string) {
	var (
		notFound   *core.NotFoundError
		validation *core.ValidationError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large."
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, advice.ErrNotConfigured):
		return http.StatusServiceUnavailable, advice.ErrNotConfigured.Error()
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// writeError logs server side failures and answers with the mapped status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, operation,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
	} else {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, operation,
			log.FieldStatusCode, status,
			log.FieldError, err.Error())
	}
	NewJSONResponse().Status(status).SendError(w, message)
}
