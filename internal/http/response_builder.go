// Package http serves the wallet JSON API.
//
// This file holds the fluent builder used for every JSON response so that
// success and error envelopes stay uniform across handlers.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sheetwallet/internal/auth"
	"sheetwallet/internal/core"
	applog "sheetwallet/internal/log"
)

// JSONResponseBuilder builds {"message", "data", "error"} envelopes.
type JSONResponseBuilder struct {
	statusCode int
	message    string
	data       any
	hasData    bool
	errText    string
	headers    map[string]string
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{statusCode: http.StatusOK, headers: make(map[string]string)}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Message(msg string) *JSONResponseBuilder {
	b.message = msg
	return b
}

// Data sets the payload. A nil slice is still sent, as [].
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	b.hasData = true
	return b
}

// Error attaches the cause of an internal failure.
func (b *JSONResponseBuilder) Error(err error) *JSONResponseBuilder {
	if err != nil {
		b.errText = err.Error()
	}
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body returns the envelope as it will be encoded.
func (b *JSONResponseBuilder) Body() map[string]any {
	body := make(map[string]any, 3)
	if b.message != "" {
		body["message"] = b.message
	}
	if b.hasData {
		body["data"] = b.data
	}
	if b.errText != "" {
		body["error"] = b.errText
	}
	return body
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	writeJSON(w, b.statusCode, b.headers, b.Body())
}

// writeJSON writes v as the response. Encoding failures can only be logged
// since the status line is already out.
func writeJSON(w http.ResponseWriter, status int, headers map[string]string, v any) {
	for name, value := range headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Message(message)
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnauthorizedError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func ConflictError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

func TooManyRequestsError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message)
}

// InternalServerError reports message to the client with err as the cause.
func InternalServerError(message string, err error) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message).Error(err)
}

// ErrorFor maps a service error to its response. fallback is the message
// used when err carries no client-facing text.
func ErrorFor(err error, fallback string) *JSONResponseBuilder {
	msg, ok := core.Message(err)
	if !ok {
		msg = fallback
	}
	switch {
	case errors.Is(err, core.ErrValidation):
		return BadRequestError(msg)
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError(msg)
	case errors.Is(err, core.ErrConflict):
		return ConflictError(msg)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return UnauthorizedError(auth.ErrInvalidCredentials.Error())
	default:
		return InternalServerError(fallback, err)
	}
}

// writeError logs unexpected failures and writes the mapped response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, op, fallback string) {
	resp := ErrorFor(err, fallback)
	if resp.statusCode >= http.StatusInternalServerError {
		s.events.LogError(r.Context(), fallback, err, op, applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", ""))
	}
	resp.Write(w)
}
