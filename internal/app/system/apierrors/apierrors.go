// internal/app/system/apierrors/apierrors.go
//
// Package apierrors renders JSON error bodies of the form
//
//	{"error": "...", "field": "..."}
//
// and logs server-side failures with request context.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DatabaseMessage is the client-facing text for any persistence failure.
const DatabaseMessage = "A database error occurred."

// Body is the JSON error envelope.
type Body struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write writes a JSON error body with the given status.
func Write(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Body{Error: msg})
}

// Validation writes a 400 naming the offending field.
func Validation(w http.ResponseWriter, field, msg string) {
	WriteJSON(w, http.StatusBadRequest, Body{Error: msg, Field: field})
}

// BadRequest writes a 400 without a field.
func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, msg string) {
	Write(w, http.StatusUnauthorized, msg)
}

// NotFound writes a 404 "<entity> not found".
func NotFound(w http.ResponseWriter, entity string) {
	Write(w, http.StatusNotFound, entity+" not found")
}

// Denied writes the response for a denying policy decision. Membership-state
// reasons are the caller's mistake (400); everything else is 403.
func Denied(w http.ResponseWriter, d authz.Decision) {
	switch d.Reason {
	case authz.AlreadyMember, authz.OwnerCannotLeave:
		Write(w, http.StatusBadRequest, d.Message())
	default:
		Write(w, http.StatusForbidden, d.Message())
	}
}

// Invalid writes a 400 for err. A *ValidationError keeps its field.
func Invalid(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		Validation(w, ve.Field, ve.Message)
		return
	}
	BadRequest(w, err.Error())
}

// ErrorLogger logs failures with request id and route before responding.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			fs = append(fs, zap.String("route", p))
		}
	}
	return fs
}

// LogServerError logs err at error level and writes a 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Error(msg, e.fields(r, err)...)
	Write(w, http.StatusInternalServerError, userMsg)
}

// LogStoreError maps a repository error: mongo.ErrNoDocuments becomes a 404
// for entity, anything else is logged and becomes a 500 with DatabaseMessage.
func (e *ErrorLogger) LogStoreError(w http.ResponseWriter, r *http.Request, msg string, err error, entity string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		NotFound(w, entity)
		return
	}
	e.LogServerError(w, r, msg, err, DatabaseMessage)
}
