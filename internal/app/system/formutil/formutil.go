// Package formutil decodes and checks request input for the JSON handlers.
//
// Every helper reports bad input as an *apierrors.ValidationError so the
// caller can hand it straight to apierrors.Invalid:
//
//	var in createInput
//	if err := formutil.DecodeJSON(r, &in); err != nil {
//		apierrors.Invalid(w, err)
//		return
//	}
//	id, err := formutil.ObjectIDParam(r, "id")
//	if err != nil {
//		apierrors.Invalid(w, err)
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads r's body into dst. An empty body leaves dst untouched.
// Unknown fields are ignored, as the client sends whole form state.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &apierrors.ValidationError{
				Field:   typeErr.Field,
				Message: typeErr.Field + " has the wrong type",
			}
		}
		return &apierrors.ValidationError{Message: "Request body must be valid JSON"}
	}
	return nil
}

// Check runs the validate tags on v and returns the first failure.
func Check(v any) error {
	res := inputval.Validate(v)
	if !res.HasErrors() {
		return nil
	}
	return &apierrors.ValidationError{Field: res.FirstField(), Message: res.First()}
}

// ParseObjectID parses a hex id, naming field on failure.
func ParseObjectID(field, s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, &apierrors.ValidationError{
			Field:   field,
			Message: "Invalid " + field,
		}
	}
	return id, nil
}

// ObjectIDParam parses the chi URL parameter name as an ObjectID.
func ObjectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return ParseObjectID(name, chi.URLParam(r, name))
}

// OptionalObjectID parses s when it is non-blank. Blank yields nil.
func OptionalObjectID(field, s string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := ParseObjectID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// dateOnly is the calendar-date layout accepted alongside RFC 3339.
const dateOnly = "2006-01-02"

// ParseDue parses a due date given as RFC 3339 or YYYY-MM-DD (midnight UTC).
// Past dates are accepted.
func ParseDue(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &apierrors.ValidationError{
		Field:   field,
		Message: "Due date must be a date (YYYY-MM-DD) or RFC 3339 timestamp",
	}
}
