package apierrors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Body {
	t.Helper()
	var b apierrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return b
}

func TestValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	apierrors.Validation(rec, "groupName", "Group name is required")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	b := decode(t, rec)
	if b.Error != "Group name is required" || b.Field != "groupName" {
		t.Errorf("body: got %+v", b)
	}
}

func TestDenied(t *testing.T) {
	tests := []struct {
		reason authz.Reason
		status int
	}{
		{authz.Forbidden, http.StatusForbidden},
		{authz.AlreadyMember, http.StatusBadRequest},
		{authz.OwnerCannotLeave, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			rec := httptest.NewRecorder()
			apierrors.Denied(rec, authz.Deny(tt.reason))
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestInvalid_KeepsField(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("decode: %w", &apierrors.ValidationError{Field: "dueDate", Message: "Due date is invalid"})
	apierrors.Invalid(rec, err)

	b := decode(t, rec)
	if b.Field != "dueDate" {
		t.Errorf("Field: got %q, want %q", b.Field, "dueDate")
	}
}

func TestLogStoreError(t *testing.T) {
	el := apierrors.NewErrorLogger(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/groups/x", nil)

	rec := httptest.NewRecorder()
	el.LogStoreError(rec, req, "load group", fmt.Errorf("wrap: %w", mongo.ErrNoDocuments), "Group")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing doc status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	if b := decode(t, rec); b.Error != "Group not found" {
		t.Errorf("missing doc body: got %q", b.Error)
	}

	rec = httptest.NewRecorder()
	el.LogStoreError(rec, req, "load group", errors.New("connection reset"), "Group")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("db failure status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if b := decode(t, rec); b.Error != apierrors.DatabaseMessage {
		t.Errorf("db failure body: got %q", b.Error)
	}
}
