package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.uber.org/zap"
)

// Principal returns a test principal for uid.
func Principal(uid string) models.Principal {
	return models.Principal{ID: models.PrincipalID(uid), Email: uid + "@test.com"}
}

// UIDVerifier accepts any non-blank token and treats it as the principal id.
// Tokens starting with "bad" are rejected.
type UIDVerifier struct{}

// Verify implements auth.Verifier.
func (UIDVerifier) Verify(_ context.Context, token string) (models.Principal, error) {
	if strings.HasPrefix(token, "bad") {
		return models.Principal{}, errors.New("rejected test token")
	}
	return Principal(token), nil
}

// AuthService returns a bearer service backed by UIDVerifier, so requests
// built with Bearer pass through the real middleware.
func AuthService() *auth.Service {
	return auth.NewServiceWithVerifier(UIDVerifier{}, auth.ModeVerified, zap.NewNop())
}

// Bearer sets an Authorization header carrying uid as the token.
func Bearer(r *http.Request, uid string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+uid)
	return r
}

// Serve runs req through h and returns the recorded response.
func Serve(h http.Handler, req *http.Request) *ResponseRecorder {
	rec := NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// NewJSONRequest creates a request with body encoded as JSON.
// A nil body sends no content.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, r.Body.String())
	}
}

// ErrorBody decodes a {"error","field"} response.
func (r *ResponseRecorder) ErrorBody(t *testing.T) (msg, field string) {
	t.Helper()
	var b struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	r.DecodeJSON(t, &b)
	return b.Error, b.Field
}
