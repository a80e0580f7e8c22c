// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrMissingCredential: no "Authorization: Bearer <token>" header.
	ErrMissingCredential = errors.New("auth: no bearer credential")
	// ErrInvalidCredential: the token failed decoding or verification.
	ErrInvalidCredential = errors.New("auth: invalid credential")
)

// Mode says how strongly a Service checks tokens.
type Mode string

const (
	// ModeVerified checks signature, issuer, audience and expiry.
	ModeVerified Mode = "verified"
	// ModeUnverified decodes claims without checking the signature.
	// Only for local development against an emulator.
	ModeUnverified Mode = "unverified"
)

// Verifier turns a raw bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Principal, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-Principal helper                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentPrincipalKey ctxKey = "currentPrincipal"

// CurrentPrincipal returns the principal & “found?” flag.
func CurrentPrincipal(r *http.Request) (models.Principal, bool) {
	p, ok := r.Context().Value(currentPrincipalKey).(models.Principal)
	return p, ok
}

func withPrincipal(r *http.Request, p models.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentPrincipalKey, p))
}

// WithTestPrincipal injects p into the request context, bypassing token
// verification. For handler tests.
func WithTestPrincipal(r *http.Request, p models.Principal) *http.Request {
	return withPrincipal(r, p)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrMissingCredential
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", ErrMissingCredential
	}
	return tok, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Service                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Config selects and configures the verifier.
type Config struct {
	ProjectID       string       // Firebase project id; enables ModeVerified
	CertsURL        string       // override for the x509 cert endpoint
	AllowUnverified bool         // permits ModeUnverified when ProjectID is empty
	HTTPClient      *http.Client // cert fetches; defaults to a 10s-timeout client
}

// Service authenticates requests. Build it once at startup and share it.
type Service struct {
	verifier  Verifier
	mode      Mode
	log       *zap.Logger
	onFailure func(reason string)
}

// NewService picks the verifier from cfg. A project id always selects
// verified mode. Without one, AllowUnverified must be set explicitly,
// otherwise construction fails.
func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	if pid := strings.TrimSpace(cfg.ProjectID); pid != "" {
		v := NewFirebaseVerifier(pid, cfg.CertsURL, cfg.HTTPClient)
		return NewServiceWithVerifier(v, ModeVerified, logger), nil
	}
	if !cfg.AllowUnverified {
		return nil, fmt.Errorf("auth: firebase project id is not set and unverified tokens are not allowed")
	}
	logger.Warn("auth running in UNVERIFIED mode: token signatures are NOT checked; never use this in production")
	return NewServiceWithVerifier(UnverifiedDecoder{}, ModeUnverified, logger), nil
}

// NewServiceWithVerifier wraps an existing verifier.
func NewServiceWithVerifier(v Verifier, mode Mode, logger *zap.Logger) *Service {
	return &Service{verifier: v, mode: mode, log: logger}
}

// Mode reports how tokens are checked.
func (s *Service) Mode() Mode { return s.mode }

// OnFailure registers fn to be called with a short reason ("missing" or
// "invalid") whenever a request is rejected.
func (s *Service) OnFailure(fn func(reason string)) { s.onFailure = fn }

// Authenticate verifies the Authorization header value.
func (s *Service) Authenticate(ctx context.Context, header string) (models.Principal, error) {
	tok, err := BearerToken(header)
	if err != nil {
		return models.Principal{}, err
	}
	p, err := s.verifier.Verify(ctx, tok)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return p, nil
}

// RequireBearer rejects requests without a valid bearer token with 401 and
// stores the Principal in the request context otherwise.
func (s *Service) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			s.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, withPrincipal(r, p))
	})
}

func (s *Service) reject(w http.ResponseWriter, r *http.Request, err error) {
	reason := "invalid"
	msg := "Invalid or expired token"
	switch {
	case errors.Is(err, ErrMissingCredential):
		reason = "missing"
		msg = "No token provided"
	case s.mode == ModeUnverified:
		msg = "Invalid token format"
	}
	s.log.Debug("bearer rejected",
		zap.String("reason", reason),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if s.onFailure != nil {
		s.onFailure(reason)
	}
	apierrors.Unauthorized(w, msg)
}
