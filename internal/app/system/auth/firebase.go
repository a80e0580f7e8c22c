package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultCertsURL publishes the x509 certificates that sign Firebase ID tokens.
const DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const maxSubjectLen = 128

var (
	errNoKid      = errors.New("token header has no kid")
	errBadSubject = errors.New("token subject is empty or too long")
)

type firebaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// FirebaseVerifier checks Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	projectID string
	issuer    string
	keys      *keySet
	now       func() time.Time
}

// NewFirebaseVerifier builds a verifier for projectID. An empty certsURL
// uses DefaultCertsURL; a nil client gets a 10s timeout.
func NewFirebaseVerifier(projectID, certsURL string, client *http.Client) *FirebaseVerifier {
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	v := &FirebaseVerifier{
		projectID: projectID,
		issuer:    "https://securetoken.google.com/" + projectID,
		now:       time.Now,
	}
	v.keys = newKeySet(certsURL, client, func() time.Time { return v.now() })
	return v
}

// SetClock replaces the verifier's time source.
func (v *FirebaseVerifier) SetClock(now func() time.Time) { v.now = now }

// Verify checks signature (RS256, key chosen by kid), expiry, issued-at,
// audience, issuer and subject, then returns the Principal.
func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (models.Principal, error) {
	claims := &firebaseClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errNoKid
			}
			return v.keys.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(v.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return models.Principal{}, fmt.Errorf("verify id token: %w", err)
	}
	if claims.Subject == "" || len(claims.Subject) > maxSubjectLen {
		return models.Principal{}, errBadSubject
	}
	return models.Principal{
		ID:    models.PrincipalID(claims.Subject),
		Email: claims.Email,
	}, nil
}
