package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minRefreshInterval spaces out refetches triggered by an unknown kid while
// the cached set is still fresh.
const minRefreshInterval = time.Minute

// keySet caches the public keys published at url, keyed by kid, until the
// response's Cache-Control max-age runs out. A kid missing from a fresh
// cache triggers at most one early refetch per minRefreshInterval, so keys
// rotated before max-age is reached are picked up.
type keySet struct {
	url    string
	client *http.Client
	now    func() time.Time

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
	fetched time.Time // start of the last fetch attempt
}

func newKeySet(url string, client *http.Client, now func() time.Time) *keySet {
	return &keySet{url: url, client: client, now: now}
}

func (k *keySet) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	pub, ok := k.keys[kid]
	fresh := k.now().Before(k.expires)
	k.mu.RUnlock()
	if fresh && ok {
		return pub, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	// Re-check under the write lock: another request may have refreshed.
	now := k.now()
	_, known := k.keys[kid]
	expired := !now.Before(k.expires)
	if expired || (!known && now.Sub(k.fetched) >= minRefreshInterval) {
		if err := k.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	pub, ok = k.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return pub, nil
}

func (k *keySet) refreshLocked(ctx context.Context) error {
	k.fetched = k.now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return fmt.Errorf("build cert request: %w", err)
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch certs: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decode certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemText := range certs {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemText))
		if err != nil {
			return fmt.Errorf("parse cert %q: %w", kid, err)
		}
		keys[kid] = pub
	}

	k.keys = keys
	k.expires = k.now().Add(maxAge(resp.Header.Get("Cache-Control")))
	return nil
}

// maxAge reads max-age from a Cache-Control header. Missing or malformed
// values give zero, so the next lookup fetches again.
func maxAge(cc string) time.Duration {
	for _, part := range strings.Split(cc, ",") {
		part = strings.TrimSpace(part)
		v, ok := strings.CutPrefix(part, "max-age=")
		if !ok {
			continue
		}
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	return 0
}
