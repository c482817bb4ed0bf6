// Package session keeps the admin's login state in Valkey. A random ID
// travels in the signal_session cookie; the payload sits server-side as
// JSON under a TTL, so logging the author out everywhere is a key
// deletion away.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the browser-side half of a session.
	CookieName = "signal_session"

	// DefaultTTL bounds how long a login survives without a restart of
	// the TOTP challenge.
	DefaultTTL = 24 * time.Hour

	// sessionPrefix namespaces session keys next to the page cache in
	// the same Valkey instance.
	sessionPrefix = "session:"

	// idBytes of randomness per session ID (hex-encoded to 64 chars).
	idBytes = 32
)

// Data is the stored payload. A session exists from the moment the
// password check passes; TwoFADone stays false until the TOTP code is
// verified, and the admin middleware gates on it.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store reads and writes sessions against a single Valkey client.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. secure sets the cookie's Secure
// flag; production runs behind TLS, development does not.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// cookie builds the session cookie. HttpOnly always; the CSRF token
// has its own, script-readable cookie.
func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// Create stores a fresh session in Valkey and sets its cookie on the
// response. Returns the new session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, sessionPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return id, nil
}

// Get resolves the request's session cookie. A missing cookie or an
// expired key both mean "not logged in" and return (nil, nil); only a
// Valkey failure is an error.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, sessionPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Update rewrites the payload under the existing ID and refreshes the
// TTL. The login flow uses this to flip TwoFADone after the TOTP code
// checks out.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, sessionPrefix+cookie.Value, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy deletes the Valkey key and expires the cookie. Destroying a
// request without a session is a no-op, so logout never fails.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	s.client.Del(ctx, sessionPrefix+cookie.Value)
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

// newID draws a fresh random session identifier.
func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
