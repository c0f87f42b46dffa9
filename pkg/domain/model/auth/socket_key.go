package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SocketKey is a short-lived credential used to authenticate one
// websocket channel. Minted through the keepalive endpoint and
// presented as the hello payload.
type SocketKey struct {
	Key       string    `json:"key" masq:"secret"`
	Sub       string    `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewSocketKey mints a socket credential tied to the given identity.
func NewSocketKey(sub, email, name string, ttl time.Duration) *SocketKey {
	now := time.Now().UTC()
	return &SocketKey{
		Key:       uuid.NewString(),
		Sub:       sub,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Validate checks structural validity of the socket key.
func (x *SocketKey) Validate() error {
	if x.Key == "" {
		return goerr.New("socket key is empty")
	}
	if x.Sub == "" {
		return goerr.New("socket key subject is empty")
	}
	return nil
}

// Expired reports whether the key has passed its expiry.
func (x *SocketKey) Expired(now time.Time) bool {
	return !x.ExpiresAt.IsZero() && now.After(x.ExpiresAt)
}
