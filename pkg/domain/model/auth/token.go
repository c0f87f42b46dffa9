package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID identifies a session token.
type TokenID string

func NewTokenID() TokenID {
	return TokenID(uuid.NewString())
}

func (x TokenID) String() string {
	return string(x)
}

func (x TokenID) Validate() error {
	if x == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// TokenSecret is the secret half of a session token pair.
type TokenSecret string

func NewTokenSecret() TokenSecret {
	return TokenSecret(uuid.NewString())
}

func (x TokenSecret) String() string {
	return string(x)
}

// Token is an authenticated session. ID and Secret travel as separate
// cookies; both must match for the session to validate.
type Token struct {
	ID        TokenID     `json:"id"`
	Secret    TokenSecret `json:"secret" masq:"secret"`
	Sub       string      `json:"sub"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// NewToken issues a fresh session token for the given identity.
func NewToken(sub, email, name string, ttl time.Duration) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        NewTokenID(),
		Secret:    NewTokenSecret(),
		Sub:       sub,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// NewAnonymousUser returns the fixed identity used in no-auth mode.
func NewAnonymousUser() *Token {
	return &Token{
		ID:     "anonymous",
		Sub:    "anonymous",
		Email:  "anonymous@localhost",
		Name:   "Anonymous",
		Secret: "",
	}
}

// Validate checks structural validity of the token.
func (x *Token) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return err
	}
	if x.Sub == "" {
		return goerr.New("token subject is empty", goerr.V("tokenID", x.ID))
	}
	return nil
}

// Expired reports whether the token has passed its expiry.
func (x *Token) Expired(now time.Time) bool {
	return !x.ExpiresAt.IsZero() && now.After(x.ExpiresAt)
}
