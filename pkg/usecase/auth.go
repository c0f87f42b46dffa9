package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/repository/firestore"
	"github.com/resq-lab/rollcall/pkg/repository/memory"
)

// AuthUseCaseInterface is the session authentication surface used by
// the HTTP layer.
type AuthUseCaseInterface interface {
	IsNoAuthn() bool
	IssueToken(ctx context.Context, sub, email, name string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
}

const sessionTTL = 7 * 24 * time.Hour

// AuthUseCase validates opaque session token pairs against the token
// repository.
type AuthUseCase struct {
	repo interfaces.Repository
}

var _ AuthUseCaseInterface = &AuthUseCase{}

func NewAuthUseCase(repo interfaces.Repository) *AuthUseCase {
	return &AuthUseCase{repo: repo}
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// IssueToken creates and stores a session for an identity the caller
// has already verified.
func (uc *AuthUseCase) IssueToken(ctx context.Context, sub, email, name string) (*auth.Token, error) {
	token := auth.NewToken(sub, email, name, sessionTTL)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store session token")
	}
	return token, nil
}

// ValidateToken checks the ID/secret pair and expiry.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, goerr.Wrap(err, "failed to look up session token")
	}

	if subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) != 1 {
		return nil, ErrInvalidToken
	}
	if token.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}

	return token, nil
}

// Logout deletes the session. Deleting an already-gone token is not an
// error.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete session token")
	}
	return nil
}
