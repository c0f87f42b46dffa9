package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/repository/firestore"
	"github.com/resq-lab/rollcall/pkg/repository/memory"
)

const socketKeyTTL = 12 * time.Hour

// SocketAuthUseCase mints and validates the short-lived credentials
// that authenticate websocket channels.
type SocketAuthUseCase struct {
	repo interfaces.Repository
}

func NewSocketAuthUseCase(repo interfaces.Repository) *SocketAuthUseCase {
	return &SocketAuthUseCase{repo: repo}
}

// IssueKey returns an unexpired key already minted for the identity, or
// mints and stores a fresh one.
func (uc *SocketAuthUseCase) IssueKey(ctx context.Context, identity *auth.Token) (*auth.SocketKey, error) {
	if identity == nil {
		return nil, goerr.New("no identity for socket key")
	}

	existing, err := uc.repo.FindSocketKeyBySub(ctx, identity.Sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up socket key")
	}
	if existing != nil {
		return existing, nil
	}

	key := auth.NewSocketKey(identity.Sub, identity.Email, identity.Name, socketKeyTTL)
	if err := uc.repo.PutSocketKey(ctx, key); err != nil {
		return nil, goerr.Wrap(err, "failed to store socket key")
	}

	return key, nil
}

// ValidateKey resolves a hello credential to the identity that minted
// it.
func (uc *SocketAuthUseCase) ValidateKey(ctx context.Context, key string) (*auth.SocketKey, error) {
	sk, err := uc.repo.GetSocketKey(ctx, key)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			return nil, ErrInvalidSocketKey
		}
		return nil, goerr.Wrap(err, "failed to look up socket key")
	}

	if sk.Expired(time.Now().UTC()) {
		return nil, ErrSocketKeyExpired
	}

	return sk, nil
}
