package interfaces

import (
	"context"

	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Activity() ActivityRepository
	History() HistoryRepository

	// Session token methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	// Socket credential methods
	PutSocketKey(ctx context.Context, key *auth.SocketKey) error
	GetSocketKey(ctx context.Context, key string) (*auth.SocketKey, error)
	DeleteSocketKey(ctx context.Context, key string) error

	// FindSocketKeyBySub returns an unexpired socket key minted for the
	// given subject. Returns nil, nil if none exists.
	FindSocketKeyBySub(ctx context.Context, sub string) (*auth.SocketKey, error)

	Close() error
}
