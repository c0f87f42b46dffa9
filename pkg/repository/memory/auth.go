package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
)

type tokenStore struct {
	mu     sync.RWMutex
	tokens map[auth.TokenID]*auth.Token
}

func newTokenStore() *tokenStore {
	return &tokenStore{
		tokens: make(map[auth.TokenID]*auth.Token),
	}
}

func (r *Repository) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	r.tokens.mu.Lock()
	defer r.tokens.mu.Unlock()

	r.tokens.tokens[token.ID] = token
	return nil
}

func (r *Repository) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	r.tokens.mu.RLock()
	defer r.tokens.mu.RUnlock()

	token, ok := r.tokens.tokens[tokenID]
	if !ok {
		return nil, ErrNotFound
	}

	return token, nil
}

func (r *Repository) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	r.tokens.mu.Lock()
	defer r.tokens.mu.Unlock()

	if _, ok := r.tokens.tokens[tokenID]; !ok {
		return ErrNotFound
	}

	delete(r.tokens.tokens, tokenID)
	return nil
}

type socketKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*auth.SocketKey
}

func newSocketKeyStore() *socketKeyStore {
	return &socketKeyStore{
		keys: make(map[string]*auth.SocketKey),
	}
}

func (r *Repository) PutSocketKey(ctx context.Context, key *auth.SocketKey) error {
	if err := key.Validate(); err != nil {
		return goerr.Wrap(err, "invalid socket key")
	}

	r.sockets.mu.Lock()
	defer r.sockets.mu.Unlock()

	r.sockets.keys[key.Key] = key
	return nil
}

func (r *Repository) GetSocketKey(ctx context.Context, key string) (*auth.SocketKey, error) {
	if key == "" {
		return nil, goerr.New("socket key is empty")
	}

	r.sockets.mu.RLock()
	defer r.sockets.mu.RUnlock()

	sk, ok := r.sockets.keys[key]
	if !ok {
		return nil, ErrNotFound
	}

	return sk, nil
}

func (r *Repository) DeleteSocketKey(ctx context.Context, key string) error {
	if key == "" {
		return goerr.New("socket key is empty")
	}

	r.sockets.mu.Lock()
	defer r.sockets.mu.Unlock()

	if _, ok := r.sockets.keys[key]; !ok {
		return ErrNotFound
	}

	delete(r.sockets.keys, key)
	return nil
}

func (r *Repository) FindSocketKeyBySub(ctx context.Context, sub string) (*auth.SocketKey, error) {
	if sub == "" {
		return nil, goerr.New("subject is empty")
	}

	r.sockets.mu.RLock()
	defer r.sockets.mu.RUnlock()

	now := time.Now().UTC()
	for _, sk := range r.sockets.keys {
		if sk.Sub == sub && !sk.Expired(now) {
			return sk, nil
		}
	}

	return nil, nil
}
