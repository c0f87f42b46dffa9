package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	tokensCollection     = "tokens"
	socketAuthCollection = "socketAuth"
)

func (r *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	docRef := r.client.Collection(r.collectionPrefix + tokensCollection).Doc(token.ID.String())
	if _, err := docRef.Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put token to firestore")
	}

	return nil
}

func (r *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	docRef := r.client.Collection(r.collectionPrefix + tokensCollection).Doc(tokenID.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, goerr.Wrap(err, "failed to get token from firestore")
	}

	var token auth.Token
	if err := doc.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token")
	}

	return &token, nil
}

func (r *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	docRef := r.client.Collection(r.collectionPrefix + tokensCollection).Doc(tokenID.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return goerr.Wrap(err, "failed to get token from firestore")
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token from firestore")
	}

	return nil
}

func (r *Firestore) PutSocketKey(ctx context.Context, key *auth.SocketKey) error {
	if err := key.Validate(); err != nil {
		return goerr.Wrap(err, "invalid socket key")
	}

	docRef := r.client.Collection(r.collectionPrefix + socketAuthCollection).Doc(key.Key)
	if _, err := docRef.Set(ctx, key); err != nil {
		return goerr.Wrap(err, "failed to put socket key to firestore")
	}

	return nil
}

func (r *Firestore) GetSocketKey(ctx context.Context, key string) (*auth.SocketKey, error) {
	if key == "" {
		return nil, goerr.New("socket key is empty")
	}

	docRef := r.client.Collection(r.collectionPrefix + socketAuthCollection).Doc(key)
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, goerr.Wrap(err, "failed to get socket key from firestore")
	}

	var sk auth.SocketKey
	if err := doc.DataTo(&sk); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal socket key")
	}

	return &sk, nil
}

func (r *Firestore) DeleteSocketKey(ctx context.Context, key string) error {
	if key == "" {
		return goerr.New("socket key is empty")
	}

	docRef := r.client.Collection(r.collectionPrefix + socketAuthCollection).Doc(key)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return goerr.Wrap(err, "failed to get socket key from firestore")
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete socket key from firestore")
	}

	return nil
}

func (r *Firestore) FindSocketKeyBySub(ctx context.Context, sub string) (*auth.SocketKey, error) {
	if sub == "" {
		return nil, goerr.New("subject is empty")
	}

	iter := r.client.Collection(r.collectionPrefix + socketAuthCollection).
		Where("Sub", "==", sub).
		Where("ExpiresAt", ">", time.Now().UTC()).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query socket keys", goerr.V("sub", sub))
	}

	var sk auth.SocketKey
	if err := doc.DataTo(&sk); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal socket key")
	}

	return &sk, nil
}
