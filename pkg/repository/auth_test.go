package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/repository/firestore"
	"github.com/resq-lab/rollcall/pkg/repository/memory"
)

func runAuthRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository, notFound error) {
	t.Helper()

	t.Run("token put, get, delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-1", "user1@example.com", "User One", time.Hour)
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		got, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(token.ID)
		gt.Value(t, got.Secret).Equal(token.Secret)
		gt.Value(t, got.Sub).Equal("user-1")

		gt.NoError(t, repo.DeleteToken(ctx, token.ID)).Required()

		_, err = repo.GetToken(ctx, token.ID)
		gt.Bool(t, errors.Is(err, notFound)).True()
	})

	t.Run("delete of unknown token reports not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.DeleteToken(ctx, auth.NewTokenID())
		gt.Bool(t, errors.Is(err, notFound)).True()
	})

	t.Run("socket key put, get, delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		key := auth.NewSocketKey("user-1", "user1@example.com", "User One", time.Hour)
		gt.NoError(t, repo.PutSocketKey(ctx, key)).Required()

		got, err := repo.GetSocketKey(ctx, key.Key)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Sub).Equal("user-1")

		gt.NoError(t, repo.DeleteSocketKey(ctx, key.Key)).Required()

		_, err = repo.GetSocketKey(ctx, key.Key)
		gt.Bool(t, errors.Is(err, notFound)).True()
	})

	t.Run("FindSocketKeyBySub returns unexpired key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		key := auth.NewSocketKey("user-2", "user2@example.com", "User Two", time.Hour)
		gt.NoError(t, repo.PutSocketKey(ctx, key)).Required()

		found, err := repo.FindSocketKeyBySub(ctx, "user-2")
		gt.NoError(t, err).Required()
		gt.Value(t, found).NotNil().Required()
		gt.Value(t, found.Key).Equal(key.Key)
	})

	t.Run("FindSocketKeyBySub skips expired keys", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		expired := auth.NewSocketKey("user-3", "user3@example.com", "User Three", time.Hour)
		expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		gt.NoError(t, repo.PutSocketKey(ctx, expired)).Required()

		found, err := repo.FindSocketKeyBySub(ctx, "user-3")
		gt.NoError(t, err).Required()
		gt.Value(t, found).Nil()
	})

	t.Run("FindSocketKeyBySub returns nil for unknown subject", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		found, err := repo.FindSocketKeyBySub(ctx, "nobody")
		gt.NoError(t, err).Required()
		gt.Value(t, found).Nil()
	})
}

func TestAuthRepository_Memory(t *testing.T) {
	runAuthRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	}, memory.ErrNotFound)
}

func TestAuthRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runAuthRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test-"+time.Now().UTC().Format("20060102150405")+"-"))
		gt.NoError(t, err).Required()
		return repo
	}, firestore.ErrNotFound)
}
