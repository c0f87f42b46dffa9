package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/repository/firestore"
	"github.com/resq-lab/rollcall/pkg/repository/memory"
)

func runActivityRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put stores and List returns activities", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := model.NewActivity(types.NewActivityID())
		a.Title = "Flood Response"
		a.StartTime = time.Now().UTC().Truncate(time.Second)
		a.Participants["p1"] = &model.Participant{
			ID:             "p1",
			Firstname:      "Ada",
			Lastname:       "Lovelace",
			OrganizationID: "org-a",
			Timeline: []model.ParticipantUpdate{
				{Time: a.StartTime, OrganizationID: "org-a", Status: types.StatusSignedIn},
			},
		}

		gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

		listed, err := repo.Activity().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1).Required()

		got := listed[0]
		gt.Value(t, got.ID).Equal(a.ID)
		gt.Value(t, got.Title).Equal("Flood Response")
		gt.Value(t, got.Participants["p1"]).NotNil().Required()
		gt.Array(t, got.Participants["p1"].Timeline).Length(1)
		gt.Value(t, got.Participants["p1"].Timeline[0].Status).Equal(types.StatusSignedIn)
	})

	t.Run("Put overwrites existing activity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := model.NewActivity(types.NewActivityID())
		a.Title = "Before"
		gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

		a.Title = "After"
		gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

		listed, err := repo.Activity().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.Value(t, listed[0].Title).Equal("After")
	})

	t.Run("Delete removes activity and is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := model.NewActivity(types.NewActivityID())
		gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

		gt.NoError(t, repo.Activity().Delete(ctx, a.ID)).Required()
		gt.NoError(t, repo.Activity().Delete(ctx, a.ID)).Required()

		listed, err := repo.Activity().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(0)
	})

	t.Run("Put rejects empty activity ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.Error(t, repo.Activity().Put(ctx, &model.Activity{}))
	})
}

func TestActivityRepository_Memory(t *testing.T) {
	runActivityRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestActivityRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runActivityRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "",
			firestore.WithCollectionPrefix("test-"+time.Now().UTC().Format("20060102150405")+"-"))
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestMemoryListIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	a := model.NewActivity(types.NewActivityID())
	a.Title = "Original"
	gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

	// Mutating the listed copy must not leak into the store.
	listed, err := repo.Activity().List(ctx)
	gt.NoError(t, err).Required()
	listed[0].Title = "Mutated"

	again, err := repo.Activity().List(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, again[0].Title).Equal("Original")
}
