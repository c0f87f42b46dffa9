package manager_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/repository/memory"
	"github.com/resq-lab/rollcall/pkg/sync/manager"
)

type recordedBroadcast struct {
	act        action.Action
	reporterID types.ConnectionID
}

// fakeClient records broadcasts so tests can assert on fan-out.
type fakeClient struct {
	id types.ConnectionID

	mu        sync.Mutex
	received  []recordedBroadcast
	broadcast chan struct{}
}

func newFakeClient(id types.ConnectionID) *fakeClient {
	return &fakeClient{id: id, broadcast: make(chan struct{}, 16)}
}

func (c *fakeClient) ID() types.ConnectionID {
	return c.id
}

func (c *fakeClient) BroadcastAction(act action.Action, reporterID types.ConnectionID) {
	c.mu.Lock()
	c.received = append(c.received, recordedBroadcast{act: act, reporterID: reporterID})
	c.mu.Unlock()
	c.broadcast <- struct{}{}
}

func (c *fakeClient) last(t *testing.T) recordedBroadcast {
	t.Helper()
	select {
	case <-c.broadcast:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received[len(c.received)-1]
}

func startManager(t *testing.T, repo *memory.Repository) (*manager.Manager, context.Context) {
	t.Helper()

	mgr := manager.New(repo)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- mgr.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Error("manager did not stop")
		}
	})

	return mgr, ctx
}

func TestManagerLoadsStateOnStart(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	a := model.NewActivity(types.NewActivityID())
	a.Title = "Preexisting"
	gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

	mgr, _ := startManager(t, repo)

	state, err := mgr.StateForUser(ctx, auth.NewAnonymousUser())
	gt.NoError(t, err).Required()
	gt.Array(t, state.Activities).Length(1)
	gt.Value(t, state.Activities[0].Title).Equal("Preexisting")
}

func TestManagerSubmit(t *testing.T) {
	repo := memory.New()
	mgr, ctx := startManager(t, repo)

	reporter := newFakeClient(types.NewConnectionID())
	peer := newFakeClient(types.NewConnectionID())
	gt.NoError(t, mgr.AddClient(ctx, reporter)).Required()
	gt.NoError(t, mgr.AddClient(ctx, peer)).Required()

	identity := &auth.Token{Sub: "user-1", Email: "user1@example.com"}
	id := types.NewActivityID()
	act := action.Update(action.ActivityPatch{ID: id, Title: "New Mission"})

	gt.NoError(t, mgr.Submit(ctx, act, reporter.id, identity)).Required()

	t.Run("broadcasts to every client including the reporter", func(t *testing.T) {
		got := reporter.last(t)
		gt.Value(t, got.reporterID).Equal(reporter.id)

		fromPeer := peer.last(t)
		gt.Value(t, fromPeer.reporterID).Equal(reporter.id)

		p, ok := got.act.Payload.(action.UpdatePayload)
		gt.Bool(t, ok).True()
		gt.Value(t, p.Activity.Title).Equal("New Mission")
	})

	t.Run("clears the sync flag before rebroadcast", func(t *testing.T) {
		gt.Bool(t, act.Meta.Sync).True()

		peer.mu.Lock()
		defer peer.mu.Unlock()
		gt.Bool(t, peer.received[len(peer.received)-1].act.Meta.Sync).False()
	})

	t.Run("persists the changed activity", func(t *testing.T) {
		listed, err := repo.Activity().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(1)
		gt.Value(t, listed[0].Title).Equal("New Mission")
	})

	t.Run("appends an audit record with the submitter identity", func(t *testing.T) {
		records := repo.HistoryRecords()
		gt.Array(t, records).Length(1).Required()
		gt.Value(t, records[0].UserID).Equal("user-1")
		gt.Value(t, records[0].Email).Equal("user1@example.com")

		var env struct {
			Type string `json:"type"`
		}
		gt.NoError(t, json.Unmarshal([]byte(records[0].Action), &env)).Required()
		gt.Value(t, env.Type).Equal("update")
	})
}

func TestManagerSubmitDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	a := model.NewActivity(types.NewActivityID())
	gt.NoError(t, repo.Activity().Put(ctx, a)).Required()

	mgr, runCtx := startManager(t, repo)

	identity := auth.NewAnonymousUser()
	gt.NoError(t, mgr.Submit(runCtx, action.Remove(a.ID), "", identity)).Required()

	listed, err := repo.Activity().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(0)

	state, err := mgr.StateForUser(runCtx, identity)
	gt.NoError(t, err).Required()
	gt.Array(t, state.Activities).Length(0)
}

func TestManagerSubmitSequential(t *testing.T) {
	repo := memory.New()
	mgr, ctx := startManager(t, repo)

	identity := auth.NewAnonymousUser()
	id := types.NewActivityID()
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	gt.NoError(t, mgr.Submit(ctx, action.Update(action.ActivityPatch{ID: id, Title: "Mission"}), "", identity)).Required()
	gt.NoError(t, mgr.Submit(ctx, action.ParticipantUpdate(id, "p1", "Ada", "Lovelace", "org-a", now, types.StatusSignedIn), "", identity)).Required()
	gt.NoError(t, mgr.Submit(ctx, action.Complete(id, now.Add(time.Hour)), "", identity)).Required()

	state, err := mgr.StateForUser(ctx, identity)
	gt.NoError(t, err).Required()

	a := state.Find(id)
	gt.Value(t, a).NotNil().Required()
	gt.Bool(t, a.Completed()).True()
	gt.Value(t, a.Participants["p1"].Current().Status).Equal(types.StatusSignedOut)

	// The store saw every intermediate write; the final document matches
	// canonical state.
	listed, err := repo.Activity().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(1)
	gt.Bool(t, listed[0].Completed()).True()
}

func TestManagerStateForUserIsCopy(t *testing.T) {
	repo := memory.New()
	mgr, ctx := startManager(t, repo)

	identity := auth.NewAnonymousUser()
	id := types.NewActivityID()
	gt.NoError(t, mgr.Submit(ctx, action.Update(action.ActivityPatch{ID: id, Title: "Original"}), "", identity)).Required()

	state, err := mgr.StateForUser(ctx, identity)
	gt.NoError(t, err).Required()
	state.Find(id).Title = "Mutated"

	again, err := mgr.StateForUser(ctx, identity)
	gt.NoError(t, err).Required()
	gt.Value(t, again.Find(id).Title).Equal("Original")
}

func TestManagerRemoveClientStopsBroadcast(t *testing.T) {
	repo := memory.New()
	mgr, ctx := startManager(t, repo)

	client := newFakeClient(types.NewConnectionID())
	gt.NoError(t, mgr.AddClient(ctx, client)).Required()
	gt.NoError(t, mgr.RemoveClient(ctx, client.id)).Required()

	gt.NoError(t, mgr.Submit(ctx, action.Update(action.ActivityPatch{ID: types.NewActivityID()}), "", auth.NewAnonymousUser())).Required()

	select {
	case <-client.broadcast:
		t.Error("removed client still received a broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}
