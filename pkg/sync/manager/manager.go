// Package manager holds the authoritative copy of ActivityState. A
// single actor goroutine owns the state; every entry point is a message
// to that goroutine, so actions from all clients are totally ordered by
// arrival and the reducer for action n always sees the result of
// action n-1. There are no locks around canonical state and no parallel
// writer.
package manager

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/reducer"
	"github.com/resq-lab/rollcall/pkg/utils/errutil"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

// Client is a broadcast target for one connected agent.
type Client interface {
	ID() types.ConnectionID

	// BroadcastAction delivers an accepted action. Implementations must
	// not block the caller; the manager invokes this from its actor
	// goroutine.
	BroadcastAction(act action.Action, reporterID types.ConnectionID)
}

type Manager struct {
	repo     interfaces.Repository
	state    *model.ActivityState
	clients  map[types.ConnectionID]Client
	commands chan func(ctx context.Context)
}

func New(repo interfaces.Repository) *Manager {
	return &Manager{
		repo:     repo,
		clients:  make(map[types.ConnectionID]Client),
		commands: make(chan func(ctx context.Context)),
	}
}

// Run loads canonical state and processes commands until the context is
// canceled. All other methods block until the actor picks up their
// command, so Run must be started before they are called.
func (m *Manager) Run(ctx context.Context) error {
	activities, err := m.repo.Activity().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load activities")
	}
	m.state = &model.ActivityState{Activities: activities}

	logging.From(ctx).Info("state manager started", "activities", len(activities))

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-m.commands:
			cmd(ctx)
		}
	}
}

func (m *Manager) do(ctx context.Context, fn func(ctx context.Context)) error {
	done := make(chan struct{})
	cmd := func(actorCtx context.Context) {
		defer close(done)
		fn(actorCtx)
	}

	select {
	case m.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddClient registers a broadcast target. Re-adding the same connection
// ID replaces the handle.
func (m *Manager) AddClient(ctx context.Context, c Client) error {
	return m.do(ctx, func(context.Context) {
		m.clients[c.ID()] = c
	})
}

// RemoveClient unregisters a broadcast target. Unknown IDs are ignored.
func (m *Manager) RemoveClient(ctx context.Context, id types.ConnectionID) error {
	return m.do(ctx, func(context.Context) {
		delete(m.clients, id)
	})
}

// StateForUser returns a deep copy of the full canonical state. The
// identity is accepted for interface symmetry; no per-tenant filtering
// happens at this layer.
func (m *Manager) StateForUser(ctx context.Context, identity *auth.Token) (*model.ActivityState, error) {
	var state *model.ActivityState
	if err := m.do(ctx, func(context.Context) {
		state = m.state.Clone()
	}); err != nil {
		return nil, err
	}
	return state, nil
}

// Submit replays an incoming action against canonical state, persists
// the resulting document diff, appends an audit record, and rebroadcasts
// the action to every registered client, including the reporter's own
// handle. Echo de-duplication is the agent's job.
func (m *Manager) Submit(ctx context.Context, act action.Action, reporterID types.ConnectionID, identity *auth.Token) error {
	return m.do(ctx, func(actorCtx context.Context) {
		m.handleAction(actorCtx, act, reporterID, identity)
	})
}

func (m *Manager) handleAction(ctx context.Context, act action.Action, reporterID types.ConnectionID, identity *auth.Token) {
	prev := m.state
	next := prev.Clone()
	reducer.Apply(next, act)
	m.state = next

	m.appendHistory(ctx, act, identity)

	// Canonical state is already ahead of the store if a write fails
	// below. Accepted: eventually persisted, not transactionally
	// persisted. No rollback.
	m.persistDiff(ctx, prev, next)

	act.Meta.Sync = false
	for _, c := range m.clients {
		c.BroadcastAction(act, reporterID)
	}
}

// appendHistory writes the audit record unconditionally, before any
// validation of the identity against the action's target.
func (m *Manager) appendHistory(ctx context.Context, act action.Action, identity *auth.Token) {
	raw, err := json.Marshal(act)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to marshal action for history")
		return
	}

	record := &model.HistoryRecord{
		Action: string(raw),
		Time:   time.Now().UTC(),
	}
	if identity != nil {
		record.UserID = identity.Sub
		record.Email = identity.Email
	}

	if err := m.repo.History().Append(ctx, record); err != nil {
		_ = errutil.Handle(ctx, err, "failed to append history record")
	}
}

func (m *Manager) persistDiff(ctx context.Context, prev, next *model.ActivityState) {
	prevByID := prev.ByID()
	nextByID := next.ByID()

	for id, a := range nextByID {
		old, ok := prevByID[id]
		if ok && reflect.DeepEqual(old, a) {
			continue
		}
		if err := m.repo.Activity().Put(ctx, a); err != nil {
			_ = errutil.Handle(ctx, err, "failed to persist activity")
		}
	}

	for id := range prevByID {
		if _, ok := nextByID[id]; ok {
			continue
		}
		if err := m.repo.Activity().Delete(ctx, id); err != nil {
			_ = errutil.Handle(ctx, err, "failed to delete activity")
		}
	}
}
