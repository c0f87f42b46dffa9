// Package agent implements the per-connection client side of the sync
// protocol: a local replica of ActivityState with optimistic apply, a
// restart-durable cache, and a reconnecting channel session. Local
// apply is synchronous and immediate; network submission and broadcast
// application are independent asynchronous paths coordinated only by
// the reporterID equality check.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/reducer"
	"github.com/resq-lab/rollcall/pkg/sync/wire"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

// Cache is the restart-durable local store backing the replica, the
// localStorage analog. Load returns ok=false when nothing is cached.
type Cache interface {
	Load(ctx context.Context) (state *model.ActivityState, ok bool, err error)
	Save(ctx context.Context, state *model.ActivityState) error
}

// Conn is one open channel session. Send and Receive must preserve
// frame order.
type Conn interface {
	Send(msg wire.Message) error
	Receive() (wire.Message, error)
	Close() error
}

// Transport opens channel sessions. FetchKey hits the keepalive
// endpoint: it exchanges the session for a socket credential and, as a
// side effect, prods the server to restart a stale listener, so it
// doubles as the error-path ping.
type Transport interface {
	FetchKey(ctx context.Context) (string, error)
	Dial(ctx context.Context) (Conn, error)
}

type Agent struct {
	transport Transport
	cache     Cache

	mu        sync.Mutex
	replica   *model.ActivityState
	connID    types.ConnectionID
	conn      Conn
	connected bool

	retryInterval time.Duration
	onState       func(*model.ActivityState)
	onConnected   func(bool)
}

type Option func(*Agent)

// WithStateListener registers a callback invoked after every applied
// action with a copy of the replica. This is the UI's read path.
func WithStateListener(fn func(*model.ActivityState)) Option {
	return func(a *Agent) {
		a.onState = fn
	}
}

// WithConnectionListener registers a callback for connect/disconnect
// transitions, the UI's only failure signal.
func WithConnectionListener(fn func(bool)) Option {
	return func(a *Agent) {
		a.onConnected = fn
	}
}

// WithRetryInterval overrides the reconnect delay.
func WithRetryInterval(d time.Duration) Option {
	return func(a *Agent) {
		a.retryInterval = d
	}
}

func New(transport Transport, cache Cache, opts ...Option) *Agent {
	a := &Agent{
		transport:     transport,
		cache:         cache,
		replica:       &model.ActivityState{},
		retryInterval: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start primes the replica from the durable cache so the UI has state
// before the network is ready. Safe to call with an empty cache.
func (a *Agent) Start(ctx context.Context) error {
	cached, ok, err := a.cache.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load cached state")
	}
	if ok {
		a.apply(ctx, action.Reload(cached))
	}
	return nil
}

// Dispatch applies the action to the local replica immediately and, if
// the action is marked sync, forwards it to the server tagged with this
// agent's connection ID. Forwarding is fire-and-forget.
func (a *Agent) Dispatch(ctx context.Context, act action.Action) {
	a.apply(ctx, act)

	if !act.Meta.Sync {
		return
	}

	a.mu.Lock()
	conn := a.conn
	connID := a.connID
	a.mu.Unlock()

	if conn == nil {
		logging.From(ctx).Warn("dropping sync action while disconnected", "kind", act.Payload.Kind())
		return
	}

	if err := conn.Send(wire.ReportAction(act, connID)); err != nil {
		logging.From(ctx).Error("failed to report action", "kind", act.Payload.Kind(), "error", err)
	}
}

// State returns a deep copy of the local replica.
func (a *Agent) State() *model.ActivityState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.replica.Clone()
}

// Connected reports whether the channel session is established.
func (a *Agent) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// ConnectionID returns the server-assigned connection ID of the current
// session, or empty when disconnected.
func (a *Agent) ConnectionID() types.ConnectionID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connID
}

// apply runs the action through the reducer against the replica and
// persists the result to the durable cache on reload and update
// actions.
func (a *Agent) apply(ctx context.Context, act action.Action) {
	a.mu.Lock()
	reducer.Apply(a.replica, act)
	snapshot := a.replica.Clone()
	a.mu.Unlock()

	switch act.Payload.Kind() {
	case action.KindReload, action.KindUpdate:
		if err := a.cache.Save(ctx, snapshot); err != nil {
			logging.From(ctx).Error("failed to persist state cache", "error", err)
		}
	}

	if a.onState != nil {
		a.onState(snapshot)
	}
}

// Run maintains the channel session until the context is canceled.
// Every attempt restarts the full handshake: fresh credential, fresh
// hello. Retry is unbounded; a full resync on reconnect is always safe
// because reload replaces the replica wholesale.
func (a *Agent) Run(ctx context.Context) error {
	logger := logging.From(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := a.connectOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("channel session ended", "error", err)
		}

		a.setConnected(false)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.retryInterval):
		}
	}
}

func (a *Agent) connectOnce(ctx context.Context) error {
	key, err := a.transport.FetchKey(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch socket credential")
	}

	conn, err := a.transport.Dial(ctx)
	if err != nil {
		// The next FetchKey doubles as the keepalive ping that prompts
		// the server to restart a stale listener.
		return goerr.Wrap(err, "failed to dial channel")
	}
	defer conn.Close()

	if err := conn.Send(wire.Hello(key)); err != nil {
		return goerr.Wrap(err, "failed to send hello")
	}

	welcome, err := conn.Receive()
	if err != nil {
		return goerr.Wrap(err, "failed to receive welcome")
	}
	if welcome.Type != wire.TypeWelcome {
		return goerr.New("unexpected frame before welcome", goerr.V("type", welcome.Type))
	}

	a.mu.Lock()
	a.conn = conn
	a.connID = welcome.ConnectionID
	a.connected = true
	a.mu.Unlock()
	if a.onConnected != nil {
		a.onConnected(true)
	}

	logging.From(ctx).Info("channel connected", "connection_id", welcome.ConnectionID)

	return a.readLoop(ctx, conn)
}

func (a *Agent) readLoop(ctx context.Context, conn Conn) error {
	for {
		msg, err := conn.Receive()
		if err != nil {
			return goerr.Wrap(err, "channel receive failed")
		}

		switch msg.Type {
		case wire.TypeBroadcastAction:
			if msg.Action == nil {
				continue
			}
			// Suppress the echo of our own optimistic action.
			if msg.ReporterID != "" && msg.ReporterID == a.ConnectionID() {
				continue
			}
			a.apply(ctx, *msg.Action)
		default:
			logging.From(ctx).Warn("ignoring unexpected frame", "type", msg.Type)
		}
	}
}

func (a *Agent) setConnected(connected bool) {
	a.mu.Lock()
	changed := a.connected != connected
	a.connected = connected
	if !connected {
		a.conn = nil
		a.connID = ""
	}
	a.mu.Unlock()

	if changed && a.onConnected != nil {
		a.onConnected(connected)
	}
}
