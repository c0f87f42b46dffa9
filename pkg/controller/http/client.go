package http

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/sync/wire"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// A zero time clears any pending read deadline on a gorilla conn.
var noDeadline = time.Time{}

// outboundBuffer bounds how many frames may queue for a slow client
// before the socket is considered dead and closed.
const outboundBuffer = 64

// socketClient is the manager-facing handle for one websocket. Frames
// go through a buffered channel drained by a dedicated writer goroutine
// so the manager's actor loop never blocks on a slow peer.
type socketClient struct {
	id     types.ConnectionID
	conn   *websocket.Conn
	sendCh chan wire.Message

	closeOnce sync.Once
	closed    chan struct{}
}

func newSocketClient(ctx context.Context, id types.ConnectionID, conn *websocket.Conn) *socketClient {
	c := &socketClient{
		id:     id,
		conn:   conn,
		sendCh: make(chan wire.Message, outboundBuffer),
		closed: make(chan struct{}),
	}
	go c.writeLoop(ctx)
	return c
}

func (c *socketClient) ID() types.ConnectionID {
	return c.id
}

// BroadcastAction queues an accepted action for delivery. Never blocks:
// if the outbound buffer is full the frame is dropped and the socket is
// closed, forcing the peer to reconnect and resync from a fresh reload.
func (c *socketClient) BroadcastAction(act action.Action, reporterID types.ConnectionID) {
	c.send(wire.BroadcastAction(act, reporterID))
}

func (c *socketClient) send(msg wire.Message) {
	select {
	case c.sendCh <- msg:
	case <-c.closed:
	default:
		logging.Default().Warn("outbound buffer full, closing socket",
			"connection_id", c.id,
			"type", msg.Type,
		)
		c.close()
	}
}

func (c *socketClient) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if err := c.conn.Close(); err != nil {
			logging.Default().Debug("socket close", "connection_id", c.id, "error", err)
		}
	})
}

func (c *socketClient) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case <-c.closed:
			return
		case msg := <-c.sendCh:
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.From(ctx).Info("socket write failed",
					"connection_id", c.id,
					"error", err,
				)
				c.close()
				return
			}
		}
	}
}
