package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/action"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/domain/types"
	"github.com/resq-lab/rollcall/pkg/sync/wire"
	"github.com/resq-lab/rollcall/pkg/usecase"
	"github.com/resq-lab/rollcall/pkg/utils/async"
	"github.com/resq-lab/rollcall/pkg/utils/errutil"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
	"github.com/resq-lab/rollcall/pkg/utils/safe"
)

type keepaliveResponse struct {
	Key string `json:"key"`
}

// socketKeepaliveHandler mints (or returns) the caller's socket
// credential. The session identity comes from the auth middleware.
func socketKeepaliveHandler(socketUC *usecase.SocketAuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := auth.TokenFromContext(r.Context())
		if identity == nil {
			errutil.HandleHTTP(r.Context(), w, goerr.New("no session identity"), http.StatusUnauthorized)
			return
		}

		key, err := socketUC.IssueKey(r.Context(), identity)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, keepaliveResponse{Key: key.Key})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin clients authenticate in-band via hello; the socket
	// carries nothing until then.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) websocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			_ = errutil.Handle(r.Context(), err, "websocket upgrade failed")
			return
		}

		s.serveSocket(r.Context(), conn)
	}
}

// serveSocket authenticates one socket and pumps its frames into the
// state manager. Runs for the life of the connection.
func (s *Server) serveSocket(ctx context.Context, conn *websocket.Conn) {
	logger := logging.From(ctx)

	// Once a socketClient exists it owns the conn; until then the raw
	// conn must be closed on every exit path.
	handedOff := false
	defer func() {
		if !handedOff {
			safe.Close(ctx, conn)
		}
	}()

	// The client must identify itself before anything else. An
	// unauthenticated socket is dropped after the hello deadline.
	if err := conn.SetReadDeadline(timeNow().Add(s.helloTimeout)); err != nil {
		_ = errutil.Handle(ctx, err, "failed to set hello deadline")
		return
	}

	var hello wire.Message
	if err := conn.ReadJSON(&hello); err != nil {
		logger.Warn("dropping socket without hello", "error", err)
		return
	}
	if hello.Type != wire.TypeHello {
		logger.Warn("dropping socket, first frame is not hello", "type", hello.Type)
		return
	}

	sk, err := s.uc.SocketAuth.ValidateKey(ctx, hello.Key)
	if err != nil {
		logger.Warn("dropping socket with invalid credential", "error", err)
		return
	}

	if err := conn.SetReadDeadline(noDeadline); err != nil {
		_ = errutil.Handle(ctx, err, "failed to clear read deadline")
		return
	}

	identity := &auth.Token{Sub: sk.Sub, Email: sk.Email, Name: sk.Name}
	connID := types.NewConnectionID()

	client := newSocketClient(ctx, connID, conn)
	handedOff = true
	defer client.close()

	if err := s.mgr.AddClient(ctx, client); err != nil {
		_ = errutil.Handle(ctx, err, "failed to register client")
		return
	}
	defer func() {
		// Deregistration must outlive the request context.
		async.Dispatch(ctx, func(ctx context.Context) error {
			return s.mgr.RemoveClient(ctx, connID)
		})
	}()

	client.send(wire.Welcome(connID))

	// Full resync: the fresh client gets canonical state wholesale.
	state, err := s.mgr.StateForUser(ctx, identity)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to snapshot state for client")
		return
	}
	client.BroadcastAction(action.Reload(state), "")

	logger.Info("socket authenticated",
		"connection_id", connID,
		"sub", identity.Sub,
	)

	for {
		var msg wire.Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Info("socket closed", "connection_id", connID, "error", err)
			return
		}

		switch msg.Type {
		case wire.TypeReportAction:
			if msg.Action == nil {
				continue
			}
			// The server-assigned connection ID is authoritative for
			// echo suppression; the client cannot report as a peer.
			if err := s.mgr.Submit(ctx, *msg.Action, connID, identity); err != nil {
				_ = errutil.Handle(ctx, err, "failed to submit action")
				return
			}
		default:
			logger.Warn("ignoring unexpected frame", "connection_id", connID, "type", msg.Type)
		}
	}
}
