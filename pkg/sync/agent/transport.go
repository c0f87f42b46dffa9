package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/sync/wire"
	"github.com/resq-lab/rollcall/pkg/utils/safe"
)

// HTTPTransport talks to a rollcall server: socket credentials over
// HTTP, the channel itself over websocket.
type HTTPTransport struct {
	baseURL string
	token   *auth.Token
	client  *http.Client
	dialer  *websocket.Dialer
}

var _ Transport = &HTTPTransport{}

// NewHTTPTransport builds a transport for the given server base URL
// (e.g. https://rollcall.example.com). The session token authenticates
// the credential exchange.
func NewHTTPTransport(baseURL string, token *auth.Token) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		dialer:  websocket.DefaultDialer,
	}
}

type keepaliveResponse struct {
	Key string `json:"key"`
}

func (t *HTTPTransport) FetchKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/socket-keepalive", nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build keepalive request")
	}
	t.addSessionCookies(req)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "keepalive request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("keepalive request rejected", goerr.V("status", resp.StatusCode))
	}

	var body keepaliveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "failed to decode keepalive response")
	}
	if body.Key == "" {
		return "", goerr.New("keepalive response has no key")
	}

	return body.Key, nil
}

func (t *HTTPTransport) Dial(ctx context.Context) (Conn, error) {
	wsURL, err := t.websocketURL()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	conn, resp, err := t.dialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		defer safe.Close(ctx, resp.Body)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dial websocket", goerr.V("url", wsURL))
	}

	return &wsConn{conn: conn}, nil
}

func (t *HTTPTransport) websocketURL() (string, error) {
	u, err := url.Parse(t.baseURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid base URL", goerr.V("url", t.baseURL))
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", goerr.New("unsupported scheme", goerr.V("scheme", u.Scheme))
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	return u.String(), nil
}

func (t *HTTPTransport) addSessionCookies(req *http.Request) {
	if t.token == nil {
		return
	}
	req.AddCookie(&http.Cookie{Name: "token_id", Value: t.token.ID.String()})
	req.AddCookie(&http.Cookie{Name: "token_secret", Value: t.token.Secret.String()})
}

// wsConn adapts a gorilla websocket connection to the Conn interface.
// Writes are serialized; gorilla allows one concurrent writer only.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

var _ Conn = &wsConn{}

func (c *wsConn) Send(msg wire.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(msg); err != nil {
		return goerr.Wrap(err, "websocket write failed")
	}
	return nil
}

func (c *wsConn) Receive() (wire.Message, error) {
	var msg wire.Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return wire.Message{}, goerr.Wrap(err, "websocket read failed")
	}
	return msg, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
