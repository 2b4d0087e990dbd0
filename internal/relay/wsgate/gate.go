// Package wsgate lets WebSocket clients join the relay alongside TCP clients.
// Every text or binary frame received from browser is a single message,
// every message sent to browser is a single text frame,
// or binary frame when the message is not valid UTF-8.
package wsgate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wtask/chatrelay/internal/logging"
	"github.com/wtask/chatrelay/internal/relay"
)

// Joiner - the part of relay.Server used by the gate.
type Joiner interface {
	Join(ctx context.Context, p relay.Peer) error
}

// Logger - interface for logging gate events
type Logger = logging.Logger

type gate struct {
	joiner    Joiner
	upgrader  websocket.Upgrader
	readLimit int64
	joinWait  time.Duration
	logger    Logger
}

// Option - configures gate handler.
type Option func(g *gate)

// WithReadLimit - max size in bytes of single frame accepted from client.
func WithReadLimit(limit int64) Option {
	return func(g *gate) {
		g.readLimit = limit
	}
}

// WithCheckOrigin - overwrites origin check, by default only same origin requests are upgraded.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(g *gate) {
		g.upgrader.CheckOrigin = check
	}
}

// WithLogger - attach logger.
func WithLogger(logger Logger) Option {
	return func(g *gate) {
		g.logger = logger
	}
}

// Handler - returns handler which upgrades request to WebSocket and joins the connection to relay.
func Handler(joiner Joiner, options ...Option) http.Handler {
	g := &gate{
		joiner: joiner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		readLimit: 64 * 1024,
		joinWait:  5 * time.Second,
	}
	for _, option := range options {
		if option != nil {
			option(g)
		}
	}
	return g
}

func (g *gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has replied with http error already
		logging.Error(g.logger, "WebSocket upgrade failed:", err)
		return
	}
	conn.SetReadLimit(g.readLimit)

	p := &peer{id: uuid.NewString(), conn: conn}
	// request context is not used here, it is finished as soon as handler returns
	ctx, cancel := context.WithTimeout(context.Background(), g.joinWait)
	defer cancel()
	if err := g.joiner.Join(ctx, p); err != nil {
		logging.Error(g.logger, "Can't join WebSocket peer", p.id, err)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "relay is not available"),
			time.Now().Add(time.Second),
		)
		conn.Close()
	}
}

// peer - relay.Peer over WebSocket connection.
type peer struct {
	id   string
	conn *websocket.Conn
}

func (p *peer) ID() string {
	return p.id
}

func (p *peer) RemoteAddr() net.Addr {
	return p.conn.RemoteAddr()
}

func (p *peer) Receive() (string, error) {
	for {
		kind, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return "", fmt.Errorf("wsgate: %v: %w", err, io.EOF)
			}
			return "", err
		}
		if (kind == websocket.TextMessage || kind == websocket.BinaryMessage) && len(data) > 0 {
			return string(data), nil
		}
	}
}

func (p *peer) Send(message string, deadline time.Time) error {
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	// text frame must carry valid UTF-8, raw bytes are relayed in binary frame
	kind := websocket.TextMessage
	if !utf8.ValidString(message) {
		kind = websocket.BinaryMessage
	}
	return p.conn.WriteMessage(kind, []byte(message))
}

func (p *peer) Close() error {
	err := p.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
