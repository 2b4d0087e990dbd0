package relay

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/wtask/chatrelay/internal/message"
)

// Peer - a single client connection known to the relay.
// Receive is called only by the peer reader goroutine, Send and Close only by the event loop,
// so implementations do not need to synchronize reading with writing.
type Peer interface {
	// ID - identifier for logging purposes.
	ID() string
	// RemoteAddr - remote network address.
	RemoteAddr() net.Addr
	// Receive - blocks until next non-empty message arrives.
	// Must return io.EOF when remote side has closed connection orderly.
	Receive() (string, error)
	// Send - writes message as is, the write must complete before deadline.
	Send(message string, deadline time.Time) error
	// Close - releases connection, unblocks pending Receive.
	Close() error
}

// connPeer - Peer over stream connection (TCP).
type connPeer struct {
	id     string
	conn   net.Conn
	reader *message.Reader
}

// NewConnPeer - wraps stream connection into Peer.
// Every Receive drains immediately available bytes using scratch buffer of bufSize bytes,
// single message is collected no longer than drainWait and contains at most maxBatch bytes.
func NewConnPeer(id string, conn net.Conn, bufSize int, drainWait time.Duration, maxBatch int) (Peer, error) {
	reader, err := message.NewReader(conn, bufSize, drainWait, maxBatch)
	if err != nil {
		return nil, fmt.Errorf("relay.NewConnPeer: %w", err)
	}
	return &connPeer{id: id, conn: conn, reader: reader}, nil
}

func (p *connPeer) ID() string {
	return p.id
}

func (p *connPeer) RemoteAddr() net.Addr {
	return p.conn.RemoteAddr()
}

func (p *connPeer) Receive() (string, error) {
	return p.reader.Next()
}

func (p *connPeer) Send(message string, deadline time.Time) error {
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := io.WriteString(p.conn, message)
	return err
}

func (p *connPeer) Close() error {
	return p.conn.Close()
}

// formatAddress - formats specified network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}
