package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/wtask/chatrelay/internal/logging"
	"github.com/wtask/chatrelay/internal/message"
)

// DefaultAddress - relay address the client connects to by default.
const DefaultAddress = "127.0.0.1:8000"

// Client - single connection to relay.
// Receive and Send may run concurrently: one goroutine only reads, another only writes.
type Client struct {
	conn   net.Conn
	reader *message.Reader
	closed atomic.Bool
	logger Logger
}

type config struct {
	bufSize   int
	drainWait time.Duration
	maxBatch  int
	logger    Logger
}

// Option - configures Client.
type Option func(c *config) error

// WithBufferSize - overwrites default size of scratch buffer used by receiver.
func WithBufferSize(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("client.WithBufferSize: invalid size (%d)", size)
		}
		c.bufSize = size
		return nil
	}
}

// WithDrainWait - overwrites how long receiver waits for more immediately available bytes.
func WithDrainWait(wait time.Duration) Option {
	return func(c *config) error {
		if wait <= 0 {
			return fmt.Errorf("client.WithDrainWait: invalid wait (%v)", wait)
		}
		c.drainWait = wait
		return nil
	}
}

// WithMaxBatch - overwrites max size in bytes of single message printed by receiver.
func WithMaxBatch(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("client.WithMaxBatch: invalid size (%d)", size)
		}
		c.maxBatch = size
		return nil
	}
}

// WithLogger - attach logger.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// Dial - connects to relay at addr.
func Dial(ctx context.Context, addr string, options ...Option) (*Client, error) {
	cfg := config{
		bufSize:   1024,
		drainWait: 5 * time.Millisecond,
		maxBatch:  message.DefaultMaxBatch,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}
	if addr == "" {
		addr = DefaultAddress
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	reader, err := message.NewReader(conn, cfg.bufSize, cfg.drainWait, cfg.maxBatch)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	logging.Info(cfg.logger, "Connected to", conn.RemoteAddr().String())
	return &Client{conn: conn, reader: reader, logger: cfg.logger}, nil
}

// Receive - prints every inbound message into out, one message per line.
// Returns when connection fails or closed (io.EOF on orderly close by server).
func (c *Client) Receive(out io.Writer) error {
	for {
		msg, err := c.reader.Next()
		if msg != "" {
			if _, werr := fmt.Fprintln(out, msg); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
	}
}

// Send - writes UTF-8 bytes of the line to relay as is.
func (c *Client) Send(line string) error {
	if line == "" {
		return nil
	}
	_, err := io.WriteString(c.conn, line)
	return err
}

// Run - starts receiver in background and sends every line from in until end of input.
// Receiver failure is logged and does not stop sending.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	stop := context.AfterFunc(ctx, func() {
		c.Close()
	})
	defer stop()

	go func() {
		err := c.Receive(out)
		switch {
		case c.closed.Load():
		case errors.Is(err, io.EOF):
			logging.Info(c.logger, "Server has closed connection")
		default:
			logging.Error(c.logger, "Receiver stopped:", err)
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := c.Send(scanner.Text()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("client.Run: send failed: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("client.Run: input failed: %w", err)
	}
	return ctx.Err()
}

// Close - closes connection, pending Receive returns.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
