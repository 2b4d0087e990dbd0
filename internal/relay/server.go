package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/wtask/chatrelay/internal/logging"
	"github.com/wtask/chatrelay/internal/message"
	"github.com/wtask/chatrelay/pkg/background"
)

// DefaultGreeting - text sent to every newly joined peer.
const DefaultGreeting = "-----you are now connected to the chat server-----"

// acceptRetry - pause after failed accept, helps to not spin when process is out of descriptors.
const acceptRetry = 50 * time.Millisecond

// Server - broadcast relay core.
// Single event loop goroutine (see Run) owns the registry of peers and performs all writes,
// while every peer has its own reader goroutine which only reads.
type Server struct {
	greeting     string
	bufSize      int
	drainWait    time.Duration
	maxBatch     int
	writeTimeout time.Duration
	identify     func() string
	logger       Logger

	launched atomic.Bool
	join     chan Peer
	inbound  chan inboundEvent
	count    chan chan int
	done     chan struct{}

	peers *registry
}

// New - builds Server with needed options.
func New(options ...Option) (*Server, error) {
	s := &Server{
		greeting:     DefaultGreeting,
		bufSize:      1024,
		drainWait:    5 * time.Millisecond,
		maxBatch:     message.DefaultMaxBatch,
		writeTimeout: 10 * time.Second,
		identify:     uuid.NewString,

		join:    make(chan Peer),
		inbound: make(chan inboundEvent),
		count:   make(chan chan int),
		done:    make(chan struct{}),

		peers: newRegistry(),
	}
	if err := setup(s, options...); err != nil {
		return nil, err
	}
	return s, nil
}

// Run - runs event loop until ctx is done.
// When stopped, closes all joined peers and waits for their readers, then returns ctx error.
func (s *Server) Run(ctx context.Context) error {
	if !s.launched.CompareAndSwap(false, true) {
		return ErrLaunched
	}

	readers, cancelReaders := background.NewScope(ctx)
	logging.Info(s.logger, "Relay event loop has started")
	for {
		select {
		case p := <-s.join:
			s.handleJoin(readers, p)
		case e := <-s.inbound:
			s.handleInbound(e)
		case reply := <-s.count:
			reply <- s.peers.len()
		case <-ctx.Done():
			close(s.done)
			n := s.peers.len()
			s.peers.scan(func(p Peer) {
				p.Close()
			})
			s.peers = newRegistry()
			cancelReaders()
			logging.Info(s.logger, "Relay event loop has stopped, peers closed:", n)
			return ctx.Err()
		}
	}
}

// Join - passes peer from any transport to the event loop.
// On error the peer is not joined and caller is responsible to close it.
func (s *Server) Join(ctx context.Context, p Peer) error {
	if p == nil {
		return ErrNilPeer
	}
	select {
	case s.join <- p:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Peers - returns number of currently joined peers.
func (s *Server) Peers(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	select {
	case s.count <- reply:
	case <-s.done:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-reply, nil
}

// Serve - accepts connections of the listener and joins them to the event loop.
// Listener is closed when ctx is done, in this case nil is returned.
// Accept failures are logged and accepting continues until listener is closed.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("relay.Server.Serve: listener is nil")
	}
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	logging.Info(s.logger, "Listen", formatAddress(listener.Addr()))
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("relay.Server.Serve: %w", err)
			}
			logging.Error(s.logger, "Accept failed:", err)
			select {
			case <-time.After(acceptRetry):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		peer, err := NewConnPeer(s.identify(), conn, s.bufSize, s.drainWait, s.maxBatch)
		if err != nil {
			logging.Error(s.logger, "Can't keep connection from", formatAddress(conn.RemoteAddr()), err)
			conn.Close()
			continue
		}
		if err := s.Join(ctx, peer); err != nil {
			peer.Close()
			if errors.Is(err, ErrStopped) {
				return err
			}
			return nil
		}
	}
}

func (s *Server) handleJoin(readers *background.Scope, p Peer) {
	if !s.peers.add(p) {
		// the same connection is registered and served already, it must stay open
		logging.Error(s.logger, "Peer", p.ID(), "has joined already")
		return
	}
	logging.Info(s.logger, "Peer", p.ID(), "has joined from", formatAddress(p.RemoteAddr()), "peers:", s.peers.len())

	if s.greeting != "" {
		if err := s.send(p, s.greeting); err != nil {
			logging.Error(s.logger, "Greeting to", p.ID(), "failed:", err)
			s.drop(p, PartDropped)
			return
		}
	}

	readers.Go(func(ctx context.Context) {
		s.pump(ctx, p)
	})
}

func (s *Server) handleInbound(e inboundEvent) {
	if !s.peers.has(e.peer) {
		// delayed event of dropped peer
		return
	}
	if e.message != "" {
		logging.Info(s.logger, "::"+e.message)
		s.broadcast(e.peer, e.message)
	}
	if e.err != nil {
		reason := partReason(e.err)
		if reason != PartLeft {
			logging.Error(s.logger, "Read from", e.peer.ID(), "failed:", e.err)
		}
		s.drop(e.peer, reason)
	}
}

// broadcast - sends message to all peers in join order except the source.
// Failed targets are dropped after the whole broadcast is done.
func (s *Server) broadcast(source Peer, message string) {
	failed := []Peer{}
	s.peers.scan(func(p Peer) {
		if p == source {
			return
		}
		if err := s.send(p, message); err != nil {
			logging.Error(s.logger, "Send to", p.ID(), "failed:", err)
			failed = append(failed, p)
		}
	})
	for _, p := range failed {
		s.drop(p, PartDropped)
	}
}

func (s *Server) send(p Peer, message string) error {
	return p.Send(message, time.Now().Add(s.writeTimeout))
}

func (s *Server) drop(p Peer, reason PartReason) {
	if !s.peers.delete(p) {
		return
	}
	p.Close()
	logging.Info(s.logger, "Peer", p.ID(), "has", reason, "peers:", s.peers.len())
}

// pump - reader goroutine of single peer.
func (s *Server) pump(ctx context.Context, p Peer) {
	for {
		message, err := p.Receive()
		if message == "" && err == nil {
			continue
		}
		select {
		case s.inbound <- inboundEvent{p, message, err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}
