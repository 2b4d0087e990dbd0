package relay

import (
	"errors"
	"fmt"
	"time"
)

// Option - configures Server.
type Option func(s *Server) error

func setup(s *Server, options ...Option) error {
	if s == nil {
		return nil
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}

// WithGreeting - overwrites default text sent to every newly joined peer.
// Empty greeting disables it.
func WithGreeting(greeting string) Option {
	return func(s *Server) error {
		s.greeting = greeting
		return nil
	}
}

// WithBufferSize - overwrites default size of scratch buffer used by TCP peer readers.
func WithBufferSize(size int) Option {
	return func(s *Server) error {
		if size <= 0 {
			return fmt.Errorf("relay.WithBufferSize: invalid size (%d)", size)
		}
		s.bufSize = size
		return nil
	}
}

// WithDrainWait - overwrites how long TCP peer reader collects immediately available bytes
// after the first read before the batch became a message.
func WithDrainWait(wait time.Duration) Option {
	return func(s *Server) error {
		if wait <= 0 {
			return fmt.Errorf("relay.WithDrainWait: invalid wait (%v)", wait)
		}
		s.drainWait = wait
		return nil
	}
}

// WithMaxBatch - overwrites max size in bytes of single message collected by TCP peer reader.
func WithMaxBatch(size int) Option {
	return func(s *Server) error {
		if size <= 0 {
			return fmt.Errorf("relay.WithMaxBatch: invalid size (%d)", size)
		}
		s.maxBatch = size
		return nil
	}
}

// WithWriteTimeout - overwrites default write timeout for every single send to peer.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout <= 0 {
			return fmt.Errorf("relay.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

// WithIdentifier - overwrites generator of peer identifiers.
func WithIdentifier(identify func() string) Option {
	return func(s *Server) error {
		if identify == nil {
			return errors.New("relay.WithIdentifier: identifier is nil")
		}
		s.identify = identify
		return nil
	}
}

// WithLogger - attach logger.
func WithLogger(logger Logger) Option {
	return func(s *Server) error {
		if s.logger != nil {
			return errors.New("relay.WithLogger: logger already set up")
		}
		s.logger = logger
		return nil
	}
}
