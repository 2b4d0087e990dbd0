package background

import (
	"context"
	"sync"
)

// Scope - abstract concurrency scope: a group of goroutines sharing one cancellable context.
type Scope struct {
	ctx       context.Context
	ctxCancel context.CancelFunc
	scope     sync.WaitGroup
}

// NewScope - concurrency scope builder, the scope context is derived from parent.
// Returned cancel func cancels scope context and waits until all members are done.
func NewScope(parent context.Context) (scope *Scope, cancel func()) {
	ctx, cancelFunc := context.WithCancel(parent)
	s := &Scope{
		ctx:       ctx,
		ctxCancel: cancelFunc,
	}
	return s,
		func() {
			s.ctxCancel()
			s.scope.Wait()
		}
}

// Context - return scope context
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - launches f as a scope member in new goroutine.
func (s *Scope) Go(f func(ctx context.Context)) {
	s.scope.Add(1)
	go func() {
		defer s.scope.Done()
		f(s.ctx)
	}()
}

// Wait - blocks until all scope members are done, does not cancel the scope.
func (s *Scope) Wait() {
	s.scope.Wait()
}
