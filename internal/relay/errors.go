package relay

import "errors"

var (
	// ErrStopped - returns in case if event loop is not running anymore
	// and will not accept any new peers, so you should close such peer by your own.
	ErrStopped = errors.New("relay.Server: stopped")

	// ErrLaunched - returns on attempt to run event loop twice.
	ErrLaunched = errors.New("relay.Server: already launched")

	// ErrNilPeer - returns when nil peer is passed to join.
	ErrNilPeer = errors.New("relay.Server: peer is nil")
)
