package relay

import (
	"errors"
	"io"
	"syscall"
)

// PartReason - describes the type of parting with peer.
type PartReason int

const (
	_ PartReason = iota
	// PartLeft - the parting is occurred due to orderly close by remote side.
	PartLeft
	// PartReset - the parting is occurred due to connection reset by remote side.
	PartReset
	// PartFailed - the parting is occurred due to any other read failure.
	PartFailed
	// PartDropped - the peer was dropped by server after write failure.
	PartDropped
)

func (r PartReason) String() string {
	switch r {
	case PartLeft:
		return "left"
	case PartReset:
		return "reset"
	case PartFailed:
		return "failed"
	case PartDropped:
		return "dropped"
	default:
		return "unknown part reason"
	}
}

// inboundEvent - occurres when peer reader has got a message or has failed.
// Data and failure of the same peer travel through single channel to keep their order.
type inboundEvent struct {
	peer    Peer
	message string
	err     error
}

// partReason - classifies read error of the peer.
func partReason(err error) PartReason {
	switch {
	case errors.Is(err, io.EOF):
		return PartLeft
	case errors.Is(err, syscall.ECONNRESET):
		return PartReset
	default:
		return PartFailed
	}
}
