package message

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// DefaultMaxBatch - default upper bound in bytes of single readiness batch.
const DefaultMaxBatch = 64 * 1024

// Reader - drains connection by readiness batches.
// Every Next call blocks until some data arrives and then keeps reading
// while more bytes are immediately available, so a message larger than the scratch buffer
// or split by the transport is returned as a single chunk.
// A batch never lasts longer than wait after its first read and never exceeds maxBatch bytes,
// so a peer streaming without pauses is still relayed chunk by chunk.
type Reader struct {
	conn     net.Conn
	buf      []byte
	wait     time.Duration
	maxBatch int
	build    Builder
	err      error
}

// NewReader - builds Reader with fixed-size scratch buffer of bufSize bytes.
// The wait is how long the batch keeps collecting bytes after its first read,
// maxBatch is the max number of bytes in one batch.
func NewReader(conn net.Conn, bufSize int, wait time.Duration, maxBatch int) (*Reader, error) {
	if conn == nil {
		return nil, errors.New("message.NewReader: conn is nil")
	}
	if bufSize <= 0 {
		return nil, fmt.Errorf("message.NewReader: invalid buffer size (%d)", bufSize)
	}
	if wait <= 0 {
		return nil, fmt.Errorf("message.NewReader: invalid drain wait (%v)", wait)
	}
	if maxBatch <= 0 {
		return nil, fmt.Errorf("message.NewReader: invalid max batch (%d)", maxBatch)
	}
	return &Reader{
		conn:     conn,
		buf:      make([]byte, bufSize),
		wait:     wait,
		maxBatch: maxBatch,
	}, nil
}

// Next - returns next non-empty chunk of text.
// When connection error occurs after some data was read, the data is returned first
// and the error is reported by the following call.
func (r *Reader) Next() (string, error) {
	for {
		if r.err != nil {
			if rest := r.build.FlushAll(); rest != "" {
				return rest, nil
			}
			return "", r.err
		}
		r.drain()
		if r.err != nil {
			if chunk := r.build.FlushAll(); chunk != "" {
				return chunk, nil
			}
			continue
		}
		if chunk := r.build.Flush(); chunk != "" {
			return chunk, nil
		}
	}
}

// drain - reads one readiness batch into builder.
func (r *Reader) drain() {
	// The first read waits as long as needed.
	// Failed deadline reset is not fatal here: on closed pipe the read itself reports the real cause.
	r.conn.SetReadDeadline(time.Time{})
	n, err := r.conn.Read(r.scratch(0))
	r.build.Write(r.buf[:n])
	if err != nil {
		r.err = err
		return
	}
	deadline := time.Now().Add(r.wait)
	for batch := n; batch < r.maxBatch; batch += n {
		if err := r.conn.SetReadDeadline(deadline); err != nil {
			// the next blocking read reports the cause
			return
		}
		n, err = r.conn.Read(r.scratch(batch))
		r.build.Write(r.buf[:n])
		switch {
		case err == nil:
			continue
		case errors.Is(err, os.ErrDeadlineExceeded):
			return
		default:
			r.err = err
			return
		}
	}
}

// scratch - returns part of buffer which does not let the batch exceed maxBatch.
func (r *Reader) scratch(batch int) []byte {
	if rest := r.maxBatch - batch; rest < len(r.buf) {
		return r.buf[:rest]
	}
	return r.buf
}
