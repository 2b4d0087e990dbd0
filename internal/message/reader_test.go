package message

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_ErrorCase(test *testing.T) {
	conn, peer := net.Pipe()
	defer conn.Close()
	defer peer.Close()

	_, err := NewReader(nil, 10, time.Millisecond, 100)
	assert.Error(test, err)
	_, err = NewReader(conn, 0, time.Millisecond, 100)
	assert.Error(test, err)
	_, err = NewReader(conn, 10, 0, 100)
	assert.Error(test, err)
	_, err = NewReader(conn, 10, time.Millisecond, 0)
	assert.Error(test, err)
}

func TestReader_Next_LargerThanBuffer(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 4, 50*time.Millisecond, DefaultMaxBatch)
	require.NoError(test, err)

	payload := "Привет, 世界! " + strings.Repeat("x", 37)
	go func() {
		client.Write([]byte(payload))
		client.Close()
	}()

	chunk, err := r.Next()
	require.NoError(test, err)
	assert.Equal(test, payload, chunk)

	_, err = r.Next()
	assert.ErrorIs(test, err, io.EOF)
}

func TestReader_Next_ClosedAfterBatch(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 16, 10*time.Millisecond, DefaultMaxBatch)
	require.NoError(test, err)

	go client.Write([]byte("last words"))
	chunk, err := r.Next()
	require.NoError(test, err)
	assert.Equal(test, "last words", chunk)

	// remote side is gone before the next blocking read starts
	client.Close()
	chunk, err = r.Next()
	assert.Equal(test, "", chunk)
	assert.ErrorIs(test, err, io.EOF)
}

func TestReader_Next_Streaming(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 1024, 20*time.Millisecond, DefaultMaxBatch)
	require.NoError(test, err)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer client.Close()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := client.Write([]byte("x")); err != nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	// the writer never pauses longer than drain wait, batch must be cut by time anyway
	start := time.Now()
	chunk, err := r.Next()
	require.NoError(test, err)
	assert.NotEmpty(test, chunk)
	assert.Less(test, time.Since(start), 500*time.Millisecond)

	chunk, err = r.Next()
	require.NoError(test, err)
	assert.NotEmpty(test, chunk)
}

func TestReader_Next_MaxBatch(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 1024, 50*time.Millisecond, 8)
	require.NoError(test, err)

	go func() {
		client.Write([]byte("0123456789abcdef"))
		client.Close()
	}()

	chunk, err := r.Next()
	require.NoError(test, err)
	assert.Equal(test, "01234567", chunk)
	chunk, err = r.Next()
	require.NoError(test, err)
	assert.Equal(test, "89abcdef", chunk)
	_, err = r.Next()
	assert.ErrorIs(test, err, io.EOF)
}

func TestReader_Next_SplitWrites(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 1024, 100*time.Millisecond, DefaultMaxBatch)
	require.NoError(test, err)

	// "⌘" is split across two transport writes
	parts := [][]byte{[]byte("hello "), {226, 140}, {152}, []byte(" world")}
	go func() {
		for _, p := range parts {
			client.Write(p)
		}
	}()

	chunk, err := r.Next()
	require.NoError(test, err)
	assert.Equal(test, "hello ⌘ world", chunk)
	client.Close()
}

func TestReader_Next_DataBeforeEOF(test *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	r, err := NewReader(server, 8, 20*time.Millisecond, DefaultMaxBatch)
	require.NoError(test, err)

	go func() {
		client.Write([]byte("bye"))
		client.Close()
	}()

	chunk, err := r.Next()
	require.NoError(test, err)
	assert.Equal(test, "bye", chunk)

	chunk, err = r.Next()
	assert.Equal(test, "", chunk)
	assert.ErrorIs(test, err, io.EOF)
}
