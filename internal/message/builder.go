package message

import (
	"bytes"
	"unicode/utf8"
)

// Builder - implements io.Writer interface to build message body from byte parts.
// Unlike a plain buffer it never splits a multi-byte UTF-8 sequence between two flushes:
// an incomplete sequence at the end of written data is kept for the next message.
type Builder struct {
	buf bytes.Buffer
}

func (b *Builder) Write(p []byte) (n int, err error) {
	return b.buf.Write(p)
}

// Len - returns length (in bytes) of data ready to flush.
func (b *Builder) Len() int {
	complete, _ := SplitIncomplete(b.buf.Bytes())
	return len(complete)
}

// Total - return total size in bytes of underlying data.
// Total value may be greater than Len when data ends with incomplete UTF-8 sequence.
func (b *Builder) Total() int {
	return b.buf.Len()
}

// Flush - returns built string and keeps incomplete trailing sequence (if any) for the next call.
func (b *Builder) Flush() string {
	complete, tail := SplitIncomplete(b.buf.Bytes())
	s := string(complete)
	rest := append([]byte(nil), tail...)
	b.buf.Reset()
	b.buf.Write(rest)
	return s
}

// FlushAll - returns all accumulated bytes as a string, including incomplete trailing sequence.
func (b *Builder) FlushAll() string {
	defer b.buf.Reset()
	return b.buf.String()
}

// SplitIncomplete - splits p into leading part, which can be decoded without losing bytes,
// and trailing bytes which begin a UTF-8 sequence but are not complete yet.
// Malformed bytes are treated as complete, they are never held back.
func SplitIncomplete(p []byte) (complete, tail []byte) {
	if len(p) == 0 {
		return p, nil
	}
	i := len(p) - 1
	for i > 0 && len(p)-i < utf8.UTFMax && !utf8.RuneStart(p[i]) {
		i--
	}
	if utf8.FullRune(p[i:]) {
		return p, nil
	}
	return p[:i], p[i:]
}
