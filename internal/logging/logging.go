// Package logging holds the logger contract shared by relay, client and the WebSocket gate.
package logging

// Logger - interface for logging events, *log.Logger satisfies it.
type Logger interface {
	Println(v ...interface{})
}

// ErrorTag - prefix of every error record.
const ErrorTag = "ERR"

// Info - writes regular record, nil logger is silent.
func Info(l Logger, v ...interface{}) {
	if l == nil {
		return
	}
	l.Println(v...)
}

// Error - writes record prefixed with ErrorTag, nil logger is silent.
func Error(l Logger, v ...interface{}) {
	if l == nil {
		return
	}
	l.Println(append([]interface{}{ErrorTag}, v...)...)
}
