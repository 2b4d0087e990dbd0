package client

import "github.com/wtask/chatrelay/internal/logging"

// Logger - interface for logging client events
type Logger = logging.Logger
