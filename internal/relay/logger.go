package relay

import "github.com/wtask/chatrelay/internal/logging"

// Logger - interface for logging relay events
type Logger = logging.Logger
