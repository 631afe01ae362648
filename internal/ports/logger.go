package ports

import "github.com/corewave-labs/bulkstream/pkg/log"

// Logger is the structured logging port consumed by internal/app. It is
// an alias, not a redeclaration, so any pkg/log.Logger (the
// ZerologAdapter or the NoopLogger) satisfies it directly.
type Logger = log.Logger

// Field is a structured log field; aliased for the same reason as Logger.
type Field = log.Field

// Re-export the Field constructors so internal/app call sites read as
// ports.String(...), ports.Err(...), matching the style used throughout
// the app layer without a second import.
var (
	String   = log.String
	Int      = log.Int
	Uint64   = log.Uint64
	Duration = log.Duration
	Err      = log.Err
)
