package notify

import "context"

// Channel is a single delivery mechanism with a boolean success
// contract. Implementations must catch every transport error and convert
// it to false; nothing is allowed to panic or error into the callers.
type Channel interface {
	Send(ctx context.Context, recipient, subject, message string) bool
}

// Logger is the minimal logging interface channels need.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
