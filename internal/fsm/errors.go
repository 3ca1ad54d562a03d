package fsm

import "errors"

// ErrTransitionNotAllowed is returned by Apply for a pair that is not in
// the transition table.
var ErrTransitionNotAllowed = errors.New("status transition not allowed")
