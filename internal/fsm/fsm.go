package fsm

import (
	"context"
	"database/sql"
)

// Status constants used by the booking state machine.
const (
	StatusPending        = "PENDING"
	StatusConfirmed      = "CONFIRMED"
	StatusDriverAssigned = "DRIVER_ASSIGNED"
	StatusInProgress     = "IN_PROGRESS"
	StatusCompleted      = "COMPLETED"
	StatusCancelled      = "CANCELLED"
)

var transitions = map[string]map[string]struct{}{
	StatusPending: {
		StatusConfirmed: {},
		StatusCancelled: {},
	},
	StatusConfirmed: {
		StatusDriverAssigned: {},
		StatusCancelled:      {},
	},
	StatusDriverAssigned: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusInProgress: {
		StatusCompleted: {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known booking status.
func Valid(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition returns whether a booking can move from the current
// status to the target status. Self transitions are not in the table.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Terminal reports whether no further transition is possible.
func Terminal(s string) bool {
	return len(transitions[s]) == 0 && Valid(s)
}

// Apply updates a booking status with optimistic validation: the UPDATE
// only matches when the stored status still equals fromStatus, so two
// concurrent writers cannot both succeed from the same prior state.
func Apply(ctx context.Context, tx *sql.Tx, bookingID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return ErrTransitionNotAllowed
	}
	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, bookingID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
