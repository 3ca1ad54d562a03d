package models

import (
	"testing"

	"frenchdriver/internal/fsm"
)

func TestBookingIsActive(t *testing.T) {
	active := map[string]bool{
		fsm.StatusPending:        true,
		fsm.StatusConfirmed:      true,
		fsm.StatusDriverAssigned: true,
		fsm.StatusInProgress:     true,
		fsm.StatusCompleted:      false,
		fsm.StatusCancelled:      false,
	}
	for status, want := range active {
		b := Booking{Status: status}
		if got := b.IsActive(); got != want {
			t.Errorf("IsActive(%s) = %v; want %v", status, got, want)
		}
	}
}

func TestBookingCanBeCancelled(t *testing.T) {
	cancellable := map[string]bool{
		fsm.StatusPending:        true,
		fsm.StatusConfirmed:      true,
		fsm.StatusDriverAssigned: true,
		fsm.StatusInProgress:     false,
		fsm.StatusCompleted:      false,
		fsm.StatusCancelled:      false,
	}
	for status, want := range cancellable {
		b := Booking{Status: status}
		if got := b.CanBeCancelled(); got != want {
			t.Errorf("CanBeCancelled(%s) = %v; want %v", status, got, want)
		}
	}
}
