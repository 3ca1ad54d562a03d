package fsm

import "testing"

func TestCanTransitionTable(t *testing.T) {
	statuses := []string{StatusPending, StatusConfirmed, StatusDriverAssigned, StatusInProgress, StatusCompleted, StatusCancelled}
	allowed := map[[2]string]bool{
		{StatusPending, StatusConfirmed}:         true,
		{StatusPending, StatusCancelled}:         true,
		{StatusConfirmed, StatusDriverAssigned}:  true,
		{StatusConfirmed, StatusCancelled}:       true,
		{StatusDriverAssigned, StatusInProgress}: true,
		{StatusDriverAssigned, StatusCancelled}:  true,
		{StatusInProgress, StatusCompleted}:      true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v; want %v", from, to, got, want)
			}
		}
	}
}

func TestNoSelfTransitions(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusDriverAssigned, StatusInProgress, StatusCompleted, StatusCancelled} {
		if CanTransition(s, s) {
			t.Errorf("self transition allowed for %s", s)
		}
	}
}

func TestUnknownStatuses(t *testing.T) {
	if Valid("DELIVERED") {
		t.Error("DELIVERED should not be a valid status")
	}
	if CanTransition("DELIVERED", StatusCompleted) {
		t.Error("transition from unknown status allowed")
	}
	if CanTransition(StatusPending, "DELIVERED") {
		t.Error("transition to unknown status allowed")
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := map[string]bool{
		StatusPending:        false,
		StatusConfirmed:      false,
		StatusDriverAssigned: false,
		StatusInProgress:     false,
		StatusCompleted:      true,
		StatusCancelled:      true,
	}
	for s, want := range terminal {
		if got := Terminal(s); got != want {
			t.Errorf("Terminal(%s) = %v; want %v", s, got, want)
		}
	}
	if Terminal("DELIVERED") {
		t.Error("unknown status reported terminal")
	}
}
