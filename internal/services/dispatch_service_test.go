package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
)

// fakeDriverNotifier fails the drivers whose names are listed and can
// simulate a slow channel.
type fakeDriverNotifier struct {
	mu       sync.Mutex
	failing  map[string]bool
	delay    time.Duration
	attempts int
}

func (n *fakeDriverNotifier) NotifyDriverNewBooking(ctx context.Context, driver models.Driver, booking models.Booking, clientName string) bool {
	n.mu.Lock()
	n.attempts++
	n.mu.Unlock()
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return false
		}
	}
	return !n.failing[driver.Name]
}

func rosterOf(n int) []models.Driver {
	drivers := make([]models.Driver, n)
	for i := range drivers {
		drivers[i] = models.Driver{ID: i + 1, Name: fmt.Sprintf("driver-%d", i+1), Email: fmt.Sprintf("d%d@example.fr", i+1)}
	}
	return drivers
}

func newTestDispatchService(store *stubBookingStore, roster []models.Driver, notifier DriverNotifier) *DispatchService {
	return &DispatchService{
		Bookings: store,
		Roster:   &stubRoster{drivers: roster},
		Users:    &stubUserStore{users: map[int]models.User{1: {ID: 1, Name: "Marie"}}},
		Notifier: notifier,
		Logger:   testLogger{},
	}
}

func TestBroadcastAggregatesPartialFailures(t *testing.T) {
	store := newStubBookingStore()
	id := store.seed(models.Booking{UserID: 1, Status: fsm.StatusPending})

	notifier := &fakeDriverNotifier{failing: map[string]bool{"driver-2": true, "driver-5": true, "driver-7": true}}
	svc := newTestDispatchService(store, rosterOf(8), notifier)

	report, err := svc.Broadcast(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalDrivers != 8 {
		t.Errorf("total = %d; want 8", report.TotalDrivers)
	}
	if report.SuccessCount != 5 || report.FailedCount != 3 {
		t.Errorf("success/failed = %d/%d; want 5/3", report.SuccessCount, report.FailedCount)
	}
	if report.SuccessCount+report.FailedCount != report.TotalDrivers {
		t.Error("success + failed must equal total")
	}
	if len(report.DriversContacted) != report.SuccessCount {
		t.Errorf("contacted list has %d names; want %d", len(report.DriversContacted), report.SuccessCount)
	}
	for _, name := range report.DriversContacted {
		if notifier.failing[name] {
			t.Errorf("failed driver %s listed as contacted", name)
		}
	}
}

func TestBroadcastAllFailuresIsStillSuccess(t *testing.T) {
	store := newStubBookingStore()
	id := store.seed(models.Booking{UserID: 1, Status: fsm.StatusPending})

	failing := make(map[string]bool)
	for _, d := range rosterOf(4) {
		failing[d.Name] = true
	}
	svc := newTestDispatchService(store, rosterOf(4), &fakeDriverNotifier{failing: failing})

	report, err := svc.Broadcast(context.Background(), id)
	if err != nil {
		t.Fatalf("a fully failed broadcast must not error: %v", err)
	}
	if report.SuccessCount != 0 || report.FailedCount != 4 {
		t.Errorf("success/failed = %d/%d; want 0/4", report.SuccessCount, report.FailedCount)
	}
	if report.DriversContacted == nil {
		t.Error("contacted list must be empty, not nil")
	}
}

func TestBroadcastEmptyRoster(t *testing.T) {
	store := newStubBookingStore()
	id := store.seed(models.Booking{UserID: 1, Status: fsm.StatusPending})
	svc := newTestDispatchService(store, nil, &fakeDriverNotifier{})

	report, err := svc.Broadcast(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalDrivers != 0 || report.SuccessCount != 0 || report.FailedCount != 0 {
		t.Errorf("unexpected report for empty roster: %+v", report)
	}
}

func TestBroadcastUnknownBooking(t *testing.T) {
	svc := newTestDispatchService(newStubBookingStore(), rosterOf(2), &fakeDriverNotifier{})

	_, err := svc.Broadcast(context.Background(), 42)
	if !errors.Is(err, models.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBroadcastTimesOutSlowDrivers(t *testing.T) {
	store := newStubBookingStore()
	id := store.seed(models.Booking{UserID: 1, Status: fsm.StatusPending})

	notifier := &fakeDriverNotifier{delay: 200 * time.Millisecond}
	svc := newTestDispatchService(store, rosterOf(3), notifier)
	svc.DriverTimeout = 20 * time.Millisecond

	start := time.Now()
	report, err := svc.Broadcast(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if report.FailedCount != 3 {
		t.Errorf("failed = %d; want all 3 timed out", report.FailedCount)
	}
	// Attempts run in parallel, so the whole broadcast is bounded by one
	// timeout, not three.
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("broadcast took %v; attempts are not parallel", elapsed)
	}
}

func TestAssignDelegatesToLifecycle(t *testing.T) {
	store := newStubBookingStore()
	id := store.seed(models.Booking{UserID: 1, Status: fsm.StatusConfirmed})

	lifecycle, _, _ := newTestBookingService(store)
	svc := newTestDispatchService(store, nil, &fakeDriverNotifier{})
	svc.Lifecycle = lifecycle

	if ok := svc.Assign(context.Background(), id, 5); !ok {
		t.Fatal("expected assignment to succeed")
	}
	got, _ := store.GetBookingByID(context.Background(), id)
	if got.Status != fsm.StatusDriverAssigned || got.DriverID == nil || *got.DriverID != 5 {
		t.Errorf("booking after assign = %+v", got)
	}

	// A second assign is rejected: DRIVER_ASSIGNED has no self loop.
	if ok := svc.Assign(context.Background(), id, 5); ok {
		t.Error("expected re-assignment to fail")
	}
}
