package services

import (
	"context"
	"sync"
	"time"

	"frenchdriver/internal/models"
)

const defaultDriverTimeout = 5 * time.Second

// DriverNotifier offers a booking to a single driver across the
// configured channels.
type DriverNotifier interface {
	NotifyDriverNewBooking(ctx context.Context, driver models.Driver, booking models.Booking, clientName string) bool
}

// DispatchService fans bookings out to the driver roster and performs
// direct assignments.
type DispatchService struct {
	Bookings BookingStore
	Roster   DriverRoster
	Users    UserStore
	Notifier DriverNotifier
	Logger   Logger

	// Lifecycle performs the assignment transition for Assign.
	Lifecycle *BookingService

	// DriverTimeout bounds each per-driver notification attempt; a slow
	// channel degrades that driver to failed instead of stalling the
	// broadcast. Zero means the default of 5s.
	DriverTimeout time.Duration
}

func (s *DispatchService) driverTimeout() time.Duration {
	if s.DriverTimeout > 0 {
		return s.DriverTimeout
	}
	return defaultDriverTimeout
}

// Broadcast notifies every driver on the roster about the booking. Each
// attempt is independent: one failure never aborts the rest, and a fully
// failed broadcast is still a successful call carrying a report with
// success_count = 0.
func (s *DispatchService) Broadcast(ctx context.Context, bookingID int) (models.DispatchReport, error) {
	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.DispatchReport{}, err
	}

	clientName := ""
	if user, uerr := s.Users.GetUserByID(ctx, booking.UserID); uerr == nil {
		clientName = user.Name
	}

	drivers, err := s.Roster.Roster(ctx)
	if err != nil {
		return models.DispatchReport{}, err
	}

	type outcome struct {
		name string
		ok   bool
	}
	results := make([]outcome, len(drivers))
	var wg sync.WaitGroup
	for i, driver := range drivers {
		wg.Add(1)
		go func(i int, driver models.Driver) {
			defer wg.Done()
			attemptCtx, cancel := context.WithTimeout(ctx, s.driverTimeout())
			defer cancel()
			ok := s.Notifier.NotifyDriverNewBooking(attemptCtx, driver, booking, clientName)
			results[i] = outcome{name: driver.Name, ok: ok}
		}(i, driver)
	}
	wg.Wait()

	report := models.DispatchReport{
		BookingID:        booking.ID,
		TotalDrivers:     len(drivers),
		DriversContacted: []string{},
	}
	for _, res := range results {
		if res.ok {
			report.SuccessCount++
			report.DriversContacted = append(report.DriversContacted, res.name)
		} else {
			report.FailedCount++
		}
	}
	s.Logger.Infof("broadcast booking %d: %d/%d drivers contacted", booking.ID, report.SuccessCount, report.TotalDrivers)
	return report, nil
}

// Assign puts a specific driver on a booking. Failures (unknown booking
// or driver, lifecycle rejection) come back as false; the caller decides
// whether to retry.
func (s *DispatchService) Assign(ctx context.Context, bookingID, driverID int) bool {
	if s.Lifecycle == nil {
		return false
	}
	_, err := s.Lifecycle.UpdateBooking(ctx, bookingID, models.UpdateBookingRequest{DriverID: &driverID})
	if err != nil {
		s.Logger.Errorf("assign driver %d to booking %d failed: %v", driverID, bookingID, err)
		return false
	}
	return true
}
