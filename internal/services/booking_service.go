package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
	"frenchdriver/internal/pricing"
)

// BookingNotifier covers the client-facing notifications the lifecycle
// emits. All of them are best effort.
type BookingNotifier interface {
	SendBookingConfirmation(ctx context.Context, user models.User, booking models.Booking) bool
	SendDriverAssignment(ctx context.Context, user models.User, driver models.Driver, booking models.Booking) bool
}

// InvoiceGenerator mints the invoice on completion.
type InvoiceGenerator interface {
	GenerateInvoice(ctx context.Context, booking models.Booking) (*models.Invoice, error)
}

// BookingService drives bookings through the lifecycle state machine.
// Every status write is a compare-and-set against the previously read
// status, so concurrent operators cannot both advance from the same
// prior state.
type BookingService struct {
	Bookings BookingStore
	Drivers  DriverStore
	Users    UserStore
	Invoices InvoiceGenerator
	Notifier BookingNotifier
	Events   EventSink
	Logger   Logger

	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BookingService) events() EventSink {
	if s.Events != nil {
		return s.Events
	}
	return noopEvents{}
}

// CreateBooking registers a new PENDING booking. The estimate is always
// computed server side from the coordinates and vehicle class; the final
// price starts equal to the estimate so it is never unset.
func (s *BookingService) CreateBooking(ctx context.Context, userID int, req models.CreateBookingRequest) (models.Booking, error) {
	estimate := pricing.CalculatePrice(req.PickupLatitude, req.PickupLongitude, req.DestinationLat, req.DestinationLon, req.VehicleClass)

	booking := models.Booking{
		ConfirmationNumber: newConfirmationNumber(),
		UserID:             userID,
		PickupAddress:      req.PickupAddress,
		PickupLatitude:     req.PickupLatitude,
		PickupLongitude:    req.PickupLongitude,
		DestinationAddress: req.DestinationAddress,
		DestinationLat:     req.DestinationLat,
		DestinationLon:     req.DestinationLon,
		VehicleClass:       req.VehicleClass,
		EstimatedPrice:     estimate.EstimatedPrice,
		FinalPrice:         estimate.EstimatedPrice,
		Status:             fsm.StatusPending,
		ScheduledTime:      req.ScheduledTime,
	}

	created, err := s.Bookings.CreateBooking(ctx, booking)
	if err != nil {
		return models.Booking{}, err
	}

	if s.Notifier != nil {
		if user, uerr := s.Users.GetUserByID(ctx, userID); uerr == nil {
			s.Notifier.SendBookingConfirmation(ctx, user, created)
		}
	}
	s.events().PushBookingEvent(models.BookingEvent{
		BookingID:          created.ID,
		ConfirmationNumber: created.ConfirmationNumber,
		Status:             created.Status,
		At:                 s.now(),
	})
	return created, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int) (models.Booking, error) {
	return s.Bookings.GetBookingByID(ctx, id)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int, status string) ([]models.Booking, error) {
	return s.Bookings.ListBookingsByUser(ctx, userID, status)
}

// Transition moves a booking to targetStatus through the transition
// table. An illegal pair returns models.ErrIllegalTransition and leaves
// the booking untouched. Reaching COMPLETED additionally stamps the
// completion time, fixes the final price and mints the invoice.
func (s *BookingService) Transition(ctx context.Context, bookingID int, targetStatus string) (models.Booking, error) {
	return s.update(ctx, bookingID, models.UpdateBookingRequest{Status: targetStatus})
}

// UpdateBooking is the admin entry point: it may assign a driver or
// change the status, with an optional final price override. Driver
// assignment always drives the status to DRIVER_ASSIGNED; a status sent
// in the same request is ignored rather than chained onto the fresh
// assignment.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID int, req models.UpdateBookingRequest) (models.Booking, error) {
	return s.update(ctx, bookingID, req)
}

func (s *BookingService) update(ctx context.Context, bookingID int, req models.UpdateBookingRequest) (models.Booking, error) {
	booking, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	if req.DriverID != nil {
		driver, err := s.Drivers.GetDriverByID(ctx, *req.DriverID)
		if err != nil {
			return models.Booking{}, err
		}
		if !fsm.CanTransition(booking.Status, fsm.StatusDriverAssigned) {
			return models.Booking{}, models.ErrIllegalTransition
		}
		if err := s.Bookings.AssignDriver(ctx, bookingID, driver.ID, booking.Status); err != nil {
			return models.Booking{}, s.translateCASError(ctx, bookingID, fsm.StatusDriverAssigned, err)
		}
		booking.Status = fsm.StatusDriverAssigned
		booking.DriverID = &driver.ID
		s.pushEvent(booking)

		if s.Notifier != nil {
			if user, uerr := s.Users.GetUserByID(ctx, booking.UserID); uerr == nil {
				s.Notifier.SendDriverAssignment(ctx, user, driver, booking)
			}
		}
		return s.Bookings.GetBookingByID(ctx, bookingID)
	}

	if req.Status != "" {
		// The transition table carries no self loops, so requesting the
		// current status is rejected like any other illegal pair.
		if !fsm.Valid(req.Status) || !fsm.CanTransition(booking.Status, req.Status) {
			return models.Booking{}, models.ErrIllegalTransition
		}
		if req.Status == fsm.StatusCompleted {
			if err := s.complete(ctx, &booking, req.FinalPrice); err != nil {
				return models.Booking{}, err
			}
		} else {
			if err := s.Bookings.UpdateStatusCAS(ctx, bookingID, booking.Status, req.Status); err != nil {
				return models.Booking{}, s.translateCASError(ctx, bookingID, req.Status, err)
			}
			booking.Status = req.Status
		}
		s.pushEvent(booking)
	}

	return s.Bookings.GetBookingByID(ctx, bookingID)
}

// complete finishes the trip: completion timestamp, final price and the
// invoice belong to the same logical operation. Invoice delivery is best
// effort and never rolls the completion back.
func (s *BookingService) complete(ctx context.Context, booking *models.Booking, finalPrice *float64) error {
	price := booking.FinalPrice
	if price == 0 {
		price = booking.EstimatedPrice
	}
	if finalPrice != nil {
		price = pricing.RoundCents(*finalPrice)
	}
	completedAt := s.now()
	if err := s.Bookings.Complete(ctx, booking.ID, price, completedAt); err != nil {
		return s.translateCASError(ctx, booking.ID, fsm.StatusCompleted, err)
	}
	booking.Status = fsm.StatusCompleted
	booking.FinalPrice = price
	booking.CompletedAt = &completedAt

	if s.Invoices != nil {
		if _, err := s.Invoices.GenerateInvoice(ctx, *booking); err != nil {
			s.Logger.Errorf("booking %d: invoice generation failed: %v", booking.ID, err)
		}
	}
	return nil
}

// translateCASError distinguishes "row is gone" from "someone moved the
// status first". Both surface from the store as sql.ErrNoRows.
func (s *BookingService) translateCASError(ctx context.Context, bookingID int, target string, err error) error {
	if errors.Is(err, fsm.ErrTransitionNotAllowed) {
		return models.ErrIllegalTransition
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, lookupErr := s.Bookings.GetBookingByID(ctx, bookingID); errors.Is(lookupErr, models.ErrBookingNotFound) {
		return models.ErrBookingNotFound
	}
	s.Logger.Infof("booking %d: concurrent status change beat transition to %s", bookingID, target)
	return models.ErrIllegalTransition
}

func (s *BookingService) pushEvent(b models.Booking) {
	s.events().PushBookingEvent(models.BookingEvent{
		BookingID:          b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		Status:             b.Status,
		At:                 s.now(),
	})
}

func newConfirmationNumber() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}
