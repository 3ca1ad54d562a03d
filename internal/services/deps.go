package services

import (
	"context"
	"time"

	"frenchdriver/internal/models"
)

// Logger is the minimal logging interface required by the services.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// BookingStore is the persistence surface the booking lifecycle needs.
type BookingStore interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBookingByID(ctx context.Context, id int) (models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int, status string) ([]models.Booking, error)
	UpdateStatusCAS(ctx context.Context, bookingID int, fromStatus, toStatus string) error
	AssignDriver(ctx context.Context, bookingID, driverID int, fromStatus string) error
	Complete(ctx context.Context, bookingID int, finalPrice float64, completedAt time.Time) error
}

// DriverStore resolves driver records.
type DriverStore interface {
	GetDriverByID(ctx context.Context, id int) (models.Driver, error)
}

// DriverRoster lists the drivers a broadcast fans out to.
type DriverRoster interface {
	Roster(ctx context.Context) ([]models.Driver, error)
}

// UserStore resolves user records for notifications.
type UserStore interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

// InvoiceStore is the persistence surface of the invoice sequencer.
type InvoiceStore interface {
	GetInvoiceByBookingID(ctx context.Context, bookingID int) (models.Invoice, error)
	CreateWithNextNumber(ctx context.Context, inv models.Invoice, prefix string) (models.Invoice, error)
	MarkSent(ctx context.Context, invoiceID int, at time.Time) error
	UpdatePDFPath(ctx context.Context, invoiceID int, path string) error
}

// EventSink receives booking lifecycle events for the admin live feed.
// Implementations must not block.
type EventSink interface {
	PushBookingEvent(event models.BookingEvent)
}

type noopEvents struct{}

func (noopEvents) PushBookingEvent(models.BookingEvent) {}
