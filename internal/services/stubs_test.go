package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
)

type testLogger struct{}

func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}

// stubBookingStore is an in-memory BookingStore with the same
// compare-and-set semantics as the MySQL repository.
type stubBookingStore struct {
	mu       sync.Mutex
	bookings map[int]models.Booking
	nextID   int
}

func newStubBookingStore() *stubBookingStore {
	return &stubBookingStore{bookings: make(map[int]models.Booking), nextID: 1}
}

func (s *stubBookingStore) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	b.CreatedAt = time.Now()
	s.bookings[b.ID] = b
	return b, nil
}

func (s *stubBookingStore) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, nil
}

func (s *stubBookingStore) ListBookingsByUser(ctx context.Context, userID int, status string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) UpdateStatusCAS(ctx context.Context, bookingID int, fromStatus, toStatus string) error {
	if !fsm.CanTransition(fromStatus, toStatus) {
		return fsm.ErrTransitionNotAllowed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != fromStatus {
		return sql.ErrNoRows
	}
	b.Status = toStatus
	s.bookings[bookingID] = b
	return nil
}

func (s *stubBookingStore) AssignDriver(ctx context.Context, bookingID, driverID int, fromStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != fromStatus {
		return sql.ErrNoRows
	}
	b.DriverID = &driverID
	b.Status = fsm.StatusDriverAssigned
	s.bookings[bookingID] = b
	return nil
}

func (s *stubBookingStore) Complete(ctx context.Context, bookingID int, finalPrice float64, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != fsm.StatusInProgress {
		return sql.ErrNoRows
	}
	b.Status = fsm.StatusCompleted
	b.FinalPrice = finalPrice
	b.CompletedAt = &completedAt
	s.bookings[bookingID] = b
	return nil
}

// seed inserts a booking in a given status and returns its id.
func (s *stubBookingStore) seed(b models.Booking) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.bookings[b.ID] = b
	return b.ID
}

type stubDriverStore struct {
	drivers map[int]models.Driver
}

func (s *stubDriverStore) GetDriverByID(ctx context.Context, id int) (models.Driver, error) {
	d, ok := s.drivers[id]
	if !ok {
		return models.Driver{}, models.ErrDriverNotFound
	}
	return d, nil
}

type stubUserStore struct {
	users map[int]models.User
}

func (s *stubUserStore) GetUserByID(ctx context.Context, id int) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

type stubRoster struct {
	drivers []models.Driver
	err     error
}

func (s *stubRoster) Roster(ctx context.Context) ([]models.Driver, error) {
	return s.drivers, s.err
}

// memInvoiceStore is an in-memory InvoiceStore enforcing invoice number
// uniqueness the way the unique index does.
type memInvoiceStore struct {
	mu        sync.Mutex
	byBooking map[int]models.Invoice
	numbers   map[string]bool
	nextID    int
}

func newMemInvoiceStore() *memInvoiceStore {
	return &memInvoiceStore{byBooking: make(map[int]models.Invoice), numbers: make(map[string]bool), nextID: 1}
}

func (s *memInvoiceStore) GetInvoiceByBookingID(ctx context.Context, bookingID int) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byBooking[bookingID]
	if !ok {
		return models.Invoice{}, models.ErrNoRecord
	}
	return inv, nil
}

func (s *memInvoiceStore) CreateWithNextNumber(ctx context.Context, inv models.Invoice, prefix string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := 1
	for number := range s.numbers {
		if len(number) > len(prefix) && number[:len(prefix)] == prefix {
			seq++
		}
	}
	inv.InvoiceNumber = fmt.Sprintf("%s-%04d", prefix, seq)
	if s.numbers[inv.InvoiceNumber] {
		return models.Invoice{}, models.ErrDuplicateInvoiceNumber
	}
	inv.ID = s.nextID
	s.nextID++
	s.numbers[inv.InvoiceNumber] = true
	s.byBooking[inv.BookingID] = inv
	return inv, nil
}

func (s *memInvoiceStore) MarkSent(ctx context.Context, invoiceID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for bookingID, inv := range s.byBooking {
		if inv.ID == invoiceID {
			if inv.SentAt != nil {
				return nil
			}
			t := at
			inv.SentAt = &t
			inv.Status = models.InvoiceSent
			s.byBooking[bookingID] = inv
			return nil
		}
	}
	return models.ErrNoRecord
}

func (s *memInvoiceStore) UpdatePDFPath(ctx context.Context, invoiceID int, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for bookingID, inv := range s.byBooking {
		if inv.ID == invoiceID {
			inv.PDFPath = path
			s.byBooking[bookingID] = inv
			return nil
		}
	}
	return models.ErrNoRecord
}
