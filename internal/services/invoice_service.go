package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
	"frenchdriver/internal/pricing"
)

const (
	invoicePrefix      = "INV"
	defaultMaxAttempts = 5
)

// InvoiceNotifier delivers a generated invoice to the client.
type InvoiceNotifier interface {
	SendInvoice(ctx context.Context, user models.User, booking models.Booking, invoice models.Invoice) bool
}

// DocumentStorage archives the rendered invoice document and returns its
// storage path.
type DocumentStorage interface {
	UploadInvoice(invoiceNumber string, body []byte) (string, error)
}

// InvoiceService mints uniquely numbered invoices for completed bookings
// and delivers them. Numbers are 1-based 4-digit sequences scoped to the
// generation month; allocation is serialized by the store's row locking
// and retried on a lost race.
type InvoiceService struct {
	Invoices InvoiceStore
	Users    UserStore
	Notifier InvoiceNotifier
	Storage  DocumentStorage
	Logger   Logger

	// MaxAttempts caps allocation retries; zero means the default of 5.
	MaxAttempts int
	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *InvoiceService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return defaultMaxAttempts
}

// GenerateInvoice produces the invoice for a completed booking, exactly
// once per booking. A booking in any other status yields (nil, nil). A
// booking that already has an invoice gets the existing record back; no
// second row is ever created.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, booking models.Booking) (*models.Invoice, error) {
	if booking.Status != fsm.StatusCompleted {
		return nil, nil
	}

	existing, err := s.Invoices.GetInvoiceByBookingID(ctx, booking.ID)
	if err == nil {
		s.deliver(ctx, booking, &existing)
		return &existing, nil
	}
	if !errors.Is(err, models.ErrNoRecord) {
		return nil, err
	}

	amount := booking.FinalPrice
	if amount == 0 {
		amount = booking.EstimatedPrice
	}
	taxAmount := 0.00 // no VAT for now
	draft := models.Invoice{
		BookingID:   booking.ID,
		Amount:      amount,
		TaxAmount:   taxAmount,
		TotalAmount: pricing.RoundCents(amount + taxAmount),
		Status:      models.InvoiceGenerated,
	}

	var invoice models.Invoice
	for attempt := 0; ; attempt++ {
		if attempt >= s.maxAttempts() {
			return nil, models.ErrSequenceExhausted
		}
		generatedAt := s.now()
		draft.GeneratedAt = generatedAt
		prefix := fmt.Sprintf("%s-%04d-%02d", invoicePrefix, generatedAt.Year(), int(generatedAt.Month()))

		invoice, err = s.Invoices.CreateWithNextNumber(ctx, draft, prefix)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrDuplicateInvoiceNumber) {
			// A concurrent completion committed first. It may even have
			// been this booking's own invoice racing in from another
			// request, so re-check before proposing again.
			if won, lookupErr := s.Invoices.GetInvoiceByBookingID(ctx, booking.ID); lookupErr == nil {
				s.deliver(ctx, booking, &won)
				return &won, nil
			}
			continue
		}
		return nil, err
	}

	s.archive(ctx, booking, &invoice)
	s.deliver(ctx, booking, &invoice)
	return &invoice, nil
}

// archive uploads the rendered document to object storage. Best effort:
// a storage failure leaves pdf_path empty and the invoice valid.
func (s *InvoiceService) archive(ctx context.Context, booking models.Booking, invoice *models.Invoice) {
	if s.Storage == nil {
		return
	}
	body := renderInvoiceDocument(booking, *invoice)
	path, err := s.Storage.UploadInvoice(invoice.InvoiceNumber, body)
	if err != nil {
		s.Logger.Errorf("invoice %s: archive upload failed: %v", invoice.InvoiceNumber, err)
		return
	}
	if err := s.Invoices.UpdatePDFPath(ctx, invoice.ID, path); err != nil {
		s.Logger.Errorf("invoice %s: store pdf path failed: %v", invoice.InvoiceNumber, err)
		return
	}
	invoice.PDFPath = path
}

// deliver sends the invoice once. sent_at is the idempotency guard:
// already-sent invoices are never re-delivered, and a failed delivery is
// recorded as nothing so a later generation call tries again.
func (s *InvoiceService) deliver(ctx context.Context, booking models.Booking, invoice *models.Invoice) {
	if invoice.SentAt != nil || s.Notifier == nil {
		return
	}
	user, err := s.Users.GetUserByID(ctx, booking.UserID)
	if err != nil {
		s.Logger.Errorf("invoice %s: lookup user %d failed: %v", invoice.InvoiceNumber, booking.UserID, err)
		return
	}
	if !s.Notifier.SendInvoice(ctx, user, booking, *invoice) {
		s.Logger.Errorf("invoice %s: delivery failed", invoice.InvoiceNumber)
		return
	}
	sentAt := s.now()
	if err := s.Invoices.MarkSent(ctx, invoice.ID, sentAt); err != nil {
		s.Logger.Errorf("invoice %s: mark sent failed: %v", invoice.InvoiceNumber, err)
		return
	}
	invoice.Status = models.InvoiceSent
	invoice.SentAt = &sentAt
}

func renderInvoiceDocument(booking models.Booking, invoice models.Invoice) []byte {
	doc := fmt.Sprintf(
		"FACTURE %s\n\nCourse : %s\nDépart : %s\nDestination : %s\n\nMontant : %.2f€\nTVA : %.2f€\nTotal : %.2f€\n\nGénérée le %s\n",
		invoice.InvoiceNumber, booking.ConfirmationNumber,
		booking.PickupAddress, booking.DestinationAddress,
		invoice.Amount, invoice.TaxAmount, invoice.TotalAmount,
		invoice.GeneratedAt.Format("02/01/2006 15:04"))
	return []byte(doc)
}
