package models

import "time"

// Invoice statuses.
const (
	InvoiceGenerated = "GENERATED"
	InvoiceSent      = "SENT"
	InvoicePaid      = "PAID"
)

// Invoice is the one-to-one billing record of a completed booking.
// TotalAmount is always derived; it is never accepted as input.
type Invoice struct {
	ID            int        `json:"id"`
	BookingID     int        `json:"booking_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        float64    `json:"amount"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	PDFPath       string     `json:"pdf_path,omitempty"`
	GeneratedAt   time.Time  `json:"generated_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}
