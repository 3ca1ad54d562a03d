package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"frenchdriver/internal/models"
)

type InvoiceRepository struct {
	DB *sql.DB
}

const invoiceColumns = `id, booking_id, invoice_number, amount, tax_amount, total_amount, status, pdf_path, generated_at, sent_at`

func (r *InvoiceRepository) GetInvoiceByBookingID(ctx context.Context, bookingID int) (models.Invoice, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE booking_id = ?`, bookingID)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, models.ErrNoRecord
	}
	return inv, err
}

// CreateWithNextNumber allocates the next invoice number within the
// month prefix and persists the invoice in one transaction. The SELECT
// takes an exclusive row lock on the candidate set (FOR UPDATE), so
// concurrent allocators for the same month serialize on the read. If a
// competing transaction still commits the same number first, the unique
// index on invoice_number rejects the insert and the caller sees
// models.ErrDuplicateInvoiceNumber to retry from scratch.
func (r *InvoiceRepository) CreateWithNextNumber(ctx context.Context, inv models.Invoice, prefix string) (models.Invoice, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Invoice{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var last sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(invoice_number) FROM invoices WHERE invoice_number LIKE ? FOR UPDATE`,
		prefix+"-%").Scan(&last)
	if err != nil {
		return models.Invoice{}, err
	}
	seq := 1
	if last.Valid {
		parsed, perr := parseSequence(last.String)
		if perr != nil {
			err = perr
			return models.Invoice{}, err
		}
		seq = parsed + 1
	}
	inv.InvoiceNumber = prefix + "-" + leftPad(seq)

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (booking_id, invoice_number, amount, tax_amount, total_amount, status, pdf_path, generated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.BookingID, inv.InvoiceNumber, inv.Amount, inv.TaxAmount, inv.TotalAmount, inv.Status, inv.PDFPath, inv.GeneratedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			err = models.ErrDuplicateInvoiceNumber
		}
		return models.Invoice{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Invoice{}, err
	}
	if err = tx.Commit(); err != nil {
		if isDuplicateKeyError(err) {
			err = models.ErrDuplicateInvoiceNumber
		}
		return models.Invoice{}, err
	}
	inv.ID = int(id)
	return inv, nil
}

// MarkSent records the first successful delivery. The sent_at IS NULL
// guard makes repeated calls no-ops.
func (r *InvoiceRepository) MarkSent(ctx context.Context, invoiceID int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE invoices SET status = ?, sent_at = ? WHERE id = ? AND sent_at IS NULL`,
		models.InvoiceSent, at, invoiceID)
	return err
}

func (r *InvoiceRepository) UpdatePDFPath(ctx context.Context, invoiceID int, path string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE invoices SET pdf_path = ? WHERE id = ?`, path, invoiceID)
	return err
}

func parseSequence(invoiceNumber string) (int, error) {
	idx := strings.LastIndex(invoiceNumber, "-")
	if idx < 0 || idx == len(invoiceNumber)-1 {
		return 0, errors.New("malformed invoice number: " + invoiceNumber)
	}
	return strconv.Atoi(invoiceNumber[idx+1:])
}

func leftPad(seq int) string {
	s := strconv.Itoa(seq)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// isDuplicateKeyError checks for a MySQL/MariaDB unique constraint
// violation (error 1062).
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func scanInvoice(row bookingScanner) (models.Invoice, error) {
	var inv models.Invoice
	var pdfPath sql.NullString
	var sentAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.BookingID, &inv.InvoiceNumber, &inv.Amount, &inv.TaxAmount,
		&inv.TotalAmount, &inv.Status, &pdfPath, &inv.GeneratedAt, &sentAt)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.PDFPath = pdfPath.String
	if sentAt.Valid {
		t := sentAt.Time
		inv.SentAt = &t
	}
	return inv, nil
}
