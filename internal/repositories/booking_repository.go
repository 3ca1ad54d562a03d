package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, confirmation_number, user_id, driver_id, pickup_address, pickup_lat, pickup_lon, destination_address, destination_lat, destination_lon, vehicle_class, estimated_price, final_price, status, scheduled_time, created_at, updated_at, completed_at`

func (r *BookingRepository) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	query := `INSERT INTO bookings (confirmation_number, user_id, pickup_address, pickup_lat, pickup_lon, destination_address, destination_lat, destination_lon, vehicle_class, estimated_price, final_price, status, scheduled_time, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	res, err := r.DB.ExecContext(ctx, query,
		b.ConfirmationNumber, b.UserID, b.PickupAddress, b.PickupLatitude, b.PickupLongitude,
		b.DestinationAddress, b.DestinationLat, b.DestinationLon, b.VehicleClass,
		b.EstimatedPrice, b.FinalPrice, b.Status, b.ScheduledTime)
	if err != nil {
		return models.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = int(id)
	return b, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepository) ListBookingsByUser(ctx context.Context, userID int, status string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatusCAS moves a booking between statuses as one atomic
// read-checked write. The transition table is enforced before the UPDATE
// and the prior status is part of the WHERE clause, so a concurrent
// writer that got there first makes this call fail instead of silently
// overwriting.
func (r *BookingRepository) UpdateStatusCAS(ctx context.Context, bookingID int, fromStatus, toStatus string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fsm.Apply(ctx, tx, bookingID, fromStatus, toStatus); err != nil {
		return err
	}
	return tx.Commit()
}

// AssignDriver sets the driver and forces the status to DRIVER_ASSIGNED
// in a single compare-and-set write.
func (r *BookingRepository) AssignDriver(ctx context.Context, bookingID, driverID int, fromStatus string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET driver_id = ?, status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		driverID, fsm.StatusDriverAssigned, bookingID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Complete finishes an IN_PROGRESS booking: status, completion timestamp
// and final price are written atomically.
func (r *BookingRepository) Complete(ctx context.Context, bookingID int, finalPrice float64, completedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = ?, final_price = ?, completed_at = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		fsm.StatusCompleted, finalPrice, completedAt, bookingID, fsm.StatusInProgress)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var s models.DashboardStats
	var revenue sql.NullFloat64
	row := r.DB.QueryRowContext(ctx, `SELECT COUNT(*),
		COUNT(IF(status = 'PENDING', 1, NULL)),
		COUNT(IF(status = 'CONFIRMED', 1, NULL)),
		COUNT(IF(status = 'DRIVER_ASSIGNED', 1, NULL)),
		COUNT(IF(status = 'IN_PROGRESS', 1, NULL)),
		COUNT(IF(status = 'COMPLETED', 1, NULL)),
		COUNT(IF(status = 'CANCELLED', 1, NULL)),
		SUM(IF(status = 'COMPLETED', final_price, 0))
		FROM bookings`)
	err := row.Scan(&s.TotalBookings, &s.Pending, &s.Confirmed, &s.DriverAssigned, &s.InProgress, &s.Completed, &s.Cancelled, &revenue)
	if err != nil {
		return models.DashboardStats{}, err
	}
	s.TotalRevenue = revenue.Float64
	return s, nil
}

type bookingScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row bookingScanner) (models.Booking, error) {
	var b models.Booking
	var driverID sql.NullInt64
	var completedAt sql.NullTime
	err := row.Scan(&b.ID, &b.ConfirmationNumber, &b.UserID, &driverID,
		&b.PickupAddress, &b.PickupLatitude, &b.PickupLongitude,
		&b.DestinationAddress, &b.DestinationLat, &b.DestinationLon,
		&b.VehicleClass, &b.EstimatedPrice, &b.FinalPrice, &b.Status,
		&b.ScheduledTime, &b.CreatedAt, &b.UpdatedAt, &completedAt)
	if err != nil {
		return models.Booking{}, err
	}
	if driverID.Valid {
		id := int(driverID.Int64)
		b.DriverID = &id
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return b, nil
}
