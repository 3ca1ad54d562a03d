package repositories

import (
	"context"
	"database/sql"
	"errors"

	"frenchdriver/internal/models"
)

type DriverRepository struct {
	DB *sql.DB
}

const driverColumns = `id, name, phone, email, license_number, vehicle_info, telegram_chat_id, notifications_enabled, created_at`

func (r *DriverRepository) CreateDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	query := `INSERT INTO drivers (name, phone, email, license_number, vehicle_info, telegram_chat_id, notifications_enabled, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, d.Name, d.Phone, d.Email, d.LicenseNumber, d.VehicleInfo, nullString(d.TelegramChatID), d.NotificationsEnabled)
	if err != nil {
		return models.Driver{}, err
	}
	id, _ := res.LastInsertId()
	d.ID = int(id)
	return d, nil
}

func (r *DriverRepository) GetDriverByID(ctx context.Context, id int) (models.Driver, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = ?`, id)
	d, err := scanDriver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Driver{}, models.ErrDriverNotFound
	}
	return d, err
}

// ListDrivers returns the full roster ordered by name.
func (r *DriverRepository) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *DriverRepository) UpdateDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	query := `UPDATE drivers SET name = ?, phone = ?, email = ?, license_number = ?, vehicle_info = ?, telegram_chat_id = ?, notifications_enabled = ? WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, d.Name, d.Phone, d.Email, d.LicenseNumber, d.VehicleInfo, nullString(d.TelegramChatID), d.NotificationsEnabled, d.ID)
	if err != nil {
		return models.Driver{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.Driver{}, err
	}
	if rows == 0 {
		return models.Driver{}, models.ErrDriverNotFound
	}
	return d, nil
}

func (r *DriverRepository) DeleteDriver(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	return err
}

func scanDriver(row bookingScanner) (models.Driver, error) {
	var d models.Driver
	var chatID sql.NullString
	err := row.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.LicenseNumber, &d.VehicleInfo, &chatID, &d.NotificationsEnabled, &d.CreatedAt)
	if err != nil {
		return models.Driver{}, err
	}
	d.TelegramChatID = chatID.String
	return d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
