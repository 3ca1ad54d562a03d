package models

import "time"

// Driver is a VTC driver profile. Read-only for the dispatch path: a
// broadcast never mutates driver records.
type Driver struct {
	ID                   int       `json:"id"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	LicenseNumber        string    `json:"license_number"`
	VehicleInfo          string    `json:"vehicle_info"`
	TelegramChatID       string    `json:"telegram_chat_id,omitempty"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
}

// CanReceiveNotifications reports whether the chat channel may be used
// for this driver.
func (d Driver) CanReceiveNotifications() bool {
	return d.NotificationsEnabled && d.TelegramChatID != ""
}

// VehicleSummary returns a short description used in notifications.
func (d Driver) VehicleSummary() string {
	if len(d.VehicleInfo) > 50 {
		return d.VehicleInfo[:50] + "..."
	}
	return d.VehicleInfo
}
