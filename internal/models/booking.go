package models

import (
	"time"

	"frenchdriver/internal/fsm"
)

type Booking struct {
	ID                 int        `json:"id"`
	ConfirmationNumber string     `json:"confirmation_number"`
	UserID             int        `json:"user_id"`
	DriverID           *int       `json:"driver_id,omitempty"`
	PickupAddress      string     `json:"pickup_address"`
	PickupLatitude     float64    `json:"pickup_latitude"`
	PickupLongitude    float64    `json:"pickup_longitude"`
	DestinationAddress string     `json:"destination_address"`
	DestinationLat     float64    `json:"destination_latitude"`
	DestinationLon     float64    `json:"destination_longitude"`
	VehicleClass       string     `json:"vehicle_class"`
	EstimatedPrice     float64    `json:"estimated_price"`
	FinalPrice         float64    `json:"final_price"`
	Status             string     `json:"status"`
	ScheduledTime      time.Time  `json:"scheduled_time"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// IsActive reports whether the booking is still moving through the
// lifecycle (not completed and not cancelled).
func (b Booking) IsActive() bool {
	switch b.Status {
	case fsm.StatusPending, fsm.StatusConfirmed, fsm.StatusDriverAssigned, fsm.StatusInProgress:
		return true
	}
	return false
}

// CanBeCancelled reports whether cancellation is still a legal transition.
func (b Booking) CanBeCancelled() bool {
	return fsm.CanTransition(b.Status, fsm.StatusCancelled)
}

type CreateBookingRequest struct {
	PickupAddress      string    `json:"pickup_address"`
	PickupLatitude     float64   `json:"pickup_latitude"`
	PickupLongitude    float64   `json:"pickup_longitude"`
	DestinationAddress string    `json:"destination_address"`
	DestinationLat     float64   `json:"destination_latitude"`
	DestinationLon     float64   `json:"destination_longitude"`
	VehicleClass       string    `json:"vehicle_class"`
	ScheduledTime      time.Time `json:"scheduled_time"`
}

type UpdateBookingRequest struct {
	Status     string   `json:"status"`
	DriverID   *int     `json:"driver_id,omitempty"`
	FinalPrice *float64 `json:"final_price,omitempty"`
}

// DispatchReport aggregates the outcome of a roster-wide broadcast.
type DispatchReport struct {
	BookingID        int      `json:"booking_id"`
	TotalDrivers     int      `json:"total_drivers"`
	SuccessCount     int      `json:"success_count"`
	FailedCount      int      `json:"failed_count"`
	DriversContacted []string `json:"drivers_contacted"`
}

// BookingEvent is pushed to the admin live feed on every status change.
type BookingEvent struct {
	BookingID          int       `json:"booking_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	Status             string    `json:"status"`
	At                 time.Time `json:"at"`
}

// DashboardStats aggregates counters for the admin dashboard.
type DashboardStats struct {
	TotalBookings  int     `json:"total_bookings"`
	Pending        int     `json:"pending"`
	Confirmed      int     `json:"confirmed"`
	DriverAssigned int     `json:"driver_assigned"`
	InProgress     int     `json:"in_progress"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	TotalRevenue   float64 `json:"total_revenue"`
}
