package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"frenchdriver/internal/fsm"
	"frenchdriver/internal/models"
	"frenchdriver/internal/repositories"
	"frenchdriver/internal/services"
)

type BookingHandler struct {
	Bookings *services.BookingService
	Dispatch *services.DispatchService
	Invoices *services.InvoiceService
	Repo     *repositories.BookingRepository
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PickupAddress == "" || req.DestinationAddress == "" {
		http.Error(w, "Pickup and destination addresses are required", http.StatusBadRequest)
		return
	}
	if !validCoordinates(req.PickupLatitude, req.PickupLongitude) || !validCoordinates(req.DestinationLat, req.DestinationLon) {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}
	if req.ScheduledTime.IsZero() {
		req.ScheduledTime = time.Now()
	}

	booking, err := h.Bookings.CreateBooking(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	booking, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !h.mayView(r, booking) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	json.NewEncoder(w).Encode(booking)
}

// GetBookings lists the authenticated client's booking history, newest
// first, optionally filtered by ?status=.
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	status := r.URL.Query().Get("status")
	bookings, err := h.Bookings.ListUserBookings(r.Context(), userID, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	json.NewEncoder(w).Encode(bookings)
}

// UpdateBookingStatus is the admin lifecycle endpoint: status changes and
// final price overrides go through the transition table.
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	var req models.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	booking, err := h.Bookings.UpdateBooking(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(booking)
}

// CancelBooking lets the owning client cancel while cancellation is still
// a legal transition.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	booking, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !h.mayView(r, booking) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	cancelled, err := h.Bookings.Transition(r.Context(), id, fsm.StatusCancelled)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(cancelled)
}

func (h *BookingHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	var req struct {
		DriverID int `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DriverID == 0 {
		http.Error(w, "driver_id is required", http.StatusBadRequest)
		return
	}
	assigned := h.Dispatch.Assign(r.Context(), id, req.DriverID)
	json.NewEncoder(w).Encode(map[string]bool{"assigned": assigned})
}

func (h *BookingHandler) BroadcastBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	report, err := h.Dispatch.Broadcast(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(report)
}

// GenerateInvoice mints (or returns the already-minted) invoice for a
// completed booking. Non-completed bookings yield null.
func (h *BookingHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}
	booking, err := h.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	invoice, err := h.Invoices.GenerateInvoice(r.Context(), booking)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(invoice)
}

func (h *BookingHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.GetDashboardStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

// mayView allows the owner and any admin.
func (h *BookingHandler) mayView(r *http.Request, booking models.Booking) bool {
	if role, _ := r.Context().Value("role").(string); role == models.RoleAdmin {
		return true
	}
	userID, ok := r.Context().Value("user_id").(int)
	return ok && booking.UserID == userID
}
