package handlers

import (
	"encoding/json"
	"net/http"

	"frenchdriver/internal/pricing"
)

type PricingHandler struct{}

type estimateRequest struct {
	PickupLatitude  float64 `json:"pickup_latitude"`
	PickupLongitude float64 `json:"pickup_longitude"`
	DestinationLat  float64 `json:"destination_latitude"`
	DestinationLon  float64 `json:"destination_longitude"`
	VehicleClass    string  `json:"vehicle_class"`
}

// EstimatePrice returns the full price breakdown for a prospective trip.
// Nothing is persisted.
func (h *PricingHandler) EstimatePrice(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validCoordinates(req.PickupLatitude, req.PickupLongitude) || !validCoordinates(req.DestinationLat, req.DestinationLon) {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}
	estimate := pricing.CalculatePrice(req.PickupLatitude, req.PickupLongitude, req.DestinationLat, req.DestinationLon, req.VehicleClass)
	json.NewEncoder(w).Encode(estimate)
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
