package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"frenchdriver/internal/pricing"
)

func TestEstimatePrice(t *testing.T) {
	h := &PricingHandler{}
	body := `{"pickup_latitude":48.8566,"pickup_longitude":2.3522,"destination_latitude":49.0097,"destination_longitude":2.5479,"vehicle_class":"eco"}`
	req := httptest.NewRequest(http.MethodPost, "/pricing/estimate", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.EstimatePrice(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var est pricing.Estimate
	if err := json.NewDecoder(rr.Body).Decode(&est); err != nil {
		t.Fatal(err)
	}
	if est.EstimatedPrice <= est.BasePrice {
		t.Errorf("estimate %+v not above base fare", est)
	}
	want := pricing.CalculatePrice(48.8566, 2.3522, 49.0097, 2.5479, "eco")
	if est != want {
		t.Errorf("handler returned %+v; engine computes %+v", est, want)
	}
}

func TestEstimatePriceRejectsBadInput(t *testing.T) {
	h := &PricingHandler{}
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"pickup_latitude":`},
		{"latitude out of range", `{"pickup_latitude":95.0,"pickup_longitude":2.35,"destination_latitude":49.0,"destination_longitude":2.54}`},
		{"longitude out of range", `{"pickup_latitude":48.85,"pickup_longitude":200.0,"destination_latitude":49.0,"destination_longitude":2.54}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/pricing/estimate", strings.NewReader(tc.body))
		rr := httptest.NewRecorder()
		h.EstimatePrice(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d; want 400", tc.name, rr.Code)
		}
	}
}
