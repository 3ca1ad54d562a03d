package pricing

import "math"

// Vehicle classes selecting a tariff.
const (
	ClassEco     = "eco"
	ClassSedan   = "sedan"
	ClassVan     = "van"
	ClassPremium = "premium"
)

// Tariff holds the per-class pricing rates in euros.
type Tariff struct {
	BasePrice      float64
	PricePerKM     float64
	PricePerMinute float64
}

var tariffs = map[string]Tariff{
	ClassEco:     {BasePrice: 5.00, PricePerKM: 1.50, PricePerMinute: 0.40},
	ClassSedan:   {BasePrice: 6.50, PricePerKM: 1.80, PricePerMinute: 0.50},
	ClassVan:     {BasePrice: 8.00, PricePerKM: 2.20, PricePerMinute: 0.60},
	ClassPremium: {BasePrice: 10.00, PricePerKM: 2.80, PricePerMinute: 0.75},
}

// TariffFor returns the tariff for the given vehicle class. Unknown
// classes fall back to eco.
func TariffFor(vehicleClass string) Tariff {
	if t, ok := tariffs[vehicleClass]; ok {
		return t
	}
	return tariffs[ClassEco]
}

const (
	earthRadiusKM = 6371.0
	avgSpeedKMH   = 30.0
)

// Distance returns the great-circle distance in kilometers between two
// GPS points using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)
	dLat := rLat2 - rLat1
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

func toRadians(v float64) float64 {
	return v * math.Pi / 180
}

// EstimateDuration converts a distance into whole trip minutes assuming
// an average urban speed of 30 km/h. Minutes are truncated, not rounded.
func EstimateDuration(distanceKM float64) int {
	return int(distanceKM / avgSpeedKMH * 60)
}

// Estimate is the full price breakdown for a trip. Every component can be
// recomputed from the two coordinate pairs and the vehicle class alone.
type Estimate struct {
	DistanceKM      float64 `json:"distance_km"`
	DurationMinutes int     `json:"estimated_duration_minutes"`
	BasePrice       float64 `json:"base_price"`
	DistancePrice   float64 `json:"distance_price"`
	TimePrice       float64 `json:"time_price"`
	EstimatedPrice  float64 `json:"estimated_price"`
}

// CalculatePrice prices a trip between two coordinate pairs for the given
// vehicle class. Intermediate values stay unrounded; only the final total
// is rounded to cents (half away from zero). Pure function.
func CalculatePrice(pickupLat, pickupLon, destLat, destLon float64, vehicleClass string) Estimate {
	t := TariffFor(vehicleClass)
	distanceKM := Distance(pickupLat, pickupLon, destLat, destLon)
	durationMin := EstimateDuration(distanceKM)

	distancePrice := distanceKM * t.PricePerKM
	timePrice := float64(durationMin) * t.PricePerMinute
	total := t.BasePrice + distancePrice + timePrice

	return Estimate{
		DistanceKM:      math.Round(distanceKM*100) / 100,
		DurationMinutes: durationMin,
		BasePrice:       t.BasePrice,
		DistancePrice:   distancePrice,
		TimePrice:       timePrice,
		EstimatedPrice:  RoundCents(total),
	}
}

// RoundCents rounds a currency amount to 2 decimal places, half away
// from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
