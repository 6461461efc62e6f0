package service

import (
	"math"

	"medride/internal/domain"
)

// PricingConfig contains fare estimation configuration.
type PricingConfig struct {
	BaseFare            float64 // Flat component of every quote
	PerMileRate         float64 // Added per estimated mile
	WheelchairSurcharge float64 // Added for WHEELCHAIR rides
	StretcherSurcharge  float64 // Added for STRETCHER rides
	MinimumFare         float64 // Quote floor
	BidLowerFactor      float64 // Lowest acceptable bid as a fraction of the quote
	BidUpperFactor      float64 // Highest acceptable bid as a multiple of the quote
}

// DefaultPricingConfig returns the default pricing configuration.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		BaseFare:            8.0,
		PerMileRate:         2.25,
		WheelchairSurcharge: 15.0,
		StretcherSurcharge:  40.0,
		MinimumFare:         12.0,
		BidLowerFactor:      0.5,
		BidUpperFactor:      3.0,
	}
}

// PricingService quotes fares for ride requests. The quote anchors the
// sanity bounds applied to driver bids; it is not a binding price.
type PricingService struct {
	config PricingConfig
}

// NewPricingService creates a new PricingService.
func NewPricingService(config PricingConfig) *PricingService {
	return &PricingService{config: config}
}

// Quote estimates mileage and fare for a trip.
func (s *PricingService) Quote(pickupLat, pickupLng, dropoffLat, dropoffLng float64, need domain.MobilityNeed) (miles, fare float64) {
	miles = haversineMiles(pickupLat, pickupLng, dropoffLat, dropoffLng)

	fare = s.config.BaseFare + miles*s.config.PerMileRate

	switch need {
	case domain.MobilityWheelchair:
		fare += s.config.WheelchairSurcharge
	case domain.MobilityStretcher:
		fare += s.config.StretcherSurcharge
	}

	if fare < s.config.MinimumFare {
		fare = s.config.MinimumFare
	}

	return miles, math.Round(fare*100) / 100
}

// BidBounds returns the acceptable bid range for a ride's fare estimate.
func (s *PricingService) BidBounds(estimate float64) (min, max float64) {
	return estimate * s.config.BidLowerFactor, estimate * s.config.BidUpperFactor
}

const earthRadiusMiles = 3958.8

// haversineMiles computes the great-circle distance between two points.
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// ValidateMobilityNeed validates a mobility need string, defaulting to
// AMBULATORY when empty.
func ValidateMobilityNeed(need string) (domain.MobilityNeed, error) {
	switch domain.MobilityNeed(need) {
	case domain.MobilityAmbulatory, domain.MobilityWheelchair, domain.MobilityStretcher:
		return domain.MobilityNeed(need), nil
	case "":
		return domain.MobilityAmbulatory, nil
	default:
		return "", ErrInvalidMobilityNeed
	}
}
