package tests

import (
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

func TestQuote_MinimumFareFloor(t *testing.T) {
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	// Zero-distance trip falls back to the minimum fare.
	miles, fare := pricing.Quote(40.71, -74.0, 40.71, -74.0, domain.MobilityAmbulatory)
	if miles != 0 {
		t.Errorf("expected 0 miles, got %.4f", miles)
	}
	if fare != 12.0 {
		t.Errorf("expected minimum fare 12.00, got %.2f", fare)
	}
}

func TestQuote_SurchargesByMobilityNeed(t *testing.T) {
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	_, base := pricing.Quote(40.71, -74.0, 40.80, -74.0, domain.MobilityAmbulatory)
	_, wheelchair := pricing.Quote(40.71, -74.0, 40.80, -74.0, domain.MobilityWheelchair)
	_, stretcher := pricing.Quote(40.71, -74.0, 40.80, -74.0, domain.MobilityStretcher)

	if wheelchair != base+15.0 {
		t.Errorf("expected wheelchair surcharge of 15, got base=%.2f wheelchair=%.2f", base, wheelchair)
	}
	if stretcher != base+40.0 {
		t.Errorf("expected stretcher surcharge of 40, got base=%.2f stretcher=%.2f", base, stretcher)
	}
}

func TestQuote_DistanceScalesFare(t *testing.T) {
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	shortMiles, shortFare := pricing.Quote(40.71, -74.0, 40.75, -74.0, domain.MobilityAmbulatory)
	longMiles, longFare := pricing.Quote(40.71, -74.0, 41.20, -74.0, domain.MobilityAmbulatory)

	if longMiles <= shortMiles {
		t.Fatalf("expected longer trip to have more miles: %.2f vs %.2f", shortMiles, longMiles)
	}
	if longFare <= shortFare {
		t.Errorf("expected longer trip to cost more: %.2f vs %.2f", shortFare, longFare)
	}
}

func TestBidBounds_DefaultFactors(t *testing.T) {
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	min, max := pricing.BidBounds(40.0)
	if min != 20.0 {
		t.Errorf("expected lower bound 20.0, got %.2f", min)
	}
	if max != 120.0 {
		t.Errorf("expected upper bound 120.0, got %.2f", max)
	}
}

func TestValidateMobilityNeed(t *testing.T) {
	// Empty defaults to ambulatory.
	need, err := service.ValidateMobilityNeed("")
	if err != nil || need != domain.MobilityAmbulatory {
		t.Errorf("expected AMBULATORY default, got %s / %v", need, err)
	}

	if _, err := service.ValidateMobilityNeed("SCOOTER"); err == nil {
		t.Error("expected unknown mobility need to be rejected")
	}

	for _, valid := range []string{"AMBULATORY", "WHEELCHAIR", "STRETCHER"} {
		if _, err := service.ValidateMobilityNeed(valid); err != nil {
			t.Errorf("expected %s to be valid, got %v", valid, err)
		}
	}
}
