package domain

import "time"

// RideStatus represents the current status of a ride request.
type RideStatus string

const (
	RideStatusOpen       RideStatus = "OPEN"
	RideStatusAccepted   RideStatus = "ACCEPTED"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
	RideStatusCancelled  RideStatus = "CANCELLED"
)

// MobilityNeed represents the assistance level a rider requires.
type MobilityNeed string

const (
	MobilityAmbulatory MobilityNeed = "AMBULATORY"
	MobilityWheelchair MobilityNeed = "WHEELCHAIR"
	MobilityStretcher  MobilityNeed = "STRETCHER"
)

// Ride represents a ride request posted by a rider. While OPEN it collects
// driver bids; accepting a bid assigns the driver and fixes the fare.
type Ride struct {
	ID             string
	RiderID        string
	PickupAddress  string
	DropoffAddress string
	PickupLat      float64
	PickupLng      float64
	DropoffLat     float64
	DropoffLng     float64
	ScheduledAt    time.Time
	MobilityNeed   MobilityNeed
	Notes          string
	Status         RideStatus
	DriverID       string
	EstimatedMiles float64
	EstimatedFare  float64
	FinalFare      float64
	CreatedAt      time.Time
	StartedAt      time.Time
	CompletedAt    time.Time
	CancelledAt    time.Time
	CancelReason   string
}

// FareOverride records an admin pinning the fare of a ride, kept as its
// own row for auditability.
type FareOverride struct {
	ID        string
	RideID    string
	AdminID   string
	Amount    float64
	Reason    string
	CreatedAt time.Time
}
