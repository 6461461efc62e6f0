package domain

import "time"

// BidStatus represents the state of a driver's bid on a ride.
type BidStatus string

const (
	BidStatusPending   BidStatus = "PENDING"
	BidStatusAccepted  BidStatus = "ACCEPTED"
	BidStatusDeclined  BidStatus = "DECLINED"
	BidStatusWithdrawn BidStatus = "WITHDRAWN"
)

// Bid represents a driver's offer to serve an open ride at a price.
type Bid struct {
	ID        string
	RideID    string
	DriverID  string
	Amount    float64
	Note      string
	Status    BidStatus
	CreatedAt time.Time
}
