package domain

import "time"

// DisputeStatus represents the state of a dispute.
type DisputeStatus string

const (
	DisputeStatusOpen      DisputeStatus = "OPEN"
	DisputeStatusResolved  DisputeStatus = "RESOLVED"
	DisputeStatusDismissed DisputeStatus = "DISMISSED"
)

// Dispute represents a complaint a rider or driver raises about a ride,
// resolved or dismissed by an admin.
type Dispute struct {
	ID         string
	RideID     string
	OpenedBy   string
	Against    string
	Reason     string
	Status     DisputeStatus
	Resolution string
	CreatedAt  time.Time
	ResolvedAt time.Time
	ResolvedBy string
}
