package domain

import "time"

// NotificationType represents the type of a notification frame.
type NotificationType string

const (
	NotificationRideRequested    NotificationType = "RIDE_REQUESTED"
	NotificationBidPlaced        NotificationType = "BID_PLACED"
	NotificationBidAccepted      NotificationType = "BID_ACCEPTED"
	NotificationBidDeclined      NotificationType = "BID_DECLINED"
	NotificationRideCancelled    NotificationType = "RIDE_CANCELLED"
	NotificationRideStarted      NotificationType = "RIDE_STARTED"
	NotificationRideCompleted    NotificationType = "RIDE_COMPLETED"
	NotificationDocumentReviewed NotificationType = "DOCUMENT_REVIEWED"
	NotificationAccountActivated NotificationType = "ACCOUNT_ACTIVATED"
	NotificationDisputeUpdated   NotificationType = "DISPUTE_UPDATED"
	NotificationFareOverridden   NotificationType = "FARE_OVERRIDDEN"
)

// Notification represents one delivered event. Seq is monotonic per user
// and is the cursor for the polling fallback.
type Notification struct {
	ID        string
	Seq       int64
	UserID    string
	Type      NotificationType
	Title     string
	Body      string
	Data      map[string]any
	CreatedAt time.Time
	ReadAt    time.Time
}
