package domain

import "time"

// SavedAddress represents a reusable pickup/dropoff location saved by a user.
type SavedAddress struct {
	ID        string
	UserID    string
	Label     string
	Line1     string
	City      string
	State     string
	Zip       string
	Lat       float64
	Lng       float64
	CreatedAt time.Time
}
