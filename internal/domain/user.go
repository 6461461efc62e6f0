package domain

import "time"

// Role identifies what a user can do in the marketplace.
type Role string

const (
	RoleRider  Role = "RIDER"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

// UserStatus represents the moderation state of an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User represents an account in the system. Riders, drivers and admins
// all share this record; drivers additionally have a Driver profile.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
}
