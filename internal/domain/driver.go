package domain

import "time"

// DriverStatus represents the verification state of a driver profile.
type DriverStatus string

const (
	DriverStatusPending   DriverStatus = "PENDING"
	DriverStatusActive    DriverStatus = "ACTIVE"
	DriverStatusSuspended DriverStatus = "SUSPENDED"
)

// VehicleType represents the kind of vehicle a driver operates.
type VehicleType string

const (
	VehicleTypeSedan         VehicleType = "SEDAN"
	VehicleTypeVan           VehicleType = "VAN"
	VehicleTypeWheelchairVan VehicleType = "WHEELCHAIR_VAN"
	VehicleTypeStretcherVan  VehicleType = "STRETCHER_VAN"
)

// Driver represents a driver profile attached to a DRIVER user.
type Driver struct {
	UserID          string
	VehicleType     VehicleType
	VehiclePlate    string
	LicenseNumber   string
	ServiceRadiusKm float64
	Status          DriverStatus
	Rating          float64
	OnDuty          bool
	CreatedAt       time.Time
}

// DocumentType represents a kind of compliance document a driver submits.
type DocumentType string

const (
	DocumentTypeLicense             DocumentType = "LICENSE"
	DocumentTypeInsurance           DocumentType = "INSURANCE"
	DocumentTypeVehicleRegistration DocumentType = "VEHICLE_REGISTRATION"
)

// RequiredDocumentTypes lists the documents a driver must have approved
// before the profile can be activated.
var RequiredDocumentTypes = []DocumentType{
	DocumentTypeLicense,
	DocumentTypeInsurance,
	DocumentTypeVehicleRegistration,
}

// DocumentStatus represents the review state of a submitted document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// DriverDocument represents one submitted compliance document.
// ObjectKey references the uploaded file in external storage.
type DriverDocument struct {
	ID           string
	DriverID     string
	Type         DocumentType
	ObjectKey    string
	Status       DocumentStatus
	RejectReason string
	SubmittedAt  time.Time
	ReviewedAt   time.Time
	ReviewedBy   string
}
