package service

import "errors"

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrAccountSuspended is returned when a suspended account tries to act.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrInvalidName is returned when a name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidEmail is returned when an email is malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidPassword is returned when a password is too short.
	ErrInvalidPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidRole is returned when a registration role is not RIDER or DRIVER.
	ErrInvalidRole = errors.New("invalid role")

	// ErrForbidden is returned when the caller may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidMobilityNeed is returned when the mobility need is unknown.
	ErrInvalidMobilityNeed = errors.New("invalid mobility need")

	// ErrScheduledInPast is returned when a ride is scheduled before now.
	ErrScheduledInPast = errors.New("scheduled time is in the past")

	// ErrRideNotOpen is returned when an operation requires an OPEN ride.
	ErrRideNotOpen = errors.New("ride is not open")

	// ErrRideAlreadyCancelled is returned when cancelling a cancelled ride.
	ErrRideAlreadyCancelled = errors.New("ride already cancelled")

	// ErrRideCannotBeCancelled is returned when the ride state forbids cancellation.
	ErrRideCannotBeCancelled = errors.New("ride cannot be cancelled in current state")

	// ErrRideNotAccepted is returned when starting a ride that isn't ACCEPTED.
	ErrRideNotAccepted = errors.New("ride not accepted")

	// ErrRideNotInProgress is returned when completing a ride that isn't IN_PROGRESS.
	ErrRideNotInProgress = errors.New("ride not in progress")

	// ErrRideNotOverridable is returned when a fare override targets an OPEN
	// or CANCELLED ride.
	ErrRideNotOverridable = errors.New("ride fare cannot be overridden in current state")

	// ErrInvalidBidID is returned when a bid ID is empty.
	ErrInvalidBidID = errors.New("invalid bid id")

	// ErrInvalidBidAmount is returned when a bid amount is not positive.
	ErrInvalidBidAmount = errors.New("invalid bid amount")

	// ErrBidOutOfBounds is returned when a bid is outside the sanity bounds
	// derived from the fare estimate.
	ErrBidOutOfBounds = errors.New("bid amount out of bounds")

	// ErrDuplicateBid is returned when a driver already has a pending bid on the ride.
	ErrDuplicateBid = errors.New("driver already has a pending bid on this ride")

	// ErrBidNotPending is returned when the bid is no longer PENDING.
	ErrBidNotPending = errors.New("bid is not pending")

	// ErrBidConflict is returned when another accept is in flight for the ride.
	ErrBidConflict = errors.New("another accept is in progress for this ride")

	// ErrDriverNotActive is returned when a non-ACTIVE driver bids or goes on duty.
	ErrDriverNotActive = errors.New("driver is not active")

	// ErrDriverAlreadyActive is returned when activating an ACTIVE driver.
	ErrDriverAlreadyActive = errors.New("driver already active")

	// ErrDriverOffDuty is returned when an off-duty driver reports a location.
	ErrDriverOffDuty = errors.New("driver is off duty")

	// ErrInvalidVehicleType is returned when the vehicle type is unknown.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidDocumentID is returned when a document ID is empty.
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrInvalidDocumentType is returned when the document type is unknown.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidObjectKey is returned when a document submission has no file reference.
	ErrInvalidObjectKey = errors.New("invalid object key")

	// ErrDocumentNotPending is returned when reviewing a document that isn't PENDING.
	ErrDocumentNotPending = errors.New("document is not pending review")

	// ErrDocumentUnderReview is returned when another admin holds the review lock.
	ErrDocumentUnderReview = errors.New("document is being reviewed")

	// ErrDocumentAlreadySubmitted is returned when a live document of the
	// same type already exists.
	ErrDocumentAlreadySubmitted = errors.New("document of this type already submitted")

	// ErrRejectReasonRequired is returned when a rejection carries no reason.
	ErrRejectReasonRequired = errors.New("reject reason required")

	// ErrDocumentsIncomplete is returned when activating a driver whose
	// required documents are not all approved.
	ErrDocumentsIncomplete = errors.New("required documents not all approved")

	// ErrInvalidDisputeID is returned when a dispute ID is empty.
	ErrInvalidDisputeID = errors.New("invalid dispute id")

	// ErrInvalidReason is returned when a reason text is empty.
	ErrInvalidReason = errors.New("reason required")

	// ErrDisputeNotOpen is returned when resolving a non-OPEN dispute.
	ErrDisputeNotOpen = errors.New("dispute is not open")

	// ErrResolutionRequired is returned when a resolution carries no text.
	ErrResolutionRequired = errors.New("resolution required")

	// ErrInvalidAddress is returned when a saved address misses required fields.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrAddressLimitReached is returned when a user saves too many addresses.
	ErrAddressLimitReached = errors.New("saved address limit reached")

	// ErrInvalidAmount is returned when a fare amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
)
