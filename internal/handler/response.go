package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medride/internal/repository"
	"medride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidBidID),
		errors.Is(err, service.ErrInvalidDocumentID),
		errors.Is(err, service.ErrInvalidDisputeID),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidMobilityNeed),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidDocumentType),
		errors.Is(err, service.ErrInvalidObjectKey),
		errors.Is(err, service.ErrInvalidBidAmount),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrScheduledInPast),
		errors.Is(err, service.ErrRejectReasonRequired),
		errors.Is(err, service.ErrResolutionRequired):
		return http.StatusBadRequest

	// Bid bounds get their own 422 so clients can distinguish "malformed"
	// from "rejected by policy".
	case errors.Is(err, service.ErrBidOutOfBounds):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRideNotOpen),
		errors.Is(err, service.ErrRideAlreadyCancelled),
		errors.Is(err, service.ErrRideCannotBeCancelled),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotInProgress),
		errors.Is(err, service.ErrRideNotOverridable),
		errors.Is(err, service.ErrDuplicateBid),
		errors.Is(err, service.ErrBidNotPending),
		errors.Is(err, service.ErrBidConflict),
		errors.Is(err, service.ErrDriverAlreadyActive),
		errors.Is(err, service.ErrDriverOffDuty),
		errors.Is(err, service.ErrDocumentNotPending),
		errors.Is(err, service.ErrDocumentUnderReview),
		errors.Is(err, service.ErrDocumentAlreadySubmitted),
		errors.Is(err, service.ErrDocumentsIncomplete),
		errors.Is(err, service.ErrDisputeNotOpen),
		errors.Is(err, service.ErrAddressLimitReached):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountSuspended),
		errors.Is(err, service.ErrDriverNotActive):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
