package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService    *service.RideService
	disputeService *service.DisputeService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, disputeService *service.DisputeService) *RideHandler {
	return &RideHandler{
		rideService:    rideService,
		disputeService: disputeService,
	}
}

// CreateRideRequest is the HTTP request body for posting a ride request.
type CreateRideRequest struct {
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	ScheduledAt    string  `json:"scheduled_at"` // RFC 3339
	MobilityNeed   string  `json:"mobility_need,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string  `json:"id"`
	RiderID        string  `json:"rider_id"`
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	ScheduledAt    string  `json:"scheduled_at"`
	MobilityNeed   string  `json:"mobility_need"`
	Notes          string  `json:"notes,omitempty"`
	Status         string  `json:"status"`
	DriverID       string  `json:"driver_id,omitempty"`
	EstimatedMiles float64 `json:"estimated_miles"`
	EstimatedFare  float64 `json:"estimated_fare"`
	FinalFare      float64 `json:"final_fare,omitempty"`
	CreatedAt      string  `json:"created_at"`
	StartedAt      string  `json:"started_at,omitempty"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	CancelledAt    string  `json:"cancelled_at,omitempty"`
	CancelReason   string  `json:"cancel_reason,omitempty"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:             r.ID,
		RiderID:        r.RiderID,
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		PickupLat:      r.PickupLat,
		PickupLng:      r.PickupLng,
		DropoffLat:     r.DropoffLat,
		DropoffLng:     r.DropoffLng,
		ScheduledAt:    r.ScheduledAt.Format(time.RFC3339),
		MobilityNeed:   string(r.MobilityNeed),
		Notes:          r.Notes,
		Status:         string(r.Status),
		DriverID:       r.DriverID,
		EstimatedMiles: r.EstimatedMiles,
		EstimatedFare:  r.EstimatedFare,
		FinalFare:      r.FinalFare,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		CancelReason:   r.CancelReason,
	}

	if !r.StartedAt.IsZero() {
		resp.StartedAt = r.StartedAt.Format(time.RFC3339)
	}
	if !r.CompletedAt.IsZero() {
		resp.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	if !r.CancelledAt.IsZero() {
		resp.CancelledAt = r.CancelledAt.Format(time.RFC3339)
	}

	return resp
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	responses := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, toRideResponse(r))
	}
	return responses
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid scheduled_at, want RFC 3339"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), c.GetString(middleware.ContextUserID), service.CreateRideRequest{
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		ScheduledAt:    scheduledAt,
		MobilityNeed:   req.MobilityNeed,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// ListRides handles GET /v1/rides
func (h *RideHandler) ListRides(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))
	status := domain.RideStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	rides, err := h.rideService.ListRides(c.Request.Context(), userID, role, status, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// ListOpenRides handles GET /v1/rides/open
func (h *RideHandler) ListOpenRides(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	rides, err := h.rideService.ListOpenRides(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))

	ride, err := h.rideService.GetRide(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))

	ride, err := h.rideService.CancelRide(c.Request.Context(), userID, role, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	ride, err := h.rideService.StartRide(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	ride, err := h.rideService.CompleteRide(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// OpenDisputeRequest is the HTTP request body for raising a dispute.
type OpenDisputeRequest struct {
	Reason string `json:"reason"`
}

// DisputeResponse is the HTTP representation of a dispute.
type DisputeResponse struct {
	ID         string `json:"id"`
	RideID     string `json:"ride_id"`
	OpenedBy   string `json:"opened_by"`
	Against    string `json:"against,omitempty"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
	CreatedAt  string `json:"created_at"`
	ResolvedAt string `json:"resolved_at,omitempty"`
}

func toDisputeResponse(d *domain.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:         d.ID,
		RideID:     d.RideID,
		OpenedBy:   d.OpenedBy,
		Against:    d.Against,
		Reason:     d.Reason,
		Status:     string(d.Status),
		Resolution: d.Resolution,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
	if !d.ResolvedAt.IsZero() {
		resp.ResolvedAt = d.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}

// OpenDispute handles POST /v1/rides/:id/disputes
func (h *RideHandler) OpenDispute(c *gin.Context) {
	var req OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	dispute, err := h.disputeService.OpenDispute(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDisputeResponse(dispute))
}

// GetDispute handles GET /v1/disputes/:id
func (h *RideHandler) GetDispute(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))

	dispute, err := h.disputeService.GetDispute(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDisputeResponse(dispute))
}
