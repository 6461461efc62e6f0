package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// BidHandler handles HTTP requests for bids.
type BidHandler struct {
	bidService  *service.BidService
	rideService *service.RideService
}

// NewBidHandler creates a new BidHandler.
func NewBidHandler(bidService *service.BidService, rideService *service.RideService) *BidHandler {
	return &BidHandler{
		bidService:  bidService,
		rideService: rideService,
	}
}

// PlaceBidRequest is the HTTP request body for bidding on a ride.
type PlaceBidRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

// BidResponse is the HTTP representation of a bid.
type BidResponse struct {
	ID        string  `json:"id"`
	RideID    string  `json:"ride_id"`
	DriverID  string  `json:"driver_id"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func toBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		RideID:    b.RideID,
		DriverID:  b.DriverID,
		Amount:    b.Amount,
		Note:      b.Note,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// PlaceBid handles POST /v1/rides/:id/bids
func (h *BidHandler) PlaceBid(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	bid, err := h.bidService.PlaceBid(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Amount, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBidResponse(bid))
}

// ListBids handles GET /v1/rides/:id/bids
func (h *BidHandler) ListBids(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	role := domain.Role(c.GetString(middleware.ContextUserRole))

	bids, err := h.rideService.GetRideBids(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		responses = append(responses, toBidResponse(b))
	}

	respondJSON(c, http.StatusOK, responses)
}

// WithdrawBid handles POST /v1/bids/:id/withdraw
func (h *BidHandler) WithdrawBid(c *gin.Context) {
	bid, err := h.bidService.WithdrawBid(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBidResponse(bid))
}

// AcceptBid handles POST /v1/bids/:id/accept
func (h *BidHandler) AcceptBid(c *gin.Context) {
	ride, err := h.bidService.AcceptBid(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
