package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// AddressHandler handles HTTP requests for saved addresses.
type AddressHandler struct {
	addressService *service.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// AddressRequest is the HTTP request body for creating or updating an address.
type AddressRequest struct {
	Label string  `json:"label"`
	Line1 string  `json:"line1"`
	City  string  `json:"city,omitempty"`
	State string  `json:"state,omitempty"`
	Zip   string  `json:"zip,omitempty"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// AddressResponse is the HTTP representation of a saved address.
type AddressResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Line1     string  `json:"line1"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	CreatedAt string  `json:"created_at"`
}

func toAddressResponse(a *domain.SavedAddress) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Line1:     a.Line1,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Lat:       a.Lat,
		Lng:       a.Lng,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func (r AddressRequest) toServiceRequest() service.AddressRequest {
	return service.AddressRequest{
		Label: r.Label,
		Line1: r.Line1,
		City:  r.City,
		State: r.State,
		Zip:   r.Zip,
		Lat:   r.Lat,
		Lng:   r.Lng,
	}
}

// CreateAddress handles POST /v1/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	addr, err := h.addressService.CreateAddress(c.Request.Context(), c.GetString(middleware.ContextUserID), req.toServiceRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toAddressResponse(addr))
}

// ListAddresses handles GET /v1/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addrs, err := h.addressService.ListAddresses(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]AddressResponse, 0, len(addrs))
	for _, a := range addrs {
		responses = append(responses, toAddressResponse(a))
	}

	respondJSON(c, http.StatusOK, responses)
}

// UpdateAddress handles PUT /v1/addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	addr, err := h.addressService.UpdateAddress(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.toServiceRequest())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAddressResponse(addr))
}

// DeleteAddress handles DELETE /v1/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	if err := h.addressService.DeleteAddress(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
