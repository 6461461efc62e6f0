package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// DriverHandler handles HTTP requests for driver profiles, documents and duty.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverResponse is the HTTP representation of a driver profile.
type DriverResponse struct {
	UserID          string  `json:"user_id"`
	VehicleType     string  `json:"vehicle_type,omitempty"`
	VehiclePlate    string  `json:"vehicle_plate,omitempty"`
	LicenseNumber   string  `json:"license_number,omitempty"`
	ServiceRadiusKm float64 `json:"service_radius_km"`
	Status          string  `json:"status"`
	Rating          float64 `json:"rating"`
	OnDuty          bool    `json:"on_duty"`
	CreatedAt       string  `json:"created_at"`
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		UserID:          d.UserID,
		VehicleType:     string(d.VehicleType),
		VehiclePlate:    d.VehiclePlate,
		LicenseNumber:   d.LicenseNumber,
		ServiceRadiusKm: d.ServiceRadiusKm,
		Status:          string(d.Status),
		Rating:          d.Rating,
		OnDuty:          d.OnDuty,
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
	}
}

// DocumentResponse is the HTTP representation of a compliance document.
type DocumentResponse struct {
	ID           string `json:"id"`
	DriverID     string `json:"driver_id"`
	Type         string `json:"type"`
	ObjectKey    string `json:"object_key"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`
	SubmittedAt  string `json:"submitted_at"`
	ReviewedAt   string `json:"reviewed_at,omitempty"`
}

func toDocumentResponse(d *domain.DriverDocument) DocumentResponse {
	resp := DocumentResponse{
		ID:           d.ID,
		DriverID:     d.DriverID,
		Type:         string(d.Type),
		ObjectKey:    d.ObjectKey,
		Status:       string(d.Status),
		RejectReason: d.RejectReason,
		SubmittedAt:  d.SubmittedAt.Format(time.RFC3339),
	}
	if !d.ReviewedAt.IsZero() {
		resp.ReviewedAt = d.ReviewedAt.Format(time.RFC3339)
	}
	return resp
}

// GetProfile handles GET /v1/drivers/me
func (h *DriverHandler) GetProfile(c *gin.Context) {
	driver, err := h.driverService.GetProfile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// UpdateProfileRequest is the HTTP request body for updating a driver profile.
type UpdateProfileRequest struct {
	VehicleType     string  `json:"vehicle_type,omitempty"`
	VehiclePlate    string  `json:"vehicle_plate,omitempty"`
	LicenseNumber   string  `json:"license_number,omitempty"`
	ServiceRadiusKm float64 `json:"service_radius_km,omitempty"`
}

// UpdateProfile handles PUT /v1/drivers/me
func (h *DriverHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), service.UpdateProfileRequest{
		VehicleType:     req.VehicleType,
		VehiclePlate:    req.VehiclePlate,
		LicenseNumber:   req.LicenseNumber,
		ServiceRadiusKm: req.ServiceRadiusKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// SubmitDocumentRequest is the HTTP request body for submitting a document.
type SubmitDocumentRequest struct {
	Type      string `json:"type"` // LICENSE, INSURANCE, VEHICLE_REGISTRATION
	ObjectKey string `json:"object_key"`
}

// SubmitDocument handles POST /v1/drivers/me/documents
func (h *DriverHandler) SubmitDocument(c *gin.Context) {
	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.driverService.SubmitDocument(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Type, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDocumentResponse(doc))
}

// ListDocuments handles GET /v1/drivers/me/documents
func (h *DriverHandler) ListDocuments(c *gin.Context) {
	docs, err := h.driverService.ListDocuments(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, toDocumentResponse(d))
	}

	respondJSON(c, http.StatusOK, responses)
}

// SetDutyRequest is the HTTP request body for flipping duty state.
type SetDutyRequest struct {
	OnDuty bool    `json:"on_duty"`
	Lat    float64 `json:"lat,omitempty"`
	Lng    float64 `json:"lng,omitempty"`
}

// SetDuty handles POST /v1/drivers/me/duty
func (h *DriverHandler) SetDuty(c *gin.Context) {
	var req SetDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.SetDuty(c.Request.Context(), c.GetString(middleware.ContextUserID), req.OnDuty, req.Lat, req.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// UpdateLocationRequest is the HTTP request body for a location ping.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles POST /v1/drivers/me/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
