package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// AdminHandler handles HTTP requests for moderation and review workflows.
type AdminHandler struct {
	adminService   *service.AdminService
	disputeService *service.DisputeService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService, disputeService *service.DisputeService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		disputeService: disputeService,
	}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := domain.Role(c.Query("role"))

	users, err := h.adminService.ListUsers(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	respondJSON(c, http.StatusOK, responses)
}

// ListDrivers handles GET /v1/admin/drivers
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.adminService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		responses = append(responses, toDriverResponse(d))
	}

	respondJSON(c, http.StatusOK, responses)
}

// SuspendUser handles POST /v1/admin/users/:id/suspend
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	if err := h.adminService.SuspendUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReinstateUser handles POST /v1/admin/users/:id/reinstate
func (h *AdminHandler) ReinstateUser(c *gin.Context) {
	if err := h.adminService.ReinstateUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PendingDocuments handles GET /v1/admin/documents/pending
func (h *AdminHandler) PendingDocuments(c *gin.Context) {
	docs, err := h.adminService.PendingDocuments(c.Request.Context())
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

// ReviewDocumentRequest is the HTTP request body for a document review.
type ReviewDocumentRequest struct {
	Approve      bool   `json:"approve"`
	RejectReason string `json:"reject_reason,omitempty"`
}

// ReviewDocument handles POST /v1/admin/documents/:id/review
func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.adminService.ReviewDocument(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Approve, req.RejectReason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDocumentResponse(doc))
}

// ActivateDriver handles POST /v1/admin/drivers/:id/activate
func (h *AdminHandler) ActivateDriver(c *gin.Context) {
	driver, err := h.adminService.ActivateDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// ListDisputes handles GET /v1/admin/disputes
func (h *AdminHandler) ListDisputes(c *gin.Context) {
	status := domain.DisputeStatus(c.Query("status"))

	disputes, err := h.disputeService.ListDisputes(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		responses = append(responses, toDisputeResponse(d))
	}

	respondJSON(c, http.StatusOK, responses)
}

// CloseDisputeRequest is the HTTP request body for closing a dispute.
type CloseDisputeRequest struct {
	Resolution string `json:"resolution,omitempty"`
}

// ResolveDispute handles POST /v1/admin/disputes/:id/resolve
func (h *AdminHandler) ResolveDispute(c *gin.Context) {
	var req CloseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	dispute, err := h.disputeService.ResolveDispute(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Resolution)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDisputeResponse(dispute))
}

// DismissDispute handles POST /v1/admin/disputes/:id/dismiss
func (h *AdminHandler) DismissDispute(c *gin.Context) {
	var req CloseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	dispute, err := h.disputeService.DismissDispute(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Resolution)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDisputeResponse(dispute))
}

// OverrideFareRequest is the HTTP request body for pinning a ride's fare.
type OverrideFareRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// FareOverrideResponse is the HTTP representation of a fare override.
type FareOverrideResponse struct {
	ID        string  `json:"id"`
	RideID    string  `json:"ride_id"`
	AdminID   string  `json:"admin_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	CreatedAt string  `json:"created_at"`
}

func toFareOverrideResponse(o *domain.FareOverride) FareOverrideResponse {
	return FareOverrideResponse{
		ID:        o.ID,
		RideID:    o.RideID,
		AdminID:   o.AdminID,
		Amount:    o.Amount,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

// OverrideFare handles POST /v1/admin/rides/:id/override-fare
func (h *AdminHandler) OverrideFare(c *gin.Context) {
	var req OverrideFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	override, err := h.adminService.OverrideFare(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toFareOverrideResponse(override))
}

// RideOverrides handles GET /v1/admin/rides/:id/overrides
func (h *AdminHandler) RideOverrides(c *gin.Context) {
	overrides, err := h.adminService.RideOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]FareOverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		responses = append(responses, toFareOverrideResponse(o))
	}

	respondJSON(c, http.StatusOK, responses)
}
