package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/middleware"
	"medride/internal/service"
)

// NotificationHandler handles the polling fallback for notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse is the HTTP representation of a notification.
type NotificationResponse struct {
	Seq       int64          `json:"seq"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt string         `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		Seq:       n.Seq,
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// List handles GET /v1/notifications?after=<seq>&limit=<n>
//
// Clients that lose their websocket poll this with the last sequence
// number they saw and receive everything since.
func (h *NotificationHandler) List(c *gin.Context) {
	after, err := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil || after < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid after cursor"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	notifications, err := h.notificationService.ListAfter(c.Request.Context(), c.GetString(middleware.ContextUserID), after, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}

	respondJSON(c, http.StatusOK, responses)
}

// MarkReadRequest is the HTTP request body for acknowledging notifications.
type MarkReadRequest struct {
	UpToSeq int64 `json:"up_to_seq"`
}

// MarkRead handles POST /v1/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), c.GetString(middleware.ContextUserID), req.UpToSeq); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
