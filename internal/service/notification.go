package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
	"medride/internal/ws"
)

// Publisher fans a frame out to a user's live websocket connections.
type Publisher interface {
	Publish(userID string, frame ws.Frame) int
}

// Ensure the hub implements Publisher.
var _ Publisher = (*ws.Hub)(nil)

// NotificationService delivers notifications: it persists them in Postgres
// (the durable polling source), mirrors them into the hot Redis window, and
// pushes them to live websocket connections. Persistence failures are
// errors; push failures are not, the poller catches the client up.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	stream           redis.NotificationStreamInterface
	publisher        Publisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	stream redis.NotificationStreamInterface,
	publisher Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		stream:           stream,
		publisher:        publisher,
	}
}

// Notify stores and delivers one notification to one user.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, body string, data map[string]any) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	if s.stream != nil {
		err := s.stream.Append(ctx, userID, &redis.StreamEntry{
			Seq:       n.Seq,
			Type:      string(typ),
			Title:     title,
			Body:      body,
			Data:      data,
			CreatedAt: n.CreatedAt,
		})
		if err != nil {
			log.Printf("notification: stream append failed user=%s: %v", userID, err)
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, ws.Frame{
			Type: string(typ),
			Seq:  n.Seq,
			Data: data,
		})
	}

	return nil
}

// NotifyRideRequested tells nearby on-duty drivers about a new open ride.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride, driverIDs []string) {
	for _, driverID := range driverIDs {
		err := s.Notify(ctx, driverID, domain.NotificationRideRequested,
			"New Ride Request",
			fmt.Sprintf("New %s ride near you, est. $%.2f", ride.MobilityNeed, ride.EstimatedFare),
			map[string]any{
				"ride_id":        ride.ID,
				"pickup_address": ride.PickupAddress,
				"scheduled_at":   ride.ScheduledAt,
				"estimated_fare": ride.EstimatedFare,
				"mobility_need":  ride.MobilityNeed,
			})
		if err != nil {
			log.Printf("notification: ride requested push failed driver=%s: %v", driverID, err)
		}
	}
}

// NotifyBidPlaced tells the rider a driver bid on their ride.
func (s *NotificationService) NotifyBidPlaced(ctx context.Context, ride *domain.Ride, bid *domain.Bid) {
	err := s.Notify(ctx, ride.RiderID, domain.NotificationBidPlaced,
		"New Bid",
		fmt.Sprintf("A driver offered $%.2f for your ride", bid.Amount),
		map[string]any{
			"ride_id":   ride.ID,
			"bid_id":    bid.ID,
			"driver_id": bid.DriverID,
			"amount":    bid.Amount,
		})
	if err != nil {
		log.Printf("notification: bid placed push failed rider=%s: %v", ride.RiderID, err)
	}
}

// NotifyBidAccepted tells the winning driver their bid was accepted.
func (s *NotificationService) NotifyBidAccepted(ctx context.Context, ride *domain.Ride, bid *domain.Bid) {
	err := s.Notify(ctx, bid.DriverID, domain.NotificationBidAccepted,
		"Bid Accepted",
		fmt.Sprintf("Your $%.2f bid was accepted", bid.Amount),
		map[string]any{
			"ride_id":        ride.ID,
			"bid_id":         bid.ID,
			"amount":         bid.Amount,
			"pickup_address": ride.PickupAddress,
			"scheduled_at":   ride.ScheduledAt,
		})
	if err != nil {
		log.Printf("notification: bid accepted push failed driver=%s: %v", bid.DriverID, err)
	}
}

// NotifyBidsDeclined tells losing drivers their bids were declined.
func (s *NotificationService) NotifyBidsDeclined(ctx context.Context, ride *domain.Ride, driverIDs []string) {
	for _, driverID := range driverIDs {
		err := s.Notify(ctx, driverID, domain.NotificationBidDeclined,
			"Bid Declined",
			"The rider chose another driver",
			map[string]any{"ride_id": ride.ID})
		if err != nil {
			log.Printf("notification: bid declined push failed driver=%s: %v", driverID, err)
		}
	}
}

// NotifyRideCancelled tells the affected party a ride was cancelled.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride, cancelledBy string) {
	// Notify the other party.
	recipientID := ride.DriverID
	body := "The rider cancelled the ride"
	if cancelledBy != ride.RiderID {
		recipientID = ride.RiderID
		body = "Your ride was cancelled"
	}
	if recipientID == "" {
		return // No one to notify.
	}

	err := s.Notify(ctx, recipientID, domain.NotificationRideCancelled,
		"Ride Cancelled", body,
		map[string]any{
			"ride_id":      ride.ID,
			"cancelled_by": cancelledBy,
			"reason":       ride.CancelReason,
		})
	if err != nil {
		log.Printf("notification: ride cancelled push failed user=%s: %v", recipientID, err)
	}
}

// NotifyRideStarted tells the rider the driver started the ride.
func (s *NotificationService) NotifyRideStarted(ctx context.Context, ride *domain.Ride) {
	err := s.Notify(ctx, ride.RiderID, domain.NotificationRideStarted,
		"Ride Started",
		"Your driver has started the trip",
		map[string]any{"ride_id": ride.ID, "driver_id": ride.DriverID})
	if err != nil {
		log.Printf("notification: ride started push failed rider=%s: %v", ride.RiderID, err)
	}
}

// NotifyRideCompleted tells the rider the ride is done and what it cost.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride) {
	err := s.Notify(ctx, ride.RiderID, domain.NotificationRideCompleted,
		"Ride Completed",
		fmt.Sprintf("Trip complete. Fare: $%.2f", ride.FinalFare),
		map[string]any{"ride_id": ride.ID, "final_fare": ride.FinalFare})
	if err != nil {
		log.Printf("notification: ride completed push failed rider=%s: %v", ride.RiderID, err)
	}
}

// NotifyDocumentReviewed tells a driver the outcome of a document review.
func (s *NotificationService) NotifyDocumentReviewed(ctx context.Context, doc *domain.DriverDocument) {
	title := "Document Approved"
	body := fmt.Sprintf("Your %s was approved", doc.Type)
	if doc.Status == domain.DocumentStatusRejected {
		title = "Document Rejected"
		body = fmt.Sprintf("Your %s was rejected: %s", doc.Type, doc.RejectReason)
	}

	err := s.Notify(ctx, doc.DriverID, domain.NotificationDocumentReviewed,
		title, body,
		map[string]any{
			"document_id":   doc.ID,
			"document_type": doc.Type,
			"status":        doc.Status,
			"reject_reason": doc.RejectReason,
		})
	if err != nil {
		log.Printf("notification: document reviewed push failed driver=%s: %v", doc.DriverID, err)
	}
}

// NotifyAccountActivated tells a driver their profile went ACTIVE.
func (s *NotificationService) NotifyAccountActivated(ctx context.Context, driverID string) {
	err := s.Notify(ctx, driverID, domain.NotificationAccountActivated,
		"Account Activated",
		"Your driver account is active. You can now go on duty and bid on rides.",
		nil)
	if err != nil {
		log.Printf("notification: account activated push failed driver=%s: %v", driverID, err)
	}
}

// NotifyDisputeUpdated tells both parties a dispute changed state.
func (s *NotificationService) NotifyDisputeUpdated(ctx context.Context, dispute *domain.Dispute) {
	data := map[string]any{
		"dispute_id": dispute.ID,
		"ride_id":    dispute.RideID,
		"status":     dispute.Status,
		"resolution": dispute.Resolution,
	}
	for _, userID := range []string{dispute.OpenedBy, dispute.Against} {
		if userID == "" {
			continue
		}
		err := s.Notify(ctx, userID, domain.NotificationDisputeUpdated,
			"Dispute Updated",
			fmt.Sprintf("Dispute on ride %s is now %s", dispute.RideID, dispute.Status),
			data)
		if err != nil {
			log.Printf("notification: dispute updated push failed user=%s: %v", userID, err)
		}
	}
}

// NotifyFareOverridden tells rider and driver an admin pinned the fare.
func (s *NotificationService) NotifyFareOverridden(ctx context.Context, ride *domain.Ride, override *domain.FareOverride) {
	data := map[string]any{
		"ride_id": ride.ID,
		"amount":  override.Amount,
		"reason":  override.Reason,
	}
	for _, userID := range []string{ride.RiderID, ride.DriverID} {
		if userID == "" {
			continue
		}
		err := s.Notify(ctx, userID, domain.NotificationFareOverridden,
			"Fare Adjusted",
			fmt.Sprintf("The fare for your ride was set to $%.2f", override.Amount),
			data)
		if err != nil {
			log.Printf("notification: fare overridden push failed user=%s: %v", userID, err)
		}
	}
}

// ListAfter returns a user's notifications past the cursor, serving from
// the hot Redis window when it covers the cursor and falling back to
// Postgres otherwise.
func (s *NotificationService) ListAfter(ctx context.Context, userID string, afterSeq int64, limit int) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if s.stream != nil {
		entries, ok, err := s.stream.Recent(ctx, userID, afterSeq)
		if err == nil && ok {
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			notifications := make([]*domain.Notification, 0, len(entries))
			for _, e := range entries {
				notifications = append(notifications, &domain.Notification{
					Seq:       e.Seq,
					UserID:    userID,
					Type:      domain.NotificationType(e.Type),
					Title:     e.Title,
					Body:      e.Body,
					Data:      e.Data,
					CreatedAt: e.CreatedAt,
				})
			}
			return notifications, nil
		}
		if err != nil {
			log.Printf("notification: stream read failed user=%s: %v", userID, err)
		}
	}

	return s.notificationRepo.ListAfter(ctx, userID, afterSeq, limit)
}

// MarkRead marks a user's notifications as read up to a sequence number.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, upToSeq int64) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	return s.notificationRepo.MarkRead(ctx, userID, upToSeq)
}
