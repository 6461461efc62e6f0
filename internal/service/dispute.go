package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/repository"
)

// DisputeService handles ride disputes: riders and drivers open them,
// admins resolve or dismiss them.
type DisputeService struct {
	disputeRepo   repository.DisputeRepository
	rideRepo      repository.RideRepository
	notifications *NotificationService
}

// NewDisputeService creates a new DisputeService.
func NewDisputeService(
	disputeRepo repository.DisputeRepository,
	rideRepo repository.RideRepository,
	notifications *NotificationService,
) *DisputeService {
	return &DisputeService{
		disputeRepo:   disputeRepo,
		rideRepo:      rideRepo,
		notifications: notifications,
	}
}

// OpenDispute raises a dispute on a ride. Only the rider or the assigned
// driver may open one, against the other party.
func (s *DisputeService) OpenDispute(ctx context.Context, userID, rideID, reason string) (*domain.Dispute, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrInvalidReason
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	var against string
	switch userID {
	case ride.RiderID:
		against = ride.DriverID
	case ride.DriverID:
		against = ride.RiderID
	default:
		return nil, ErrForbidden
	}

	dispute := &domain.Dispute{
		ID:        uuid.New().String(),
		RideID:    rideID,
		OpenedBy:  userID,
		Against:   against,
		Reason:    reason,
		Status:    domain.DisputeStatusOpen,
		CreatedAt: time.Now(),
	}

	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	return dispute, nil
}

// ListDisputes returns disputes, optionally filtered by status.
func (s *DisputeService) ListDisputes(ctx context.Context, status domain.DisputeStatus) ([]*domain.Dispute, error) {
	return s.disputeRepo.List(ctx, status)
}

// GetDispute retrieves a dispute. The parties to it and admins may view it.
func (s *DisputeService) GetDispute(ctx context.Context, userID string, role domain.Role, disputeID string) (*domain.Dispute, error) {
	if disputeID == "" {
		return nil, ErrInvalidDisputeID
	}

	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	if role != domain.RoleAdmin && dispute.OpenedBy != userID && dispute.Against != userID {
		return nil, ErrForbidden
	}

	return dispute, nil
}

// ResolveDispute closes an OPEN dispute with a resolution note and tells
// both parties.
func (s *DisputeService) ResolveDispute(ctx context.Context, adminID, disputeID, resolution string) (*domain.Dispute, error) {
	if strings.TrimSpace(resolution) == "" {
		return nil, ErrResolutionRequired
	}
	return s.closeDispute(ctx, adminID, disputeID, domain.DisputeStatusResolved, resolution)
}

// DismissDispute closes an OPEN dispute without action.
func (s *DisputeService) DismissDispute(ctx context.Context, adminID, disputeID, resolution string) (*domain.Dispute, error) {
	return s.closeDispute(ctx, adminID, disputeID, domain.DisputeStatusDismissed, resolution)
}

func (s *DisputeService) closeDispute(ctx context.Context, adminID, disputeID string, status domain.DisputeStatus, resolution string) (*domain.Dispute, error) {
	if disputeID == "" {
		return nil, ErrInvalidDisputeID
	}

	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != domain.DisputeStatusOpen {
		return nil, ErrDisputeNotOpen
	}

	dispute.Status = status
	dispute.Resolution = resolution
	dispute.ResolvedAt = time.Now()
	dispute.ResolvedBy = adminID

	if err := s.disputeRepo.Update(ctx, dispute); err != nil {
		return nil, err
	}

	s.notifications.NotifyDisputeUpdated(ctx, dispute)

	return dispute, nil
}
