package tests

import (
	"context"
	"errors"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

// disputeFixture bundles a DisputeService with the mocks behind it.
type disputeFixture struct {
	svc              *service.DisputeService
	disputeRepo      *MockDisputeRepository
	rideRepo         *MockRideRepository
	notificationRepo *MockNotificationRepository
}

func newDisputeFixture() *disputeFixture {
	disputeRepo := NewMockDisputeRepository()
	rideRepo := NewMockRideRepository()
	notificationRepo := NewMockNotificationRepository()

	notifications := service.NewNotificationService(notificationRepo, NewMockNotificationStream(), NewMockPublisher())

	return &disputeFixture{
		svc:              service.NewDisputeService(disputeRepo, rideRepo, notifications),
		disputeRepo:      disputeRepo,
		rideRepo:         rideRepo,
		notificationRepo: notificationRepo,
	}
}

func TestOpenDispute_PartiesOnly(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	f.rideRepo.AddRide(&domain.Ride{
		ID:       "ride-1",
		RiderID:  "rider-1",
		DriverID: "driver-1",
		Status:   domain.RideStatusCompleted,
	})

	// The rider opens against the driver.
	dispute, err := f.svc.OpenDispute(ctx, "rider-1", "ride-1", "driver took a long detour")
	if err != nil {
		t.Fatalf("open dispute failed: %v", err)
	}
	if dispute.Status != domain.DisputeStatusOpen {
		t.Errorf("expected OPEN, got %s", dispute.Status)
	}
	if dispute.Against != "driver-1" {
		t.Errorf("expected dispute against driver-1, got %s", dispute.Against)
	}

	// The driver opens against the rider.
	dispute, err = f.svc.OpenDispute(ctx, "driver-1", "ride-1", "rider was not at pickup")
	if err != nil {
		t.Fatalf("open dispute failed: %v", err)
	}
	if dispute.Against != "rider-1" {
		t.Errorf("expected dispute against rider-1, got %s", dispute.Against)
	}

	// A bystander cannot.
	if _, err := f.svc.OpenDispute(ctx, "rider-2", "ride-1", "none of my business"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestOpenDispute_ReasonRequired(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	f.rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", Status: domain.RideStatusCompleted})

	_, err := f.svc.OpenDispute(ctx, "rider-1", "ride-1", "   ")
	if !errors.Is(err, service.ErrInvalidReason) {
		t.Errorf("expected ErrInvalidReason, got %v", err)
	}
}

func TestResolveDispute_NotifiesBothParties(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	f.disputeRepo.AddDispute(&domain.Dispute{
		ID:       "disp-1",
		RideID:   "ride-1",
		OpenedBy: "rider-1",
		Against:  "driver-1",
		Status:   domain.DisputeStatusOpen,
	})

	dispute, err := f.svc.ResolveDispute(ctx, "admin-1", "disp-1", "partial refund issued")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if dispute.Status != domain.DisputeStatusResolved {
		t.Errorf("expected RESOLVED, got %s", dispute.Status)
	}
	if dispute.Resolution != "partial refund issued" {
		t.Errorf("expected resolution recorded, got %q", dispute.Resolution)
	}
	if dispute.ResolvedBy != "admin-1" {
		t.Errorf("expected resolver recorded, got %s", dispute.ResolvedBy)
	}

	for _, userID := range []string{"rider-1", "driver-1"} {
		got := f.notificationRepo.NotificationsFor(userID)
		if len(got) != 1 || got[0].Type != domain.NotificationDisputeUpdated {
			t.Errorf("expected DISPUTE_UPDATED for %s, got %v", userID, got)
		}
	}
}

func TestResolveDispute_ResolutionRequired(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	_, err := f.svc.ResolveDispute(ctx, "admin-1", "disp-1", "  ")
	if !errors.Is(err, service.ErrResolutionRequired) {
		t.Errorf("expected ErrResolutionRequired, got %v", err)
	}
}

func TestDismissDispute_OnlyOpenOnes(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	f.disputeRepo.AddDispute(&domain.Dispute{
		ID: "disp-1", RideID: "ride-1", OpenedBy: "rider-1", Against: "driver-1",
		Status: domain.DisputeStatusResolved,
	})

	_, err := f.svc.DismissDispute(ctx, "admin-1", "disp-1", "")
	if !errors.Is(err, service.ErrDisputeNotOpen) {
		t.Errorf("expected ErrDisputeNotOpen, got %v", err)
	}
}

func TestGetDispute_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newDisputeFixture()

	f.disputeRepo.AddDispute(&domain.Dispute{
		ID: "disp-1", RideID: "ride-1", OpenedBy: "rider-1", Against: "driver-1",
		Status: domain.DisputeStatusOpen,
	})

	if _, err := f.svc.GetDispute(ctx, "rider-1", domain.RoleRider, "disp-1"); err != nil {
		t.Errorf("opener should see dispute: %v", err)
	}
	if _, err := f.svc.GetDispute(ctx, "driver-1", domain.RoleDriver, "disp-1"); err != nil {
		t.Errorf("counterparty should see dispute: %v", err)
	}
	if _, err := f.svc.GetDispute(ctx, "admin-1", domain.RoleAdmin, "disp-1"); err != nil {
		t.Errorf("admin should see dispute: %v", err)
	}
	if _, err := f.svc.GetDispute(ctx, "rider-2", domain.RoleRider, "disp-1"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden for bystander, got %v", err)
	}
}
