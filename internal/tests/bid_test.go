package tests

import (
	"context"
	"errors"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

// bidFixture bundles a BidService with the mocks behind it.
type bidFixture struct {
	svc              *service.BidService
	rideRepo         *MockRideRepository
	bidRepo          *MockBidRepository
	driverRepo       *MockDriverRepository
	lockStore        *MockLockStore
	cacheStore       *MockCacheStore
	notificationRepo *MockNotificationRepository
}

func newBidFixture() *bidFixture {
	rideRepo := NewMockRideRepository()
	bidRepo := NewMockBidRepository()
	driverRepo := NewMockDriverRepository()
	lockStore := NewMockLockStore()
	cacheStore := NewMockCacheStore()
	notificationRepo := NewMockNotificationRepository()

	notifications := service.NewNotificationService(notificationRepo, NewMockNotificationStream(), NewMockPublisher())
	pricing := service.NewPricingService(service.DefaultPricingConfig())

	return &bidFixture{
		svc:              service.NewBidService(nil, rideRepo, bidRepo, driverRepo, lockStore, cacheStore, pricing, notifications),
		rideRepo:         rideRepo,
		bidRepo:          bidRepo,
		driverRepo:       driverRepo,
		lockStore:        lockStore,
		cacheStore:       cacheStore,
		notificationRepo: notificationRepo,
	}
}

func (f *bidFixture) addActiveDriver(id string) {
	f.driverRepo.AddDriver(&domain.Driver{
		UserID: id,
		Status: domain.DriverStatusActive,
	})
}

func (f *bidFixture) addOpenRide(id, riderID string, estimate float64) {
	f.rideRepo.AddRide(&domain.Ride{
		ID:            id,
		RiderID:       riderID,
		Status:        domain.RideStatusOpen,
		EstimatedFare: estimate,
	})
}

func TestPlaceBid_Success(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addActiveDriver("driver-1")
	f.addOpenRide("ride-1", "rider-1", 40.0)

	bid, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 45.0, "have a wheelchair lift")
	if err != nil {
		t.Fatalf("place bid failed: %v", err)
	}

	if bid.Status != domain.BidStatusPending {
		t.Errorf("expected PENDING, got %s", bid.Status)
	}
	if f.bidRepo.GetBid(bid.ID) == nil {
		t.Error("expected bid to be persisted")
	}

	// The rider is told.
	got := f.notificationRepo.NotificationsFor("rider-1")
	if len(got) != 1 || got[0].Type != domain.NotificationBidPlaced {
		t.Errorf("expected BID_PLACED notification, got %v", got)
	}
}

func TestPlaceBid_InactiveDriver(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})
	f.addOpenRide("ride-1", "rider-1", 40.0)

	_, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 45.0, "")
	if !errors.Is(err, service.ErrDriverNotActive) {
		t.Errorf("expected ErrDriverNotActive, got %v", err)
	}
}

func TestPlaceBid_RideNotOpen(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addActiveDriver("driver-1")
	f.rideRepo.AddRide(&domain.Ride{
		ID:            "ride-1",
		RiderID:       "rider-1",
		Status:        domain.RideStatusAccepted,
		EstimatedFare: 40.0,
	})

	_, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 45.0, "")
	if !errors.Is(err, service.ErrRideNotOpen) {
		t.Errorf("expected ErrRideNotOpen, got %v", err)
	}
}

func TestPlaceBid_OutOfBounds(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addActiveDriver("driver-1")
	f.addOpenRide("ride-1", "rider-1", 40.0)

	// Bounds with the default factors are [20, 120].
	if _, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 10.0, ""); !errors.Is(err, service.ErrBidOutOfBounds) {
		t.Errorf("expected ErrBidOutOfBounds for lowball, got %v", err)
	}
	if _, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 500.0, ""); !errors.Is(err, service.ErrBidOutOfBounds) {
		t.Errorf("expected ErrBidOutOfBounds for gouging, got %v", err)
	}
	if _, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 20.0, ""); err != nil {
		t.Errorf("bid at the lower bound should pass, got %v", err)
	}
}

func TestPlaceBid_DuplicatePending(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addActiveDriver("driver-1")
	f.addOpenRide("ride-1", "rider-1", 40.0)

	if _, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 45.0, ""); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}

	_, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 50.0, "")
	if !errors.Is(err, service.ErrDuplicateBid) {
		t.Errorf("expected ErrDuplicateBid, got %v", err)
	}
}

func TestPlaceBid_AfterWithdrawAllowed(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addActiveDriver("driver-1")
	f.addOpenRide("ride-1", "rider-1", 40.0)

	bid, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 45.0, "")
	if err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	if _, err := f.svc.WithdrawBid(ctx, "driver-1", bid.ID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	// A withdrawn bid no longer blocks a new one.
	if _, err := f.svc.PlaceBid(ctx, "driver-1", "ride-1", 50.0, ""); err != nil {
		t.Errorf("rebid after withdraw should pass, got %v", err)
	}
}

func TestWithdrawBid_OwnershipAndState(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.bidRepo.AddBid(&domain.Bid{ID: "bid-1", RideID: "ride-1", DriverID: "driver-1", Status: domain.BidStatusPending})
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-2", RideID: "ride-1", DriverID: "driver-2", Status: domain.BidStatusDeclined})

	if _, err := f.svc.WithdrawBid(ctx, "driver-2", "bid-1"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.WithdrawBid(ctx, "driver-2", "bid-2"); !errors.Is(err, service.ErrBidNotPending) {
		t.Errorf("expected ErrBidNotPending, got %v", err)
	}

	bid, err := f.svc.WithdrawBid(ctx, "driver-1", "bid-1")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if bid.Status != domain.BidStatusWithdrawn {
		t.Errorf("expected WITHDRAWN, got %s", bid.Status)
	}
}

func TestAcceptBid_Success(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addOpenRide("ride-1", "rider-1", 40.0)
	f.cacheStore.AddOpenRide(ctx, "ride-1")
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-win", RideID: "ride-1", DriverID: "driver-1", Amount: 45.0, Status: domain.BidStatusPending})
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-lose", RideID: "ride-1", DriverID: "driver-2", Amount: 50.0, Status: domain.BidStatusPending})

	ride, err := f.svc.AcceptBid(ctx, "rider-1", "bid-win")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1 assigned, got %s", ride.DriverID)
	}
	if ride.FinalFare != 45.0 {
		t.Errorf("expected final fare 45.0, got %.2f", ride.FinalFare)
	}

	if f.bidRepo.GetBid("bid-win").Status != domain.BidStatusAccepted {
		t.Error("winning bid should be ACCEPTED")
	}
	if f.bidRepo.GetBid("bid-lose").Status != domain.BidStatusDeclined {
		t.Error("sibling bid should be DECLINED")
	}

	// The lock was released after the accept.
	if f.lockStore.IsRideLocked("ride-1") {
		t.Error("expected ride lock released")
	}

	open, _ := f.cacheStore.IsRideOpen(ctx, "ride-1")
	if open {
		t.Error("expected ride removed from open-ride set")
	}

	// Winner and loser both hear about it.
	winner := f.notificationRepo.NotificationsFor("driver-1")
	if len(winner) != 1 || winner[0].Type != domain.NotificationBidAccepted {
		t.Errorf("expected BID_ACCEPTED for winner, got %v", winner)
	}
	loser := f.notificationRepo.NotificationsFor("driver-2")
	if len(loser) != 1 || loser[0].Type != domain.NotificationBidDeclined {
		t.Errorf("expected BID_DECLINED for loser, got %v", loser)
	}
}

func TestAcceptBid_Forbidden(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addOpenRide("ride-1", "rider-1", 40.0)
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-1", RideID: "ride-1", DriverID: "driver-1", Amount: 45.0, Status: domain.BidStatusPending})

	_, err := f.svc.AcceptBid(ctx, "rider-2", "bid-1")
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptBid_LockConflict(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addOpenRide("ride-1", "rider-1", 40.0)
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-1", RideID: "ride-1", DriverID: "driver-1", Amount: 45.0, Status: domain.BidStatusPending})

	// Another accept holds the ride lock.
	f.lockStore.ForceAcquireFailure = true

	_, err := f.svc.AcceptBid(ctx, "rider-1", "bid-1")
	if !errors.Is(err, service.ErrBidConflict) {
		t.Errorf("expected ErrBidConflict, got %v", err)
	}

	// Nothing was written.
	if f.bidRepo.GetBid("bid-1").Status != domain.BidStatusPending {
		t.Error("bid should remain PENDING after conflict")
	}
	if f.rideRepo.GetRide("ride-1").Status != domain.RideStatusOpen {
		t.Error("ride should remain OPEN after conflict")
	}
}

func TestAcceptBid_BidNoLongerPending(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.addOpenRide("ride-1", "rider-1", 40.0)
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-1", RideID: "ride-1", DriverID: "driver-1", Amount: 45.0, Status: domain.BidStatusWithdrawn})

	_, err := f.svc.AcceptBid(ctx, "rider-1", "bid-1")
	if !errors.Is(err, service.ErrBidNotPending) {
		t.Errorf("expected ErrBidNotPending, got %v", err)
	}
}

func TestAcceptBid_RideNoLongerOpen(t *testing.T) {
	ctx := context.Background()
	f := newBidFixture()

	f.rideRepo.AddRide(&domain.Ride{
		ID:            "ride-1",
		RiderID:       "rider-1",
		DriverID:      "driver-9",
		Status:        domain.RideStatusAccepted,
		EstimatedFare: 40.0,
	})
	f.bidRepo.AddBid(&domain.Bid{ID: "bid-1", RideID: "ride-1", DriverID: "driver-1", Amount: 45.0, Status: domain.BidStatusPending})

	_, err := f.svc.AcceptBid(ctx, "rider-1", "bid-1")
	if !errors.Is(err, service.ErrRideNotOpen) {
		t.Errorf("expected ErrRideNotOpen, got %v", err)
	}
}
