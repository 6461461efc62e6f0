package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
	"medride/internal/repository/postgres"
)

// acceptLockTTL bounds how long a bid acceptance may hold the ride lock.
const acceptLockTTL = 10 * time.Second

// BidService handles driver bids and rider bid acceptance.
type BidService struct {
	db            *sql.DB
	rideRepo      repository.RideRepository
	bidRepo       repository.BidRepository
	driverRepo    repository.DriverRepository
	lockStore     redis.LockStoreInterface
	cacheStore    redis.CacheStoreInterface
	pricing       *PricingService
	notifications *NotificationService
}

// NewBidService creates a new BidService. db may be nil in tests; the
// accept path then applies its writes through the repositories directly
// instead of a transaction.
func NewBidService(
	db *sql.DB,
	rideRepo repository.RideRepository,
	bidRepo repository.BidRepository,
	driverRepo repository.DriverRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	pricing *PricingService,
	notifications *NotificationService,
) *BidService {
	return &BidService{
		db:            db,
		rideRepo:      rideRepo,
		bidRepo:       bidRepo,
		driverRepo:    driverRepo,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		pricing:       pricing,
		notifications: notifications,
	}
}

// PlaceBid creates a PENDING bid on an OPEN ride. The driver must be
// ACTIVE, may hold only one live bid per ride, and the amount must fall
// within the sanity bounds around the fare estimate.
func (s *BidService) PlaceBid(ctx context.Context, driverID, rideID string, amount float64, note string) (*domain.Bid, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if amount <= 0 {
		return nil, ErrInvalidBidAmount
	}

	if err := s.requireActiveDriver(ctx, driverID); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusOpen {
		return nil, ErrRideNotOpen
	}

	min, max := s.pricing.BidBounds(ride.EstimatedFare)
	if amount < min || amount > max {
		return nil, ErrBidOutOfBounds
	}

	if _, err := s.bidRepo.GetPendingByRideAndDriver(ctx, rideID, driverID); err == nil {
		return nil, ErrDuplicateBid
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	bid := &domain.Bid{
		ID:        uuid.New().String(),
		RideID:    rideID,
		DriverID:  driverID,
		Amount:    amount,
		Note:      note,
		Status:    domain.BidStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateBid
		}
		return nil, err
	}

	s.notifications.NotifyBidPlaced(ctx, ride, bid)

	return bid, nil
}

// requireActiveDriver checks the driver profile is ACTIVE, serving from
// the profile cache when it is warm.
func (s *BidService) requireActiveDriver(ctx context.Context, driverID string) error {
	if cached, err := s.cacheStore.GetDriver(ctx, driverID); err == nil && cached != nil {
		if cached.Status != string(domain.DriverStatusActive) {
			return ErrDriverNotActive
		}
		return nil
	}

	driver, err := s.driverRepo.GetByUserID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDriverNotActive
		}
		return err
	}
	if driver.Status != domain.DriverStatusActive {
		return ErrDriverNotActive
	}

	if err := s.cacheStore.SetDriver(ctx, &redis.CachedDriver{
		UserID:      driver.UserID,
		VehicleType: string(driver.VehicleType),
		Status:      string(driver.Status),
		OnDuty:      driver.OnDuty,
	}); err != nil {
		log.Printf("bid: driver cache set failed driver=%s: %v", driverID, err)
	}

	return nil
}

// WithdrawBid moves a driver's own PENDING bid to WITHDRAWN.
func (s *BidService) WithdrawBid(ctx context.Context, driverID, bidID string) (*domain.Bid, error) {
	if bidID == "" {
		return nil, ErrInvalidBidID
	}

	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	if bid.DriverID != driverID {
		return nil, ErrForbidden
	}
	if bid.Status != domain.BidStatusPending {
		return nil, ErrBidNotPending
	}

	if err := s.bidRepo.UpdateStatus(ctx, bidID, domain.BidStatusWithdrawn); err != nil {
		return nil, err
	}

	bid.Status = domain.BidStatusWithdrawn
	return bid, nil
}

// AcceptBid accepts one bid on the rider's OPEN ride: the bid goes
// ACCEPTED, every other pending bid goes DECLINED, and the ride is
// assigned to the winning driver at the bid amount. A ride-scoped lock
// serializes concurrent accepts; state is re-verified under the lock.
func (s *BidService) AcceptBid(ctx context.Context, riderID, bidID string) (*domain.Ride, error) {
	if bidID == "" {
		return nil, ErrInvalidBidID
	}

	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, bid.RideID)
	if err != nil {
		return nil, err
	}
	if ride.RiderID != riderID {
		return nil, ErrForbidden
	}
	if ride.Status != domain.RideStatusOpen {
		return nil, ErrRideNotOpen
	}
	if bid.Status != domain.BidStatusPending {
		return nil, ErrBidNotPending
	}

	acquired, err := s.lockStore.AcquireRideLock(ctx, ride.ID, acceptLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire ride lock: %w", err)
	}
	if !acquired {
		return nil, ErrBidConflict
	}
	defer func() {
		if err := s.lockStore.ReleaseRideLock(context.WithoutCancel(ctx), ride.ID); err != nil {
			log.Printf("bid: ride lock release failed ride=%s: %v", ride.ID, err)
		}
	}()

	// Re-verify under the lock; another accept may have won before we
	// acquired it.
	ride, err = s.rideRepo.GetByID(ctx, bid.RideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusOpen {
		return nil, ErrRideNotOpen
	}
	bid, err = s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.Status != domain.BidStatusPending {
		return nil, ErrBidNotPending
	}

	declinedDrivers := s.pendingDriversExcept(ctx, ride.ID, bid.DriverID)

	ride.Status = domain.RideStatusAccepted
	ride.DriverID = bid.DriverID
	ride.FinalFare = bid.Amount

	if err := s.applyAccept(ctx, ride, bid); err != nil {
		return nil, err
	}

	if err := s.cacheStore.RemoveOpenRide(ctx, ride.ID); err != nil {
		log.Printf("bid: open-ride set remove failed ride=%s: %v", ride.ID, err)
	}
	if err := s.cacheStore.InvalidateRide(ctx, ride.ID); err != nil {
		log.Printf("bid: ride cache invalidate failed ride=%s: %v", ride.ID, err)
	}

	bid.Status = domain.BidStatusAccepted
	s.notifications.NotifyBidAccepted(ctx, ride, bid)
	s.notifications.NotifyBidsDeclined(ctx, ride, declinedDrivers)

	return ride, nil
}

// applyAccept writes the acceptance atomically: winning bid ACCEPTED,
// sibling bids DECLINED, ride assigned. Without a database handle the
// writes go through the repositories directly.
func (s *BidService) applyAccept(ctx context.Context, ride *domain.Ride, bid *domain.Bid) error {
	if s.db == nil {
		if err := s.bidRepo.UpdateStatus(ctx, bid.ID, domain.BidStatusAccepted); err != nil {
			return err
		}
		if _, err := s.bidRepo.DeclineSiblings(ctx, ride.ID, bid.ID); err != nil {
			return err
		}
		return s.rideRepo.Update(ctx, ride)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	bidRepo := postgres.NewBidRepositoryWithTx(tx)
	rideRepo := postgres.NewRideRepositoryWithTx(tx)

	if err := bidRepo.UpdateStatus(ctx, bid.ID, domain.BidStatusAccepted); err != nil {
		return err
	}
	if _, err := bidRepo.DeclineSiblings(ctx, ride.ID, bid.ID); err != nil {
		return err
	}
	if err := rideRepo.Update(ctx, ride); err != nil {
		return err
	}

	return tx.Commit()
}

// pendingDriversExcept returns drivers with PENDING bids on the ride,
// excluding the winning driver.
func (s *BidService) pendingDriversExcept(ctx context.Context, rideID, winnerID string) []string {
	bids, err := s.bidRepo.GetByRideID(ctx, rideID)
	if err != nil {
		log.Printf("bid: sibling lookup failed ride=%s: %v", rideID, err)
		return nil
	}

	var driverIDs []string
	for _, b := range bids {
		if b.Status == domain.BidStatusPending && b.DriverID != winnerID {
			driverIDs = append(driverIDs, b.DriverID)
		}
	}
	return driverIDs
}
