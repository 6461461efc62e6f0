package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
)

// rideNotifyRadiusKm is how far out on-duty drivers are told about a new
// open ride.
const rideNotifyRadiusKm = 25.0

// RideService handles the ride request lifecycle.
type RideService struct {
	rideRepo      repository.RideRepository
	bidRepo       repository.BidRepository
	cacheStore    redis.CacheStoreInterface
	locationStore redis.LocationStoreInterface
	pricing       *PricingService
	notifications *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	bidRepo repository.BidRepository,
	cacheStore redis.CacheStoreInterface,
	locationStore redis.LocationStoreInterface,
	pricing *PricingService,
	notifications *NotificationService,
) *RideService {
	return &RideService{
		rideRepo:      rideRepo,
		bidRepo:       bidRepo,
		cacheStore:    cacheStore,
		locationStore: locationStore,
		pricing:       pricing,
		notifications: notifications,
	}
}

// CreateRideRequest contains the parameters for posting a ride request.
type CreateRideRequest struct {
	PickupAddress  string
	DropoffAddress string
	PickupLat      float64
	PickupLng      float64
	DropoffLat     float64
	DropoffLng     float64
	ScheduledAt    time.Time
	MobilityNeed   string
	Notes          string
}

// CreateRide posts a new OPEN ride request, quotes the fare, and notifies
// on-duty drivers near the pickup.
func (s *RideService) CreateRide(ctx context.Context, riderID string, req CreateRideRequest) (*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.PickupAddress) == "" || !isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return nil, ErrInvalidPickupLocation
	}
	if strings.TrimSpace(req.DropoffAddress) == "" || !isValidLatitude(req.DropoffLat) || !isValidLongitude(req.DropoffLng) {
		return nil, ErrInvalidDropoffLocation
	}
	if req.ScheduledAt.Before(time.Now().Add(-time.Minute)) {
		return nil, ErrScheduledInPast
	}

	need, err := ValidateMobilityNeed(req.MobilityNeed)
	if err != nil {
		return nil, err
	}

	miles, fare := s.pricing.Quote(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng, need)

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		RiderID:        riderID,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		ScheduledAt:    req.ScheduledAt,
		MobilityNeed:   need,
		Notes:          req.Notes,
		Status:         domain.RideStatusOpen,
		EstimatedMiles: miles,
		EstimatedFare:  fare,
		CreatedAt:      time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	if err := s.cacheStore.AddOpenRide(ctx, ride.ID); err != nil {
		log.Printf("ride: open-ride set add failed ride=%s: %v", ride.ID, err)
	}
	s.cacheRide(ctx, ride)

	s.notifyNearbyDrivers(ctx, ride)

	return ride, nil
}

// notifyNearbyDrivers pushes RIDE_REQUESTED to on-duty drivers near the pickup.
func (s *RideService) notifyNearbyDrivers(ctx context.Context, ride *domain.Ride) {
	locations, err := s.locationStore.FindNearbyDrivers(ctx, ride.PickupLat, ride.PickupLng, rideNotifyRadiusKm)
	if err != nil {
		log.Printf("ride: nearby driver lookup failed ride=%s: %v", ride.ID, err)
		return
	}

	driverIDs := make([]string, 0, len(locations))
	for _, loc := range locations {
		driverIDs = append(driverIDs, loc.DriverID)
	}

	s.notifications.NotifyRideRequested(ctx, ride, driverIDs)
}

// ListRides returns the caller's rides. Riders see rides they posted,
// drivers see rides assigned to them, admins see everything.
func (s *RideService) ListRides(ctx context.Context, userID string, role domain.Role, status domain.RideStatus, limit int) ([]*domain.Ride, error) {
	filter := repository.RideFilter{Status: status, Limit: limit}

	switch role {
	case domain.RoleRider:
		filter.RiderID = userID
	case domain.RoleDriver:
		filter.DriverID = userID
	case domain.RoleAdmin:
		// No scoping.
	default:
		return nil, ErrForbidden
	}

	return s.rideRepo.List(ctx, filter)
}

// ListOpenRides returns rides currently accepting bids, for drivers
// browsing. The open-ride set plus the ride cache serve the common case;
// any gap falls through to Postgres.
func (s *RideService) ListOpenRides(ctx context.Context, limit int) ([]*domain.Ride, error) {
	if rides, ok := s.openRidesFromCache(ctx); ok {
		sort.Slice(rides, func(i, j int) bool {
			return rides[i].CreatedAt.After(rides[j].CreatedAt)
		})
		if limit > 0 && len(rides) > limit {
			rides = rides[:limit]
		}
		return rides, nil
	}

	return s.rideRepo.List(ctx, repository.RideFilter{
		Status: domain.RideStatusOpen,
		Limit:  limit,
	})
}

// openRidesFromCache rebuilds the open-ride list from the set and the ride
// cache. ok=false means the set was unavailable or a member had no usable
// cache entry, and the database must answer.
func (s *RideService) openRidesFromCache(ctx context.Context) ([]*domain.Ride, bool) {
	ids, err := s.cacheStore.GetOpenRides(ctx)
	if err != nil {
		log.Printf("ride: open-ride set read failed: %v", err)
		return nil, false
	}
	if len(ids) == 0 {
		return nil, false
	}

	rides := make([]*domain.Ride, 0, len(ids))
	for _, id := range ids {
		cached, err := s.cacheStore.GetRide(ctx, id)
		if err != nil || cached == nil {
			return nil, false
		}
		ride := rideFromCache(cached)
		if ride.Status != domain.RideStatusOpen {
			// Stale member; drop it rather than advertise a closed ride.
			if err := s.cacheStore.RemoveOpenRide(ctx, id); err != nil {
				log.Printf("ride: open-ride set remove failed ride=%s: %v", id, err)
			}
			continue
		}
		rides = append(rides, ride)
	}
	return rides, true
}

// GetRide retrieves a ride, enforcing visibility: the rider who posted it,
// the assigned driver, any driver while it is OPEN, and admins.
func (s *RideService) GetRide(ctx context.Context, userID string, role domain.Role, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.cachedOrStoredRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if !canViewRide(userID, role, ride) {
		return nil, ErrForbidden
	}

	return ride, nil
}

// cachedOrStoredRide serves a ride from cache while the entry is fresh,
// filling the cache from Postgres on a miss. Mutation paths read the
// repository directly and invalidate.
func (s *RideService) cachedOrStoredRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	cached, err := s.cacheStore.GetRide(ctx, rideID)
	if err != nil {
		log.Printf("ride: cache read failed ride=%s: %v", rideID, err)
	} else if cached != nil {
		return rideFromCache(cached), nil
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	s.cacheRide(ctx, ride)
	return ride, nil
}

func (s *RideService) cacheRide(ctx context.Context, ride *domain.Ride) {
	if err := s.cacheStore.SetRide(ctx, cachedRide(ride)); err != nil {
		log.Printf("ride: cache write failed ride=%s: %v", ride.ID, err)
	}
}

func cachedRide(r *domain.Ride) *redis.CachedRide {
	return &redis.CachedRide{
		ID:             r.ID,
		RiderID:        r.RiderID,
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		PickupLat:      r.PickupLat,
		PickupLng:      r.PickupLng,
		DropoffLat:     r.DropoffLat,
		DropoffLng:     r.DropoffLng,
		ScheduledAt:    r.ScheduledAt,
		MobilityNeed:   string(r.MobilityNeed),
		Notes:          r.Notes,
		Status:         string(r.Status),
		DriverID:       r.DriverID,
		EstimatedMiles: r.EstimatedMiles,
		EstimatedFare:  r.EstimatedFare,
		FinalFare:      r.FinalFare,
		CreatedAt:      r.CreatedAt,
		StartedAt:      r.StartedAt,
		CompletedAt:    r.CompletedAt,
		CancelledAt:    r.CancelledAt,
		CancelReason:   r.CancelReason,
	}
}

func rideFromCache(c *redis.CachedRide) *domain.Ride {
	return &domain.Ride{
		ID:             c.ID,
		RiderID:        c.RiderID,
		PickupAddress:  c.PickupAddress,
		DropoffAddress: c.DropoffAddress,
		PickupLat:      c.PickupLat,
		PickupLng:      c.PickupLng,
		DropoffLat:     c.DropoffLat,
		DropoffLng:     c.DropoffLng,
		ScheduledAt:    c.ScheduledAt,
		MobilityNeed:   domain.MobilityNeed(c.MobilityNeed),
		Notes:          c.Notes,
		Status:         domain.RideStatus(c.Status),
		DriverID:       c.DriverID,
		EstimatedMiles: c.EstimatedMiles,
		EstimatedFare:  c.EstimatedFare,
		FinalFare:      c.FinalFare,
		CreatedAt:      c.CreatedAt,
		StartedAt:      c.StartedAt,
		CompletedAt:    c.CompletedAt,
		CancelledAt:    c.CancelledAt,
		CancelReason:   c.CancelReason,
	}
}

func canViewRide(userID string, role domain.Role, ride *domain.Ride) bool {
	switch {
	case role == domain.RoleAdmin:
		return true
	case ride.RiderID == userID:
		return true
	case ride.DriverID == userID:
		return true
	case role == domain.RoleDriver && ride.Status == domain.RideStatusOpen:
		return true
	}
	return false
}

// CancelRide cancels an OPEN or ACCEPTED ride. The rider who posted it or
// an admin may cancel; pending bids are declined and the affected parties
// are notified.
func (s *RideService) CancelRide(ctx context.Context, userID string, role domain.Role, rideID, reason string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.RiderID != userID && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	switch ride.Status {
	case domain.RideStatusCancelled:
		return nil, ErrRideAlreadyCancelled
	case domain.RideStatusOpen, domain.RideStatusAccepted:
		// Cancellable.
	default:
		return nil, ErrRideCannotBeCancelled
	}

	pendingDrivers := s.pendingBidDrivers(ctx, rideID)

	ride.Status = domain.RideStatusCancelled
	ride.CancelledAt = time.Now()
	ride.CancelReason = reason

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if _, err := s.bidRepo.DeclineSiblings(ctx, rideID, ""); err != nil {
		log.Printf("ride: bid decline on cancel failed ride=%s: %v", rideID, err)
	}

	if err := s.cacheStore.RemoveOpenRide(ctx, rideID); err != nil {
		log.Printf("ride: open-ride set remove failed ride=%s: %v", rideID, err)
	}
	if err := s.cacheStore.InvalidateRide(ctx, rideID); err != nil {
		log.Printf("ride: cache invalidate failed ride=%s: %v", rideID, err)
	}

	s.notifications.NotifyRideCancelled(ctx, ride, userID)
	s.notifications.NotifyBidsDeclined(ctx, ride, pendingDrivers)

	return ride, nil
}

// pendingBidDrivers returns the drivers holding PENDING bids on a ride.
func (s *RideService) pendingBidDrivers(ctx context.Context, rideID string) []string {
	bids, err := s.bidRepo.GetByRideID(ctx, rideID)
	if err != nil {
		log.Printf("ride: bid lookup failed ride=%s: %v", rideID, err)
		return nil
	}

	var driverIDs []string
	for _, bid := range bids {
		if bid.Status == domain.BidStatusPending {
			driverIDs = append(driverIDs, bid.DriverID)
		}
	}
	return driverIDs
}

// StartRide moves an ACCEPTED ride to IN_PROGRESS. Only the assigned
// driver may start it.
func (s *RideService) StartRide(ctx context.Context, driverID, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != driverID {
		return nil, ErrForbidden
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}

	ride.Status = domain.RideStatusInProgress
	ride.StartedAt = time.Now()

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if err := s.cacheStore.InvalidateRide(ctx, rideID); err != nil {
		log.Printf("ride: cache invalidate failed ride=%s: %v", rideID, err)
	}

	s.notifications.NotifyRideStarted(ctx, ride)

	return ride, nil
}

// CompleteRide moves an IN_PROGRESS ride to COMPLETED. Only the assigned
// driver may complete it. The final fare was fixed at bid acceptance.
func (s *RideService) CompleteRide(ctx context.Context, driverID, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != driverID {
		return nil, ErrForbidden
	}
	if ride.Status != domain.RideStatusInProgress {
		return nil, ErrRideNotInProgress
	}

	ride.Status = domain.RideStatusCompleted
	ride.CompletedAt = time.Now()

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if err := s.cacheStore.InvalidateRide(ctx, rideID); err != nil {
		log.Printf("ride: cache invalidate failed ride=%s: %v", rideID, err)
	}

	s.notifications.NotifyRideCompleted(ctx, ride)

	return ride, nil
}

// GetRideBids returns the bids on a ride the caller may see: the rider who
// posted it and admins see all bids, a driver sees only their own.
func (s *RideService) GetRideBids(ctx context.Context, userID string, role domain.Role, rideID string) ([]*domain.Bid, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.RiderID == userID || role == domain.RoleAdmin {
		return bids, nil
	}

	if role == domain.RoleDriver {
		var own []*domain.Bid
		for _, bid := range bids {
			if bid.DriverID == userID {
				own = append(own, bid)
			}
		}
		return own, nil
	}

	return nil, ErrForbidden
}
