package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
)

// reviewLockTTL bounds how long one admin may hold a document review.
const reviewLockTTL = 5 * time.Minute

// AdminService handles account moderation, the document review queue,
// driver activation and fare overrides.
type AdminService struct {
	userRepo      repository.UserRepository
	driverRepo    repository.DriverRepository
	documentRepo  repository.DocumentRepository
	rideRepo      repository.RideRepository
	overrideRepo  repository.OverrideRepository
	sessionStore  redis.SessionStoreInterface
	lockStore     redis.LockStoreInterface
	cacheStore    redis.CacheStoreInterface
	locationStore redis.LocationStoreInterface
	notifications *NotificationService
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repository.UserRepository,
	driverRepo repository.DriverRepository,
	documentRepo repository.DocumentRepository,
	rideRepo repository.RideRepository,
	overrideRepo repository.OverrideRepository,
	sessionStore redis.SessionStoreInterface,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	locationStore redis.LocationStoreInterface,
	notifications *NotificationService,
) *AdminService {
	return &AdminService{
		userRepo:      userRepo,
		driverRepo:    driverRepo,
		documentRepo:  documentRepo,
		rideRepo:      rideRepo,
		overrideRepo:  overrideRepo,
		sessionStore:  sessionStore,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		locationStore: locationStore,
		notifications: notifications,
	}
}

// ListUsers returns users, optionally filtered by role.
func (s *AdminService) ListUsers(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx, role)
}

// ListDrivers returns every driver profile, for the verification queue
// view that pairs profiles with their document states.
func (s *AdminService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}

// SuspendUser suspends an account. Every live session is revoked; a
// suspended driver also leaves the duty geo index so no new ride requests
// reach them.
func (s *AdminService) SuspendUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, domain.UserStatusSuspended); err != nil {
		return err
	}

	if err := s.sessionStore.RevokeUser(ctx, userID); err != nil {
		log.Printf("admin: session revoke failed user=%s: %v", userID, err)
	}

	if user.Role == domain.RoleDriver {
		if err := s.driverRepo.UpdateStatus(ctx, userID, domain.DriverStatusSuspended); err != nil {
			log.Printf("admin: driver status update failed driver=%s: %v", userID, err)
		}
		if err := s.driverRepo.SetOnDuty(ctx, userID, false); err != nil {
			log.Printf("admin: duty flag clear failed driver=%s: %v", userID, err)
		}
		if err := s.locationStore.RemoveLocation(ctx, userID); err != nil {
			log.Printf("admin: geo index remove failed driver=%s: %v", userID, err)
		}
		if err := s.cacheStore.InvalidateDriver(ctx, userID); err != nil {
			log.Printf("admin: driver cache invalidate failed driver=%s: %v", userID, err)
		}
	}

	return nil
}

// ReinstateUser lifts a suspension. A reinstated driver comes back in the
// state document verification left them: ACTIVE if they were activated,
// PENDING otherwise.
func (s *AdminService) ReinstateUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, domain.UserStatusActive); err != nil {
		return err
	}

	if user.Role == domain.RoleDriver {
		status := domain.DriverStatusPending
		if s.requiredDocumentsApproved(ctx, userID) {
			status = domain.DriverStatusActive
		}
		if err := s.driverRepo.UpdateStatus(ctx, userID, status); err != nil {
			log.Printf("admin: driver status update failed driver=%s: %v", userID, err)
		}
		if err := s.cacheStore.InvalidateDriver(ctx, userID); err != nil {
			log.Printf("admin: driver cache invalidate failed driver=%s: %v", userID, err)
		}
	}

	return nil
}

// PendingDocuments returns the document review queue, oldest submissions
// first.
func (s *AdminService) PendingDocuments(ctx context.Context) ([]*domain.DriverDocument, error) {
	return s.documentRepo.GetByStatus(ctx, domain.DocumentStatusPending)
}

// ReviewDocument approves or rejects a PENDING document. A review lock
// keeps two admins off the same submission; rejections must say why.
func (s *AdminService) ReviewDocument(ctx context.Context, adminID, documentID string, approve bool, rejectReason string) (*domain.DriverDocument, error) {
	if documentID == "" {
		return nil, ErrInvalidDocumentID
	}
	if !approve && strings.TrimSpace(rejectReason) == "" {
		return nil, ErrRejectReasonRequired
	}

	acquired, err := s.lockStore.AcquireReviewLock(ctx, documentID, reviewLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrDocumentUnderReview
	}
	defer func() {
		if err := s.lockStore.ReleaseReviewLock(context.WithoutCancel(ctx), documentID); err != nil {
			log.Printf("admin: review lock release failed doc=%s: %v", documentID, err)
		}
	}()

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusPending {
		return nil, ErrDocumentNotPending
	}

	if approve {
		doc.Status = domain.DocumentStatusApproved
		doc.RejectReason = ""
	} else {
		doc.Status = domain.DocumentStatusRejected
		doc.RejectReason = rejectReason
	}
	doc.ReviewedAt = time.Now()
	doc.ReviewedBy = adminID

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.notifications.NotifyDocumentReviewed(ctx, doc)

	return doc, nil
}

// ActivateDriver moves a PENDING driver to ACTIVE once every required
// document type has an approved submission.
func (s *AdminService) ActivateDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	driver, err := s.driverRepo.GetByUserID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Status == domain.DriverStatusActive {
		return nil, ErrDriverAlreadyActive
	}

	if !s.requiredDocumentsApproved(ctx, driverID) {
		return nil, ErrDocumentsIncomplete
	}

	if err := s.driverRepo.UpdateStatus(ctx, driverID, domain.DriverStatusActive); err != nil {
		return nil, err
	}
	driver.Status = domain.DriverStatusActive

	if err := s.cacheStore.InvalidateDriver(ctx, driverID); err != nil {
		log.Printf("admin: driver cache invalidate failed driver=%s: %v", driverID, err)
	}

	s.notifications.NotifyAccountActivated(ctx, driverID)

	return driver, nil
}

// requiredDocumentsApproved reports whether every required document type
// has an APPROVED submission from the driver.
func (s *AdminService) requiredDocumentsApproved(ctx context.Context, driverID string) bool {
	docs, err := s.documentRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		log.Printf("admin: document lookup failed driver=%s: %v", driverID, err)
		return false
	}

	approved := make(map[domain.DocumentType]bool)
	for _, doc := range docs {
		if doc.Status == domain.DocumentStatusApproved {
			approved[doc.Type] = true
		}
	}

	for _, required := range domain.RequiredDocumentTypes {
		if !approved[required] {
			return false
		}
	}
	return true
}

// OverrideFare pins the final fare of a ride that has progressed past
// bidding. The override is kept as its own row and both parties are told.
func (s *AdminService) OverrideFare(ctx context.Context, adminID, rideID string, amount float64, reason string) (*domain.FareOverride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrInvalidReason
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	switch ride.Status {
	case domain.RideStatusAccepted, domain.RideStatusInProgress, domain.RideStatusCompleted:
		// Overridable.
	default:
		return nil, ErrRideNotOverridable
	}

	override := &domain.FareOverride{
		ID:        uuid.New().String(),
		RideID:    rideID,
		AdminID:   adminID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	if err := s.overrideRepo.Create(ctx, override); err != nil {
		return nil, err
	}

	ride.FinalFare = amount
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if err := s.cacheStore.InvalidateRide(ctx, rideID); err != nil {
		log.Printf("admin: ride cache invalidate failed ride=%s: %v", rideID, err)
	}

	s.notifications.NotifyFareOverridden(ctx, ride, override)

	return override, nil
}

// RideOverrides returns the override history of a ride, newest first.
func (s *AdminService) RideOverrides(ctx context.Context, rideID string) ([]*domain.FareOverride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.overrideRepo.GetByRideID(ctx, rideID)
}
