package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
)

// DriverService handles driver profiles, compliance documents and duty state.
type DriverService struct {
	driverRepo    repository.DriverRepository
	documentRepo  repository.DocumentRepository
	cacheStore    redis.CacheStoreInterface
	locationStore redis.LocationStoreInterface
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	driverRepo repository.DriverRepository,
	documentRepo repository.DocumentRepository,
	cacheStore redis.CacheStoreInterface,
	locationStore redis.LocationStoreInterface,
) *DriverService {
	return &DriverService{
		driverRepo:    driverRepo,
		documentRepo:  documentRepo,
		cacheStore:    cacheStore,
		locationStore: locationStore,
	}
}

// GetProfile retrieves a driver's profile.
func (s *DriverService) GetProfile(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.driverRepo.GetByUserID(ctx, driverID)
}

// UpdateProfileRequest contains the driver-editable profile fields.
type UpdateProfileRequest struct {
	VehicleType     string
	VehiclePlate    string
	LicenseNumber   string
	ServiceRadiusKm float64
}

// UpdateProfile updates a driver's vehicle and service details.
func (s *DriverService) UpdateProfile(ctx context.Context, driverID string, req UpdateProfileRequest) (*domain.Driver, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if req.VehicleType != "" {
		vt, err := validateVehicleType(req.VehicleType)
		if err != nil {
			return nil, err
		}
		driver.VehicleType = vt
	}
	if req.VehiclePlate != "" {
		driver.VehiclePlate = req.VehiclePlate
	}
	if req.LicenseNumber != "" {
		driver.LicenseNumber = req.LicenseNumber
	}
	if req.ServiceRadiusKm > 0 {
		driver.ServiceRadiusKm = req.ServiceRadiusKm
	}

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	if err := s.cacheStore.InvalidateDriver(ctx, driverID); err != nil {
		log.Printf("driver: cache invalidate failed driver=%s: %v", driverID, err)
	}

	return driver, nil
}

func validateVehicleType(vt string) (domain.VehicleType, error) {
	switch domain.VehicleType(vt) {
	case domain.VehicleTypeSedan, domain.VehicleTypeVan, domain.VehicleTypeWheelchairVan, domain.VehicleTypeStretcherVan:
		return domain.VehicleType(vt), nil
	default:
		return "", ErrInvalidVehicleType
	}
}

// SubmitDocument records a compliance document submission. A driver holds
// at most one live document per type: a PENDING or APPROVED document of
// the same type blocks resubmission, a REJECTED one does not.
func (s *DriverService) SubmitDocument(ctx context.Context, driverID string, docType, objectKey string) (*domain.DriverDocument, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(objectKey) == "" {
		return nil, ErrInvalidObjectKey
	}

	dt, err := validateDocumentType(docType)
	if err != nil {
		return nil, err
	}

	if _, err := s.driverRepo.GetByUserID(ctx, driverID); err != nil {
		return nil, err
	}

	existing, err := s.documentRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	for _, doc := range existing {
		if doc.Type == dt && doc.Status != domain.DocumentStatusRejected {
			return nil, ErrDocumentAlreadySubmitted
		}
	}

	doc := &domain.DriverDocument{
		ID:          uuid.New().String(),
		DriverID:    driverID,
		Type:        dt,
		ObjectKey:   objectKey,
		Status:      domain.DocumentStatusPending,
		SubmittedAt: time.Now(),
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func validateDocumentType(dt string) (domain.DocumentType, error) {
	switch domain.DocumentType(dt) {
	case domain.DocumentTypeLicense, domain.DocumentTypeInsurance, domain.DocumentTypeVehicleRegistration:
		return domain.DocumentType(dt), nil
	default:
		return "", ErrInvalidDocumentType
	}
}

// ListDocuments returns all documents a driver has submitted.
func (s *DriverService) ListDocuments(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.documentRepo.GetByDriverID(ctx, driverID)
}

// SetDuty flips a driver on or off duty. Going on duty requires an ACTIVE
// profile and a current location, which enters the geo index so nearby
// ride requests reach the driver. Going off duty leaves the index.
func (s *DriverService) SetDuty(ctx context.Context, driverID string, onDuty bool, lat, lng float64) (*domain.Driver, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverNotActive
		}
		return nil, err
	}

	if onDuty {
		if driver.Status != domain.DriverStatusActive {
			return nil, ErrDriverNotActive
		}
		if !isValidLatitude(lat) || !isValidLongitude(lng) {
			return nil, ErrInvalidLocation
		}
		if err := s.locationStore.UpdateLocation(ctx, driverID, lat, lng); err != nil {
			return nil, err
		}
	} else {
		if err := s.locationStore.RemoveLocation(ctx, driverID); err != nil {
			log.Printf("driver: geo index remove failed driver=%s: %v", driverID, err)
		}
	}

	if driver.OnDuty != onDuty {
		if err := s.driverRepo.SetOnDuty(ctx, driverID, onDuty); err != nil {
			return nil, err
		}
		driver.OnDuty = onDuty
	}

	if err := s.cacheStore.InvalidateDriver(ctx, driverID); err != nil {
		log.Printf("driver: cache invalidate failed driver=%s: %v", driverID, err)
	}

	return driver, nil
}

// UpdateLocation refreshes an on-duty driver's position in the geo index.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return ErrInvalidLocation
	}

	driver, err := s.driverRepo.GetByUserID(ctx, driverID)
	if err != nil {
		return err
	}
	if !driver.OnDuty {
		return ErrDriverOffDuty
	}

	return s.locationStore.UpdateLocation(ctx, driverID, lat, lng)
}
