package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"medride/internal/domain"
	"medride/internal/repository"
)

// maxSavedAddresses caps how many addresses one user may keep.
const maxSavedAddresses = 20

// AddressService handles a user's saved pickup/dropoff addresses.
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// AddressRequest contains the fields of a saved address.
type AddressRequest struct {
	Label string
	Line1 string
	City  string
	State string
	Zip   string
	Lat   float64
	Lng   float64
}

func (r AddressRequest) validate() error {
	if strings.TrimSpace(r.Label) == "" || strings.TrimSpace(r.Line1) == "" {
		return ErrInvalidAddress
	}
	if !isValidLatitude(r.Lat) || !isValidLongitude(r.Lng) {
		return ErrInvalidLocation
	}
	return nil
}

// CreateAddress saves a new address for the user, up to the cap.
func (s *AddressService) CreateAddress(ctx context.Context, userID string, req AddressRequest) (*domain.SavedAddress, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := s.addressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxSavedAddresses {
		return nil, ErrAddressLimitReached
	}

	addr := &domain.SavedAddress{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     req.Label,
		Line1:     req.Line1,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Lat:       req.Lat,
		Lng:       req.Lng,
		CreatedAt: time.Now(),
	}

	if err := s.addressRepo.Create(ctx, addr); err != nil {
		return nil, err
	}

	return addr, nil
}

// ListAddresses returns the user's saved addresses.
func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.addressRepo.GetByUserID(ctx, userID)
}

// UpdateAddress replaces the fields of one of the user's saved addresses.
func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, req AddressRequest) (*domain.SavedAddress, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	addr, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, ErrForbidden
	}

	addr.Label = req.Label
	addr.Line1 = req.Line1
	addr.City = req.City
	addr.State = req.State
	addr.Zip = req.Zip
	addr.Lat = req.Lat
	addr.Lng = req.Lng

	if err := s.addressRepo.Update(ctx, addr); err != nil {
		return nil, err
	}

	return addr, nil
}

// DeleteAddress removes one of the user's saved addresses.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	addr, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return err
	}
	if addr.UserID != userID {
		return ErrForbidden
	}

	return s.addressRepo.Delete(ctx, addressID)
}
