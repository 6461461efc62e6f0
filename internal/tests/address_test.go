package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

func validAddressRequest() service.AddressRequest {
	return service.AddressRequest{
		Label: "Home",
		Line1: "100 Main St",
		City:  "Springfield",
		State: "IL",
		Zip:   "62701",
		Lat:   39.78,
		Lng:   -89.65,
	}
}

func TestCreateAddress_Success(t *testing.T) {
	ctx := context.Background()
	addressRepo := NewMockAddressRepository()
	svc := service.NewAddressService(addressRepo)

	addr, err := svc.CreateAddress(ctx, "user-1", validAddressRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if addr.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %s", addr.UserID)
	}
	if addressRepo.CountAddresses() != 1 {
		t.Errorf("expected 1 stored address, got %d", addressRepo.CountAddresses())
	}
}

func TestCreateAddress_Validation(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAddressService(NewMockAddressRepository())

	req := validAddressRequest()
	req.Label = "  "
	if _, err := svc.CreateAddress(ctx, "user-1", req); !errors.Is(err, service.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}

	req = validAddressRequest()
	req.Lat = 200.0
	if _, err := svc.CreateAddress(ctx, "user-1", req); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestCreateAddress_Cap(t *testing.T) {
	ctx := context.Background()
	addressRepo := NewMockAddressRepository()
	svc := service.NewAddressService(addressRepo)

	for i := 0; i < 20; i++ {
		addressRepo.AddAddress(&domain.SavedAddress{
			ID:     fmt.Sprintf("addr-%d", i),
			UserID: "user-1",
			Label:  "Stop",
			Line1:  "1 Somewhere Rd",
		})
	}

	_, err := svc.CreateAddress(ctx, "user-1", validAddressRequest())
	if !errors.Is(err, service.ErrAddressLimitReached) {
		t.Errorf("expected ErrAddressLimitReached, got %v", err)
	}

	// Another user's cap is separate.
	if _, err := svc.CreateAddress(ctx, "user-2", validAddressRequest()); err != nil {
		t.Errorf("other user should not be capped, got %v", err)
	}
}

func TestUpdateAddress_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	addressRepo := NewMockAddressRepository()
	svc := service.NewAddressService(addressRepo)

	addressRepo.AddAddress(&domain.SavedAddress{
		ID: "addr-1", UserID: "user-1", Label: "Home", Line1: "100 Main St", Lat: 39.78, Lng: -89.65,
	})

	if _, err := svc.UpdateAddress(ctx, "user-2", "addr-1", validAddressRequest()); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	req := validAddressRequest()
	req.Label = "Clinic"
	addr, err := svc.UpdateAddress(ctx, "user-1", "addr-1", req)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if addr.Label != "Clinic" {
		t.Errorf("expected label updated, got %s", addr.Label)
	}
}

func TestDeleteAddress_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	addressRepo := NewMockAddressRepository()
	svc := service.NewAddressService(addressRepo)

	addressRepo.AddAddress(&domain.SavedAddress{ID: "addr-1", UserID: "user-1", Label: "Home", Line1: "100 Main St"})

	if err := svc.DeleteAddress(ctx, "user-2", "addr-1"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if err := svc.DeleteAddress(ctx, "user-1", "addr-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if addressRepo.CountAddresses() != 0 {
		t.Error("expected address removed")
	}
}
