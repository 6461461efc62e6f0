package tests

import (
	"context"
	"errors"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

// driverFixture bundles a DriverService with the mocks behind it.
type driverFixture struct {
	svc           *service.DriverService
	driverRepo    *MockDriverRepository
	documentRepo  *MockDocumentRepository
	cacheStore    *MockCacheStore
	locationStore *MockLocationStore
}

func newDriverFixture() *driverFixture {
	driverRepo := NewMockDriverRepository()
	documentRepo := NewMockDocumentRepository()
	cacheStore := NewMockCacheStore()
	locationStore := NewMockLocationStore()

	return &driverFixture{
		svc:           service.NewDriverService(driverRepo, documentRepo, cacheStore, locationStore),
		driverRepo:    driverRepo,
		documentRepo:  documentRepo,
		cacheStore:    cacheStore,
		locationStore: locationStore,
	}
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{
		UserID:          "driver-1",
		VehicleType:     domain.VehicleTypeSedan,
		VehiclePlate:    "OLD-123",
		ServiceRadiusKm: 25,
		Status:          domain.DriverStatusActive,
	})

	driver, err := f.svc.UpdateProfile(ctx, "driver-1", service.UpdateProfileRequest{
		VehicleType: string(domain.VehicleTypeWheelchairVan),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if driver.VehicleType != domain.VehicleTypeWheelchairVan {
		t.Errorf("expected WHEELCHAIR_VAN, got %s", driver.VehicleType)
	}
	// Untouched fields survive.
	if driver.VehiclePlate != "OLD-123" {
		t.Errorf("expected plate preserved, got %s", driver.VehiclePlate)
	}
	if driver.ServiceRadiusKm != 25 {
		t.Errorf("expected radius preserved, got %.0f", driver.ServiceRadiusKm)
	}
}

func TestUpdateProfile_InvalidVehicleType(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusActive})

	_, err := f.svc.UpdateProfile(ctx, "driver-1", service.UpdateProfileRequest{VehicleType: "SUBMARINE"})
	if !errors.Is(err, service.ErrInvalidVehicleType) {
		t.Errorf("expected ErrInvalidVehicleType, got %v", err)
	}
}

func TestSubmitDocument_Success(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})

	doc, err := f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeLicense), "uploads/license.pdf")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if doc.Status != domain.DocumentStatusPending {
		t.Errorf("expected PENDING, got %s", doc.Status)
	}
	if f.documentRepo.GetDocument(doc.ID) == nil {
		t.Error("expected document to be persisted")
	}
}

func TestSubmitDocument_LiveDuplicateBlocked(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})
	f.documentRepo.AddDocument(&domain.DriverDocument{
		ID:       "doc-1",
		DriverID: "driver-1",
		Type:     domain.DocumentTypeLicense,
		Status:   domain.DocumentStatusPending,
	})

	_, err := f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeLicense), "uploads/license2.pdf")
	if !errors.Is(err, service.ErrDocumentAlreadySubmitted) {
		t.Errorf("expected ErrDocumentAlreadySubmitted for pending duplicate, got %v", err)
	}

	// An approved one blocks too.
	f.documentRepo.GetDocument("doc-1").Status = domain.DocumentStatusApproved
	_, err = f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeLicense), "uploads/license2.pdf")
	if !errors.Is(err, service.ErrDocumentAlreadySubmitted) {
		t.Errorf("expected ErrDocumentAlreadySubmitted for approved duplicate, got %v", err)
	}

	// A different type is fine.
	if _, err := f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeInsurance), "uploads/ins.pdf"); err != nil {
		t.Errorf("different type should pass, got %v", err)
	}
}

func TestSubmitDocument_ResubmitAfterRejection(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})
	f.documentRepo.AddDocument(&domain.DriverDocument{
		ID:       "doc-1",
		DriverID: "driver-1",
		Type:     domain.DocumentTypeLicense,
		Status:   domain.DocumentStatusRejected,
	})

	doc, err := f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeLicense), "uploads/license-v2.pdf")
	if err != nil {
		t.Fatalf("resubmit after rejection should pass, got %v", err)
	}
	if doc.Status != domain.DocumentStatusPending {
		t.Errorf("expected new submission PENDING, got %s", doc.Status)
	}
}

func TestSubmitDocument_Validation(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})

	if _, err := f.svc.SubmitDocument(ctx, "driver-1", "DIPLOMA", "uploads/x.pdf"); !errors.Is(err, service.ErrInvalidDocumentType) {
		t.Errorf("expected ErrInvalidDocumentType, got %v", err)
	}
	if _, err := f.svc.SubmitDocument(ctx, "driver-1", string(domain.DocumentTypeLicense), "  "); !errors.Is(err, service.ErrInvalidObjectKey) {
		t.Errorf("expected ErrInvalidObjectKey, got %v", err)
	}
}

func TestSetDuty_OnRequiresActiveAndLocation(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusPending})

	// A PENDING driver can't go on duty.
	if _, err := f.svc.SetDuty(ctx, "driver-1", true, 40.71, -74.0); !errors.Is(err, service.ErrDriverNotActive) {
		t.Errorf("expected ErrDriverNotActive, got %v", err)
	}

	f.driverRepo.GetDriver("driver-1").Status = domain.DriverStatusActive

	// An on-duty request needs valid coordinates.
	if _, err := f.svc.SetDuty(ctx, "driver-1", true, 200.0, -74.0); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	driver, err := f.svc.SetDuty(ctx, "driver-1", true, 40.71, -74.0)
	if err != nil {
		t.Fatalf("set duty failed: %v", err)
	}
	if !driver.OnDuty {
		t.Error("expected driver on duty")
	}
	if !f.locationStore.HasLocation("driver-1") {
		t.Error("expected driver in the geo index")
	}
}

func TestSetDuty_OffRemovesLocation(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusActive, OnDuty: true})
	f.locationStore.UpdateLocation(ctx, "driver-1", 40.71, -74.0)

	driver, err := f.svc.SetDuty(ctx, "driver-1", false, 0, 0)
	if err != nil {
		t.Fatalf("set duty failed: %v", err)
	}
	if driver.OnDuty {
		t.Error("expected driver off duty")
	}
	if f.locationStore.HasLocation("driver-1") {
		t.Error("expected driver removed from the geo index")
	}
}

func TestUpdateLocation_RequiresOnDuty(t *testing.T) {
	ctx := context.Background()
	f := newDriverFixture()

	f.driverRepo.AddDriver(&domain.Driver{UserID: "driver-1", Status: domain.DriverStatusActive, OnDuty: false})

	err := f.svc.UpdateLocation(ctx, "driver-1", 40.71, -74.0)
	if !errors.Is(err, service.ErrDriverOffDuty) {
		t.Errorf("expected ErrDriverOffDuty, got %v", err)
	}

	f.driverRepo.GetDriver("driver-1").OnDuty = true
	if err := f.svc.UpdateLocation(ctx, "driver-1", 40.71, -74.0); err != nil {
		t.Fatalf("update location failed: %v", err)
	}
	if !f.locationStore.HasLocation("driver-1") {
		t.Error("expected location recorded")
	}
}
