package tests

import (
	"context"
	"errors"
	"testing"

	"medride/internal/domain"
	"medride/internal/service"
)

func newAuthService(userRepo *MockUserRepository, driverRepo *MockDriverRepository, sessions *MockSessionStore) *service.AuthService {
	return service.NewAuthService(userRepo, driverRepo, sessions)
}

func TestRegister_Rider(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	driverRepo := NewMockDriverRepository()
	sessions := NewMockSessionStore()
	svc := newAuthService(userRepo, driverRepo, sessions)

	user, err := svc.Register(ctx, service.RegisterRequest{
		Name:     "Alice Rider",
		Email:    "Alice@Example.com",
		Password: "supersecret",
		Role:     domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if user.Role != domain.RoleRider {
		t.Errorf("expected role RIDER, got %s", user.Role)
	}
	if user.Status != domain.UserStatusActive {
		t.Errorf("expected status ACTIVE, got %s", user.Status)
	}
	// Emails are normalized to lowercase.
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	// Riders don't get a driver profile.
	if driverRepo.GetDriver(user.ID) != nil {
		t.Error("rider should not have a driver profile")
	}
}

func TestRegister_DriverGetsPendingProfile(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	driverRepo := NewMockDriverRepository()
	sessions := NewMockSessionStore()
	svc := newAuthService(userRepo, driverRepo, sessions)

	user, err := svc.Register(ctx, service.RegisterRequest{
		Name:     "Bob Driver",
		Email:    "bob@example.com",
		Password: "supersecret",
		Role:     domain.RoleDriver,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	driver := driverRepo.GetDriver(user.ID)
	if driver == nil {
		t.Fatal("expected a driver profile to be created")
	}
	if driver.Status != domain.DriverStatusPending {
		t.Errorf("expected driver status PENDING, got %s", driver.Status)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	svc := newAuthService(userRepo, NewMockDriverRepository(), NewMockSessionStore())

	req := service.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Role:     domain.RoleRider,
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(NewMockUserRepository(), NewMockDriverRepository(), NewMockSessionStore())

	cases := []struct {
		name string
		req  service.RegisterRequest
		want error
	}{
		{"empty name", service.RegisterRequest{Email: "a@b.com", Password: "supersecret", Role: domain.RoleRider}, service.ErrInvalidName},
		{"bad email", service.RegisterRequest{Name: "A", Email: "not-an-email", Password: "supersecret", Role: domain.RoleRider}, service.ErrInvalidEmail},
		{"short password", service.RegisterRequest{Name: "A", Email: "a@b.com", Password: "short", Role: domain.RoleRider}, service.ErrInvalidPassword},
		{"admin role", service.RegisterRequest{Name: "A", Email: "a@b.com", Password: "supersecret", Role: domain.RoleAdmin}, service.ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	sessions := NewMockSessionStore()
	svc := newAuthService(userRepo, NewMockDriverRepository(), sessions)

	if _, err := svc.Register(ctx, service.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Role:     domain.RoleRider,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(ctx, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}

	// The token resolves to a session carrying the user's identity.
	session, err := sessions.Get(ctx, result.Token)
	if err != nil || session == nil {
		t.Fatalf("expected stored session, got %v / %v", session, err)
	}
	if session.UserID != result.User.ID {
		t.Errorf("session user mismatch: %s != %s", session.UserID, result.User.ID)
	}
	if session.Role != string(domain.RoleRider) {
		t.Errorf("expected session role RIDER, got %s", session.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()

	svc := newAuthService(NewMockUserRepository(), NewMockDriverRepository(), NewMockSessionStore())
	if _, err := svc.Register(ctx, service.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret", Role: domain.RoleRider,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, "alice@example.com", "wrongpassword")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(NewMockUserRepository(), NewMockDriverRepository(), NewMockSessionStore())

	_, err := svc.Login(ctx, "ghost@example.com", "supersecret")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_SuspendedAccount(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	svc := newAuthService(userRepo, NewMockDriverRepository(), NewMockSessionStore())

	user, err := svc.Register(ctx, service.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret", Role: domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := userRepo.UpdateStatus(ctx, user.ID, domain.UserStatusSuspended); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}

	_, err = svc.Login(ctx, "alice@example.com", "supersecret")
	if !errors.Is(err, service.ErrAccountSuspended) {
		t.Errorf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	ctx := context.Background()

	sessions := NewMockSessionStore()
	svc := newAuthService(NewMockUserRepository(), NewMockDriverRepository(), sessions)

	if _, err := svc.Register(ctx, service.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "supersecret", Role: domain.RoleRider,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(ctx, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(ctx, result.User.ID, result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	session, _ := sessions.Get(ctx, result.Token)
	if session != nil {
		t.Error("expected session to be deleted after logout")
	}
}
