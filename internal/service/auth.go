package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	userRepo     repository.UserRepository
	driverRepo   repository.DriverRepository
	sessionStore redis.SessionStoreInterface
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	driverRepo repository.DriverRepository,
	sessionStore redis.SessionStoreInterface,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		driverRepo:   driverRepo,
		sessionStore: sessionStore,
	}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

// Register creates a RIDER or DRIVER account. Driver accounts also get a
// PENDING driver profile that document verification later activates.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if req.Role == domain.RoleDriver {
		driver := &domain.Driver{
			UserID:          user.ID,
			Status:          domain.DriverStatusPending,
			ServiceRadiusKm: 25,
			CreatedAt:       user.CreatedAt,
		}
		if err := s.driverRepo.Create(ctx, driver); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *AuthService) validateRegister(req RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	if len(req.Password) < 8 {
		return ErrInvalidPassword
	}

	if req.Role != domain.RoleRider && req.Role != domain.RoleDriver {
		return ErrInvalidRole
	}

	return nil
}

// LoginResult contains the authenticated user and their session token.
type LoginResult struct {
	User  *domain.User
	Token string
}

// Login verifies credentials and mints an opaque session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status == domain.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	token := uuid.New().String()
	session := &redis.Session{
		UserID:    user.ID,
		Role:      string(user.Role),
		CreatedAt: time.Now(),
	}

	if err := s.sessionStore.Save(ctx, token, session); err != nil {
		return nil, err
	}
	if err := s.sessionStore.Track(ctx, user.ID, token); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Logout deletes the session behind the given token.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	if token == "" {
		return nil
	}
	_ = s.sessionStore.Untrack(ctx, userID, token)
	return s.sessionStore.Delete(ctx, token)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}
