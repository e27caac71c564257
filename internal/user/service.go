package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
)

// Service covers the account operations the booking API depends on.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)

	// Administration
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*User, error)

	// Exists reports whether id names a known user.
	Exists(ctx context.Context, id string) (bool, error)
	// HasElevatedPrivilege is true only for active administrators.
	HasElevatedPrivilege(ctx context.Context, id string) (bool, error)
}

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Nickname string
	Phone    string
}

const minPasswordLength = 8

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher, logger *zap.Logger) Service {
	return &service{repo: repo, hasher: hasher, logger: logger, now: time.Now}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	u := &User{
		Email:    normalizeEmail(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Nickname: optional(req.Nickname),
		Phone:    optional(req.Phone),
		IsActive: true,
	}
	switch {
	case u.Email == "":
		return nil, ErrEmailRequired
	case u.FullName == "":
		return nil, ErrNameRequired
	case len(req.Password) < minPasswordLength:
		return nil, ErrPasswordTooShort
	}

	if _, err := s.repo.GetByEmail(ctx, u.Email); err == nil {
		return nil, ErrEmailAlreadyUsed
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	// The unique index still catches a concurrent registration of the same email.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login never reveals whether the email, the password or the account state
// was the reason for a rejection.
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	addr := normalizeEmail(email)
	if addr == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, addr)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		s.logger.Info("login refused for inactive user", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	at := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, at); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLoginAt = &at
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	filter.Email = normalizeEmail(filter.Email)
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Phone = strings.TrimSpace(filter.Phone)
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.FullName = name
	}
	if req.Nickname != nil {
		u.Nickname = optional(*req.Nickname)
	}
	if req.Phone != nil {
		u.Phone = optional(*req.Phone)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.String("user_id", u.ID),
		zap.Bool("is_active", u.IsActive),
		zap.Bool("is_admin", u.IsAdmin),
	)
	return u, nil
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *service) HasElevatedPrivilege(ctx context.Context, id string) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsActive && u.IsAdmin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
