package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"go.uber.org/zap"
)

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// IsAdmin matches auth.AdminLookup.
	IsAdmin(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	ChangePassword(ctx context.Context, id int64, current, next string) error
	// Delete removes target on behalf of actorID, who may not remove themself.
	Delete(ctx context.Context, actorID, targetID int64) error
}

// RegisterRequest creates a user. IsAdmin is only honoured for operator tooling.
type RegisterRequest struct {
	Email    string
	Name     string
	DNI      string
	Password string
	IsAdmin  bool
}

// UpdateRequest holds the admin-editable attributes; nil fields are left as is.
type UpdateRequest struct {
	Name    *string
	DNI     *string
	IsAdmin *bool
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	log    *zap.Logger
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	u := &User{
		Email:   normalizeEmail(req.Email),
		Name:    strings.TrimSpace(req.Name),
		DNI:     normalizeDNI(req.DNI),
		IsAdmin: req.IsAdmin,
	}
	switch {
	case u.Email == "":
		return nil, ErrEmailRequired
	case u.Name == "":
		return nil, ErrNameRequired
	case u.DNI == "":
		return nil, ErrDNIRequired
	case len(req.Password) < MinPasswordLength:
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash

	// Uniqueness of email and dni is enforced by the database.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.Bool("is_admin", u.IsAdmin))
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update does not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn("failed to update last login", zap.Int64("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) IsAdmin(ctx context.Context, id int64) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}
	if req.DNI != nil {
		dni := normalizeDNI(*req.DNI)
		if dni == "" {
			return nil, ErrDNIRequired
		}
		u.DNI = dni
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, current); err != nil {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *service) Delete(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrDeleteSelf
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("user_id", targetID), zap.Int64("by", actorID))
	return nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeDNI trims spaces and uppercases the document letter.
func normalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}
