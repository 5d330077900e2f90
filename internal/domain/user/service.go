package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spacelease/internal/repository"
)

// Service handles user registration and lookup.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterRequest defines user registration inputs.
type RegisterRequest struct {
	ID          string
	Name        string
	Email       string
	Role        Role
	CompanyName string
}

// Register creates a new owner or tenant.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, ErrInvalidInput
	}
	if req.Role != RoleOwner && req.Role != RoleTenant {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	u := &User{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Role:        req.Role,
		CompanyName: req.CompanyName,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	}
	return u, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return Lookup(ctx, s.repo, id)
}

// Lookup loads a user through any repository, translating not-found.
func Lookup(ctx context.Context, repo Repository, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	u, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// RequireRole loads a user and checks its role.
func RequireRole(ctx context.Context, repo Repository, id string, role Role) (*User, error) {
	u, err := Lookup(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, fmt.Errorf("%w: %s is not %s", ErrWrongRole, id, role)
	}
	return u, nil
}
