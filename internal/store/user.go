package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/repository"
)

// UserRepository implements user.Repository
type UserRepository struct {
	c conn
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{c: db.conn()}
}

// Create inserts a user. A taken email yields repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, role, company_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.c.exec(ctx, query, u.ID, u.Name, u.Email, u.Role, u.CompanyName, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT id, name, email, role, company_name, created_at FROM users WHERE id = ?`

	var u user.User
	err := r.c.queryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CompanyName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
