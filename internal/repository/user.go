package repository

import (
	"context"

	"github.com/taskforge/api/internal/domain"
)

type UserRepository interface {
	// Create persists a new user. A duplicate email (case-insensitive)
	// fails with domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
