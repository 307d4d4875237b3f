package repository

import (
	"context"

	"github.com/taskforge/api/internal/domain"
)

// TaskFilter narrows a listing. Empty fields match everything.
type TaskFilter struct {
	Status   domain.Status
	Priority domain.Priority
}

// TaskRepository scopes every lookup and mutation by owner. A task that
// exists but belongs to someone else is reported as domain.ErrTaskNotFound,
// indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]*domain.Task, error)
	GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
	StatsByOwner(ctx context.Context, ownerID string) (*domain.TaskStats, error)
}
