package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/repository"
)

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.Status
	Priority    domain.Priority
	DueDate     *time.Time
}

func (u *TaskUsecase) Create(ctx context.Context, ownerID string, input CreateTaskInput) (*domain.Task, error) {
	if input.Status == "" {
		input.Status = domain.StatusTodo
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}

	task, err := u.repo.Create(ctx, &domain.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (u *TaskUsecase) List(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]*domain.Task, error) {
	tasks, err := u.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (u *TaskUsecase) GetByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	task, err := u.repo.GetByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput carries partial changes; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
	DueDate     *time.Time
}

func (u *TaskUsecase) Update(ctx context.Context, taskID, ownerID string, input UpdateTaskInput) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	// Fetching first keeps the ownership check in one place; a task owned
	// by someone else surfaces as not-found.
	task, err := u.repo.GetByID(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	updated, err := u.repo.Update(ctx, task)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (u *TaskUsecase) Delete(ctx context.Context, taskID, ownerID string) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (u *TaskUsecase) Stats(ctx context.Context, ownerID string) (*domain.TaskStats, error) {
	stats, err := u.repo.StatsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return stats, nil
}

// validateTaskID rejects non-UUID path params before they reach the
// database, where they would fail as a malformed-literal query error.
func validateTaskID(id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrInvalidTaskID
	}
	return nil
}
