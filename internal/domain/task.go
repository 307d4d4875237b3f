package domain

import "time"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time // nil means no due date
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskStats is the per-owner aggregation over task statuses.
type TaskStats struct {
	Total      int
	Todo       int
	InProgress int
	Done       int
}
