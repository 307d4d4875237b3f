// seed inserts a demo user and a spread of tasks into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/infrastructure/postgres"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "Password123"
	seedName     = "Seed User"
)

type taskSpec struct {
	title       string
	description string
	status      domain.Status
	priority    domain.Priority
	dueInDays   int // 0 means no due date
}

var tasks = []taskSpec{
	// Backlog
	{"Write project README", "Cover setup, env vars and local run instructions", domain.StatusTodo, domain.PriorityMedium, 3},
	{"Set up CI pipeline", "Lint, test and build on every push", domain.StatusTodo, domain.PriorityHigh, 2},
	{"Pick a color palette", "", domain.StatusTodo, domain.PriorityLow, 0},
	{"Research calendar integrations", "Google Calendar first, CalDAV later", domain.StatusTodo, domain.PriorityLow, 14},

	// In flight
	{"Implement task filtering", "Status and priority query params on the list endpoint", domain.StatusInProgress, domain.PriorityHigh, 1},
	{"Draft onboarding emails", "Three-step drip for new accounts", domain.StatusInProgress, domain.PriorityMedium, 5},
	{"Refactor settings page", "", domain.StatusInProgress, domain.PriorityLow, 0},

	// Done
	{"Choose a database", "Postgres, managed", domain.StatusDone, domain.PriorityHigh, 0},
	{"Register domain name", "", domain.StatusDone, domain.PriorityMedium, 0},
	{"Sketch dashboard layout", "Whiteboard session notes attached in the wiki", domain.StatusDone, domain.PriorityLow, 0},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if err := postgres.RunMigrations(ctx, databaseURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	user, err := users.Create(ctx, &domain.User{
		Email:        seedEmail,
		PasswordHash: string(hash),
		Name:         seedName,
	})
	if err != nil {
		log.Fatalf("create seed user: %v", err)
	}
	fmt.Printf("seed user %s (password %q)\n", user.Email, seedPassword)

	repo := postgres.NewTaskRepository(pool)
	for _, spec := range tasks {
		task := &domain.Task{
			Title:       spec.title,
			Description: spec.description,
			Status:      spec.status,
			Priority:    spec.priority,
			OwnerID:     user.ID,
		}
		if spec.dueInDays > 0 {
			due := time.Now().AddDate(0, 0, spec.dueInDays)
			task.DueDate = &due
		}

		created, err := repo.Create(ctx, task)
		if err != nil {
			log.Fatalf("create task %q: %v", spec.title, err)
		}
		fmt.Printf("task %s  %-12s %-6s %s\n", created.ID, created.Status, created.Priority, created.Title)
	}
}
