package mcp

import (
	"context"

	"github.com/claude/repsedit/internal/api"
	"github.com/claude/repsedit/internal/models"
)

// DataSource abstracts the workouts service for MCP tools. The API client
// satisfies it; tests use an in-memory fake.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id int) (models.Workout, error)
	UpdateWorkout(ctx context.Context, id int, name string, exercises []string) error
	AddExercise(ctx context.Context, id int, exercise string) ([]string, error)
}

// Compile-time check: *api.Client satisfies DataSource.
var _ DataSource = (*api.Client)(nil)
