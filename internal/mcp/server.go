package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/repsedit/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all workout tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("repsedit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("repsedit workout editor. List workouts, read one, rename it, replace its exercise list or append an exercise. Exercises are ordered free-text names; duplicates are allowed."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolUpdateWorkout, Handler: h.updateWorkout},
		server.ServerTool{Tool: toolAddExercise, Handler: h.addExercise},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workoutsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resWorkouts = mcp.NewResource(
	"repsedit://workouts",
	"Workouts",
	mcp.WithResourceDescription("All workouts of the signed-in user with their exercise lists"),
	mcp.WithMIMEType("application/json"),
)

// workoutView is the JSON shape tools return: the exercise list as a real
// array rather than the service's encoded string.
type workoutView struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
	CreatedAt string   `json:"created_at,omitempty"`
}

func newWorkoutView(w models.Workout) workoutView {
	v := workoutView{ID: w.ID, Name: w.Name, Exercises: w.Exercises}
	if v.Exercises == nil {
		v.Exercises = []string{}
	}
	if !w.CreatedAt.IsZero() {
		v.CreatedAt = w.CreatedAt.Format(time.RFC3339)
	}
	return v
}

func (h *handlers) workoutsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]workoutView, 0, len(workouts))
	for _, w := range workouts {
		views = append(views, newWorkoutView(w))
	}
	data, err := json.Marshal(views)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
