package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/repsedit/internal/models"
	"github.com/claude/repsedit/internal/storage"
	"github.com/go-chi/chi/v5"
)

// WorkoutStore is the persistence the handlers need. *storage.DB satisfies it.
type WorkoutStore interface {
	ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	GetWorkout(ctx context.Context, workoutID, userID int) (models.Workout, error)
	CreateWorkout(ctx context.Context, userID int, name string, exercises []string) (models.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID, userID int, name string, exercises []string) error
	AppendExercise(ctx context.Context, workoutID, userID int, exercise string) (models.Workout, error)
}

// Compile-time check: *storage.DB satisfies WorkoutStore.
var _ WorkoutStore = (*storage.DB)(nil)

// TokenVerifier resolves a bearer token to a user ID. *auth.Issuer satisfies it.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    WorkoutStore
	verifier TokenVerifier
	metrics  *Metrics
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store WorkoutStore, verifier TokenVerifier, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		verifier: verifier,
		metrics:  NewMetrics(),
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(CORS)

	// Unauthenticated operational endpoints
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/workouts", func(r chi.Router) {
		r.Use(BearerAuth(s.verifier))
		r.Get("/", s.handleListWorkouts)
		r.Post("/", s.handleCreateWorkout)
		r.Get("/{id}", s.handleGetWorkout)
		r.Put("/{id}", s.handleUpdateWorkout)
		r.Post("/{id}/exercises", s.handleAddExercise)
	})
}
