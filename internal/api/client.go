package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/repsedit/internal/models"
	"github.com/google/uuid"
)

// Client calls the workouts REST service. The bearer credential is fixed at
// construction; the client never reads or writes token storage itself.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It works on a copy of the
// current *http.Client, so a client passed to WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a Client targeting baseURL that authenticates with token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func workoutPath(id int) string {
	return "/workouts/" + strconv.Itoa(id)
}

// GetWorkout fetches one workout and decodes its exercise list.
func (c *Client) GetWorkout(ctx context.Context, id int) (models.Workout, error) {
	var res models.WorkoutResource
	if err := c.do(ctx, http.MethodGet, workoutPath(id), nil, &res); err != nil {
		return models.Workout{}, err
	}
	w, err := res.Workout()
	if err != nil {
		return models.Workout{}, fmt.Errorf("api: decode workout %d: %w", id, err)
	}
	return w, nil
}

// ListWorkouts fetches every workout of the authenticated user.
func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var res []models.WorkoutResource
	if err := c.do(ctx, http.MethodGet, "/workouts", nil, &res); err != nil {
		return nil, err
	}

	workouts := make([]models.Workout, 0, len(res))
	for _, r := range res {
		w, err := r.Workout()
		if err != nil {
			return nil, fmt.Errorf("api: decode workout %d: %w", r.ID, err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

// UpdateWorkout replaces a workout's name and exercise list.
func (c *Client) UpdateWorkout(ctx context.Context, id int, name string, exercises []string) error {
	return c.do(ctx, http.MethodPut, workoutPath(id), models.NewWorkoutUpdate(name, exercises), nil)
}

// CreateWorkout creates a workout owned by the authenticated user.
func (c *Client) CreateWorkout(ctx context.Context, name string, exercises []string) (models.Workout, error) {
	var res models.WorkoutResource
	if err := c.do(ctx, http.MethodPost, "/workouts", models.NewWorkoutUpdate(name, exercises), &res); err != nil {
		return models.Workout{}, err
	}
	w, err := res.Workout()
	if err != nil {
		return models.Workout{}, fmt.Errorf("api: decode created workout: %w", err)
	}
	return w, nil
}

// AddExercise appends one exercise on the service and returns the workout's
// full exercise list as stored after the append.
func (c *Client) AddExercise(ctx context.Context, id int, exercise string) ([]string, error) {
	var res models.WorkoutResource
	path := workoutPath(id) + "/exercises"
	if err := c.do(ctx, http.MethodPost, path, models.ExerciseAddition{Exercise: exercise}, &res); err != nil {
		return nil, err
	}
	exercises, err := models.DecodeExercises(res.Exercises)
	if err != nil {
		return nil, fmt.Errorf("api: decode exercises of workout %d: %w", id, err)
	}
	return exercises, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
