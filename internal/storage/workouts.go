package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/repsedit/internal/models"
	"github.com/jackc/pgx/v5"
)

const workoutColumns = `id, user_id, name, exercises, created_at`

// ListWorkouts returns the user's workouts, newest first.
func (db *DB) ListWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRows(rows)
}

// GetWorkout retrieves a single workout owned by userID.
func (db *DB) GetWorkout(ctx context.Context, workoutID, userID int) (models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		workoutID, userID)

	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Workout{}, ErrNotFound
	}
	if err != nil {
		return models.Workout{}, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// CreateWorkout inserts a workout and returns it with its assigned ID.
func (db *DB) CreateWorkout(ctx context.Context, userID int, name string, exercises []string) (models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (user_id, name, exercises)
		 VALUES ($1, $2, $3)
		 RETURNING `+workoutColumns,
		userID, name, models.EncodeExercises(exercises))

	w, err := scanWorkout(row)
	if err != nil {
		return models.Workout{}, fmt.Errorf("inserting workout: %w", err)
	}
	return w, nil
}

// UpdateWorkout replaces a workout's name and exercise list.
func (db *DB) UpdateWorkout(ctx context.Context, workoutID, userID int, name string, exercises []string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts
		 SET name = $3, exercises = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		workoutID, userID, name, models.EncodeExercises(exercises))
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendExercise adds one exercise to the end of a workout's list and returns
// the updated workout. The row is locked for the read-modify-write so
// concurrent appends are not lost.
func (db *DB) AppendExercise(ctx context.Context, workoutID, userID int, exercise string) (models.Workout, error) {
	var w models.Workout
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`SELECT `+workoutColumns+`
			 FROM workouts
			 WHERE id = $1 AND user_id = $2
			 FOR UPDATE`,
			workoutID, userID)

		var err error
		w, err = scanWorkout(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("locking workout: %w", err)
		}

		w.Exercises = append(w.Exercises, exercise)
		if _, err := tx.Exec(ctx,
			`UPDATE workouts SET exercises = $2, updated_at = NOW() WHERE id = $1`,
			workoutID, models.EncodeExercises(w.Exercises)); err != nil {
			return fmt.Errorf("appending exercise: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Workout{}, err
	}
	return w, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row scanner) (models.Workout, error) {
	var (
		w         models.Workout
		exercises string
		createdAt time.Time
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &exercises, &createdAt); err != nil {
		return models.Workout{}, err
	}

	list, err := models.DecodeExercises(exercises)
	if err != nil {
		return models.Workout{}, fmt.Errorf("workout %d: %w", w.ID, err)
	}
	w.Exercises = list
	w.CreatedAt = createdAt
	return w, nil
}

func scanWorkoutRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Workout, error) {
	result := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
