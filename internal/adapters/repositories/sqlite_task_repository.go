package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// SQLite-backed implementation of the TaskRepository port.
type SqliteTaskRepository struct{ DB *sql.DB }

func NewSqliteTaskRepository(db *sql.DB) *SqliteTaskRepository {
	return &SqliteTaskRepository{DB: db}
}

const taskColumns = `
	task_id,
	required_skills,
	priority,
	duration_min,
	lat,
	lng,
	address,
	preferred_time,
	status,
	technician_id,
	created_at
`

// ListOpenTasks returns all tasks awaiting assignment, oldest first.
func (s *SqliteTaskRepository) ListOpenTasks(ctx context.Context) ([]domain.Task, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite task repository: DB is nil")
	}

	q := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE status = 'open'
	ORDER BY created_at, task_id;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list open tasks: query tasks table: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListAssignedTasks returns tasks already assigned to a technician and
// not yet completed.
func (s *SqliteTaskRepository) ListAssignedTasks(ctx context.Context, technicianID string) ([]domain.Task, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite task repository: DB is nil")
	}
	if technicianID == "" {
		return nil, errors.New("list assigned tasks: technicianID must not be empty")
	}

	q := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE status = 'assigned' AND technician_id = ?
	ORDER BY created_at, task_id;
	`

	rows, err := s.DB.QueryContext(ctx, q, technicianID)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: query tasks table: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, 32)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: row iteration: %w", err)
	}

	return tasks, nil
}

func scanTask(rows *sql.Rows) (domain.Task, error) {
	var (
		t          domain.Task
		skillsJSON string
		priority   string
		lat, lng   sql.NullFloat64
		address    sql.NullString
		preferred  sql.NullString
		techID     sql.NullString
		createdAt  string
	)

	err := rows.Scan(
		&t.ID,
		&skillsJSON,
		&priority,
		&t.EstimatedDurationMin,
		&lat,
		&lng,
		&address,
		&preferred,
		&t.Status,
		&techID,
		&createdAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("list tasks: scan row: %w", err)
	}

	if err := json.Unmarshal([]byte(skillsJSON), &t.RequiredSkills); err != nil {
		return domain.Task{}, fmt.Errorf("list tasks: task %q: parse required_skills: %w", t.ID, err)
	}

	t.Priority = domain.Priority(priority)
	t.Location = locationFromColumns(lat, lng, address)
	t.PreferredTime = preferred.String
	t.TechnicianID = techID.String

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}

	return t, nil
}

// locationFromColumns builds a Location snapshot from nullable columns.
// Missing lat/lng yields a location without coordinates, which routing
// later rejects explicitly instead of silently skipping the task.
func locationFromColumns(lat, lng sql.NullFloat64, address sql.NullString) domain.Location {
	loc := domain.Location{Address: address.String}
	if lat.Valid && lng.Valid {
		loc.Coords = &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}
	return loc
}
