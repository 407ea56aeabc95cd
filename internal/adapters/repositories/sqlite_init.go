package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTasksQuery := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		required_skills TEXT NOT NULL,
		priority TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		lat REAL,
		lng REAL,
		address TEXT,
		preferred_time TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		technician_id TEXT,
		created_at TEXT NOT NULL
	);
	`

	createTechniciansQuery := `
	CREATE TABLE IF NOT EXISTS technicians (
		technician_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		skills TEXT NOT NULL,
		lat REAL,
		lng REAL,
		address TEXT,
		assigned INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		remaining INTEGER NOT NULL DEFAULT 0,
		completion_rate REAL NOT NULL DEFAULT 0,
		on_time_rate REAL NOT NULL DEFAULT 0,
		avg_rating REAL NOT NULL DEFAULT 0,
		shift_start_min INTEGER NOT NULL DEFAULT 480,
		shift_end_min INTEGER NOT NULL DEFAULT 960,
		on_duty INTEGER NOT NULL DEFAULT 1
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_km REAL NOT NULL,
		duration_min INTEGER NOT NULL,
		alternatives INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (origin, destination)
	);
	`

	createStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tasks_status_technician
	ON tasks(status, technician_id);
	`

	statements := []string{
		createTasksQuery,
		createTechniciansQuery,
		createDistanceCacheQuery,
		createStatusIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TaskSeed struct {
	TaskID         string   `json:"task_id"`
	RequiredSkills []string `json:"required_skills"`
	Priority       string   `json:"priority"`
	DurationMin    int      `json:"duration_min"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	Address        string   `json:"address"`
	PreferredTime  string   `json:"preferred_time"`
	Status         string   `json:"status"`
	TechnicianID   string   `json:"technician_id"`
}

type TechnicianSeed struct {
	TechnicianID   string         `json:"technician_id"`
	Name           string         `json:"name"`
	Skills         map[string]int `json:"skills"`
	Lat            *float64       `json:"lat"`
	Lng            *float64       `json:"lng"`
	Address        string         `json:"address"`
	Remaining      int            `json:"remaining"`
	CompletionRate float64        `json:"completion_rate"`
	OnTimeRate     float64        `json:"on_time_rate"`
	AvgRating      float64        `json:"avg_rating"`
	ShiftStartMin  int            `json:"shift_start_min"`
	ShiftEndMin    int            `json:"shift_end_min"`
}

type DispatchSeed struct {
	Tasks       []TaskSeed       `json:"tasks"`
	Technicians []TechnicianSeed `json:"technicians"`
}

// Populate the database with demo tasks and technicians from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed dispatch data: read %q: %w", jsonPath, err)
	}

	var seed DispatchSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed dispatch data: parse json: %w", err)
	}

	for i, t := range seed.Tasks {
		if strings.TrimSpace(t.TaskID) == "" {
			return fmt.Errorf("seed dispatch data: task at index %d: task_id cannot be empty", i+1)
		}
		if t.DurationMin <= 0 {
			return fmt.Errorf("seed dispatch data: task %q: duration_min must be positive", t.TaskID)
		}
	}
	for i, t := range seed.Technicians {
		if strings.TrimSpace(t.TechnicianID) == "" {
			return fmt.Errorf("seed dispatch data: technician at index %d: technician_id cannot be empty", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed dispatch data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	taskStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO tasks (
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
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare task insert: %w", err)
	}
	defer taskStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range seed.Tasks {
		skills, err := json.Marshal(t.RequiredSkills)
		if err != nil {
			return fmt.Errorf("seed dispatch data: task %q: encode skills: %w", t.TaskID, err)
		}

		priority := t.Priority
		if priority == "" {
			priority = string(domain.PriorityMedium)
		}
		status := t.Status
		if status == "" {
			status = "open"
		}

		_, err = taskStmt.Exec(
			t.TaskID, string(skills), priority, t.DurationMin,
			t.Lat, t.Lng, t.Address, t.PreferredTime, status,
			nullIfEmpty(t.TechnicianID), now,
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert task %q: %w", t.TaskID, err)
		}
	}

	techStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO technicians (
		technician_id,
		name,
		skills,
		lat,
		lng,
		address,
		assigned,
		completed,
		remaining,
		completion_rate,
		on_time_rate,
		avg_rating,
		shift_start_min,
		shift_end_min,
		on_duty
	)
	VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?, ?, ?, ?, 1);
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare technician insert: %w", err)
	}
	defer techStmt.Close()

	for _, t := range seed.Technicians {
		skills, err := json.Marshal(t.Skills)
		if err != nil {
			return fmt.Errorf("seed dispatch data: technician %q: encode skills: %w", t.TechnicianID, err)
		}

		_, err = techStmt.Exec(
			t.TechnicianID, t.Name, string(skills),
			t.Lat, t.Lng, t.Address,
			t.Remaining, t.CompletionRate, t.OnTimeRate, t.AvgRating,
			t.ShiftStartMin, t.ShiftEndMin,
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert technician %q: %w", t.TechnicianID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed dispatch data: commit tx: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
