package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const seedFixture = `{
  "tasks": [
    {
      "task_id": "ORD-1",
      "required_skills": ["washing-machine"],
      "priority": "high",
      "duration_min": 60,
      "lat": 50.0614,
      "lng": 19.9366,
      "address": "Rynek Główny 12",
      "preferred_time": "Morning",
      "status": "open"
    },
    {
      "task_id": "ORD-2",
      "required_skills": ["dishwasher"],
      "duration_min": 45,
      "status": "open"
    },
    {
      "task_id": "ORD-3",
      "required_skills": ["oven"],
      "priority": "medium",
      "duration_min": 75,
      "lat": 50.0665,
      "lng": 19.9120,
      "preferred_time": "Morning",
      "status": "assigned",
      "technician_id": "TECH-01"
    }
  ],
  "technicians": [
    {
      "technician_id": "TECH-01",
      "name": "Marek Zieliński",
      "skills": {"washing-machine": 5, "oven": 3},
      "lat": 50.0580,
      "lng": 19.9260,
      "remaining": 1,
      "completion_rate": 96.5,
      "on_time_rate": 91.0,
      "avg_rating": 4.8,
      "shift_start_min": 480,
      "shift_end_min": 960
    }
  ]
}`

func newSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// In-memory SQLite is per-connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seedFixture), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return db
}

func TestSqliteTaskRepositoryListOpenTasks(t *testing.T) {
	repo := NewSqliteTaskRepository(newSeededDB(t))

	tasks, err := repo.ListOpenTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d open tasks, want 2", len(tasks))
	}

	first := tasks[0]
	if first.ID != "ORD-1" {
		t.Fatalf("first task = %q, want ORD-1", first.ID)
	}
	if len(first.RequiredSkills) != 1 || first.RequiredSkills[0] != "washing-machine" {
		t.Fatalf("skills = %v", first.RequiredSkills)
	}
	if !first.Location.HasCoordinates() {
		t.Fatal("ORD-1 lost its coordinates")
	}
	if first.Location.Coords.Lat != 50.0614 {
		t.Fatalf("lat = %v", first.Location.Coords.Lat)
	}
	if first.PreferredTime != "Morning" {
		t.Fatalf("preferred time = %q", first.PreferredTime)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("created_at not parsed")
	}

	// ORD-2 has no coordinates and no stated priority.
	second := tasks[1]
	if second.Location.HasCoordinates() {
		t.Fatal("ORD-2 should have no coordinates")
	}
	if string(second.Priority) != "medium" {
		t.Fatalf("defaulted priority = %q, want medium", second.Priority)
	}
}

func TestSqliteTaskRepositoryListAssignedTasks(t *testing.T) {
	repo := NewSqliteTaskRepository(newSeededDB(t))

	tasks, err := repo.ListAssignedTasks(context.Background(), "TECH-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "ORD-3" {
		t.Fatalf("assigned tasks = %+v", tasks)
	}
	if tasks[0].TechnicianID != "TECH-01" {
		t.Fatalf("technician_id = %q", tasks[0].TechnicianID)
	}

	none, err := repo.ListAssignedTasks(context.Background(), "TECH-99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("unknown technician has %d tasks", len(none))
	}

	if _, err := repo.ListAssignedTasks(context.Background(), ""); err == nil {
		t.Fatal("empty technician id accepted")
	}
}

func TestSqliteTechnicianRepositoryListOnDuty(t *testing.T) {
	repo := NewSqliteTechnicianRepository(newSeededDB(t))

	roster, err := repo.ListOnDuty(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("roster size = %d, want 1", len(roster))
	}

	tech := roster[0]
	if tech.ID != "TECH-01" || tech.Name != "Marek Zieliński" {
		t.Fatalf("technician = %+v", tech)
	}
	if tech.SkillLevel("washing-machine") != 5 {
		t.Fatalf("skill level = %d, want 5", tech.SkillLevel("washing-machine"))
	}
	if tech.Workload.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", tech.Workload.Remaining)
	}
	if tech.Performance.CompletionRate != 96.5 {
		t.Fatalf("completion rate = %v", tech.Performance.CompletionRate)
	}
	if tech.WorkingHours.StartMin != 480 || tech.WorkingHours.EndMin != 960 {
		t.Fatalf("shift = [%d, %d]", tech.WorkingHours.StartMin, tech.WorkingHours.EndMin)
	}
	if !tech.Location.HasCoordinates() {
		t.Fatal("technician lost coordinates")
	}
}

func TestSqliteDemandCounterBucketCounts(t *testing.T) {
	counter := NewSqliteDemandCounter(newSeededDB(t))

	counts, err := counter.BucketCounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only open tasks count; ORD-2 has no preference and lands in the
	// catch-all bucket.
	if counts["Morning"] != 1 {
		t.Fatalf("Morning = %d, want 1", counts["Morning"])
	}
	if counts["Any time"] != 1 {
		t.Fatalf("Any time = %d, want 1", counts["Any time"])
	}
	if len(counts) != 2 {
		t.Fatalf("counts = %v", counts)
	}
}
