package services

import (
	"context"
	"strings"
	"testing"

	"github.com/mkagd/technik-sub005/internal/adapters/distance"
	"github.com/mkagd/technik-sub005/internal/domain"
)

type stubTaskRepo struct {
	open     []domain.Task
	assigned map[string][]domain.Task
}

func (s stubTaskRepo) ListOpenTasks(ctx context.Context) ([]domain.Task, error) {
	return s.open, nil
}

func (s stubTaskRepo) ListAssignedTasks(ctx context.Context, technicianID string) ([]domain.Task, error) {
	return s.assigned[technicianID], nil
}

type stubTechnicianRepo struct {
	roster []domain.Technician
}

func (s stubTechnicianRepo) ListOnDuty(ctx context.Context) ([]domain.Technician, error) {
	return s.roster, nil
}

func dispatchFixture() (stubTaskRepo, stubTechnicianRepo) {
	open := domain.Task{
		ID:                   "ORD-NEW",
		RequiredSkills:       []string{"electrical"},
		Priority:             domain.PriorityHigh,
		EstimatedDurationMin: 60,
		Location:             domain.Location{Coords: coord(50.07, 19.95)},
		PreferredTime:        "Morning",
		Status:               "open",
	}

	already := domain.Task{
		ID:                   "ORD-OLD",
		RequiredSkills:       []string{"electrical"},
		Priority:             domain.PriorityMedium,
		EstimatedDurationMin: 45,
		Location:             domain.Location{Coords: coord(50.05, 19.93)},
		PreferredTime:        "Any time",
		Status:               "assigned",
		TechnicianID:         "TECH-CLOSE",
	}

	tasks := stubTaskRepo{
		open:     []domain.Task{open},
		assigned: map[string][]domain.Task{"TECH-CLOSE": {already}},
	}

	techs := stubTechnicianRepo{roster: []domain.Technician{
		{
			ID:           "TECH-CLOSE",
			Skills:       map[string]int{"electrical": 5},
			Location:     domain.Location{Coords: coord(50.06, 19.94)},
			Performance:  domain.Performance{CompletionRate: 95},
			WorkingHours: domain.WorkingHours{StartMin: 480, EndMin: 960},
		},
		{
			ID:           "TECH-FAR",
			Skills:       map[string]int{"electrical": 2},
			Location:     domain.Location{Coords: coord(52.23, 21.01)},
			Workload:     domain.Workload{Remaining: 4},
			WorkingHours: domain.WorkingHours{StartMin: 480, EndMin: 960},
		},
	}}

	return tasks, techs
}

func TestPlanDispatchAssignsBestTechnician(t *testing.T) {
	tasks, techs := dispatchFixture()
	provider := distance.NewMockProvider(nil)

	plan, err := PlanDispatch(context.Background(), DispatchRequest{TaskID: "ORD-NEW"},
		tasks, techs, provider, DefaultSlotConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a plan, got nil")
	}

	if plan.Technician.ID != "TECH-CLOSE" {
		t.Fatalf("chose %q, want TECH-CLOSE", plan.Technician.ID)
	}
	if plan.Task.ID != "ORD-NEW" {
		t.Fatalf("planned task = %q, want ORD-NEW", plan.Task.ID)
	}
	if plan.Score.Total < DefaultAcceptanceThreshold {
		t.Fatalf("accepted score %d below threshold", plan.Score.Total)
	}

	// The day route covers the existing assignment plus the new task.
	if len(plan.Route.Stops) != 2 {
		t.Fatalf("route has %d stops, want 2", len(plan.Route.Stops))
	}
	if len(plan.Slots) != 2 {
		t.Fatalf("day has %d slots, want 2", len(plan.Slots))
	}

	seen := map[string]bool{}
	for _, s := range plan.Slots {
		seen[s.TaskID] = true
	}
	if !seen["ORD-NEW"] || !seen["ORD-OLD"] {
		t.Fatalf("slots cover %v, want both tasks", seen)
	}

	// Slots start at the shift start and stay ordered.
	if plan.Slots[0].StartMin != 480 {
		t.Fatalf("first slot starts at %d, want 480", plan.Slots[0].StartMin)
	}
	for i := 0; i < len(plan.Slots)-1; i++ {
		if plan.Slots[i].EndMin > plan.Slots[i+1].StartMin {
			t.Fatalf("slots %d and %d overlap", i, i+1)
		}
	}
	if plan.OverrunsShift {
		t.Fatal("short day flagged as overrunning the shift")
	}
}

func TestPlanDispatchReturnToOrigin(t *testing.T) {
	tasks, techs := dispatchFixture()

	plan, err := PlanDispatch(context.Background(),
		DispatchRequest{TaskID: "ORD-NEW", ReturnToOrigin: true},
		tasks, techs, distance.NewMockProvider(nil), DefaultSlotConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := plan.Route.Stops[len(plan.Route.Stops)-1]
	if !last.Return {
		t.Fatal("missing return leg")
	}
	// The return leg is travel only; it must not produce a slot.
	if len(plan.Slots) != 2 {
		t.Fatalf("day has %d slots, want 2", len(plan.Slots))
	}
}

func TestPlanDispatchNoAcceptableTechnician(t *testing.T) {
	tasks, techs := dispatchFixture()

	// Nobody reaches a perfect score in this fixture; unassignable is a
	// nil plan, not an error.
	plan, err := PlanDispatch(context.Background(),
		DispatchRequest{TaskID: "ORD-NEW", AcceptanceThreshold: 100},
		tasks, techs, distance.NewMockProvider(nil), DefaultSlotConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != nil {
		t.Fatalf("expected nil plan, got %+v", plan)
	}
}

func TestPlanDispatchEmptyRoster(t *testing.T) {
	tasks, _ := dispatchFixture()

	plan, err := PlanDispatch(context.Background(), DispatchRequest{TaskID: "ORD-NEW"},
		tasks, stubTechnicianRepo{}, distance.NewMockProvider(nil), DefaultSlotConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != nil {
		t.Fatal("empty roster produced a plan")
	}
}

func TestPlanDispatchUnknownTask(t *testing.T) {
	tasks, techs := dispatchFixture()

	_, err := PlanDispatch(context.Background(), DispatchRequest{TaskID: "ORD-MISSING"},
		tasks, techs, distance.NewMockProvider(nil), DefaultSlotConfig())
	if err == nil {
		t.Fatal("expected error for unknown task")
	}
	if !strings.Contains(err.Error(), "ORD-MISSING") {
		t.Fatalf("error %q does not name the task", err)
	}
}

func TestPlanDispatchOverrunsShift(t *testing.T) {
	tasks, techs := dispatchFixture()

	// A 10-hour job cannot fit an 8-hour shift.
	tasks.open[0].EstimatedDurationMin = 600

	plan, err := PlanDispatch(context.Background(), DispatchRequest{TaskID: "ORD-NEW"},
		tasks, techs, distance.NewMockProvider(nil), DefaultSlotConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatal("expected a plan")
	}
	if !plan.OverrunsShift {
		t.Fatal("overlong day not flagged")
	}
}
