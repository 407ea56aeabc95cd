package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkagd/technik-sub005/internal/adapters/distance"
	"github.com/mkagd/technik-sub005/internal/api/dto"
	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/services"
)

type fakeTaskRepo struct {
	open     []domain.Task
	assigned map[string][]domain.Task
}

func (f fakeTaskRepo) ListOpenTasks(ctx context.Context) ([]domain.Task, error) {
	return f.open, nil
}

func (f fakeTaskRepo) ListAssignedTasks(ctx context.Context, technicianID string) ([]domain.Task, error) {
	return f.assigned[technicianID], nil
}

type fakeTechnicianRepo struct {
	roster []domain.Technician
}

func (f fakeTechnicianRepo) ListOnDuty(ctx context.Context) ([]domain.Technician, error) {
	return f.roster, nil
}

type fakeDemandCounter struct {
	counts map[string]int
}

func (f fakeDemandCounter) BucketCounts(ctx context.Context) (map[string]int, error) {
	return f.counts, nil
}

func testRouter() http.Handler {
	coords := &domain.Coordinate{Lat: 50.06, Lng: 19.94}

	tech := domain.Technician{
		ID:           "TECH-01",
		Name:         "Marek Zieliński",
		Skills:       map[string]int{"electrical": 5},
		Location:     domain.Location{Coords: coords},
		Performance:  domain.Performance{CompletionRate: 95},
		WorkingHours: domain.WorkingHours{StartMin: 480, EndMin: 960},
	}

	taskCoords := &domain.Coordinate{Lat: 50.07, Lng: 19.95}
	open := domain.Task{
		ID:                   "ORD-1",
		RequiredSkills:       []string{"electrical"},
		Priority:             domain.PriorityHigh,
		EstimatedDurationMin: 60,
		Location:             domain.Location{Coords: taskCoords},
		PreferredTime:        "Morning",
		Status:               "open",
	}

	return NewRouter(RouterDeps{
		Tasks:       fakeTaskRepo{open: []domain.Task{open}},
		Technicians: fakeTechnicianRepo{roster: []domain.Technician{tech}},
		Demand:      fakeDemandCounter{counts: map[string]int{"Morning": 1}},
		Provider:    distance.NewMockProvider(nil),
		SlotConfig:  services.DefaultSlotConfig(),
	})
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.AvailabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.TechnicianCount != 1 || res.TotalActive != 1 {
		t.Fatalf("response = %+v", res)
	}
	if len(res.Buckets) == 0 {
		t.Fatal("no buckets quoted")
	}
	for _, b := range res.Buckets {
		if b.WaitDays < 1 || b.WaitDays > 7 {
			t.Fatalf("bucket %q wait = %d, outside 1-7", b.Name, b.WaitDays)
		}
	}
}

func TestMatchEndpoint(t *testing.T) {
	body := `{
		"task": {
			"task_id": "ORD-9",
			"required_skills": ["electrical"],
			"priority": "high",
			"duration_min": 45,
			"location": {"lat": 50.07, "lng": 19.95}
		}
	}`

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.MatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("matches = %+v", res.Matches)
	}
	if res.Matches[0].TechnicianID != "TECH-01" || !res.Matches[0].Acceptable {
		t.Fatalf("match = %+v", res.Matches[0])
	}
}

func TestMatchEndpointRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid priority", `{"task": {"task_id": "X", "priority": "urgent"}}`},
		{"unknown field", `{"task": {"task_id": "X"}, "bogus": true}`},
		{"out of range coords", `{"task": {"task_id": "X", "location": {"lat": 95, "lng": 0}}}`},
		{"trailing garbage", `{"task": {"task_id": "X"}} {}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestOptimizeRouteEndpoint(t *testing.T) {
	body := `{
		"technician_id": "TECH-01",
		"origin": {"lat": 50.0, "lng": 20.0},
		"stops": [
			{"id": "A", "location": {"lat": 50.01, "lng": 20.01}},
			{"id": "B", "location": {"lat": 50.05, "lng": 20.05}},
			{"id": "C", "location": {"lat": 50.02, "lng": 20.02}}
		]
	}`

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.RoutePlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stops) != 3 {
		t.Fatalf("stops = %+v", res.Stops)
	}
	want := []string{"A", "C", "B"}
	for i, id := range want {
		if res.Stops[i].StopID != id {
			t.Fatalf("stop %d = %q, want %q", i, res.Stops[i].StopID, id)
		}
	}
}

func TestOptimizeRouteEndpointMissingStopLocation(t *testing.T) {
	body := `{
		"origin": {"lat": 50.0, "lng": 20.0},
		"stops": [{"id": "A", "location": {"lat": null, "lng": null}}]
	}`

	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/optimize", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDispatchPlanEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dispatch/plan",
		strings.NewReader(`{"task_id": "ORD-1"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.DispatchPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Assigned {
		t.Fatalf("plan not assigned: %+v", res)
	}
	if res.TechnicianID != "TECH-01" {
		t.Fatalf("technician = %q", res.TechnicianID)
	}
	if res.Route == nil || len(res.Slots) != 1 {
		t.Fatalf("route/slots missing: %+v", res)
	}
}

func TestDispatchPlanEndpointUnassignable(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dispatch/plan",
		strings.NewReader(`{"task_id": "ORD-1", "threshold": 100}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.DispatchPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Assigned {
		t.Fatal("perfect-score threshold should be unassignable")
	}
	if res.Reason == "" {
		t.Fatal("unassignable response carries no reason")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/match", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
