package services

import (
	"context"
	"fmt"

	"github.com/mkagd/technik-sub005/internal/domain"
	"github.com/mkagd/technik-sub005/internal/ports"
)

// DispatchRequest describes one dispatch planning run for an open task.
type DispatchRequest struct {
	TaskID string
	// AcceptanceThreshold is the minimum match score for auto-assignment.
	// Zero means DefaultAcceptanceThreshold.
	AcceptanceThreshold int
	Mode                RouteMode
	// ReturnToOrigin appends a leg back to the technician's current
	// location at the end of the day plan.
	ReturnToOrigin bool
}

// DayPlan is the full planning result for one task: the chosen technician,
// the optimized visiting order for their day, and the laid-out time slots.
// It is planning data only; the caller persists the assignment.
type DayPlan struct {
	Task          domain.Task            `json:"task"`
	Technician    domain.Technician      `json:"technician"`
	Score         MatchScore             `json:"score"`
	Route         *domain.RoutePlan      `json:"route"`
	Slots         []domain.ScheduledSlot `json:"slots"`
	OverrunsShift bool                   `json:"overruns_shift"`
}

// PlanDispatch selects the best technician for an open task and lays the
// task into that technician's day.
//
// It coordinates matching, route optimization and slot assignment without
// mutating any store. A roster with no technician meeting the acceptance
// threshold yields a nil plan and no error: unassignable is a normal
// outcome, not a failure.
func PlanDispatch(
	ctx context.Context,
	req DispatchRequest,
	tasks ports.TaskRepository,
	technicians ports.TechnicianRepository,
	provider ports.DistanceProvider,
	slotCfg SlotConfig,
) (*DayPlan, error) {
	open, err := tasks.ListOpenTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan dispatch: list open tasks: %w", err)
	}

	var task *domain.Task
	for i := range open {
		if open[i].ID == req.TaskID {
			task = &open[i]
			break
		}
	}
	if task == nil {
		return nil, fmt.Errorf("plan dispatch: open task %q not found", req.TaskID)
	}

	roster, err := technicians.ListOnDuty(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan dispatch: list technicians: %w", err)
	}
	if len(roster) == 0 {
		return nil, nil
	}

	threshold := req.AcceptanceThreshold
	if threshold == 0 {
		threshold = DefaultAcceptanceThreshold
	}

	acceptable := Acceptable(RankTechnicians(*task, roster), threshold)
	if len(acceptable) == 0 {
		return nil, nil
	}

	best := acceptable[0]
	var tech domain.Technician
	for _, t := range roster {
		if t.ID == best.TechnicianID {
			tech = t
			break
		}
	}

	if !tech.Location.HasCoordinates() {
		return nil, fmt.Errorf("plan dispatch: technician %q: %w", tech.ID, domain.ErrMissingCoordinates)
	}

	assigned, err := tasks.ListAssignedTasks(ctx, tech.ID)
	if err != nil {
		return nil, fmt.Errorf("plan dispatch: list assigned tasks for %q: %w", tech.ID, err)
	}

	dayTasks := append(assigned, *task)
	byID := make(map[string]domain.Task, len(dayTasks))
	stops := make([]Stop, 0, len(dayTasks))
	for _, t := range dayTasks {
		byID[t.ID] = t
		stops = append(stops, Stop{ID: t.ID, Coord: t.Location.Coords})
	}

	origin := *tech.Location.Coords
	routeReq := OptimizeRouteRequest{
		TechnicianID: tech.ID,
		Origin:       origin,
		Stops:        stops,
		Mode:         req.Mode,
	}
	if req.ReturnToOrigin {
		routeReq.Destination = &origin
	}

	route, err := OptimizeRoute(ctx, routeReq, provider)
	if err != nil {
		return nil, fmt.Errorf("plan dispatch: %w", err)
	}

	// Slots follow the optimized visiting order; travel minutes reuse the
	// per-leg durations already computed for the route, so no extra
	// provider calls are made here.
	ordered := make([]domain.Task, 0, len(dayTasks))
	travelIn := make(map[string]int, len(route.Stops))
	for _, s := range route.Stops {
		if s.Return {
			continue
		}
		ordered = append(ordered, byID[s.StopID])
		travelIn[s.StopID] = s.LegDurationMin
	}

	lookup := func(prev, next domain.Task) int { return travelIn[next.ID] }
	slots := AssignSlots(tech.WorkingHours.StartMin, ordered, lookup, slotCfg)

	overruns := false
	if len(slots) > 0 && slots[len(slots)-1].EndMin > tech.WorkingHours.EndMin {
		overruns = true
	}

	return &DayPlan{
		Task:          *task,
		Technician:    tech,
		Score:         best,
		Route:         route,
		Slots:         slots,
		OverrunsShift: overruns,
	}, nil
}
