package ports

import (
	"context"

	"github.com/mkagd/technik-sub005/internal/domain"
)

// Port: read-only access to service tasks awaiting or holding assignment.
// The engine never mutates task state; callers persist planning results.
type TaskRepository interface {
	// Retrieve all open (unassigned, uncancelled) tasks.
	ListOpenTasks(ctx context.Context) ([]domain.Task, error)
	// Retrieve tasks already assigned to a technician for the current day.
	ListAssignedTasks(ctx context.Context, technicianID string) ([]domain.Task, error)
}

// Port: read-only access to the technician roster.
type TechnicianRepository interface {
	// Retrieve all technicians on duty for the current day.
	ListOnDuty(ctx context.Context) ([]domain.Technician, error)
}

// Port: aggregate demand counts per availability bucket, used for
// quoting wait times to new customers.
type DemandCounter interface {
	// Return active-order counts keyed by bucket name.
	BucketCounts(ctx context.Context) (map[string]int, error)
}
