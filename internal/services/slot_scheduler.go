package services

import "github.com/mkagd/technik-sub005/internal/domain"

// SlotConfig carries the scheduling policy knobs. The preference-anchor
// table maps free-text time-of-day labels from the booking form to an
// anchor hour; its contents are a product decision, so it is injected
// rather than hardcoded.
type SlotConfig struct {
	// BufferMinutes is padded between tasks on top of travel time.
	BufferMinutes int
	// ConflictToleranceMin: beyond this offset from the preferred time
	// the slot is flagged as a preference conflict.
	ConflictToleranceMin int
	// OptimalToleranceMin: within this offset the slot counts as optimal.
	OptimalToleranceMin int
	// PreferenceAnchors maps a preference label to an anchor hour (0-23).
	PreferenceAnchors map[string]int
	// DefaultAnchorHour is used for unrecognized labels.
	DefaultAnchorHour int
}

// DefaultSlotConfig returns the documented scheduling defaults:
// 15 min buffer, 2 h conflict tolerance, 1 h optimal tolerance,
// noon anchor for unknown labels.
func DefaultSlotConfig() SlotConfig {
	return SlotConfig{
		BufferMinutes:        15,
		ConflictToleranceMin: 120,
		OptimalToleranceMin:  60,
		PreferenceAnchors:    defaultPreferenceAnchors(),
		DefaultAnchorHour:    12,
	}
}

func defaultPreferenceAnchors() map[string]int {
	return map[string]int{
		"Any time":    12,
		"Morning":     8,
		"Forenoon":    10,
		"Afternoon":   14,
		"Evening":     17,
		"After 15:00": 15,
		"After 17:00": 17,
		"Weekend":     10,
	}
}

// AnchorHour resolves a preference label to its anchor hour.
func (c SlotConfig) AnchorHour(label string) int {
	if h, ok := c.PreferenceAnchors[label]; ok {
		return h
	}
	return c.DefaultAnchorHour
}

// TravelLookup returns travel minutes between two consecutive tasks.
type TravelLookup func(prev, next domain.Task) int

// AssignSlots lays tasks onto a technician's day in the order given.
// It never re-orders: callers sort by priority or route upstream.
//
// A cursor starts at dayStartMin and advances by travel + buffer between
// tasks and by each task's estimated duration. Slots whose start diverges
// from the client's preferred time by more than the conflict tolerance are
// flagged, not rejected. Likewise a day that overruns the technician's
// working hours is surfaced as data; comparing the last slot's end against
// the shift end is the caller's responsibility.
func AssignSlots(dayStartMin int, tasks []domain.Task, travel TravelLookup, cfg SlotConfig) []domain.ScheduledSlot {
	slots := make([]domain.ScheduledSlot, 0, len(tasks))
	cursor := dayStartMin

	for i, task := range tasks {
		if i > 0 {
			travelMin := 0
			if travel != nil {
				travelMin = travel(tasks[i-1], task)
				if travelMin < 0 {
					travelMin = 0
				}
			}
			slots[i-1].TravelToNextMin = travelMin
			cursor += travelMin + cfg.BufferMinutes
		}

		start := cursor
		end := start + task.EstimatedDurationMin

		preferredMin := cfg.AnchorHour(task.PreferredTime) * 60
		offset := start - preferredMin
		if offset < 0 {
			offset = -offset
		}

		conflict := offset > cfg.ConflictToleranceMin

		slots = append(slots, domain.ScheduledSlot{
			TaskID:             task.ID,
			StartMin:           start,
			EndMin:             end,
			PreferenceConflict: conflict,
			OptimalTime:        !conflict && offset <= cfg.OptimalToleranceMin,
		})

		cursor = end
	}

	return slots
}
