package services

import (
	"testing"

	"github.com/mkagd/technik-sub005/internal/domain"
)

func TestAssignSlotsSequentialLayout(t *testing.T) {
	cfg := DefaultSlotConfig()
	tasks := []domain.Task{
		{ID: "ORD-1", EstimatedDurationMin: 60, PreferredTime: "Morning"},
		{ID: "ORD-2", EstimatedDurationMin: 45, PreferredTime: "Morning"},
	}
	travel := func(prev, next domain.Task) int { return 20 }

	// Shift starts at 08:00 = 480 min.
	slots := AssignSlots(480, tasks, travel, cfg)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}

	if slots[0].StartMin != 480 || slots[0].EndMin != 540 {
		t.Fatalf("slot 0 = [%d, %d], want [480, 540]", slots[0].StartMin, slots[0].EndMin)
	}
	if slots[0].TravelToNextMin != 20 {
		t.Fatalf("slot 0 travel = %d, want 20", slots[0].TravelToNextMin)
	}

	// 540 + 20 travel + 15 buffer = 575.
	if slots[1].StartMin != 575 || slots[1].EndMin != 620 {
		t.Fatalf("slot 1 = [%d, %d], want [575, 620]", slots[1].StartMin, slots[1].EndMin)
	}

	for i := 0; i < len(slots)-1; i++ {
		if slots[i].EndMin > slots[i+1].StartMin {
			t.Fatalf("slots %d and %d overlap", i, i+1)
		}
	}
}

func TestAssignSlotsPreferenceFlags(t *testing.T) {
	cfg := DefaultSlotConfig()

	// Morning anchors at 08:00 = 480. A slot starting at 14:00 = 840 is
	// 360 min off, well past the 120 min conflict tolerance.
	late := AssignSlots(840, []domain.Task{
		{ID: "ORD-1", EstimatedDurationMin: 30, PreferredTime: "Morning"},
	}, nil, cfg)
	if !late[0].PreferenceConflict {
		t.Fatal("360 min offset not flagged as conflict")
	}
	if late[0].OptimalTime {
		t.Fatal("conflicting slot marked optimal")
	}

	// Exactly on the anchor: optimal, no conflict.
	onTime := AssignSlots(480, []domain.Task{
		{ID: "ORD-2", EstimatedDurationMin: 30, PreferredTime: "Morning"},
	}, nil, cfg)
	if onTime[0].PreferenceConflict || !onTime[0].OptimalTime {
		t.Fatalf("on-anchor slot flags = conflict:%v optimal:%v", onTime[0].PreferenceConflict, onTime[0].OptimalTime)
	}

	// 90 min off: inside conflict tolerance but outside the optimal window.
	shifted := AssignSlots(570, []domain.Task{
		{ID: "ORD-3", EstimatedDurationMin: 30, PreferredTime: "Morning"},
	}, nil, cfg)
	if shifted[0].PreferenceConflict {
		t.Fatal("90 min offset flagged as conflict")
	}
	if shifted[0].OptimalTime {
		t.Fatal("90 min offset marked optimal")
	}
}

func TestAssignSlotsUnknownPreferenceLabel(t *testing.T) {
	cfg := DefaultSlotConfig()

	// Unrecognized labels anchor at noon = 720; a 700 start is 20 min off
	// and therefore optimal.
	slots := AssignSlots(700, []domain.Task{
		{ID: "ORD-1", EstimatedDurationMin: 30, PreferredTime: "whenever works"},
	}, nil, cfg)
	if slots[0].PreferenceConflict || !slots[0].OptimalTime {
		t.Fatalf("unknown label flags = conflict:%v optimal:%v", slots[0].PreferenceConflict, slots[0].OptimalTime)
	}
}

func TestAssignSlotsNegativeTravelClamped(t *testing.T) {
	cfg := DefaultSlotConfig()
	cfg.BufferMinutes = 0

	tasks := []domain.Task{
		{ID: "ORD-1", EstimatedDurationMin: 30, PreferredTime: "Any time"},
		{ID: "ORD-2", EstimatedDurationMin: 30, PreferredTime: "Any time"},
	}
	travel := func(prev, next domain.Task) int { return -15 }

	slots := AssignSlots(720, tasks, travel, cfg)
	if slots[0].TravelToNextMin != 0 {
		t.Fatalf("negative travel recorded as %d, want 0", slots[0].TravelToNextMin)
	}
	if slots[1].StartMin != slots[0].EndMin {
		t.Fatalf("slot 1 starts at %d, want %d", slots[1].StartMin, slots[0].EndMin)
	}
}

func TestAssignSlotsEmpty(t *testing.T) {
	slots := AssignSlots(480, nil, nil, DefaultSlotConfig())
	if len(slots) != 0 {
		t.Fatalf("empty task list produced %d slots", len(slots))
	}
}

func TestSlotConfigAnchorHour(t *testing.T) {
	cfg := DefaultSlotConfig()

	if h := cfg.AnchorHour("After 17:00"); h != 17 {
		t.Fatalf("After 17:00 anchor = %d, want 17", h)
	}
	if h := cfg.AnchorHour("no such label"); h != 12 {
		t.Fatalf("unknown label anchor = %d, want 12", h)
	}

	// The table is injectable policy, not a hardcoded constant.
	cfg.PreferenceAnchors = map[string]int{"Night shift": 22}
	if h := cfg.AnchorHour("Night shift"); h != 22 {
		t.Fatalf("custom anchor = %d, want 22", h)
	}
}
