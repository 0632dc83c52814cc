package scheduler

import (
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
)

type slotCount struct {
	total int
	roles map[string]int
}

// CoverageMap tracks, per 15-minute slot, how many employees are present in
// total and per role. Ranges are snapped to the slot grid: a range touches
// every slot from the one containing start up to, not including, end.
//
// A CoverageMap belongs to a single scheduling run and is not safe for
// concurrent use.
type CoverageMap struct {
	slots map[int64]*slotCount
}

// NewCoverageMap returns an empty map.
func NewCoverageMap() *CoverageMap {
	return &CoverageMap{slots: make(map[int64]*slotCount)}
}

// Increment adds one present employee holding roles to every slot in [start, end).
func (m *CoverageMap) Increment(start, end time.Time, roles []string) {
	m.add(start, end, roles, 1)
}

// Decrement removes one employee holding roles from every slot in [start, end).
// It must pair with an earlier Increment over the same range.
func (m *CoverageMap) Decrement(start, end time.Time, roles []string) {
	m.add(start, end, roles, -1)
}

// MinCoverage returns the lowest headcount for role over the slots touched by
// [start, end). RoleAny reads the total. Slots without data count as zero.
func (m *CoverageMap) MinCoverage(start, end time.Time, role string) int {
	lowest := 0
	first := true
	for t := range Slots(FloorToSlot(start), end) {
		count := m.count(t, role)
		if first || count < lowest {
			lowest = count
			first = false
		}
	}
	return lowest
}

func (m *CoverageMap) add(start, end time.Time, roles []string, delta int) {
	for t := range Slots(FloorToSlot(start), end) {
		key := t.Unix()
		slot, ok := m.slots[key]
		if !ok {
			slot = &slotCount{roles: make(map[string]int)}
			m.slots[key] = slot
		}
		slot.total += delta
		for _, role := range roles {
			slot.roles[role] += delta
		}
	}
}

func (m *CoverageMap) count(t time.Time, role string) int {
	slot, ok := m.slots[t.Unix()]
	if !ok {
		return 0
	}
	if role == domain.RoleAny {
		return slot.total
	}
	return slot.roles[role]
}
