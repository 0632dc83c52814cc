package scheduler

import (
	"slices"
	"time"

	"github.com/spec-kit/break-planner/internal/domain"
)

const (
	// EdgeBuffer keeps breaks away from both ends of a shift.
	EdgeBuffer = 30 * time.Minute
	// MinBreakGap is the minimum spacing between two breaks of one employee.
	MinBreakGap = 60 * time.Minute
	// WindowFraction is the half-width of a search window as a share of the shift.
	WindowFraction = 0.15

	violationPenalty = 1000
	shortfallWeight  = 100
)

type breakItem struct {
	kind     domain.BreakType
	duration time.Duration
}

type anchoredItem struct {
	breakItem
	anchor time.Time
}

// breakItems flattens a rule into meal breaks followed by paid breaks.
// Items with a non-positive duration are dropped.
func breakItems(rule domain.BreakRule) []breakItem {
	items := make([]breakItem, 0, rule.TotalBreaks())
	if rule.UnpaidDuration > 0 {
		for i := 0; i < rule.UnpaidBreaks; i++ {
			items = append(items, breakItem{kind: domain.BreakTypeMeal, duration: time.Duration(rule.UnpaidDuration) * time.Minute})
		}
	}
	if rule.PaidDuration > 0 {
		for i := 0; i < rule.PaidBreaks; i++ {
			items = append(items, breakItem{kind: domain.BreakTypePaid, duration: time.Duration(rule.PaidDuration) * time.Minute})
		}
	}
	return items
}

// anchorTimes spreads n instants evenly over the shift at i/(n+1).
func anchorTimes(start, end time.Time, n int) []time.Time {
	span := end.Sub(start)
	anchors := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		anchors = append(anchors, start.Add(span*time.Duration(i)/time.Duration(n+1)))
	}
	return anchors
}

// assignAnchors gives each meal the free anchor nearest the shift midpoint and
// hands the remaining anchors to paid breaks in chronological order. The
// result keeps the order of items.
func assignAnchors(start, end time.Time, items []breakItem) []anchoredItem {
	pool := anchorTimes(start, end, len(items))
	mid := start.Add(end.Sub(start) / 2)
	out := make([]anchoredItem, len(items))

	for i, item := range items {
		if !item.kind.IsMeal() {
			continue
		}
		best := 0
		for j := 1; j < len(pool); j++ {
			if absDuration(pool[j].Sub(mid)) < absDuration(pool[best].Sub(mid)) {
				best = j
			}
		}
		out[i] = anchoredItem{breakItem: item, anchor: pool[best]}
		pool = slices.Delete(pool, best, best+1)
	}
	for i, item := range items {
		if item.kind.IsMeal() {
			continue
		}
		out[i] = anchoredItem{breakItem: item, anchor: pool[0]}
		pool = pool[1:]
	}
	return out
}

// searchWindow bounds the candidates for one break.
type searchWindow struct {
	// lo and hi are the shift bounds inset by EdgeBuffer.
	lo, hi time.Time
	// start and end are the window around the anchor, clamped to [lo, hi].
	start, end time.Time
}

func newSearchWindow(shiftStart, shiftEnd, anchor time.Time) searchWindow {
	w := searchWindow{lo: shiftStart.Add(EdgeBuffer), hi: shiftEnd.Add(-EdgeBuffer)}
	if !w.lo.Before(w.hi) {
		w.lo, w.hi = shiftStart, shiftEnd
	}
	half := time.Duration(float64(shiftEnd.Sub(shiftStart)) * WindowFraction)
	w.start, w.end = anchor.Add(-half), anchor.Add(half)
	if w.start.Before(w.lo) {
		w.start = w.lo
	}
	if w.end.After(w.hi) {
		w.end = w.hi
	}
	if !w.start.Before(w.end) {
		w.start, w.end = w.lo, w.hi
	}
	return w
}

// placementInput is everything the engine needs for one employee.
type placementInput struct {
	employee      domain.Employee
	start, end    time.Time
	rule          domain.BreakRule
	coverage      *CoverageMap
	coverageRules []domain.CoverageRule
	newID         func() string
}

// placeBreaks picks start times for every break the rule requires and books
// each one into the coverage map before scoring the next.
func placeBreaks(in placementInput) []domain.BreakAssignment {
	items := breakItems(in.rule)
	placed := make([]domain.BreakAssignment, 0, len(items))
	if len(items) == 0 {
		return placed
	}

	minStaff := minStaffRules(in.coverageRules)
	for _, item := range assignAnchors(in.start, in.end, items) {
		w := newSearchWindow(in.start, in.end, item.anchor)

		var (
			best      time.Time
			bestScore int
			bestDist  time.Duration
			found     bool
		)
		for c := CeilToSlot(w.start); !c.Add(item.duration).After(w.end); c = c.Add(SlotDuration) {
			cEnd := c.Add(item.duration)
			if withinGap(c, cEnd, placed) {
				continue
			}
			score := scoreCandidate(in.coverage, in.employee, minStaff, len(in.coverageRules) == 0, c, cEnd)
			dist := absDuration(c.Sub(item.anchor))
			if !found || score > bestScore || (score == bestScore && dist < bestDist) {
				best, bestScore, bestDist, found = c, score, dist, true
			}
		}
		if !found {
			best = fallbackStart(w, item.duration, placed)
		}

		assignment := domain.BreakAssignment{
			ID:       in.newID(),
			Type:     item.kind,
			Duration: int(item.duration / time.Minute),
			Start:    best,
			End:      best.Add(item.duration),
		}
		in.coverage.Decrement(assignment.Start, assignment.End, in.employee.Roles)
		placed = append(placed, assignment)
	}

	slices.SortStableFunc(placed, func(a, b domain.BreakAssignment) int {
		return a.Start.Compare(b.Start)
	})
	return placed
}

// scoreCandidate rates a break at [start, end). The employee is still counted
// in the map, so one is subtracted from every projected headcount. Each
// violated rule costs violationPenalty plus shortfallWeight per missing head;
// each satisfied rule adds its surplus. Without any coverage rules the raw
// total headcount is the score.
func scoreCandidate(cov *CoverageMap, emp domain.Employee, rules []domain.CoverageRule, noRules bool, start, end time.Time) int {
	if noRules {
		return cov.MinCoverage(start, end, domain.RoleAny)
	}
	score := 0
	for _, rule := range rules {
		if !rule.AppliesTo(emp) {
			continue
		}
		projected := cov.MinCoverage(start, end, rule.Role) - 1
		if projected < rule.Count {
			score -= violationPenalty + shortfallWeight*(rule.Count-projected)
			continue
		}
		score += projected - rule.Count
	}
	return score
}

// withinGap reports whether [start, end) comes closer than MinBreakGap to any
// placed break.
func withinGap(start, end time.Time, placed []domain.BreakAssignment) bool {
	for _, p := range placed {
		if start.Before(p.End.Add(MinBreakGap)) && end.After(p.Start.Add(-MinBreakGap)) {
			return true
		}
	}
	return false
}

func overlapsAny(start, end time.Time, placed []domain.BreakAssignment) bool {
	for _, p := range placed {
		if start.Before(p.End) && p.Start.Before(end) {
			return true
		}
	}
	return false
}

// fallbackStart is used when no candidate in the window is valid. It prefers
// the first slot of the window, then the first non-overlapping slot inside the
// buffered shift. The gap rule is not enforced here.
func fallbackStart(w searchWindow, d time.Duration, placed []domain.BreakAssignment) time.Time {
	start := CeilToSlot(w.start)
	if !start.Before(w.end) {
		start = w.start
	}
	if !overlapsAny(start, start.Add(d), placed) {
		return start
	}
	for c := CeilToSlot(w.lo); !c.Add(d).After(w.hi); c = c.Add(SlotDuration) {
		if !overlapsAny(c, c.Add(d), placed) {
			return c
		}
	}
	return start
}

func minStaffRules(rules []domain.CoverageRule) []domain.CoverageRule {
	out := make([]domain.CoverageRule, 0, len(rules))
	for _, r := range rules {
		if r.IsMinStaff() {
			out = append(out, r)
		}
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
