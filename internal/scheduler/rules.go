package scheduler

import "github.com/spec-kit/break-planner/internal/domain"

// RuleTolerance widens every band by this many hours when no band matches
// exactly, absorbing rounding noise in shift durations.
const RuleTolerance = 0.1

// ResolveRule finds the break rule for a shift of durationHours. The first
// band with MinHours <= d < MaxHours wins; failing that, the first band that
// matches once widened by RuleTolerance. ok is false when nothing matches,
// which means the shift earns no breaks.
func ResolveRule(rules []domain.BreakRule, durationHours float64) (domain.BreakRule, bool) {
	for _, r := range rules {
		if durationHours >= r.MinHours && durationHours < r.MaxHours {
			return r, true
		}
	}
	for _, r := range rules {
		if durationHours >= r.MinHours-RuleTolerance && durationHours < r.MaxHours+RuleTolerance {
			return r, true
		}
	}
	return domain.BreakRule{}, false
}
