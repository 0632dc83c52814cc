package scheduler

import (
	"testing"

	"github.com/spec-kit/break-planner/internal/domain"
)

func TestResolveRule(t *testing.T) {
	rules := []domain.BreakRule{
		{MinHours: 0, MaxHours: 5, PaidBreaks: 1, PaidDuration: 15},
		{MinHours: 5, MaxHours: 7, PaidBreaks: 2, PaidDuration: 15},
	}

	tests := []struct {
		name      string
		hours     float64
		wantOK    bool
		wantPaids int
	}{
		{name: "exact upper bound belongs to next band", hours: 5.0, wantOK: true, wantPaids: 2},
		{name: "inside first band", hours: 4.95, wantOK: true, wantPaids: 1},
		{name: "tolerance above last band", hours: 7.05, wantOK: true, wantPaids: 2},
		{name: "beyond tolerance", hours: 7.2, wantOK: false},
		{name: "zero length shift", hours: 0, wantOK: true, wantPaids: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRule(rules, tt.hours)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && got.PaidBreaks != tt.wantPaids {
				t.Fatalf("got rule with %d paid breaks, want %d", got.PaidBreaks, tt.wantPaids)
			}
		})
	}
}

func TestResolveRuleWithGaps(t *testing.T) {
	rules := []domain.BreakRule{
		{MinHours: 0, MaxHours: 4, PaidBreaks: 1},
		{MinHours: 6, MaxHours: 8, PaidBreaks: 2},
	}
	if _, ok := ResolveRule(rules, 5); ok {
		t.Fatalf("expected no rule inside the gap")
	}
	got, ok := ResolveRule(rules, 4.05)
	if !ok || got.PaidBreaks != 1 {
		t.Fatalf("tolerance match: got %+v, %v", got, ok)
	}
	got, ok = ResolveRule(rules, 5.95)
	if !ok || got.PaidBreaks != 2 {
		t.Fatalf("tolerance match below band: got %+v, %v", got, ok)
	}
	if _, ok := ResolveRule(nil, 8); ok {
		t.Fatalf("expected no rule for empty rule set")
	}
}
