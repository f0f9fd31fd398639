// Package review builds the presentation model for an analysis result.
package review

import "github.com/JaimeStill/redline/internal/analysis"

// State distinguishes an empty result view from a clean analysis.
type State string

const (
	// StateNotRun means no analysis result was supplied.
	StateNotRun State = "not_run"
	// StateClear means an analysis ran and found no conflicts.
	StateClear State = "clear"
	// StateConflicts means an analysis ran and found at least one conflict.
	StateConflicts State = "conflicts"
)

// Risk levels derived from the risk score.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// View is everything the result page renders.
type View struct {
	State     State
	RiskScore int
	RiskLevel string
	Files     analysis.Files
	Conflicts []analysis.Conflict
	Selected  int
	Current   *analysis.Conflict
}

// NewView builds the view for env with the conflict at index selected shown
// in detail. A nil env yields the not-run view with a zero score; it never fails.
// selected is clamped to the bounds of the conflict list.
func NewView(env *analysis.Envelope, selected int) View {
	if env == nil {
		return View{
			State:     StateNotRun,
			RiskLevel: RiskLevel(0),
			Conflicts: []analysis.Conflict{},
		}
	}

	result := env.MockAnalysis
	v := View{
		RiskScore: result.RiskScore,
		RiskLevel: RiskLevel(result.RiskScore),
		Files:     env.Files,
		Conflicts: result.Conflicts,
	}

	if len(result.Conflicts) == 0 {
		v.State = StateClear
		v.Conflicts = []analysis.Conflict{}
		return v
	}

	v.State = StateConflicts
	v.Selected = clamp(selected, 0, len(result.Conflicts)-1)
	v.Current = &v.Conflicts[v.Selected]
	return v
}

// RiskLevel labels score as High above 70, Medium above 40, and Low otherwise.
func RiskLevel(score int) string {
	switch {
	case score > 70:
		return RiskHigh
	case score > 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// IsSelected reports whether index i is the conflict shown in detail.
func (v View) IsSelected(i int) bool {
	return v.Current != nil && v.Selected == i
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
