// Package strictadj implements the strict monotonic timestamp adjuster
// (editcap's -S flag), grounded on editcap.c's do_strict_time_adjustment
// handling in the main packet loop.
package strictadj

import "github.com/ShareChou/wireshark/internal/pcaprec"

// State holds the adjuster's running previous-timestamp and the configured
// fixed adjustment.
type State struct {
	Adjustment pcaprec.TimeSpec // magnitude + IsNegative flag, see §4.4

	previousSet  bool
	previousTime pcaprec.TimeSpec
}

// New returns a State configured with the given adjustment spec.
func New(adjustment pcaprec.TimeSpec) *State {
	return &State{Adjustment: adjustment}
}

// Apply rewrites ts per §4.4 and returns the (possibly unchanged) result.
//
// Open Question (preserved, not resolved away, per spec.md §9): when the
// adjustment is negative, every timestamp including the very first is
// supposed to be forced to previous+|A| — but previous is unset for the
// first record, so the first record passes through verbatim and only
// subsequent records become evenly spaced from it.
func (s *State) Apply(ts pcaprec.TimeSpec) pcaprec.TimeSpec {
	if !s.previousSet {
		s.previousSet = true
		s.previousTime = ts
		return ts
	}

	var result pcaprec.TimeSpec
	if !s.Adjustment.IsNegative {
		delta, negative := ts.Sub(s.previousTime)
		outOfOrder := negative || (delta.Secs == 0 && delta.Nsecs == 0)
		if outOfOrder {
			result = s.previousTime.Add(s.Adjustment)
		} else {
			result = ts
		}
	} else {
		magnitude := s.Adjustment
		magnitude.IsNegative = false
		result = s.previousTime.Add(magnitude)
	}

	s.previousTime = result
	return result
}
