// Package selection implements the 1-based record-index selection list
// accepted as editcap's positional <packet#>[-<packet#>] arguments.
package selection

import (
	"fmt"
	"math"
)

// MaxItems is the fixed capacity of a Set: the 513th Add is refused.
const MaxItems = 512

// Unbounded marks a range endpoint that extends to infinity ("0" in the
// CLI grammar, or an explicit open-ended range).
const Unbounded uint64 = math.MaxUint64

// item is either a singleton (Lo == Hi) or an inclusive range.
type item struct {
	lo, hi uint64
}

func (it item) matches(n uint64) bool {
	return n >= it.lo && n <= it.hi
}

// Set is an ordered list of up to MaxItems selection items, plus the
// top-level keep/delete policy.
type Set struct {
	items []item
	// Keep, when true, means "only emit matched records"; when false,
	// "drop matched records, emit the rest".
	Keep bool
	// MaxSelection is the largest explicit number named by any item, or
	// Unbounded if any range was open-ended.
	MaxSelection uint64

	overflowed bool
}

// NewSet returns an empty selection set with the given keep/delete policy.
func NewSet(keep bool) *Set {
	return &Set{Keep: keep}
}

// AddSingle adds a single record index. Returns false (and logs nothing
// itself — the caller decides how to surface the overflow) once MaxItems
// have already been added; the set keeps running with the items it has.
func (s *Set) AddSingle(n uint64) bool {
	return s.AddRange(n, n)
}

// AddRange adds an inclusive range [lo, hi]. hi == 0 is interpreted as
// unbounded (i.e. [lo, infinity)), matching editcap's "N-0 means N to the
// end" behavior (documented, non-obvious, intentionally preserved).
func (s *Set) AddRange(lo, hi uint64) bool {
	if len(s.items) >= MaxItems {
		s.overflowed = true
		return false
	}
	if hi == 0 {
		hi = Unbounded
	}
	s.items = append(s.items, item{lo: lo, hi: hi})

	if hi > s.MaxSelection {
		s.MaxSelection = hi
	}
	return true
}

// Overflowed reports whether an Add call was refused for exceeding
// MaxItems.
func (s *Set) Overflowed() bool { return s.overflowed }

// Selected reports whether n is matched by any item (before the Keep
// policy is applied).
func (s *Set) Selected(n uint64) bool {
	for _, it := range s.items {
		if it.matches(n) {
			return true
		}
	}
	return false
}

// Emit applies the top-level Keep/delete policy: in keep mode only matched
// records are emitted; in delete mode matched records are dropped.
func (s *Set) Emit(n uint64) bool {
	if len(s.items) == 0 {
		// No selection configured at all: everything passes.
		return true
	}
	matched := s.Selected(n)
	if s.Keep {
		return matched
	}
	return !matched
}

// Empty reports whether no selection items have been configured.
func (s *Set) Empty() bool { return len(s.items) == 0 }

func (it item) String() string {
	if it.lo == it.hi {
		return fmt.Sprintf("%d", it.lo)
	}
	if it.hi == Unbounded {
		return fmt.Sprintf("%d-", it.lo)
	}
	return fmt.Sprintf("%d-%d", it.lo, it.hi)
}
