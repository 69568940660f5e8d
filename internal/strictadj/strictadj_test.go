package strictadj

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

// S4: packets at 0.0, 0.5, 1.0 with -S 0.000001 (non-negative adjustment)
// pass through unchanged since they're already monotonic.
func TestS4MonotonicUnchanged(t *testing.T) {
	s := New(pcaprec.TimeSpec{Nsecs: 1000})
	in := []pcaprec.TimeSpec{
		{Secs: 0, Nsecs: 0},
		{Secs: 0, Nsecs: 500_000_000},
		{Secs: 1, Nsecs: 0},
	}
	for _, ts := range in {
		assert.Equal(t, ts, s.Apply(ts))
	}
}

// S5: packets at 0.0, 0.0, 0.0 with -S 0.000001 expect 0.0, 0.000001, 0.000002.
func TestS5OutOfOrderRewritten(t *testing.T) {
	s := New(pcaprec.TimeSpec{Nsecs: 1000})
	zero := pcaprec.TimeSpec{}

	got1 := s.Apply(zero)
	got2 := s.Apply(zero)
	got3 := s.Apply(zero)

	assert.Equal(t, pcaprec.TimeSpec{Secs: 0, Nsecs: 0}, got1)
	assert.Equal(t, pcaprec.TimeSpec{Secs: 0, Nsecs: 1000}, got2)
	assert.Equal(t, pcaprec.TimeSpec{Secs: 0, Nsecs: 2000}, got3)
}

// Invariant 8: negative-mode adjuster forces exactly-spaced timestamps
// after the first, which passes through verbatim.
func TestNegativeModeExactSpacingAfterFirst(t *testing.T) {
	s := New(pcaprec.TimeSpec{Secs: 1, IsNegative: true})

	first := pcaprec.TimeSpec{Secs: 100, Nsecs: 500}
	got1 := s.Apply(first)
	assert.Equal(t, first, got1) // verbatim, per the open-question decision

	got2 := s.Apply(pcaprec.TimeSpec{Secs: 999}) // input value is irrelevant
	assert.Equal(t, pcaprec.TimeSpec{Secs: 101, Nsecs: 500}, got2)

	got3 := s.Apply(pcaprec.TimeSpec{Secs: 0})
	assert.Equal(t, pcaprec.TimeSpec{Secs: 102, Nsecs: 500}, got3)
}

// Invariant 7: for all emitted records timestamps are non-decreasing.
func TestMonotonicityInvariant(t *testing.T) {
	s := New(pcaprec.TimeSpec{Nsecs: 500})
	ins := []pcaprec.TimeSpec{
		{Secs: 5}, {Secs: 3}, {Secs: 3}, {Secs: 10}, {Secs: 1},
	}
	var prev pcaprec.TimeSpec
	for i, ts := range ins {
		got := s.Apply(ts)
		if i > 0 {
			assert.GreaterOrEqual(t, got.Compare(prev), 0)
		}
		prev = got
	}
}
