package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

func insertAndCheck(c *Cache, payload []byte, ts pcaprec.TimeSpec, hasTS bool) bool {
	c.Insert(payload, ts, hasTS, 0, false, 0)
	dup := c.Lookup()
	if dup {
		c.Skipped++
	}
	return dup
}

// Invariant 4: same payload twice consecutively with W >= 2 drops the second.
func TestCountModeDropsConsecutiveDuplicate(t *testing.T) {
	c := NewCache(2, ModeCount, pcaprec.TimeSpec{})
	assert.False(t, insertAndCheck(c, []byte("hello"), pcaprec.TimeSpec{}, false))
	assert.True(t, insertAndCheck(c, []byte("hello"), pcaprec.TimeSpec{}, false))
}

// Invariant 5: N distinct payloads with W = N -> no drops. W = 1 -> no drops.
func TestCountModeDistinctNoDrops(t *testing.T) {
	payloads := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}

	c := NewCache(len(payloads), ModeCount, pcaprec.TimeSpec{})
	for _, p := range payloads {
		assert.False(t, insertAndCheck(c, p, pcaprec.TimeSpec{}, false))
	}

	c1 := NewCache(1, ModeCount, pcaprec.TimeSpec{})
	assert.False(t, insertAndCheck(c1, []byte("a"), pcaprec.TimeSpec{}, false))
	assert.False(t, insertAndCheck(c1, []byte("a"), pcaprec.TimeSpec{}, false))
}

// Invariant 6: two identical payloads separated by more than the relative
// window are both emitted.
func TestTimeModeOutsideWindowBothEmitted(t *testing.T) {
	window := pcaprec.TimeSpec{Secs: 1}
	c := NewCache(10, ModeTime, window)

	ts0 := pcaprec.TimeSpec{Secs: 0}
	ts1 := pcaprec.TimeSpec{Secs: 5}

	assert.False(t, insertAndCheck(c, []byte("x"), ts0, true))
	assert.False(t, insertAndCheck(c, []byte("x"), ts1, true))
}

func TestTimeModeInsideWindowDrops(t *testing.T) {
	window := pcaprec.TimeSpec{Secs: 2}
	c := NewCache(10, ModeTime, window)

	ts0 := pcaprec.TimeSpec{Secs: 0}
	ts1 := pcaprec.TimeSpec{Secs: 1}

	assert.False(t, insertAndCheck(c, []byte("x"), ts0, true))
	assert.True(t, insertAndCheck(c, []byte("x"), ts1, true))
}

func TestTimeModeOutOfOrderDoesNotBreakEarly(t *testing.T) {
	window := pcaprec.TimeSpec{Secs: 5}
	c := NewCache(10, ModeTime, window)

	tsA := pcaprec.TimeSpec{Secs: 5}
	tsFuture := pcaprec.TimeSpec{Secs: 8} // newer than the record that follows it
	tsCur := pcaprec.TimeSpec{Secs: 6}    // older than tsFuture: out-of-order vs that slot

	insertAndCheck(c, []byte("a"), tsA, true)
	insertAndCheck(c, []byte("b"), tsFuture, true)
	// Lookup walks backward through the out-of-order "b" slot (skipping it
	// without stopping) and still finds the real duplicate "a".
	assert.True(t, insertAndCheck(c, []byte("a"), tsCur, true))
}

func TestWindowZeroStillInsertsNeverDuplicates(t *testing.T) {
	c := NewCache(0, ModeCount, pcaprec.TimeSpec{})
	d1 := c.Insert([]byte("x"), pcaprec.TimeSpec{}, false, 0, false, 0)
	assert.False(t, c.Lookup())
	d2 := c.Insert([]byte("x"), pcaprec.TimeSpec{}, false, 0, false, 0)
	assert.False(t, c.Lookup())
	assert.Equal(t, d1, d2)
}
