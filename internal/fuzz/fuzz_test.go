package fuzz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invariant 11: same seed + same input -> byte-identical output.
func TestDeterminism(t *testing.T) {
	seed := int64(42)
	input := make([]byte, 64)
	for i := range input {
		input[i] = byte(i)
	}

	a := make([]byte, len(input))
	copy(a, input)
	b := make([]byte, len(input))
	copy(b, input)

	New(0.5, 0, &seed).Mutate(a, 0)
	New(0.5, 0, &seed).Mutate(b, 0)

	assert.Equal(t, a, b)
}

// Invariant 12: output caplen equals input caplen; bytes before the change
// offset are unchanged.
func TestBoundsAndUnchangedPrefix(t *testing.T) {
	seed := int64(1)
	input := make([]byte, 32)
	for i := range input {
		input[i] = 0xFF
	}
	buf := make([]byte, len(input))
	copy(buf, input)

	New(1.0, 0, &seed).Mutate(buf, 8)

	require.Len(t, buf, len(input))
	assert.Equal(t, input[:8], buf[:8])
}

func TestZeroProbabilityLeavesPayloadUnchanged(t *testing.T) {
	seed := int64(7)
	input := []byte("the quick brown fox")
	buf := make([]byte, len(input))
	copy(buf, input)

	New(0.0, 0, &seed).Mutate(buf, 0)

	assert.Equal(t, input, buf)
}

func TestSeedDerivedWhenNilIsNonZeroUsually(t *testing.T) {
	s := New(0.1, 0, nil)
	assert.NotNil(t, s)
	assert.NotZero(t, s.Seed)
}
