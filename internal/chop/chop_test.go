package chop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyZeroSpecIsIdentity(t *testing.T) {
	payload := []byte("ABCDEFGHIJ")
	caplen, length, out := Apply(Spec{}, 10, 20, append([]byte{}, payload...), true)
	assert.Equal(t, uint32(10), caplen)
	assert.Equal(t, uint32(20), length)
	assert.Equal(t, payload, out)
}

// S2: -C 4 -C -3 -L on caplen=10 payload A..J expects caplen=3 payload "EFG",
// len decremented by 7 (4 + 3).
func TestApplyS2(t *testing.T) {
	var spec Spec
	spec.AddBegin(4, 0)
	spec.AddEnd(-3, 0)

	payload := []byte("ABCDEFGHIJ")
	caplen, length, out := Apply(spec, 10, 20, payload, true)

	assert.Equal(t, uint32(3), caplen)
	assert.Equal(t, []byte("EFG"), out)
	assert.Equal(t, uint32(13), length) // 20 - 7
}

func TestApplyEmptyWhenOverChopped(t *testing.T) {
	var spec Spec
	spec.AddBegin(6, 0)
	spec.AddEnd(-6, 0)

	payload := []byte("ABCDEFGHIJ") // caplen 10 < 6+6
	caplen, length, out := Apply(spec, 10, 10, payload, true)

	assert.Equal(t, uint32(0), caplen)
	assert.Equal(t, uint32(0), length)
	assert.Len(t, out, 0)
}

func TestApplyNoLengthAdjustWhenAdjlenFalse(t *testing.T) {
	var spec Spec
	spec.AddBegin(2, 0)

	caplen, length, _ := Apply(spec, 10, 20, []byte("ABCDEFGHIJ"), false)
	assert.Equal(t, uint32(8), caplen)
	assert.Equal(t, uint32(20), length) // unchanged
}

func TestApplyOffsetBegin(t *testing.T) {
	var spec Spec
	spec.AddBegin(3, 2) // keep first 2 bytes, chop next 3

	payload := []byte("ABCDEFGHIJ")
	caplen, _, out := Apply(spec, 10, 10, payload, false)

	assert.Equal(t, uint32(7), caplen)
	assert.Equal(t, []byte("ABFGHIJ"), out)
}
