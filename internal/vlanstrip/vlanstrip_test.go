package vlanstrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frameWithVLAN() []byte {
	buf := make([]byte, 0, 34)
	buf = append(buf, make([]byte, ethAddrLen)...) // dst+src
	buf = append(buf, 0x81, 0x00)                  // TPID
	buf = append(buf, 0x00, 0x0a)                  // TCI (VLAN 10)
	buf = append(buf, 0x08, 0x00)                  // inner EtherType (IPv4)
	buf = append(buf, []byte("payload")...)
	return buf
}

func TestStripRemovesTag(t *testing.T) {
	frame := frameWithVLAN()
	out, removed := Strip(frame)

	assert.Equal(t, TagLen, removed)
	assert.Equal(t, len(frame)-TagLen, len(out))
	assert.Equal(t, []byte{0x08, 0x00}, out[ethAddrLen:ethAddrLen+2])
	assert.Equal(t, "payload", string(out[ethAddrLen+2:]))
}

func TestStripNoTagIsNoop(t *testing.T) {
	frame := make([]byte, ethAddrLen+2+7)
	frame[ethAddrLen] = 0x08 // not 0x8100
	frame[ethAddrLen+1] = 0x00
	out, removed := Strip(frame)

	assert.Equal(t, 0, removed)
	assert.Equal(t, frame, out)
}

func TestStripShortFrameIsNoop(t *testing.T) {
	frame := make([]byte, 4)
	out, removed := Strip(frame)
	assert.Equal(t, 0, removed)
	assert.Equal(t, frame, out)
}
