package dct2000

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildRecord(fields ...string) []byte {
	var buf []byte
	buf = append(buf, []byte(fields[0])...)
	buf = append(buf, 0)
	buf = append(buf, 0x01) // context port number
	for _, f := range fields[1:] {
		buf = append(buf, []byte(f)...)
		buf = append(buf, 0)
	}
	buf = append(buf, 0x00, 0x01) // direction & encap
	buf = append(buf, []byte("REALDATA")...)
	return buf
}

func TestHeaderLen(t *testing.T) {
	rec := buildRecord("ctx", "12345", "rlc", "0", "")
	n := HeaderLen(rec)
	assert.Equal(t, "REALDATA", string(rec[n:]))
}

func TestHeaderLenTruncated(t *testing.T) {
	rec := []byte("incomplete")
	n := HeaderLen(rec)
	assert.Equal(t, len(rec), n)
}
