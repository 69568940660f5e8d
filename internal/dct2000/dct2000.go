// Package dct2000 locates the real protocol payload inside a Catapult
// DCT2000 record, grounded on editcap.c's find_dct2000_real_data.
//
// A DCT2000 record is prefixed by five NUL-terminated ASCII fields (context
// name, timestamp, protocol name, variant number, outhdr) interleaved with
// one raw byte (context port number) and finished by two raw bytes
// (direction and encapsulation), before the real data begins.
package dct2000

// HeaderLen scans buf and returns the offset at which the real protocol
// data begins, per editcap.c's find_dct2000_real_data: five NUL-terminated
// strings (context name, timestamp, protocol name, variant number,
// outhdr), with a single extra raw byte after the first string (context
// port number) and two raw bytes (direction + encap) at the end.
func HeaderLen(buf []byte) int {
	n := 0

	n = skipString(buf, n) // context name
	n++                    // context port number

	n = skipString(buf, n) // timestamp
	n = skipString(buf, n) // protocol name
	n = skipString(buf, n) // variant number (as string)
	n = skipString(buf, n) // outhdr (as string)

	n += 2 // direction & encap

	if n > len(buf) {
		return len(buf)
	}
	return n
}

// skipString advances past a single NUL-terminated field starting at n,
// returning the index just past its terminator. If buf runs out before a
// NUL is found (a malformed/truncated record), it returns len(buf).
func skipString(buf []byte, n int) int {
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	if n >= len(buf) {
		return len(buf)
	}
	return n + 1
}
