// Package chop implements the two-region byte-buffer chopping engine
// (editcap's -C flag), grounded on editcap.c's handle_chopping.
package chop

// Spec accumulates the six integers of up to two repeated -C flags: one
// region anchored at the packet start, one anchored at the packet end.
type Spec struct {
	LenBegin    int // >= 0
	OffBeginPos int // >= 0
	OffBeginNeg int // <= 0
	LenEnd      int // <= 0 (magnitude is the cut)
	OffEndPos   int // >= 0
	OffEndNeg   int // <= 0
}

// AddBegin folds another -C flag's positive-choplen spelling into the
// accumulated begin-region.
func (s *Spec) AddBegin(choplen, chopoff int) {
	s.LenBegin += choplen
	if chopoff > 0 {
		s.OffBeginPos += chopoff
	} else {
		s.OffBeginNeg += chopoff
	}
}

// AddEnd folds another -C flag's negative-choplen spelling into the
// accumulated end-region. choplen is negative; its magnitude is removed.
func (s *Spec) AddEnd(choplen, chopoff int) {
	s.LenEnd += choplen
	if chopoff > 0 {
		s.OffEndPos += chopoff
	} else {
		s.OffEndNeg += chopoff
	}
}

// IsZero reports whether the spec removes nothing at all.
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// normalize applies the five normalization steps of §4.2 against a given
// caplen, returning the canonical form. It never mutates s.
func (s Spec) normalize(caplen int) Spec {
	// 1. Zero offsets of a disabled region.
	if s.LenBegin == 0 {
		s.OffBeginPos, s.OffBeginNeg = 0, 0
	}
	if s.LenEnd == 0 {
		s.OffEndPos, s.OffEndNeg = 0, 0
	}

	// 2. Convert a negative begin-offset to a positive one.
	if s.OffBeginNeg < 0 {
		s.OffBeginPos += caplen + s.OffBeginNeg
		s.OffBeginNeg = 0
	}

	// 3. Convert a positive end-offset to a negative one.
	if s.OffEndPos > 0 {
		s.OffEndNeg += s.OffEndPos - caplen
		s.OffEndPos = 0
	}

	// 4. If regions cross, swap them (mirror each into the other's slot).
	if s.LenBegin != 0 && s.LenEnd != 0 {
		if s.OffBeginPos > caplen+s.OffEndNeg {
			tmpOff := caplen + s.OffEndNeg + s.LenEnd
			tmpLen := -s.LenEnd

			s.OffEndNeg = s.LenBegin + s.OffBeginPos - caplen
			s.LenEnd = -s.LenBegin

			s.LenBegin = tmpLen
			s.OffBeginPos = tmpOff
		}
	}

	// 5. Clamp.
	if caplen < s.OffBeginPos-s.OffEndNeg {
		s.LenBegin = 0
		s.LenEnd = 0
	}
	if s.LenBegin-s.LenEnd > caplen-(s.OffBeginPos-s.OffEndNeg) {
		s.LenBegin = caplen - (s.OffBeginPos - s.OffEndNeg)
		s.LenEnd = 0
	}

	return s
}

// Apply removes up to two regions from payload per Spec, returning the new
// caplen, len, and payload. adjlen also floors-and-subtracts from
// reportedLen. payload is mutated in place (it must belong to the caller,
// per the Driver's "mutate the borrowed buffer in place" contract) and the
// returned slice aliases it.
func Apply(spec Spec, caplen, reportedLen uint32, payload []byte, adjlen bool) (newCaplen, newLen uint32, out []byte) {
	n := spec.normalize(int(caplen))

	buf := payload
	cap32 := int(caplen)
	len32 := int(reportedLen)

	// Begin-chop.
	if n.LenBegin > 0 {
		if n.OffBeginPos > 0 {
			// memmove [off+len, cap) down to [off, ...)
			src := n.OffBeginPos + n.LenBegin
			dst := n.OffBeginPos
			copy(buf[dst:cap32], buf[src:cap32])
		} else {
			buf = buf[n.LenBegin:]
		}
		cap32 -= n.LenBegin

		if adjlen {
			if len32 > n.LenBegin {
				len32 -= n.LenBegin
			} else {
				len32 = 0
			}
		}
	}

	// End-chop.
	if n.LenEnd < 0 {
		if n.OffEndNeg < 0 {
			// memmove the preserved tail left by |LenEnd|.
			length := -n.OffEndNeg
			dstStart := cap32 + n.LenEnd + n.OffEndNeg
			srcStart := cap32 + n.OffEndNeg
			copy(buf[dstStart:dstStart+length], buf[srcStart:srcStart+length])
		}
		cap32 += n.LenEnd // LenEnd is negative

		if adjlen {
			if len32+n.LenEnd > 0 {
				len32 += n.LenEnd
			} else {
				len32 = 0
			}
		}
	}

	if cap32 < 0 {
		cap32 = 0
	}
	if len32 < 0 {
		len32 = 0
	}

	return uint32(cap32), uint32(len32), buf[:cap32]
}
