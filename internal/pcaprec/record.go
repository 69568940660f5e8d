// Package pcaprec defines the record and timestamp types threaded through
// the editing pipeline.
package pcaprec

import (
	"fmt"
	"time"

	"github.com/google/gopacket/layers"
)

// Kind identifies the broad category of a capture record.
type Kind int

const (
	// Packet is an ordinary captured frame.
	Packet Kind = iota
	// FTSpecificEvent is a file-type-specific event record (e.g. a Catapult
	// DCT2000 event line).
	FTSpecificEvent
	// FTSpecificReport is a file-type-specific report record.
	FTSpecificReport
	// Syscall is a system-call record (e.g. from a kernel trace capture).
	Syscall
	// Other covers record kinds the pipeline does not interpret specially.
	Other
)

// DCT2000LinkType is the reserved pcap/pcapng link-type value used by
// Catapult DCT2000 captures (LINKTYPE_CATAPULT_DCT2000, historically also
// exposed as DLT_USER0 on some platforms).
const DCT2000LinkType = layers.LinkType(147)

// TimeSpec is a signed seconds+nanoseconds timestamp. Seconds are stored as
// an unsigned magnitude; sign is carried separately so that "the adjustment
// is negative" and "the adjustment is minus five seconds" remain
// distinguishable even when the magnitude is zero.
type TimeSpec struct {
	Secs       uint64
	Nsecs      uint32 // 0 <= Nsecs < 1e9
	IsNegative bool
}

const billion = 1_000_000_000

// Normalize enforces 0 <= Nsecs < 1e9, carrying/borrowing into Secs.
func (t TimeSpec) Normalize() TimeSpec {
	for t.Nsecs >= billion {
		t.Nsecs -= billion
		t.Secs++
	}
	return t
}

// Signed returns the timestamp as a pair of plain signed integers
// (seconds, nanoseconds), both carrying the same sign.
func (t TimeSpec) Signed() (secs int64, nsecs int64) {
	secs = int64(t.Secs)
	nsecs = int64(t.Nsecs)
	if t.IsNegative {
		return -secs, -nsecs
	}
	return secs, nsecs
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater than o,
// treating both as points on the signed timeline.
func (t TimeSpec) Compare(o TimeSpec) int {
	ts, tn := t.Signed()
	os, on := o.Signed()
	// Combine into a single comparable magnitude in nanoseconds, seconds
	// dominate nanoseconds.
	switch {
	case ts != os:
		if ts < os {
			return -1
		}
		return 1
	case tn != on:
		if tn < on {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Add returns t + o using nanosecond carry, preserving t's and o's signs
// independently is not supported: Add assumes both operands share a sign
// convention appropriate to the caller (the pipeline only ever adds a
// non-negative delta onto an absolute timestamp, or an absolute delta onto
// another absolute timestamp).
func (t TimeSpec) Add(o TimeSpec) TimeSpec {
	r := TimeSpec{Secs: t.Secs + o.Secs, Nsecs: t.Nsecs + o.Nsecs}
	return r.Normalize()
}

// Sub returns the absolute-valued delta between two non-negative points on
// the timeline along with a sign: (t - o).
func (t TimeSpec) Sub(o TimeSpec) (delta TimeSpec, negative bool) {
	ts, tn := int64(t.Secs), int64(t.Nsecs)
	os, on := int64(o.Secs), int64(o.Nsecs)

	totalT := ts*billion + tn
	totalO := os*billion + on
	diff := totalT - totalO
	if diff < 0 {
		diff = -diff
		negative = true
	}
	return TimeSpec{Secs: uint64(diff / billion), Nsecs: uint32(diff % billion)}, negative
}

// SignedNanos collapses t into a single signed nanosecond count, the form
// addition/subtraction across a possibly-negative offset is easiest in.
func (t TimeSpec) SignedNanos() int64 {
	secs, nsecs := t.Signed()
	return secs*billion + nsecs
}

// FromSignedNanos is the inverse of SignedNanos.
func FromSignedNanos(n int64) TimeSpec {
	if n < 0 {
		n = -n
		return TimeSpec{Secs: uint64(n / billion), Nsecs: uint32(n % billion), IsNegative: true}
	}
	return TimeSpec{Secs: uint64(n / billion), Nsecs: uint32(n % billion)}
}

func (t TimeSpec) String() string {
	sign := ""
	if t.IsNegative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%09d", sign, t.Secs, t.Nsecs)
}

// ToTime renders t as a time.Time for interop with gopacket.CaptureInfo.
// Pre-epoch timestamps (IsNegative) are represented the same way gopacket
// itself represents them: a time.Time with a negative Unix second count.
func (t TimeSpec) ToTime() time.Time {
	secs, nsecs := t.Signed()
	return time.Unix(secs, nsecs).UTC()
}

// TimeSpecFromTime converts a time.Time (as read back off the wire by
// pcapgo) into a TimeSpec.
func TimeSpecFromTime(t time.Time) TimeSpec {
	secs := t.Unix()
	nsecs := int64(t.Nanosecond())
	if secs < 0 {
		// time.Time keeps Nanosecond() in [0, 1e9) even when Unix() is
		// negative (floor semantics): the instant is Unix()+Nanosecond()*1e-9,
		// e.g. 500ms before the epoch is Unix()=-1, Nanosecond()=5e8. Fold
		// that back into a single signed magnitude.
		if nsecs == 0 {
			return TimeSpec{Secs: uint64(-secs), IsNegative: true}
		}
		return TimeSpec{Secs: uint64(-secs - 1), Nsecs: uint32(billion - nsecs), IsNegative: true}
	}
	return TimeSpec{Secs: uint64(secs), Nsecs: uint32(nsecs)}
}

// Record is the unit transferred through the pipeline.
type Record struct {
	Kind           Kind
	HasTimestamp   bool
	TS             TimeSpec
	Caplen         uint32
	Len            uint32
	Encap          layers.LinkType
	Payload        []byte
	Comment        string
	CommentChanged bool
}

// Clone returns a Record sharing the underlying Payload slice. Stages that
// only change metadata should Clone rather than mutate the Source's Record
// in place, so the Source's internal view of the record is undisturbed
// between pulls.
func (r Record) Clone() Record {
	return r
}
