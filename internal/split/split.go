// Package split implements the output-roll state machine (editcap's -c and
// -i flags), grounded on editcap.c's filename-composition logic and its
// packet-count / time-interval roll checks in the main loop.
package split

import (
	"fmt"
	"strings"
	"time"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

// Mode selects the trigger that rolls to a new output file.
type Mode int

const (
	// None disables splitting: a single output file is used throughout.
	None Mode = iota
	// ByCount rolls after every k successful emits.
	ByCount
	// ByInterval rolls when the incoming timestamp crosses a Δ-second
	// boundary from the current interval's start.
	ByInterval
)

// State tracks split progress and composes roll filenames.
type State struct {
	Mode Mode

	Count    uint32 // k, for ByCount
	Interval uint64 // Δ seconds, for ByInterval

	Prefix, Suffix string

	writtenInCurrent uint32
	intervalStart    pcaprec.TimeSpec
	intervalStartSet bool
	fileIndex        uint32
}

// New constructs a split State from an output path, splitting it into
// prefix/suffix the way editcap.c does: split at the last '.' after the
// last path separator; if there is no '.', the whole name is the prefix
// and the suffix is empty.
func New(mode Mode, count uint32, interval uint64, outPath string) *State {
	prefix, suffix := splitPrefixSuffix(outPath)
	return &State{Mode: mode, Count: count, Interval: interval, Prefix: prefix, Suffix: suffix}
}

func splitPrefixSuffix(path string) (prefix, suffix string) {
	sep := strings.LastIndexAny(path, `/\`)
	base := path
	if sep >= 0 {
		base = path[sep+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return path, ""
	}
	prefixLen := len(path) - len(base) + dot
	return path[:prefixLen], path[prefixLen:]
}

// FileName composes the current output file name per §6's template:
// <prefix>_<5-digit-file-index-mod-100000>[_YYYYMMDDhhmmss]<suffix>. ts is
// used for the timestamp component when hasTS is true; otherwise that
// component is omitted, matching the first-sink-without-timestamp case.
func (s *State) FileName(ts pcaprec.TimeSpec, hasTS bool) string {
	idx := s.fileIndex % 100000
	if s.Mode == None {
		return s.Prefix + s.Suffix
	}
	stamp := ""
	if hasTS {
		secs, _ := ts.Signed()
		t := time.Unix(secs, 0).UTC()
		stamp = "_" + t.Format("20060102150405")
	}
	return fmt.Sprintf("%s_%05d%s%s", s.Prefix, idx, stamp, s.Suffix)
}

// RecordWritten advances the ByCount counter after a successful emit and
// reports whether the sink should now be rolled (closed and reopened)
// before the *next* record.
func (s *State) RecordWritten() bool {
	if s.Mode != ByCount {
		return false
	}
	s.writtenInCurrent++
	if s.writtenInCurrent%s.Count == 0 {
		s.writtenInCurrent = 0
		return true
	}
	return false
}

// RollsForTime reports how many times the sink must be rolled for ts
// (ByInterval mode only), advancing intervalStart across however many
// whole intervals ts skipped — a large gap can demand several rolls in a
// row, per §4.6's "a large gap may skip several intervals" note. It only
// counts; it opens and closes no files. The Driver advances the file index
// once per roll and opens a single file for ts, so no output file is
// created for an interval that receives no record.
func (s *State) RollsForTime(ts pcaprec.TimeSpec) int {
	if s.Mode != ByInterval {
		return 0
	}
	if !s.intervalStartSet {
		s.intervalStart = ts
		s.intervalStartSet = true
		return 0
	}

	rolls := 0
	for {
		deltaSecs := int64(ts.Secs) - int64(s.intervalStart.Secs)
		cross := deltaSecs > int64(s.Interval) ||
			(deltaSecs == int64(s.Interval) && ts.Nsecs >= s.intervalStart.Nsecs)
		if !cross {
			break
		}
		s.intervalStart.Secs += s.Interval
		rolls++
	}
	return rolls
}

// Roll advances the file index and resets the ByCount counter. Call after
// closing the current sink and before composing the next filename.
func (s *State) Roll() {
	s.fileIndex++
	s.writtenInCurrent = 0
}
