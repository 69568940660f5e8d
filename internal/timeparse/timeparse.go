// Package timeparse parses the time arguments of editcap's flags: Parse
// handles the signed seconds[.fraction] specifications of -t, -S and -w,
// and ParseAbsolute handles the "YYYY-MM-DD HH:MM:SS" arguments of -A and
// -B. The -i split interval is a whole number of seconds read as a plain
// integer flag and does not go through this package.
//
// Grounded on editcap.c's set_time_adjustment/set_strict_time_adj, which
// share the exact grammar implemented by Parse; Parse is the single parser
// for -t, -S and -w rather than duplicating the C source's two
// near-identical copies.
package timeparse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

// ErrInvalid is wrapped by every parse failure so callers can distinguish a
// malformed time spec from other configuration errors.
var ErrInvalid = errors.New("invalid time adjustment")

// Parse accepts "[ws]*[-][digits][.digits]" and returns the corresponding
// TimeSpec. The fractional part is left-aligned ("1.5" -> 500_000_000 ns,
// not 5 ns) and truncated, not rounded, beyond nine digits. A bare "-" with
// no digits at all is invalid; ".5" is valid.
func Parse(s string) (pcaprec.TimeSpec, error) {
	orig := s
	s = strings.TrimLeft(s, " \t")

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var wholePart, fracPart string
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		wholePart, fracPart = s[:dot], s[dot+1:]
	} else {
		wholePart = s
	}

	if wholePart == "" && fracPart == "" {
		return pcaprec.TimeSpec{}, errors.Wrapf(ErrInvalid, "%q", orig)
	}

	var secs uint64
	if wholePart != "" {
		v, err := strconv.ParseUint(wholePart, 10, 63)
		if err != nil {
			return pcaprec.TimeSpec{}, errors.Wrapf(ErrInvalid, "%q: %v", orig, err)
		}
		secs = v
	}

	var nsecs uint32
	if fracPart != "" {
		if len(fracPart) > 9 {
			fracPart = fracPart[:9] // truncate, not round
		}
		v, err := strconv.ParseUint(fracPart, 10, 32)
		if err != nil {
			return pcaprec.TimeSpec{}, errors.Wrapf(ErrInvalid, "%q: %v", orig, err)
		}
		// left-align: "5" means 500_000_000, not 5
		for i := len(fracPart); i < 9; i++ {
			v *= 10
		}
		nsecs = uint32(v)
	}

	return pcaprec.TimeSpec{Secs: secs, Nsecs: nsecs, IsNegative: negative}, nil
}

// ParseAbsolute parses the "-A"/"-B" absolute-time argument, accepted as
// "YYYY-MM-DD HH:MM:SS" in the local timezone, and returns seconds since
// the Unix epoch as a non-negative TimeSpec (editcap.c delegates this to
// strptime+mktime; we use time.ParseInLocation against the same layout).
func ParseAbsolute(s string) (pcaprec.TimeSpec, error) {
	t, err := parseAbsoluteTime(s)
	if err != nil {
		return pcaprec.TimeSpec{}, errors.Wrapf(ErrInvalid, "%q: %v", s, err)
	}
	unix := t.Unix()
	if unix < 0 {
		return pcaprec.TimeSpec{}, errors.Wrapf(ErrInvalid, "%q: time before epoch", s)
	}
	return pcaprec.TimeSpec{Secs: uint64(unix)}, nil
}
