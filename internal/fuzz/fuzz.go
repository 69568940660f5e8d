// Package fuzz implements the deterministic weighted-corruption fuzzer
// (editcap's -E flag), grounded on editcap.c's random error mutation loop
// and DESIGN NOTES §9's suggestion of an inverse-CDF table in place of the
// original's cascading if/else.
package fuzz

import (
	"math/rand"
	"os"
	"time"
)

const alnumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// errClass is one of the five corruption classes, ordered as the
// inverse-CDF table below expects.
type errClass int

const (
	classBit errClass = iota
	classByte
	classAlnum
	classFmt
	classAA
)

type weightedChoice struct {
	class      errClass
	cumulative int
}

// weights mirrors editcap.c's ERR_WT_* constants: bit:5, byte:5, alnum:5,
// fmt:2, aa:1 (total 18).
var weights = []weightedChoice{
	{classBit, 5},
	{classByte, 10},
	{classAlnum, 15},
	{classFmt, 17},
	{classAA, 18},
}

const weightTotal = 18

func pickClass(n int) errClass {
	for _, w := range weights {
		if n < w.cumulative {
			return w.class
		}
	}
	return classAA
}

// State is the fuzzer's seeded, reproducible stream plus configuration.
type State struct {
	Probability float64 // [0, 1]
	SkipPrefix  uint32

	Seed int64
	rng  *rand.Rand
}

// New constructs a State. If seed is nil, the seed is derived from the
// current time XOR the process ID, matching editcap.c's "else derive from
// current_time XOR process_id" fallback; the derived seed is always
// reported via Seed so verbose runs can be reproduced.
func New(probability float64, skipPrefix uint32, seed *int64) *State {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = time.Now().UnixNano() ^ int64(os.Getpid())
	}
	return &State{
		Probability: probability,
		SkipPrefix:  skipPrefix,
		Seed:        s,
		rng:         rand.New(rand.NewSource(s)),
	}
}

// Mutate corrupts payload in place starting at startOffset (the caller has
// already added SkipPrefix plus any DCT2000 header length). caplen is not
// changed by Mutate; it is the caller's responsibility to pass exactly the
// slice to corrupt.
func (s *State) Mutate(payload []byte, startOffset int) {
	caplen := len(payload)
	for i := startOffset; i < caplen; i++ {
		if s.rng.Float64() >= s.Probability {
			continue
		}

		switch pickClass(s.rng.Intn(weightTotal)) {
		case classBit:
			payload[i] ^= 1 << uint(s.rng.Intn(8))
		case classByte:
			payload[i] = byte(s.rng.Intn(256))
		case classAlnum:
			payload[i] = alnumChars[s.rng.Intn(len(alnumChars))]
		case classFmt:
			if i+2 <= caplen {
				payload[i] = '%'
				payload[i+1] = 's'
			}
		case classAA:
			for j := i; j < caplen; j++ {
				payload[j] = 0xAA
			}
			return // terminate the per-byte loop, per §4.5
		}
	}
}
