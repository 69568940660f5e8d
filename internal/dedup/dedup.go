// Package dedup implements the bounded-window content-addressable
// duplicate-frame cache, grounded on editcap.c's is_duplicate and
// is_duplicate_rel_time.
package dedup

import (
	"crypto/md5"

	"github.com/google/gopacket/layers"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

// MaxDupDepth is the fixed ring size: the maximum window and actual size
// of the slot array, independent of how small the configured window is.
const MaxDupDepth = 1_000_000

// Digest is an MD5 content digest. crypto/md5 is the standard library's
// MD5 implementation; spec.md treats MD5 as "assumed available as a pure
// function" and no pack example reaches for a third-party MD5 — the
// standard library is the idiomatic choice here (see DESIGN.md).
type Digest [md5.Size]byte

type slot struct {
	digest Digest
	len    uint32
	ts     pcaprec.TimeSpec
	tsSet  bool
}

// Mode selects which lookup strategy Cache.Lookup uses.
type Mode int

const (
	// ModeCount sweeps the whole window regardless of age.
	ModeCount Mode = iota
	// ModeTime sweeps backward from the newest slot, stopping once the
	// window's time bound is exceeded.
	ModeTime
)

// Cache is the fixed-capacity ring described in §3/§4.3. Window (W) is the
// active slice of the MaxDupDepth-sized backing array actually compared
// against; the backing array itself is never resized.
type Cache struct {
	slots  [MaxDupDepth]slot
	cursor int
	window int
	mode   Mode

	relativeWindow pcaprec.TimeSpec

	Seen    uint64
	Skipped uint64
}

// NewCache constructs a Cache with the given active window size (0..=
// MaxDupDepth) and mode. relativeWindow is only consulted in ModeTime.
func NewCache(window int, mode Mode, relativeWindow pcaprec.TimeSpec) *Cache {
	if window < 0 {
		window = 0
	}
	if window > MaxDupDepth {
		window = MaxDupDepth
	}
	return &Cache{window: window, mode: mode, relativeWindow: relativeWindow}
}

// hashOffset computes the byte offset into payload at which hashing
// begins: ignoredBytes clamped to zero once it would reach or exceed
// caplen, or (when skipRadiotap is requested and encap is radiotap) the
// radiotap header's declared length, clamped the same way.
func hashOffset(payload []byte, ignoredBytes uint32, skipRadiotap bool, encap layers.LinkType) uint32 {
	offset := ignoredBytes
	caplen := uint32(len(payload))

	if caplen <= ignoredBytes {
		offset = 0
	}

	if skipRadiotap && encap == layers.LinkTypeIEEE80211Radio {
		offset = radiotapHeaderLen(payload)
		if offset >= caplen {
			offset = 0
		}
	}
	return offset
}

// radiotapHeaderLen reads the little-endian 16-bit length field at offset
// 2 of the radiotap header (struct ieee80211_radiotap_header.it_len).
func radiotapHeaderLen(payload []byte) uint32 {
	if len(payload) < 4 {
		return 0
	}
	return uint32(payload[2]) | uint32(payload[3])<<8
}

// Insert hashes payload (after applying the ignored-prefix/radiotap skip)
// and stores it at the next cursor slot, always — even when the window is
// zero, so verbose digest dumps still work (§4.3 Insert semantics). It
// returns the digest written, for verbose logging.
func (c *Cache) Insert(payload []byte, ts pcaprec.TimeSpec, hasTS bool, ignoredBytes uint32, skipRadiotap bool, encap layers.LinkType) Digest {
	c.Seen++
	offset := hashOffset(payload, ignoredBytes, skipRadiotap, encap)

	digest := md5.Sum(payload[offset:])

	if c.window > 0 {
		c.cursor = (c.cursor + 1) % c.window
	}
	s := &c.slots[c.cursor]
	s.digest = Digest(digest)
	s.len = uint32(len(payload))
	if c.mode == ModeTime && hasTS {
		s.ts = ts
		s.tsSet = true
	}
	return s.digest
}

// Lookup reports whether the most recently Inserted slot (at cursor)
// duplicates an earlier slot within the active window, per the current
// Mode. It does not mutate Seen/Skipped; callers increment Skipped
// themselves once a drop decision is made so that a caller that chooses
// not to drop (e.g. because of an orthogonal stage) doesn't miscount.
func (c *Cache) Lookup() bool {
	if c.window <= 1 {
		return false
	}
	switch c.mode {
	case ModeTime:
		return c.lookupTime()
	default:
		return c.lookupCount()
	}
}

func (c *Cache) lookupCount() bool {
	cur := &c.slots[c.cursor]
	for i := 0; i < c.window; i++ {
		if i == c.cursor {
			continue
		}
		s := &c.slots[i]
		if s.len == cur.len && s.digest == cur.digest {
			return true
		}
	}
	return false
}

func (c *Cache) lookupTime() bool {
	cur := &c.slots[c.cursor]
	if !cur.tsSet {
		return false
	}

	for i := c.cursor - 1; ; i-- {
		if i < 0 {
			i = c.window - 1
		}
		if i == c.cursor {
			break // full sweep
		}
		s := &c.slots[i]
		if !s.tsSet {
			break // uninitialized slot
		}

		delta, negative := cur.ts.Sub(s.ts)
		if negative {
			// current is older than the cached slot: out-of-order,
			// skip without breaking.
			continue
		}
		if delta.Compare(c.relativeWindow) > 0 {
			break // beyond the window
		}
		if s.len == cur.len && s.digest == cur.digest {
			return true
		}
	}
	return false
}
