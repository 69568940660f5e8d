// Package vlanstrip implements the 802.1Q VLAN-tag removal hook invoked by
// the pipeline's VlanStrip stage (editcap's --novlan flag).
//
// editcap.c treats this as a thin, single-encapsulation helper (spec.md §1
// calls it out explicitly as an "external collaborator" hook); here the
// 4-byte tag (TPID + TCI) is decoded with a struc-tagged struct instead of
// hand-rolled byte-offset arithmetic, grounded on danjacques-gopushpixels's
// struc.Unpack/struc.Pack usage for its own fixed-size wire headers
// (protocol/pixelpusher/discovery.go).
package vlanstrip

import (
	"bytes"

	"github.com/lunixbochs/struc"
)

// TagLen is the size in bytes of an 802.1Q tag.
const TagLen = 4

// EthernetLinkType is Ethernet's gopacket LinkType value; VLAN stripping
// only applies to Ethernet-encapsulated frames (the "single link-layer
// encapsulation" spec.md §1 scopes this hook to).
const EthernetLinkType = 1

// vlanHeader is the 4-byte 802.1Q tag that sits immediately after the
// 12-byte Ethernet src+dst address pair, in front of the EtherType/length
// field it displaces.
type vlanHeader struct {
	TPID uint16 `struc:",big"`
	TCI  uint16 `struc:",big"`
}

const (
	vlanTPID   = 0x8100
	ethAddrLen = 12 // dst(6) + src(6)
)

// Strip removes a single 802.1Q tag from payload if present (TPID ==
// 0x8100 at the expected offset) and returns the rewritten payload and the
// number of bytes removed (0 if no tag was present, in which case payload
// is returned unchanged).
func Strip(payload []byte) (out []byte, removed int) {
	if len(payload) < ethAddrLen+TagLen+2 {
		return payload, 0
	}

	var hdr vlanHeader
	if err := struc.Unpack(bytes.NewReader(payload[ethAddrLen:ethAddrLen+TagLen]), &hdr); err != nil {
		return payload, 0
	}
	if hdr.TPID != vlanTPID {
		return payload, 0
	}

	// Splice the 4-byte tag out, leaving the original EtherType (the two
	// bytes right after the tag) where the tag used to start.
	buf := make([]byte, 0, len(payload)-TagLen)
	buf = append(buf, payload[:ethAddrLen]...)
	buf = append(buf, payload[ethAddrLen+TagLen:]...)

	return buf, TagLen
}
