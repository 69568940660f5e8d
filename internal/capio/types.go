package capio

import "github.com/google/gopacket/layers"

// encapName pairs a CLI-facing tag with the gopacket LinkType it names,
// covering the link types editcap.c's own -T listing calls out most often.
type encapName struct {
	name string
	lt   layers.LinkType
}

var knownEncaps = []encapName{
	{"ether", layers.LinkTypeEthernet},
	{"raw", layers.LinkTypeRaw},
	{"ppp", layers.LinkTypePPP},
	{"null", layers.LinkTypeNull},
	{"loop", layers.LinkTypeLoop},
	{"linux-sll", layers.LinkTypeLinuxSLL},
	{"ieee802_11", layers.LinkTypeIEEE802_11},
	{"ieee802_11_radio", layers.LinkTypeIEEE80211Radio},
	{"dct2000", pcaprecDCT2000},
}

// pcaprecDCT2000 avoids an import of internal/pcaprec just for one constant;
// it is the same reserved value as pcaprec.DCT2000LinkType.
const pcaprecDCT2000 = layers.LinkType(147)

// ListEncaps returns the supported link-layer encapsulation tags, for -T's
// empty-argument listing mode.
func ListEncaps() []string {
	names := make([]string, 0, len(knownEncaps))
	for _, e := range knownEncaps {
		names = append(names, e.name)
	}
	return names
}

// EncapFromName resolves a -T tag to its LinkType.
func EncapFromName(name string) (layers.LinkType, bool) {
	for _, e := range knownEncaps {
		if e.name == name {
			return e.lt, true
		}
	}
	return 0, false
}

// ListTypes returns the supported output container file type tags, for
// -F's empty-argument listing mode.
func ListTypes() []string {
	return []string{"pcap", "pcapng"}
}

// FormatFromName resolves a -F tag to a Format.
func FormatFromName(name string) (Format, bool) {
	switch name {
	case "pcap":
		return FormatPcap, true
	case "pcapng":
		return FormatPcapNG, true
	default:
		return 0, false
	}
}
