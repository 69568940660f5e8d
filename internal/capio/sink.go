package capio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	"github.com/ShareChou/wireshark/internal/pcaprec"
)

// Format is the on-disk capture file format a Sink writes.
type Format int

const (
	// FormatPcap is the classic libpcap file format.
	FormatPcap Format = iota
	// FormatPcapNG is the pcapng container format.
	FormatPcapNG
)

// DefaultSnapLen matches dumpcap/editcap's default of capturing (and
// re-writing) full-size Ethernet frames.
const DefaultSnapLen = 262144

// FormatFromPath infers the output format from a file's extension, the way
// editcap's -F flag defaults when the flag is omitted: ".pcapng" selects
// pcapng, anything else (including no extension) falls back to classic
// pcap.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pcapng") {
		return FormatPcapNG
	}
	return FormatPcap
}

// ngPacketWriter is satisfied by pcapgo.Writer and pcapgo.NgWriter.
type ngPacketWriter interface {
	WritePacket(ci gopacket.CaptureInfo, data []byte) error
}

// Sink writes Records out to a single capture file.
//
// Packet comments set by the pipeline's Comment stage (pcaprec.Record.
// Comment) are not written into the pcapng Enhanced Packet Block's
// opt_comment option: pcapgo's NgWriter.WritePacket, at the version this
// module vendors, takes only a CaptureInfo and the frame bytes, with no
// comment parameter. Rather than hand-roll a second, parallel pcapng block
// encoder to reach that one option field, the Driver (internal/pipeline)
// persists any set comments to a "<outfile>.comments" sidecar instead —
// see DESIGN.md's resolution of this Open Question.
type Sink struct {
	file   *os.File
	writer ngPacketWriter
	nw     *pcapgo.NgWriter // non-nil only for FormatPcapNG, to support Flush/Close
}

// Create opens path for writing and emits the file-level header (classic
// pcap file header, or pcapng section+interface description blocks).
func Create(path string, format Format, linkType layers.LinkType, snaplen uint32) (*Sink, error) {
	if snaplen == 0 {
		snaplen = DefaultSnapLen
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "capio: create %s", path)
	}

	switch format {
	case FormatPcapNG:
		nw, err := pcapgo.NewNgWriter(f, linkType)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "capio: init pcapng writer for %s", path)
		}
		return &Sink{file: f, writer: nw, nw: nw}, nil
	default:
		w := pcapgo.NewWriter(f)
		if err := w.WriteFileHeader(snaplen, linkType); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "capio: write pcap header for %s", path)
		}
		return &Sink{file: f, writer: w}, nil
	}
}

// WriteRecord writes rec's payload and timestamp. The caller is
// responsible for having already applied every upstream pipeline stage;
// Sink performs no further transformation.
func (s *Sink) WriteRecord(rec pcaprec.Record) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     rec.TS.ToTime(),
		CaptureLength: int(rec.Caplen),
		Length:        int(rec.Len),
	}
	if !rec.HasTimestamp {
		ci.Timestamp = unsetTimestamp
	}
	if err := s.writer.WritePacket(ci, rec.Payload); err != nil {
		return errors.Wrap(err, "capio: write packet")
	}
	return nil
}

// unsetTimestamp is written for records with HasTimestamp == false (e.g.
// some FT-specific event records); it mirrors editcap's own convention of
// a zeroed nstime_t for "no timestamp".
var unsetTimestamp = pcaprec.TimeSpec{}.ToTime()

// Close flushes any buffered pcapng blocks and closes the file.
func (s *Sink) Close() error {
	var flushErr error
	if s.nw != nil {
		flushErr = s.nw.Flush()
	}
	closeErr := s.file.Close()
	if flushErr != nil {
		return errors.Wrap(flushErr, "capio: flush")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "capio: close")
	}
	return nil
}

var _ io.Closer = (*Sink)(nil)
