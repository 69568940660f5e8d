package pipeline

import (
	"github.com/google/gopacket/layers"

	"github.com/ShareChou/wireshark/internal/chop"
	"github.com/ShareChou/wireshark/internal/dedup"
	"github.com/ShareChou/wireshark/internal/fuzz"
	"github.com/ShareChou/wireshark/internal/logger"
	"github.com/ShareChou/wireshark/internal/pcaprec"
	"github.com/ShareChou/wireshark/internal/selection"
	"github.com/ShareChou/wireshark/internal/split"
	"github.com/ShareChou/wireshark/internal/strictadj"
)

// Source pulls Records one at a time, in the teacher's "thin interface
// over a concrete I/O implementation" style (internal/capio.Source
// satisfies this without either package importing the other's concrete
// types).
type Source interface {
	Next() (pcaprec.Record, error)
	LinkType() layers.LinkType
}

// Sink accepts Records for writing. internal/capio.Sink satisfies this.
type Sink interface {
	WriteRecord(pcaprec.Record) error
	Close() error
}

// SinkOpener creates a Sink for a concrete file path. cmd/editcap supplies
// one backed by capio.Create, closed over the chosen format/link
// type/snaplen so the Driver never has to know about them.
type SinkOpener func(path string) (Sink, error)

// Config aggregates every stage's configuration. A nil/zero field disables
// that stage entirely, letting records pass through it untouched.
type Config struct {
	// TimeWindow (stage 1): drop if ts is outside [*WindowStart, *WindowEnd).
	WindowStart, WindowEnd *pcaprec.TimeSpec

	// Selection (stage 2).
	Selection *selection.Set

	// SplitRoll (stage 3).
	Split *split.State

	// StrictTimeAdj (stage 4).
	StrictAdj *strictadj.State

	// TimeShift (stage 5): a signed offset added to every timestamp.
	TimeShift *pcaprec.TimeSpec

	// Snap (stage 6).
	SnapLen uint32

	// AdjLen is -L: also adjust the reported length wherever Snap or Chop
	// shrink the captured length.
	AdjLen bool

	// Chop (stage 7).
	Chop chop.Spec

	// VlanStrip (stage 8).
	VlanStrip bool

	// DedupContent (stage 9) and DedupTime (stage 10) are independent
	// caches: a record must survive both to proceed. Either may be nil.
	DedupContent       *dedup.Cache
	DedupTime          *dedup.Cache
	DedupIgnoredBytes  uint32
	DedupSkipRadiotap  bool

	// Fuzz (stage 11).
	Fuzz *fuzz.State

	// Comment (stage 12).
	Comments *CommentTable

	// OutPath is the user's output argument; used directly when Split is
	// nil, and to derive Split's prefix/suffix otherwise.
	OutPath string
	Opener  SinkOpener

	// Logger receives Debug-level traces for stage drops, dedup insertions,
	// split rolls, and the resolved fuzz seed when -v is given. Nil
	// disables tracing entirely.
	Logger *logger.Logger
}
