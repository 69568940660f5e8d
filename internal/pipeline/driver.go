// Package pipeline implements the Driver: the single-threaded pull loop
// that threads each Record through the fixed 13-stage chain and emits
// survivors to a Sink that may roll over, grounded on editcap.c's main
// packet-processing loop.
package pipeline

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ShareChou/wireshark/internal/chop"
	"github.com/ShareChou/wireshark/internal/dct2000"
	"github.com/ShareChou/wireshark/internal/pcaprec"
	"github.com/ShareChou/wireshark/internal/vlanstrip"
)

// Stats summarizes one Driver.Run, printed by cmd/editcap on exit.
type Stats struct {
	ReadCount    uint64
	WrittenCount uint64
	FilesWritten uint64

	DedupContentSeen, DedupContentSkipped uint64
	DedupTimeSeen, DedupTimeSkipped       uint64
}

// Driver owns the one live Sink, the comment sidecar accumulator, and
// drives records from Source through Config's stages.
type Driver struct {
	cfg    Config
	source Source

	sink        Sink
	sinkPath    string
	sinkWritten uint64 // 1-based position within the current sink, resets on roll
	comments    []sidecarEntry
	seedLogged  bool
}

// logf emits a Debug-level trace when a Logger is configured (-v). It is a
// no-op otherwise, so the pipeline never has to special-case verbose mode
// at every call site.
func (d *Driver) logf(format string, args ...interface{}) {
	if d.cfg.Logger != nil {
		d.cfg.Logger.Debug(format, args...)
	}
}

// NewDriver constructs a Driver. cfg is not mutated except through the
// stateful sub-configs (Split, StrictAdj, Fuzz, dedup caches) it embeds,
// which the Driver advances as records flow through.
func NewDriver(cfg Config, source Source) *Driver {
	return &Driver{cfg: cfg, source: source}
}

// Run pulls every record from Source, threads survivors through the
// pipeline, and writes them to Sink(s). See §7 for the error-surfacing
// policy this implements.
func (d *Driver) Run() (Stats, error) {
	var stats Stats
	var readCount uint64

	if d.cfg.Fuzz != nil {
		d.logSeed()
	}

	for {
		rec, err := d.source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			d.closeSink()
			return stats, &ReadError{Err: err}
		}
		readCount++
		stats.ReadCount = readCount

		if d.cfg.Selection != nil && !d.cfg.Selection.Empty() && d.cfg.Selection.Keep &&
			d.cfg.Selection.MaxSelection != selectionUnbounded &&
			readCount > d.cfg.Selection.MaxSelection {
			break
		}

		if d.dropByWindowOrSelection(rec, readCount) {
			d.logf("dropped record %d: time window or selection", readCount)
			continue
		}

		if err := d.maybeRoll(rec); err != nil {
			d.closeSink()
			return stats, &WriteError{Err: err}
		}

		keep, out := d.applyMutatingStages(rec, readCount, &stats)
		if !keep {
			continue
		}

		if d.sink == nil {
			if err := d.openSinkFor(out, &stats); err != nil {
				return stats, &WriteError{Err: err}
			}
		}

		if err := d.sink.WriteRecord(out); err != nil {
			d.closeSink()
			return stats, &WriteError{Err: err}
		}
		stats.WrittenCount++
		d.sinkWritten++

		if out.CommentChanged {
			d.comments = append(d.comments, sidecarEntry{
				File:    d.sinkPath,
				Index:   d.sinkWritten,
				Comment: out.Comment,
			})
		}

		if d.cfg.Split != nil && d.cfg.Split.RecordWritten() {
			d.logf("split roll after %d record(s) in %s", d.sinkWritten, d.sinkPath)
			d.cfg.Split.Roll()
			d.closeSink()
		}
	}

	if d.sink == nil && readCount == 0 {
		// Fallback per §7: no records were ever read, so open the output
		// once with an empty header to produce a well-formed empty file.
		if err := d.openSinkFor(pcaprec.Record{}, &stats); err != nil {
			return stats, &WriteError{Err: err}
		}
	}

	if err := d.closeSink(); err != nil {
		return stats, &WriteError{Err: err}
	}
	if err := d.flushComments(); err != nil {
		return stats, &WriteError{Err: err}
	}
	return stats, nil
}

const selectionUnbounded = ^uint64(0)

// dropByWindowOrSelection implements stages 1 (TimeWindow) and 2
// (Selection). Both are pure predicates over metadata; neither mutates rec.
func (d *Driver) dropByWindowOrSelection(rec pcaprec.Record, readIndex uint64) bool {
	if rec.HasTimestamp {
		if d.cfg.WindowStart != nil && rec.TS.Compare(*d.cfg.WindowStart) < 0 {
			return true
		}
		if d.cfg.WindowEnd != nil && rec.TS.Compare(*d.cfg.WindowEnd) >= 0 {
			return true
		}
	}
	if d.cfg.Selection != nil && !d.cfg.Selection.Emit(readIndex) {
		return true
	}
	return false
}

// maybeRoll implements stage 3's ByInterval trigger. It consults rec's
// original (pre-StrictTimeAdj, pre-TimeShift) timestamp, per §4.6, and
// advances the split file index without eagerly materializing empty files
// for skipped intervals — the next write opens exactly one new file at the
// advanced index.
func (d *Driver) maybeRoll(rec pcaprec.Record) error {
	if d.cfg.Split == nil || !rec.HasTimestamp {
		return nil
	}
	rolls := d.cfg.Split.RollsForTime(rec.TS)
	for i := 0; i < rolls; i++ {
		d.cfg.Split.Roll()
	}
	if rolls > 0 {
		d.logf("split roll: %d interval(s) skipped ahead of %s", rolls, rec.TS)
		return d.closeSink()
	}
	return nil
}

// applyMutatingStages runs stages 4-12 (StrictTimeAdj through Comment) in
// order, operating on a local copy of rec so the Source's own view is
// undisturbed, per the Record.Clone contract.
func (d *Driver) applyMutatingStages(rec pcaprec.Record, readIndex uint64, stats *Stats) (keep bool, out pcaprec.Record) {
	out = rec.Clone()

	if out.HasTimestamp {
		if d.cfg.StrictAdj != nil {
			out.TS = d.cfg.StrictAdj.Apply(out.TS)
		}
		if d.cfg.TimeShift != nil {
			out.TS = pcaprec.FromSignedNanos(out.TS.SignedNanos() + d.cfg.TimeShift.SignedNanos())
		}
	}

	if d.cfg.SnapLen > 0 && out.Caplen > d.cfg.SnapLen {
		out.Payload = out.Payload[:d.cfg.SnapLen]
		out.Caplen = d.cfg.SnapLen
		if d.cfg.AdjLen && out.Len > d.cfg.SnapLen {
			out.Len = d.cfg.SnapLen
		}
	}

	if !d.cfg.Chop.IsZero() {
		out.Caplen, out.Len, out.Payload = chop.Apply(d.cfg.Chop, out.Caplen, out.Len, out.Payload, d.cfg.AdjLen)
	}

	if d.cfg.VlanStrip && out.Encap == vlanstrip.EthernetLinkType {
		stripped, removed := vlanstrip.Strip(out.Payload)
		if removed > 0 {
			out.Payload = stripped
			out.Caplen -= uint32(removed)
			if d.cfg.AdjLen && out.Len >= uint32(removed) {
				out.Len -= uint32(removed)
			}
		}
	}

	if d.cfg.DedupContent != nil {
		digest := d.cfg.DedupContent.Insert(out.Payload, out.TS, out.HasTimestamp, d.cfg.DedupIgnoredBytes, d.cfg.DedupSkipRadiotap, out.Encap)
		stats.DedupContentSeen = d.cfg.DedupContent.Seen
		d.logf("dedup content insert record %d: digest %x", readIndex, digest)
		if d.cfg.DedupContent.Lookup() {
			d.cfg.DedupContent.Skipped++
			stats.DedupContentSkipped = d.cfg.DedupContent.Skipped
			d.logf("dedup content drop record %d: digest %x", readIndex, digest)
			return false, out
		}
	}
	if d.cfg.DedupTime != nil {
		digest := d.cfg.DedupTime.Insert(out.Payload, out.TS, out.HasTimestamp, d.cfg.DedupIgnoredBytes, d.cfg.DedupSkipRadiotap, out.Encap)
		stats.DedupTimeSeen = d.cfg.DedupTime.Seen
		d.logf("dedup time insert record %d: digest %x", readIndex, digest)
		if d.cfg.DedupTime.Lookup() {
			d.cfg.DedupTime.Skipped++
			stats.DedupTimeSkipped = d.cfg.DedupTime.Skipped
			d.logf("dedup time drop record %d: digest %x", readIndex, digest)
			return false, out
		}
	}

	if d.cfg.Fuzz != nil {
		startOffset := int(d.cfg.Fuzz.SkipPrefix)
		if out.Encap == pcaprec.DCT2000LinkType {
			startOffset += dct2000.HeaderLen(out.Payload)
		}
		if startOffset < len(out.Payload) {
			d.cfg.Fuzz.Mutate(out.Payload, startOffset)
		}
	}

	if d.cfg.Comments != nil {
		if c, ok := d.cfg.Comments.Lookup(readIndex); ok {
			out.Comment = c
			out.CommentChanged = true
		}
	}

	return true, out
}

func (d *Driver) openSinkFor(rec pcaprec.Record, stats *Stats) error {
	path := d.cfg.OutPath
	if d.cfg.Split != nil {
		path = d.cfg.Split.FileName(rec.TS, rec.HasTimestamp)
	}
	sink, err := d.cfg.Opener(path)
	if err != nil {
		return err
	}
	d.sink = sink
	d.sinkPath = path
	d.sinkWritten = 0
	stats.FilesWritten++
	d.logf("opened sink %s", path)
	return nil
}

func (d *Driver) closeSink() error {
	if d.sink == nil {
		return nil
	}
	err := d.sink.Close()
	d.sink = nil
	return err
}

// logSeed prints the fuzzer's resolved seed once, per spec's requirement
// that a verbose run can be reproduced from its own log output.
func (d *Driver) logSeed() {
	if d.seedLogged {
		return
	}
	d.seedLogged = true
	d.logf("fuzz seed: %d", d.cfg.Fuzz.Seed)
}

// flushComments writes the accumulated comment sidecar (see capio.Sink's
// doc comment) next to the base output path, one JSON array entry per
// commented record across every rolled file.
func (d *Driver) flushComments() error {
	if len(d.comments) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(d.comments, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(d.cfg.OutPath+".comments", data, 0644)
}
