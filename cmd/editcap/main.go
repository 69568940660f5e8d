// Package main provides the editcap-style batch capture-file editor: reads
// one capture file, runs every record through the configured pipeline
// stages, and writes one or more output capture files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ShareChou/wireshark/config"
	"github.com/ShareChou/wireshark/internal/capio"
	"github.com/ShareChou/wireshark/internal/chop"
	"github.com/ShareChou/wireshark/internal/dedup"
	"github.com/ShareChou/wireshark/internal/fuzz"
	"github.com/ShareChou/wireshark/internal/logger"
	"github.com/ShareChou/wireshark/internal/pcaprec"
	"github.com/ShareChou/wireshark/internal/pipeline"
	"github.com/ShareChou/wireshark/internal/selection"
	"github.com/ShareChou/wireshark/internal/split"
	"github.com/ShareChou/wireshark/internal/strictadj"
	"github.com/ShareChou/wireshark/internal/timeparse"
)

const version = "editcap (batch capture editor) 1.0.0"

// stringList accumulates repeated flag occurrences, editcap.c's own
// "-C can be given twice" and "-a can be given any number of times" style.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("editcap", flag.ContinueOnError)

	invert := fs.Bool("r", false, "keep the selected packets rather than discarding them")
	startStr := fs.String("A", "", `start time "YYYY-MM-DD HH:MM:SS"`)
	stopStr := fs.String("B", "", `stop time "YYYY-MM-DD HH:MM:SS"`)
	splitCount := fs.Uint("c", 0, "split output into files of at most this many packets")
	splitInterval := fs.Uint64("i", 0, "split output into files spanning this many seconds")
	var chopFlags stringList
	fs.Var(&chopFlags, "C", "[offset:]length, repeatable (max one positive, one negative)")
	adjlen := fs.Bool("L", false, "adjust the reported (on-the-wire) length when -s or -C shrink a record")
	snaplen := fs.Uint("s", 0, "truncate captured length to this many bytes")
	shiftStr := fs.String("t", "", "shift every timestamp by this many signed seconds")
	strictStr := fs.String("S", "", "rewrite timestamps to enforce a minimum (or, if negative, exact) delta")
	fuzzProb := fs.Float64("E", 0, "corrupt payload bytes with this probability in [0,1]")
	changeOffset := fs.Uint("o", 0, "don't fuzz bytes before this offset")
	ignoredBytes := fs.Uint("I", 0, "bytes to ignore at the start of each payload when hashing for dedup")
	dedupOn := fs.Bool("d", false, "drop content-duplicate packets within a fixed-count window")
	dedupWindow := fs.Int("D", 0, "explicit dedup window size (implies -d)")
	dedupTimeWindow := fs.String("w", "", "drop content-duplicate packets within this many relative seconds")
	var commentFlags stringList
	fs.Var(&commentFlags, "a", "N:comment, repeatable")
	fileType := fs.String("F", "", `output file type; "" lists supported types`)
	encapType := fs.String("T", "", `force output encapsulation; "" lists supported encapsulations`)
	verbose := fs.Bool("v", false, "verbose: log every stage decision")
	showVersion := fs.Bool("V", false, "print version and exit")
	noVlan := fs.Bool("novlan", false, "strip a single 802.1Q VLAN tag from Ethernet frames")
	skipRadiotap := fs.Bool("skip-radiotap-header", false, "skip the radiotap header when hashing for dedup")
	seedFlag := fs.Int64("seed", 0, "seed the fuzzer's PRNG (implies a seed was explicitly given)")
	configPath := fs.String("config", "", "path to an optional JSON defaults file")
	logFile := fs.String("log-file", "", "rotate logs to this file in addition to stdout")
	logLevel := fs.String("log-level", "", "debug|info|warn|error (overrides config)")

	fs.Usage = func() { printUsage(fs) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	if explicit["F"] && *fileType == "" {
		for _, t := range capio.ListTypes() {
			fmt.Println(t)
		}
		return 0
	}
	if explicit["T"] && *encapType == "" {
		for _, e := range capio.ListEncaps() {
			fmt.Println(e)
		}
		return 0
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "editcap: %v\n", err)
		return 1
	}
	levelOverride := *logLevel
	if *verbose {
		levelOverride = "debug"
	}
	if err := cfg.InitializeLogging(levelOverride, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "editcap: %v\n", err)
		return 1
	}
	log := logger.GetLogger()
	defer log.Close()

	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return 1
	}
	inPath, outPath, rangeArgs := rest[0], rest[1], rest[2:]

	pcfg, perr := buildPipelineConfig(cfg, pipelineFlags{
		invert: *invert, startStr: *startStr, stopStr: *stopStr,
		splitCount: uint32(*splitCount), splitInterval: *splitInterval,
		chopFlags: chopFlags, adjlen: *adjlen, snaplen: uint32(*snaplen),
		shiftStr: *shiftStr, strictStr: *strictStr,
		fuzzProb: *fuzzProb, changeOffset: uint32(*changeOffset),
		ignoredBytes: uint32(*ignoredBytes),
		dedupOn: *dedupOn, dedupWindow: *dedupWindow, dedupTimeWindow: *dedupTimeWindow,
		commentFlags: commentFlags, rangeArgs: rangeArgs,
		noVlan: *noVlan, skipRadiotap: *skipRadiotap,
		seedGiven: explicit["seed"], seed: *seedFlag,
		outPath: outPath,
	})
	if perr != nil {
		fmt.Fprintf(os.Stderr, "editcap: %v\n", perr)
		return 1
	}

	format := capio.FormatFromPath(outPath)
	if explicit["F"] {
		f, ok := capio.FormatFromName(*fileType)
		if !ok {
			fmt.Fprintf(os.Stderr, "editcap: unknown file type %q\n", *fileType)
			return 1
		}
		format = f
	}

	src, err := capio.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "editcap: %v\n", err)
		return 2
	}
	defer src.Close()

	linkType := src.LinkType()
	if explicit["T"] {
		lt, ok := capio.EncapFromName(*encapType)
		if !ok {
			fmt.Fprintf(os.Stderr, "editcap: unknown encapsulation %q\n", *encapType)
			return 1
		}
		linkType = lt
	}

	snapForSink := uint32(*snaplen)
	pcfg.Opener = func(path string) (pipeline.Sink, error) {
		return capio.Create(path, format, linkType, snapForSink)
	}
	pcfg.Logger = log

	stats, runErr := pipeline.NewDriver(pcfg, src).Run()
	log.Info("read %d, wrote %d, rolled %d file(s)", stats.ReadCount, stats.WrittenCount, stats.FilesWritten)
	if stats.DedupContentSeen > 0 {
		fmt.Fprintf(os.Stderr, "%d packet%s seen, %d packet%s skipped.\n",
			stats.DedupContentSeen, plural(stats.DedupContentSeen),
			stats.DedupContentSkipped, plural(stats.DedupContentSkipped))
	}
	if stats.DedupTimeSeen > 0 {
		fmt.Fprintf(os.Stderr, "%d packet%s seen, %d packet%s skipped.\n",
			stats.DedupTimeSeen, plural(stats.DedupTimeSeen),
			stats.DedupTimeSkipped, plural(stats.DedupTimeSkipped))
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "editcap: %v\n", runErr)
		switch runErr.(type) {
		case *pipeline.ConfigError:
			return 1
		default:
			return 2
		}
	}
	return 0
}

func plural(n uint64) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: editcap [flags] <infile> <outfile> [packet#[-packet#] ...]")
	fmt.Fprintln(os.Stderr, `note: a range ending in 0 (e.g. "5-0") means "5 to the end of the capture".`)
	fs.PrintDefaults()
}

// pipelineFlags is the raw, unvalidated flag set handed to
// buildPipelineConfig, kept as a single struct so main's flag wiring and
// the translation into pipeline.Config stay decoupled.
type pipelineFlags struct {
	invert                bool
	startStr, stopStr     string
	splitCount            uint32
	splitInterval         uint64
	chopFlags             []string
	adjlen                bool
	snaplen               uint32
	shiftStr, strictStr   string
	fuzzProb              float64
	changeOffset          uint32
	ignoredBytes          uint32
	dedupOn               bool
	dedupWindow           int
	dedupTimeWindow       string
	commentFlags          []string
	rangeArgs             []string
	noVlan, skipRadiotap  bool
	seedGiven             bool
	seed                  int64
	outPath               string
}

func buildPipelineConfig(cfg *config.Config, f pipelineFlags) (pipeline.Config, error) {
	var pcfg pipeline.Config
	pcfg.OutPath = f.outPath
	pcfg.AdjLen = f.adjlen
	pcfg.SnapLen = f.snaplen
	pcfg.VlanStrip = f.noVlan
	pcfg.DedupIgnoredBytes = f.ignoredBytes
	pcfg.DedupSkipRadiotap = f.skipRadiotap

	if f.startStr != "" {
		ts, err := timeparse.ParseAbsolute(f.startStr)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-A: %v", err)}
		}
		pcfg.WindowStart = &ts
	}
	if f.stopStr != "" {
		ts, err := timeparse.ParseAbsolute(f.stopStr)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-B: %v", err)}
		}
		pcfg.WindowEnd = &ts
	}

	if f.splitCount > 0 && f.splitInterval > 0 {
		return pcfg, &pipeline.ConfigError{Msg: "-c and -i are mutually exclusive"}
	}
	switch {
	case f.splitCount > 0:
		pcfg.Split = split.New(split.ByCount, f.splitCount, 0, splitOutPath(cfg, f.outPath))
	case f.splitInterval > 0:
		pcfg.Split = split.New(split.ByInterval, 0, f.splitInterval, splitOutPath(cfg, f.outPath))
	}

	if len(f.rangeArgs) > 0 {
		sel := selection.NewSet(f.invert)
		for _, arg := range f.rangeArgs {
			if err := addRange(sel, arg); err != nil {
				return pcfg, &pipeline.ConfigError{Msg: err.Error()}
			}
		}
		pcfg.Selection = sel
	}

	var spec chop.Spec
	if len(f.chopFlags) > 2 {
		return pcfg, &pipeline.ConfigError{Msg: "-C given more than twice"}
	}
	for _, c := range f.chopFlags {
		choplen, chopoff, err := parseChopFlag(c)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-C %q: %v", c, err)}
		}
		if choplen >= 0 {
			spec.AddBegin(choplen, chopoff)
		} else {
			spec.AddEnd(choplen, chopoff)
		}
	}
	pcfg.Chop = spec

	if f.shiftStr != "" {
		ts, err := timeparse.Parse(f.shiftStr)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-t: %v", err)}
		}
		pcfg.TimeShift = &ts
	}

	if f.strictStr != "" {
		ts, err := timeparse.Parse(f.strictStr)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-S: %v", err)}
		}
		pcfg.StrictAdj = strictadj.New(ts)
	}

	if f.dedupOn || f.dedupWindow != 0 {
		window := f.dedupWindow
		if window == 0 {
			window = 5 // editcap.c's DEFAULT_DUP_DEPTH
		}
		pcfg.DedupContent = dedup.NewCache(window, dedup.ModeCount, pcaprec.TimeSpec{})
	}
	if f.dedupTimeWindow != "" {
		w, err := timeparse.Parse(f.dedupTimeWindow)
		if err != nil {
			return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-w: %v", err)}
		}
		pcfg.DedupTime = dedup.NewCache(dedup.MaxDupDepth, dedup.ModeTime, w)
	}

	if f.fuzzProb > 0 {
		var seed *int64
		if f.seedGiven {
			seed = &f.seed
		} else if cfg.Editcap.DefaultSeed != 0 {
			seed = &cfg.Editcap.DefaultSeed
		}
		pcfg.Fuzz = fuzz.New(f.fuzzProb, f.changeOffset, seed)
	}

	if len(f.commentFlags) > 0 {
		table := pipeline.NewCommentTable()
		for _, c := range f.commentFlags {
			idx, comment, err := parseCommentFlag(c)
			if err != nil {
				return pcfg, &pipeline.ConfigError{Msg: fmt.Sprintf("-a %q: %v", c, err)}
			}
			table.Set(idx, comment)
		}
		pcfg.Comments = table
	}

	return pcfg, nil
}

// splitOutPath applies config.Editcap.DefaultSplitDir when the user's
// output argument names no directory of its own, so rolled split files
// still land somewhere other than the current directory by default.
func splitOutPath(cfg *config.Config, outPath string) string {
	if cfg.Editcap.DefaultSplitDir == "" {
		return outPath
	}
	if filepath.Dir(outPath) != "." {
		return outPath
	}
	return filepath.Join(cfg.Editcap.DefaultSplitDir, outPath)
}

// addRange parses one positional selection argument: "N" or "A-B", where a
// trailing bare "-" (as in "5-") or an explicit "-0" both mean unbounded.
func addRange(sel *selection.Set, arg string) error {
	dash := strings.IndexByte(arg, '-')
	if dash < 0 {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid packet number %q", arg)
		}
		sel.AddSingle(n)
		return nil
	}
	loStr, hiStr := arg[:dash], arg[dash+1:]
	lo, err := strconv.ParseUint(loStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid range %q", arg)
	}
	var hi uint64
	if hiStr != "" {
		hi, err = strconv.ParseUint(hiStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid range %q", arg)
		}
	}
	sel.AddRange(lo, hi)
	return nil
}

// parseChopFlag parses one -C argument: "[offset:]length". A negative
// length anchors the chop at the packet end.
func parseChopFlag(s string) (choplen, chopoff int, err error) {
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		chopoff, err = strconv.Atoi(s[:colon])
		if err != nil {
			return 0, 0, err
		}
		s = s[colon+1:]
	}
	choplen, err = strconv.Atoi(s)
	return choplen, chopoff, err
}

// parseCommentFlag parses one -a argument: "N:comment".
func parseCommentFlag(s string) (index uint64, comment string, err error) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return 0, "", fmt.Errorf("expected N:comment")
	}
	index, err = strconv.ParseUint(s[:colon], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid record index %q", s[:colon])
	}
	return index, s[colon+1:], nil
}
