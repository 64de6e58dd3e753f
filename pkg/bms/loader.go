package bms

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/encoding"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// Diagnostic is a non-fatal problem the loader noticed while reading a
// chart (spec §7: "loader never fails on malformed content; it emits
// diagnostics and drops the offending line"). Diagnostic implements
// error so it can be logged directly.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) Error() string {
	return d.Message
}

type options struct {
	seed                 int64
	recoverMeasureLength bool
	logger               *slog.Logger
}

// Option configures Load.
type Option func(*options)

// WithSeed fixes the preprocessor's PRNG seed (spec §4.4 "Seed"). When
// not given, Load falls back to seed 0 rather than reading the clock —
// callers that need wall-clock variety pass it in explicitly.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithRecoverMeasureLength selects the chart's bar-engine semantics
// for channel-02 measure lengths. true (the default) is BMS semantics:
// the length applies to the named measure only. false is
// Stepmania-style: the length applies to all following measures.
func WithRecoverMeasureLength(v bool) Option {
	return func(o *options) { o.recoverMeasureLength = v }
}

// WithLogger routes loader diagnostics through l instead of the
// package default (slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// objLine is one buffered object-pass line, resolved to an absolute
// file order index so same-measure ties keep their original ordering
// after the stabilizing sort.
type objLine struct {
	order   int
	measure int
	channel string
	payload string
}

// Load parses a BMS/BME/BML/PMS source byte stream into a normalized
// *model.Chart (spec §4.4). It never fails outright: malformed lines
// are dropped and reported as diagnostics, and the returned chart is
// always usable.
func Load(data []byte, opts ...Option) (*model.Chart, []Diagnostic) {
	o := options{logger: slog.Default(), recoverMeasureLength: true}
	for _, opt := range opts {
		opt(&o)
	}

	text, _ := encoding.DetectAndDecode(data)

	chart := model.NewChart()
	chart.Meta.ChartType = "BMS"
	chart.RecoverMeasureLength = o.recoverMeasureLength
	chart.SourceBytes = append([]byte(nil), data...)
	pre := NewPreprocessor(o.seed)

	var diags []Diagnostic
	var objects []objLine

	scanner := NewScanner(text)
	order := 0
	lineNo := 0
	for {
		line, ok := scanner.NextLine()
		if !ok {
			break
		}
		lineNo++

		switch line.Kind {
		case lineBlank, lineComment:
			continue
		}

		keep := pre.Keep(line.Text)
		if line.Kind == lineControl || !keep {
			continue
		}

		switch line.Kind {
		case lineHeader:
			applyHeader(chart.Meta, line.Command, line.Arg)
		case lineObject:
			objects = append(objects, objLine{order: order, measure: line.Measure, channel: line.Channel, payload: line.Payload})
			order++
		}
	}

	chart.Meta.Script = pre.Script.String()

	sort.SliceStable(objects, func(i, j int) bool { return objects[i].measure < objects[j].measure })

	dec := newDecoder(chart)
	for _, obj := range objects {
		dec.apply(obj, &diags, o.logger)
	}

	chart.Invalidate()
	return chart, diags
}

func applyHeader(meta *model.MetaData, cmd, arg string) {
	switch {
	case cmd == "TITLE":
		meta.Title = arg
	case cmd == "SUBTITLE":
		meta.Subtitle = arg
	case cmd == "ARTIST":
		meta.Artist = arg
	case cmd == "SUBARTIST":
		meta.Subartist = arg
	case cmd == "GENRE":
		meta.Genre = arg
	case cmd == "MAKER":
		meta.ChartMaker = arg
	case cmd == "PLAYER":
		meta.PlayerCount = atoiSafe(arg)
	case cmd == "PLAYLEVEL":
		meta.Level = atoiSafe(arg)
	case cmd == "DIFFICULTY":
		meta.Difficulty = atoiSafe(arg)
	case cmd == "RANK":
		meta.SetAttribute("judge", strconv.Itoa(rankTo100(atoiSafe(arg))))
	case cmd == "TOTAL":
		meta.GaugeTotal = atofSafe(arg)
	case cmd == "BANNER":
		meta.Banner = arg
	case cmd == "BACKBMP":
		meta.SetAttribute("backbmp", arg)
	case cmd == "STAGEFILE":
		meta.Eyecatch = arg
	case cmd == "BPM":
		meta.Bpm = atofSafe(arg)
	case cmd == "LNTYPE":
		meta.LNType = atoiSafe(arg)
	case cmd == "LNOBJ":
		if id, ok := model.ParseChannelID(arg); ok {
			meta.LNObj = int(id)
		}
	case cmd == "MUSIC":
		meta.Music = arg
	case cmd == "PREVIEW":
		meta.Preview = arg
	case cmd == "OFFSET":
		meta.SetAttribute("offset", arg)
	case cmd == "STP":
		// "#STP mmm.fff value": a direct stop insertion by measure offset,
		// not modeled as a channel table; it is stored as a metadata
		// attribute only. No stop is inserted for it, and pkg/writer does
		// not emit it.
		meta.SetAttribute("stp_"+strings.ReplaceAll(arg, " ", "_"), arg)
	case isIndirectChannelHeader(cmd, "WAV"):
		meta.SoundChannel().Set(channelIDFromHeader(cmd, "WAV"), arg)
	case isIndirectChannelHeader(cmd, "BMP"):
		meta.BgaChannel().Set(channelIDFromHeader(cmd, "BMP"), arg)
	case isIndirectChannelHeader(cmd, "EXBPM"):
		meta.BmsBpmChannel().Set(channelIDFromHeader(cmd, "EXBPM"), atofSafe(arg))
	case isIndirectChannelHeader(cmd, "BPM") && cmd != "BPM":
		meta.BmsBpmChannel().Set(channelIDFromHeader(cmd, "BPM"), atofSafe(arg))
	case isIndirectChannelHeader(cmd, "STOP"):
		meta.BmsStopChannel().Set(channelIDFromHeader(cmd, "STOP"), atofSafe(arg))
	default:
		meta.SetAttribute(strings.ToLower(cmd), arg)
	}
}

// isIndirectChannelHeader reports whether cmd is prefix followed by
// exactly a 2-char channel id (e.g. "WAV01", "BPMZZ").
func isIndirectChannelHeader(cmd, prefix string) bool {
	return strings.HasPrefix(cmd, prefix) && len(cmd) == len(prefix)+2
}

func channelIDFromHeader(cmd, prefix string) model.ChannelID {
	id, _ := model.ParseChannelID(cmd[len(prefix):])
	return id
}

// rankTo100 converts BMS's 4-step #RANK judge scale (0=very hard .. 3=easy)
// to a 0-100 display scale.
func rankTo100(rank int) int {
	switch rank {
	case 0:
		return 20
	case 1:
		return 40
	case 2:
		return 60
	case 3:
		return 80
	default:
		return 60
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atofSafe(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
