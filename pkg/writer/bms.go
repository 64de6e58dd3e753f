// Package writer serializes an in-memory *model.Chart back to a BMS
// source file (spec §4.6: "Writer is format-specific (BMS initially).
// It serializes in two phases (metadata, then object lines)").
//
// original_source/src/ChartWriter.cpp carries no working BMS writer of
// its own (WriteMeta/WriteChart are unconditional stubs), so this
// package is grounded on inverting pkg/bms's own decoder rather than
// porting anything from the captured C++ source.
package writer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// Mirrors of pkg/bms/channels.go's unexported channel ids. Kept local
// (rather than exported from pkg/bms) since the two packages invert
// each other's work but share no runtime state.
const (
	chBgm           = "01"
	chMeasureLength = "02"
	chBpmIndirect   = "08"
	chStopIndirect  = "09"

	chBgaMain   = "04"
	chBgaMiss   = "06"
	chBgaLayer1 = "07"
	chBgaLayer2 = "0A"
)

type options struct {
	bpmIDStart  model.ChannelID
	stopIDStart model.ChannelID
}

// Option configures WriteBMS.
type Option func(*options)

// WithChannelIDStart sets the first synthetic channel id the writer
// hands out for BPM and STOP values that arrived as direct (not
// BMS-indirect) Tempo notes. Defaults to "01" for both tables.
func WithChannelIDStart(bpm, stop model.ChannelID) Option {
	return func(o *options) { o.bpmIDStart = bpm; o.stopIDStart = stop }
}

// WriteBMS renders chart as a BMS source file. It never fails: a
// chart with no notes or no metadata simply produces a short file,
// matching the loader's own "never fails outright" posture (spec §7).
func WriteBMS(chart *model.Chart, opts ...Option) []byte {
	o := options{bpmIDStart: 1, stopIDStart: 1}
	for _, opt := range opts {
		opt(&o)
	}

	bpmAlloc := newIDAllocator(o.bpmIDStart)
	stopAlloc := newIDAllocator(o.stopIDStart)
	valAlloc := newValueAllocator()

	measures := map[int]map[string][]gridSlot{}
	measureLengths := map[int]float64{}

	addSlot := func(measure int, ch string, num, deno int, token string) {
		mc, ok := measures[measure]
		if !ok {
			mc = map[string][]gridSlot{}
			measures[measure] = mc
		}
		mc[ch] = append(mc[ch], gridSlot{num: num, deno: deno, token: token})
	}

	writeTempoPass(chart, addSlot, measureLengths, bpmAlloc, stopAlloc)
	writeNotePass(chart, addSlot, valAlloc)
	writeBgmPass(chart, addSlot, valAlloc)
	writeBgaPass(chart, addSlot)
	rawLines := writeUnknownPass(chart)

	var b strings.Builder
	writeHeaders(&b, chart.Meta, bpmAlloc, stopAlloc)

	for _, measure := range sortedMeasures(measures, measureLengths) {
		if length, ok := measureLengths[measure]; ok {
			b.WriteString(objectLine(measure, chMeasureLength, formatFloat(length)))
		}
		channels := measures[measure]
		for _, ch := range sortedChannelKeys(channels) {
			grid := buildGrid(channels[ch])
			b.WriteString(objectLine(measure, ch, strings.Join(grid, "")))
		}
	}

	for _, ln := range rawLines {
		b.WriteString(ln)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

func objectLine(measure int, channel, payload string) string {
	var b strings.Builder
	b.WriteByte('#')
	writeMeasure3(&b, measure)
	b.WriteString(channel)
	b.WriteByte(':')
	b.WriteString(payload)
	b.WriteByte('\n')
	return b.String()
}

func writeMeasure3(b *strings.Builder, measure int) {
	s := strconv.Itoa(measure)
	for len(s) < 3 {
		s = "0" + s
	}
	b.WriteString(s)
}

// rowFraction returns a note's position within its measure as a
// fraction, preferring the rational row_pos a BMS-origin chart already
// carries and falling back to a minResolution-denominator sample of
// Position.Measure's fractional part for notes built by another
// loader or by an effector (spec §4.6's rational-preservation promise
// only has a rational to preserve when one was recorded at parse time).
func rowFraction(pos model.Position) (int, int) {
	if pos.RowPos.Deno > 0 {
		return pos.RowPos.Num, pos.RowPos.Deno
	}
	off := pos.MeasureOffset()
	return int(off*minResolution + 0.5), minResolution
}

func writeTempoPass(chart *model.Chart, addSlot func(int, string, int, int, string), lengths map[int]float64, bpmAlloc, stopAlloc *idAllocator) {
	for _, n := range chart.Tempo.Track(0).All() {
		if n.Tempo == nil {
			continue
		}
		measure := n.MeasureIndex()
		num, deno := rowFraction(n.Position)
		switch n.Tempo.Subtype {
		case model.TempoBpm:
			id := bpmAlloc.bpmID(n.Tempo.FloatValue)
			addSlot(measure, chBpmIndirect, num, deno, id.String())
		case model.TempoBmsBpm:
			addSlot(measure, chBpmIndirect, num, deno, model.ChannelID(n.Tempo.IntValue).String())
		case model.TempoStop:
			id := stopAlloc.stopID(n.Tempo.FloatValue)
			addSlot(measure, chStopIndirect, num, deno, id.String())
		case model.TempoBmsStop:
			addSlot(measure, chStopIndirect, num, deno, model.ChannelID(n.Tempo.IntValue).String())
		case model.TempoMeasure:
			lengths[measure] = n.Tempo.FloatValue
		// Scroll/Warp/Tick/Delay have no BMS-native channel of their
		// own in the original format; they are spec additions beyond
		// what BMS can express and are intentionally not serialized here.
		default:
		}
	}
}

func writeNotePass(chart *model.Chart, addSlot func(int, string, int, int, string), valAlloc *valueAllocator) {
	for _, lane := range chart.Notes.Lanes() {
		for _, n := range chart.Notes.Track(lane).All() {
			if n.Tap == nil {
				continue
			}
			measure := n.MeasureIndex()
			num, deno := rowFraction(n.Position)
			ch := channelForNote(lane, n)
			token := valAlloc.token(n.Tap.Value)
			addSlot(measure, ch, num, deno, token)
		}
	}
}

func writeBgmPass(chart *model.Chart, addSlot func(int, string, int, int, string), valAlloc *valueAllocator) {
	for _, lane := range chart.Bgm.Lanes() {
		for _, n := range chart.Bgm.Track(lane).All() {
			if n.Bgm == nil {
				continue
			}
			measure := n.MeasureIndex()
			num, deno := rowFraction(n.Position)
			token := valAlloc.token(n.Bgm.ChannelID)
			addSlot(measure, chBgm, num, deno, token)
		}
	}
}

func writeBgaPass(chart *model.Chart, addSlot func(int, string, int, int, string)) {
	layers := map[int]string{
		model.BgaLayerMain: chBgaMain,
		model.BgaLayerMiss: chBgaMiss,
		model.BgaLayer1:    chBgaLayer1,
		model.BgaLayer2:    chBgaLayer2,
	}
	for layer, ch := range layers {
		for _, n := range chart.Bga.Track(layer).All() {
			if n.Bga == nil {
				continue
			}
			measure := n.MeasureIndex()
			num, deno := rowFraction(n.Position)
			addSlot(measure, ch, num, deno, model.ChannelID(n.Bga.ChannelID).String())
		}
	}
}

// writeUnknownPass re-emits every catch-all diagnostic line the
// decoder recorded verbatim (spec §4.4 "unknown channels are routed to
// a catch-all BmsText event track"), recovering the original
// "channel:payload" text it was stored as.
func writeUnknownPass(chart *model.Chart) []string {
	var lines []string
	type ordered struct {
		measure float64
		line    string
	}
	var raw []ordered
	for _, n := range chart.Event.Track(model.EventLaneBmsMisc).All() {
		if n.Event == nil || n.Event.Subtype != model.EventBmsText {
			continue
		}
		channel, payload, ok := strings.Cut(n.Event.Text, ":")
		if !ok {
			continue
		}
		raw = append(raw, ordered{measure: n.Measure, line: objectLine(n.MeasureIndex(), channel, payload)})
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].measure < raw[j].measure })
	for _, r := range raw {
		lines = append(lines, strings.TrimRight(r.line, "\n"))
	}
	return lines
}

func sortedMeasures(measures map[int]map[string][]gridSlot, lengths map[int]float64) []int {
	seen := map[int]bool{}
	for m := range measures {
		seen[m] = true
	}
	for m := range lengths {
		seen[m] = true
	}
	out := make([]int, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

func sortedChannelKeys(m map[string][]gridSlot) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
