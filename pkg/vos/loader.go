// Package vos implements the structural skeleton of the VOS v2/v3
// chart container (spec §6 "VOS container"): version-tag dispatch,
// header/metadata parsing, fixed-size note-record decoding, and
// recovery of a playable measure/beat grid from the tempo map of the
// embedded SMF stream via pkg/vos/midi. VOS itself carries no beat
// data -- original_source/ChartLoaderVOS.cpp's own header comment
// puts it plainly: "VOS only contains key & timing data; NO BEAT
// DATA" -- so every note's absolute millisecond timestamp is
// projected onto a measure position using that recovered tempo map.
package vos

import (
	"log/slog"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/vos/midi"
)

type options struct {
	logger *slog.Logger
}

// Option configures Load.
type Option func(*options)

// WithLogger routes loader diagnostics through l instead of
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Load parses a VOS v2/v3 byte stream into a normalized *model.Chart.
// Unlike pkg/bms, a structurally invalid VOS stream (unknown version
// tag, or no embedded MThd signature) is reported as an error rather
// than a diagnostic: without the version dispatch or the tempo map
// there is no sensible chart to return at all.
func Load(data []byte, opts ...Option) (*model.Chart, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c := newCursor(data)
	version := c.i32()

	chart := model.NewChart()
	chart.Meta.ChartType = "VOS"
	chart.SourceBytes = append([]byte(nil), data...)

	var midiOffset int

	switch version {
	case 2:
		parseMetaV2(c, chart.Meta)
		notes := parseNotesV2(c)
		midiOffset = c.find("MThd")
		if midiOffset < 0 {
			return nil, ErrMissingMIDI
		}
		tm, err := midi.Parse(data[midiOffset:])
		if err != nil {
			return nil, err
		}
		buildTempo(chart.Tempo, tm)
		for _, n := range notes {
			placeNoteV2(chart, tm, n)
		}
	case 3:
		parseMetaV3(c, chart.Meta)
		notes := parseNotesV3(c)
		midiOffset = c.find("MThd")
		if midiOffset < 0 {
			return nil, ErrMissingMIDI
		}
		tm, err := midi.Parse(data[midiOffset:])
		if err != nil {
			return nil, err
		}
		buildTempo(chart.Tempo, tm)
		for _, n := range notes {
			placeNoteV3(chart, tm, n)
		}
	default:
		return nil, ErrUnsupportedVersion
	}

	if c.err != nil {
		o.logger.Warn("vos: header parsed past end of input", "err", c.err)
	}

	chart.Invalidate()
	return chart, nil
}

// buildTempo replays a recovered tempo map into chart.Tempo as direct
// Bpm notes, so Chart.Invalidate's ordinary measure -> time pipeline
// reproduces (to tempo-map resolution) the same time axis the notes
// were projected from.
func buildTempo(td *model.TempoData, tm *midi.TempoMap) {
	for _, bp := range tm.Breakpoints() {
		td.AddBpm(bp.Measure, bp.Bpm)
	}
}

func placeNoteV2(chart *model.Chart, tm *midi.TempoMap, n rawNoteV2) {
	pos := model.Position{Measure: tm.MeasureFromMsec(n.timeMs)}

	if !n.playable {
		chart.Bgm.Add(pos, n.channel)
		return
	}

	tap := model.TapData{
		Lane:      n.channel,
		Scoreable: true,
		Visible:   true,
		Value:     int(n.pitch),
		Sound:     model.SoundProperty{Key: int(n.pitch), Volume: float64(n.volume) / 127.0},
	}

	if !n.longNote || n.durationMs <= 0 {
		chart.Notes.AddTap(n.channel, pos, model.ChainNone, tap)
		return
	}

	chart.Notes.AddTap(n.channel, pos, model.ChainStart, tap)
	endPos := model.Position{Measure: tm.MeasureFromMsec(n.timeMs + n.durationMs)}
	chart.Notes.AddTap(n.channel, endPos, model.ChainEnd, tap)
}

func placeNoteV3(chart *model.Chart, tm *midi.TempoMap, n rawNoteV3) {
	lane := int(n.channel) % model.MaxTracks
	pos := model.Position{Measure: tm.MeasureFromMsec(n.timeMs)}

	tap := model.TapData{
		Lane:      lane,
		Scoreable: true,
		Visible:   true,
		Value:     int(n.pitch),
		Sound:     model.SoundProperty{Key: int(n.pitch), Volume: float64(n.volume) / 127.0},
	}

	if n.durationMs <= 0 {
		chart.Notes.AddTap(lane, pos, model.ChainNone, tap)
		return
	}

	chart.Notes.AddTap(lane, pos, model.ChainStart, tap)
	endPos := model.Position{Measure: tm.MeasureFromMsec(n.timeMs + n.durationMs)}
	chart.Notes.AddTap(lane, endPos, model.ChainEnd, tap)
}
