package model

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/timing"
)

// Chart is the root in-memory object for one parsed chart file: its
// MetaData plus every specialized track, and the derived timing engine
// built from TempoData (spec §3 "Chart").
type Chart struct {
	Meta  *MetaData
	Notes *NoteData
	Tempo *TempoData
	Event *EventData
	Bga   *BgaData
	Bgm   *BgmData

	// SourceBytes holds the original file bytes as read from disk,
	// retained for Hash() and for round-trip diagnostics; loaders set
	// this once and Chart never mutates it.
	SourceBytes []byte

	// RecoverMeasureLength selects the bar engine's measure-length
	// semantics: true is BMS-style (a length applies to the named
	// measure only), false (the zero value) is Stepmania-style (a length
	// applies to all following measures). Loaders set this before the
	// first Invalidate call; pkg/bms sets it to true unless told otherwise.
	RecoverMeasureLength bool

	timing *timing.Data
}

// NewChart creates an empty Chart with fresh, empty sub-objects.
func NewChart() *Chart {
	return &Chart{
		Meta:  NewMetaData(),
		Notes: NewNoteData(),
		Tempo: NewTempoData(),
		Event: NewEventData(),
		Bga:   NewBgaData(),
		Bgm:   NewBgmData(),
	}
}

// Clone returns a deep copy of c, including a freshly rebuilt timing
// engine (spec §3 "Chart.Clone: non-destructive mutation surface").
func (c *Chart) Clone() *Chart {
	cp := &Chart{
		Meta:                 c.Meta.Clone(),
		Notes:                &NoteData{TrackData: c.Notes.Clone()},
		Tempo:                &TempoData{TrackData: c.Tempo.Clone()},
		Event:                &EventData{TrackData: c.Event.Clone()},
		Bga:                  &BgaData{TrackData: c.Bga.Clone()},
		Bgm:                  &BgmData{TrackData: c.Bgm.Clone()},
		SourceBytes:          append([]byte(nil), c.SourceBytes...),
		RecoverMeasureLength: c.RecoverMeasureLength,
	}
	cp.Invalidate()
	return cp
}

// Invalidate rebuilds the timing engine from scratch by replaying
// every Tempo note in timing order, then stamps every note in every
// track (Notes/Event/Bga/Bgm) with its resolved TimeMsec (spec §4.3
// "rebuilt, not incrementally maintained"; spec §4.1 NoteElement.TimeMsec
// is derived, filled here).
func (c *Chart) Invalidate() {
	bpm := c.Meta.Bpm
	td := timing.New(bpm)
	td.SetRecoverMeasureLength(c.RecoverMeasureLength)

	for _, n := range c.Tempo.AllTrackIter() {
		if n.Tempo == nil {
			continue
		}
		p := n.Tempo
		td.SeekByMeasure(n.Measure)
		switch p.Subtype {
		case TempoBpm:
			td.SetBPMChange(n.Measure, p.FloatValue)
		case TempoBmsBpm:
			if v, ok := c.Meta.BmsBpmChannel().Get(ChannelID(p.IntValue)); ok {
				td.SetBPMChange(n.Measure, v)
			}
		case TempoStop:
			td.SetSTOP(n.Measure, p.FloatValue)
		case TempoBmsStop:
			if ticks, ok := c.Meta.BmsStopChannel().Get(ChannelID(p.IntValue)); ok {
				ms := ticks / 192 * 4 / td.CurrentBpm() * 60000
				td.SetSTOP(n.Measure, ms)
			}
		case TempoDelay:
			td.SetDelay(n.Measure, p.FloatValue)
		case TempoWarp:
			beats := p.WarpBeats
			if beats < 0 {
				beats = -beats
			}
			td.SetWarp(n.Measure, beats)
		case TempoTick:
			td.SetTick(n.Measure, p.IntValue)
		case TempoScroll:
			td.SetScrollSpeedChange(n.Measure, p.FloatValue)
		case TempoMeasure:
			td.SetMeasureLengthChange(int(n.Measure), p.FloatValue)
		}
	}

	c.timing = td

	c.stampTimes(c.Notes.TrackData)
	c.stampTimes(c.Event.TrackData)
	c.stampTimes(c.Bga.TrackData)
	c.stampTimes(c.Bgm.TrackData)
	c.stampTimes(c.Tempo.TrackData)
}

func (c *Chart) stampTimes(td *TrackData) {
	for _, n := range td.AllTrackIter() {
		beat := c.timing.BeatFromMeasure(n.Measure)
		n.Beat = beat
		n.TimeMsec = c.timing.TimeFromBeat(beat)
	}
}

// Timing returns the chart's derived timing engine, rebuilding it
// first if it has never been built.
func (c *Chart) Timing() *timing.Data {
	if c.timing == nil {
		c.Invalidate()
	}
	return c.timing
}

// ScoreNoteCount, HasLongNote and PlayLaneCount delegate to NoteData.
func (c *Chart) ScoreNoteCount() int { return c.Notes.ScoreNoteCount() }
func (c *Chart) HasLongNote() bool   { return c.Notes.HasLongNote() }
func (c *Chart) PlayLaneCount() int  { return c.Notes.PlayLaneCount() }

// IsEmpty reports whether the chart has no playable notes at all.
func (c *Chart) IsEmpty() bool {
	return c.Notes.ScoreNoteCount() == 0
}

// SongLastObjectTimeMs returns the TimeMsec of the last object across
// every track, or 0 for an empty chart.
func (c *Chart) SongLastObjectTimeMs() float64 {
	last := 0.0
	for _, td := range []*TrackData{c.Notes.TrackData, c.Event.TrackData, c.Bga.TrackData, c.Bgm.TrackData} {
		for _, n := range td.AllTrackIter() {
			if n.TimeMsec > last {
				last = n.TimeMsec
			}
		}
	}
	return last
}

// Hash returns the MD5 digest of the chart's original source bytes,
// hex-encoded, used as a stable chart identity independent of file
// path (spec §3 "Chart.Hash").
func (c *Chart) Hash() string {
	sum := md5.Sum(c.SourceBytes)
	return hex.EncodeToString(sum[:])
}

// Merge appends every note/event of other into c, each shifted so that
// its Measure 0 lands at rowFrom measures into c, used to splice a
// branch sub-chart back into the parent. Timing data is never merged:
// the parent's tempo track already spans the whole chart, and other's
// was only ever built to make the branch itself decodable in
// isolation. Merge does not call Invalidate; the caller is expected to
// do so once after every merge it intends to perform.
func (c *Chart) Merge(other *Chart, rowFrom float64) {
	mergeTrackData(c.Notes.TrackData, other.Notes.TrackData, rowFrom)
	mergeTrackData(c.Event.TrackData, other.Event.TrackData, rowFrom)
	mergeTrackData(c.Bga.TrackData, other.Bga.TrackData, rowFrom)
	mergeTrackData(c.Bgm.TrackData, other.Bgm.TrackData, rowFrom)
}

func mergeTrackData(dst, src *TrackData, rowFrom float64) {
	for _, lane := range src.Lanes() {
		for _, n := range src.Track(lane).All() {
			dst.Track(lane).Insert(n.ShiftMeasure(rowFrom))
		}
	}
}
