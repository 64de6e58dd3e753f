package timing

import "sort"

// Data is the derived timing engine for one chart: a sorted run of
// Segments plus a sorted run of Bars, rebuilt whenever the chart's
// tempo track changes (spec §4.3 "rebuilt, not incrementally
// maintained").
type Data struct {
	segments []Segment
	bars     []Bar

	recoverMeasureLength bool // true: BMS-style "length applies to that measure only"

	maxBpm float64
	minBpm float64
	hasBpm bool
	hasStop bool
	hasWarp bool
}

// New creates a Data seeded with the given base BPM. A zero or
// negative bpm falls back to DefaultBpm (spec §4.3 "a chart with no
// #BPM at all uses 120").
func New(bpm float64) *Data {
	if bpm <= 0 {
		bpm = DefaultBpm
	}
	return &Data{
		segments: []Segment{newSentinelSegment(bpm)},
		bars:     []Bar{newSentinelBar()},
		maxBpm:   bpm,
		minBpm:   bpm,
	}
}

// SetRecoverMeasureLength switches the bar run between BMS semantics
// (true: length applies to the named measure only) and Stepmania
// semantics (false, the zero value: length applies to all following
// measures).
func (d *Data) SetRecoverMeasureLength(v bool) {
	d.recoverMeasureLength = v
}

// CurrentBpm returns the tail segment's BPM, used by callers that must
// convert a tick-based duration (e.g. BMS #STOP channel values) to
// milliseconds before calling SetSTOP.
func (d *Data) CurrentBpm() float64 {
	return d.tailSegment().Bpm
}

func (d *Data) tailSegment() *Segment {
	return &d.segments[len(d.segments)-1]
}

func (d *Data) tailBar() *Bar {
	return &d.bars[len(d.bars)-1]
}

// beatFromMeasure resolves a measure position to a beat against the
// current bar run, without appending anything (used by the setters,
// which receive positions in measure space).
func (d *Data) beatFromMeasure(measure float64) float64 {
	idx := sort.Search(len(d.bars), func(i int) bool {
		return float64(d.bars[i].Measure) > measure
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return d.bars[idx].beatFromMeasure(measure, d.recoverMeasureLength)
}

// BeatFromMeasure is the public bar-run query (spec §4.3 binary
// search over bars).
func (d *Data) BeatFromMeasure(measure float64) float64 {
	return d.beatFromMeasure(measure)
}

// MeasureFromBeat is the inverse public query.
func (d *Data) MeasureFromBeat(beat float64) float64 {
	idx := sort.Search(len(d.bars), func(i int) bool {
		return d.bars[i].Beat > beat
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return roundMeasure(d.bars[idx].measureFromBeat(beat, d.recoverMeasureLength))
}

func (d *Data) segmentIndexForBeat(beat float64) int {
	idx := sort.Search(len(d.segments), func(i int) bool {
		return d.segments[i].Beat > beat
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (d *Data) segmentIndexForTime(t float64) int {
	idx := sort.Search(len(d.segments), func(i int) bool {
		return d.segments[i].TimeMsec > t
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

// TimeFromBeat converts a beat position into milliseconds (spec §4.3
// public query, O(log n) binary search plus one closed-form
// evaluation).
func (d *Data) TimeFromBeat(beat float64) float64 {
	return d.segments[d.segmentIndexForBeat(beat)].timeFromBeat(beat)
}

// BeatFromTime converts a millisecond time into a beat position.
func (d *Data) BeatFromTime(t float64) float64 {
	return d.segments[d.segmentIndexForTime(t)].beatFromTime(t)
}

// TimeFromMeasure is the measure-space convenience composing
// BeatFromMeasure and TimeFromBeat.
func (d *Data) TimeFromMeasure(measure float64) float64 {
	return d.TimeFromBeat(d.BeatFromMeasure(measure))
}

// TimeFromBeatArr converts a batch of ascending beats in one O(n+m)
// merge pass rather than one binary search per element (spec §4.3
// "batch conversion for a whole chart's notes").
func (d *Data) TimeFromBeatArr(beats []float64) []float64 {
	out := make([]float64, len(beats))
	si := 0
	for i, b := range beats {
		for si+1 < len(d.segments) && d.segments[si+1].Beat <= b {
			si++
		}
		out[i] = d.segments[si].timeFromBeat(b)
	}
	return out
}

// SeekByMeasure is the public entry point mirroring spec §4.3 step 2:
// callers building the timing data from a tempo track seek to each
// note's measure before inspecting its subtype, even when that
// subtype turns out to need no change (e.g. a BmsBpm/BmsStop note
// whose channel reference is missing).
func (d *Data) SeekByMeasure(measure float64) {
	d.seekByMeasure(measure)
}

// seekByMeasure is the entry point used while building the timing
// data from a chart's tempo track: it resolves measure to beat/time
// coordinates against the current bar run and either overwrites the
// tail segment (when it was not yet manipulated) or appends a new one
// inheriting the tail's cleared state, by delegating to seek.
func (d *Data) seekByMeasure(measure float64) {
	beat := d.beatFromMeasure(measure)
	d.seek(beat)
}

// seek moves the tail segment's position to beat, short-circuiting
// when beat already equals the tail's current beat (spec §4.3 "a
// position that matches the current tail exactly is a no-op") and
// otherwise either overwriting the tail in place (if it was not
// manipulated) or appending a clean copy advanced to beat.
func (d *Data) seek(beat float64) {
	tail := d.tailSegment()
	if beat == tail.Beat {
		return
	}
	t := tail.timeFromBeat(beat)
	if !tail.Manipulated {
		tail.Beat = beat
		tail.TimeMsec = t
		return
	}
	next := tail.clearedCopy()
	next.Beat = beat
	next.TimeMsec = t
	next.Measure = d.MeasureFromBeat(beat)
	d.segments = append(d.segments, next)
}

// SetBPMChange installs a BPM change at measure (spec §4.3). A value
// equal to the tail's current BPM is a no-op — including skipping the
// manipulated flag — matching the original engine's equality guard.
func (d *Data) SetBPMChange(measure, bpm float64) {
	if bpm <= 0 {
		return
	}
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	if tail.Bpm == bpm {
		return
	}
	tail.Bpm = bpm
	tail.Manipulated = true
	d.trackBpm(bpm)
}

// SetSTOP installs a #STOP duration, in milliseconds, at measure.
// Unlike SetBPMChange this unconditionally marks the tail manipulated,
// even when durationMs is zero, since a zero-length stop is still an
// explicit authored event.
func (d *Data) SetSTOP(measure, durationMs float64) {
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	tail.StopTime += durationMs
	tail.Manipulated = true
	if durationMs > 0 {
		d.hasStop = true
	}
}

// SetDelay installs a #DELAY duration, in milliseconds, at measure.
func (d *Data) SetDelay(measure, durationMs float64) {
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	tail.DelayTime += durationMs
	tail.Manipulated = true
}

// SetWarp installs a warp of warpBeats beats at measure, unconditionally
// marking the tail manipulated.
func (d *Data) SetWarp(measure, warpBeats float64) {
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	tail.WarpBeat += warpBeats
	tail.Manipulated = true
	if warpBeats > 0 {
		d.hasWarp = true
	}
}

// SetTick installs a judge-resolution tick count at measure.
func (d *Data) SetTick(measure float64, tick int) {
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	tail.Tick = tick
	tail.Manipulated = true
}

// SetScrollSpeedChange installs a scroll-speed multiplier at measure.
func (d *Data) SetScrollSpeedChange(measure, speed float64) {
	if speed <= 0 {
		speed = 1
	}
	d.seekByMeasure(measure)
	tail := d.tailSegment()
	tail.ScrollSpeed = speed
	tail.Manipulated = true
}

// SetMeasureLengthChange installs a measure-length scale (as a
// fraction of DefaultMeasureLength, e.g. BMS 0.75 for a 3/4 measure)
// at the given integer measure index (spec §4.3, BMS channel 02).
//
// When the measure index matches the current tail bar's, the tail is
// updated in place (a chart may re-state the same measure's length
// more than once while still being preprocessed). Otherwise a new Bar
// is appended. When recoverMeasureLength is true (BMS: a length change
// applies to its own measure only), the new bar's beat is one measure
// at the tail bar's length past the tail, plus one default-length
// measure for each further measure in between. When false (Stepmania:
// the length applies to every subsequent measure until changed again),
// every measure in between is counted at the tail bar's length.
func (d *Data) SetMeasureLengthChange(measure int, lengthFraction float64) {
	if lengthFraction <= 0 {
		return
	}
	tail := d.tailBar()
	if measure == tail.Measure {
		tail.BarLength = lengthFraction
		return
	}
	diff := measure - tail.Measure
	var beat float64
	if d.recoverMeasureLength {
		defMeasures := diff - 1
		if defMeasures < 0 {
			defMeasures = 0
		}
		beat = tail.Beat + tail.BarLength*DefaultMeasureLength + float64(defMeasures)*DefaultMeasureLength
	} else {
		beat = tail.Beat + float64(diff)*tail.BarLength*DefaultMeasureLength
	}
	d.bars = append(d.bars, Bar{
		Measure:   measure,
		Beat:      beat,
		BarLength: lengthFraction,
	})
}

func (d *Data) trackBpm(bpm float64) {
	if !d.hasBpm {
		d.maxBpm, d.minBpm = d.segments[0].Bpm, d.segments[0].Bpm
		d.hasBpm = bpm != d.segments[0].Bpm
	} else if bpm != d.maxBpm || bpm != d.minBpm {
		d.hasBpm = true
	}
	if bpm > d.maxBpm {
		d.maxBpm = bpm
	}
	if bpm < d.minBpm {
		d.minBpm = bpm
	}
}

// MaxBpm and MinBpm report the BPM extremes seen across the whole
// chart, for display (spec §4.2 Level/preview metrics).
func (d *Data) MaxBpm() float64 { return d.maxBpm }
func (d *Data) MinBpm() float64 { return d.minBpm }

// HasBpmChange, HasStop and HasWarp report whether the chart exercises
// each feature at all, independent of the segment count (a chart can
// re-state its initial BPM via #BPM without this being "a change").
func (d *Data) HasBpmChange() bool { return d.hasBpm }
func (d *Data) HasStop() bool      { return d.hasStop }
func (d *Data) HasWarp() bool      { return d.hasWarp }

// LastMeasure returns the highest measure index the bar run reaches.
func (d *Data) LastMeasure() int {
	return d.tailBar().Measure
}

// MeasureLength returns the length fraction (relative to
// DefaultMeasureLength) in effect at the given measure: the BarLength
// of the last bar whose Measure is <= measure, or 1 under recover mode
// when that bar starts at an earlier measure.
func (d *Data) MeasureLength(measure int) float64 {
	last := d.bars[0]
	for _, bar := range d.bars {
		if bar.Measure > measure {
			break
		}
		last = bar
	}
	if d.recoverMeasureLength && last.Measure != measure {
		return 1
	}
	return last.BarLength
}
