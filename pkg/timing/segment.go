// Package timing implements the segmented tempo/bar model: bidirectional
// measure<->beat<->time conversion accounting for BPM changes, STOP,
// DELAY, WARP, measure-length changes and scroll speed (spec §4.3).
package timing

// DefaultBpm seeds the sentinel segment when a chart's MetaData
// carries no BPM at all.
const DefaultBpm = 120.0

// DefaultMeasureLength is the length of an unscaled measure, in beats.
const DefaultMeasureLength = 4.0

// Segment is one span of constant tempo/scroll state (spec §3
// TimingSegment, derived not editable).
type Segment struct {
	TimeMsec    float64
	Beat        float64
	Measure     float64
	Bpm         float64
	StopTime    float64
	DelayTime   float64
	WarpBeat    float64
	ScrollSpeed float64
	Tick        int
	Manipulated bool
}

func newSentinelSegment(bpm float64) Segment {
	return Segment{
		Bpm:         bpm,
		ScrollSpeed: 1,
		Tick:        1,
		Manipulated: true, // prevents the sentinel from ever being overwritten in place
	}
}

// clearedCopy returns a copy of s with Stop/Delay/Warp reset to zero
// and Manipulated reset to false — the state a freshly-appended
// segment inherits (spec §4.3 "append a new segment inheriting the
// tail's state with stop/delay/warp cleared").
func (s Segment) clearedCopy() Segment {
	s.StopTime = 0
	s.DelayTime = 0
	s.WarpBeat = 0
	s.Manipulated = false
	return s
}

// timeFromBeat applies the one-segment time-from-beat formula (spec
// §4.3 "Conversions within one segment").
func (s Segment) timeFromBeat(beat float64) float64 {
	msecPerBeat := 60000.0 / (s.Bpm * s.ScrollSpeed)
	db := beat - s.Beat - s.WarpBeat
	if db < 0 {
		return s.TimeMsec + s.StopTime
	}
	return s.TimeMsec + s.StopTime + s.DelayTime + db*msecPerBeat
}

// beatFromTime applies the one-segment beat-from-time formula.
func (s Segment) beatFromTime(t float64) float64 {
	dt := t - s.TimeMsec - (s.StopTime + s.DelayTime)
	if dt <= 0 {
		return s.Beat
	}
	beatPerMsec := s.Bpm * s.ScrollSpeed / 60000.0
	return s.Beat + s.WarpBeat + dt*beatPerMsec
}
