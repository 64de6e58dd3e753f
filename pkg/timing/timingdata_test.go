package timing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property 2: within one segment and no warp, time_from_beat is
// monotonic in beat, and equal beats (not crossing a segment
// boundary) imply equal times.
func TestPropertyTimeFromBeatMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("time_from_beat is non-decreasing in beat", prop.ForAll(
		func(bpm, b1, b2 float64) bool {
			if bpm <= 0 || bpm > 1000 {
				return true
			}
			if b1 > b2 {
				b1, b2 = b2, b1
			}
			d := New(bpm)
			t1 := d.TimeFromBeat(b1)
			t2 := d.TimeFromBeat(b2)
			return t1 <= t2+1e-9
		},
		gen.Float64Range(1, 999),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 500),
	))

	properties.TestingRun(t)
}

// Property 3: beat_from_time(time_from_beat(b)) = b outside a warp
// window (no warp at all, here).
func TestPropertyBeatTimeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("beat_from_time inverts time_from_beat", prop.ForAll(
		func(bpm, beat float64) bool {
			if bpm <= 0 || bpm > 1000 {
				return true
			}
			d := New(bpm)
			tm := d.TimeFromBeat(beat)
			got := d.BeatFromTime(tm)
			return math.Abs(got-beat) < 1e-6
		},
		gen.Float64Range(1, 999),
		gen.Float64Range(0, 1000),
	))

	properties.TestingRun(t)
}

// Property 4: measure_from_beat(beat_from_measure(m)) = m to within
// 1e-6 for all finite m, with and without a measure-length change in
// effect.
func TestPropertyMeasureBeatRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("measure_from_beat inverts beat_from_measure", prop.ForAll(
		func(lengthFraction float64, measure float64) bool {
			if lengthFraction <= 0 || lengthFraction > 4 {
				return true
			}
			if measure < 0 || measure > 100 {
				return true
			}
			d := New(120)
			d.SetMeasureLengthChange(3, lengthFraction)

			beat := d.BeatFromMeasure(measure)
			got := d.MeasureFromBeat(beat)
			return math.Abs(got-measure) < 1e-6
		},
		gen.Float64Range(0.1, 4),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

// Property 7: repeated builds from the same tempo track are
// idempotent — rebuilding a Data from scratch twice with the same
// inputs produces the same query results (the nearest thing to
// Chart.Invalidate's idempotency this package can exercise on its
// own, since Invalidate itself lives in pkg/model).
func TestRebuildIsIdempotent(t *testing.T) {
	build := func() *Data {
		d := New(150)
		d.SetBPMChange(4, 200)
		d.SetSTOP(8, 500)
		d.SetMeasureLengthChange(2, 0.75)
		return d
	}

	first := build()
	second := build()

	for _, beat := range []float64{0, 4, 8, 16, 40} {
		if first.TimeFromBeat(beat) != second.TimeFromBeat(beat) {
			t.Errorf("beat %v: first build = %v, second build = %v, want equal", beat, first.TimeFromBeat(beat), second.TimeFromBeat(beat))
		}
	}
}

// Scenario A: two-segment BPM change.
func TestScenarioATwoSegmentBpm(t *testing.T) {
	d := New(180)
	d.SetBPMChange(10, 90) // beat 40 at the original 180 bpm

	got := d.TimeFromBeat(40)
	want := 40 * 60000.0 / 180.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("time_from_beat(40) = %v, want %v", got, want)
	}

	got = d.TimeFromBeat(48)
	want = 40*60000.0/180.0 + 8*60000.0/90.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("time_from_beat(48) = %v, want %v", got, want)
	}

	beat := d.BeatFromTime(19000)
	if math.Abs(beat-48.5) > 0.01 {
		t.Errorf("beat_from_time(19000) = %v, want ~48.5", beat)
	}
}

// Scenario B: a STOP landing exactly on a beat.
func TestScenarioBStopAtBeat(t *testing.T) {
	d := New(180)
	d.SetBPMChange(10, 90)
	d.SetSTOP(d.MeasureFromBeat(48), 2000)

	before := d.TimeFromBeat(47.99)
	after := d.TimeFromBeat(48.00)

	if after-before < 1999 {
		t.Errorf("time_from_beat(48.00) - time_from_beat(47.99) = %v, want >= ~1999 (2000ms stop plus the tiny beat delta)", after-before)
	}
}

// Scenario C: a measure-length shrink under recover-mode semantics.
func TestScenarioCMeasureLengthShrinkRecoverMode(t *testing.T) {
	d := New(120)
	d.SetRecoverMeasureLength(true)
	d.SetMeasureLengthChange(3, 0.5)

	b3 := d.BeatFromMeasure(3)
	b4 := d.BeatFromMeasure(4)
	b5 := d.BeatFromMeasure(5)

	if math.Abs((b4-b3)-0.5*4) > 1e-9 {
		t.Errorf("beat_from_measure(4)-beat_from_measure(3) = %v, want %v", b4-b3, 0.5*4)
	}
	if math.Abs((b5-b4)-1*4) > 1e-9 {
		t.Errorf("beat_from_measure(5)-beat_from_measure(4) = %v, want %v (recover mode resumes default length)", b5-b4, 4.0)
	}
}

// Regression: SetMeasureLengthChange's own stored bar position must
// stay consistent with Bar.beatFromMeasure's per-query formula even
// with two irregular-length measures in a row, where the first bar's
// appended Beat is itself computed under recover-mode rules.
func TestMeasureLengthChangeMatchesBeatFromMeasureUnderRecover(t *testing.T) {
	d := New(120)
	d.SetRecoverMeasureLength(true)
	d.SetMeasureLengthChange(3, 0.5)
	d.SetMeasureLengthChange(5, 0.75)

	// Measure 0 is the BarLength=1 sentinel, so measure 3's bar starts
	// at beat 3*1*4 = 12. Measure 5's bar, appended under recover
	// rules, starts at 12 + ((5-3-1) + 0.5)*4 = 12 + 6 = 18: the
	// irregular measure 3 (3->4, 0.5*4 = 2 beats) plus one recovered
	// default-length measure (4->5, 4 beats).
	got := d.BeatFromMeasure(5)
	want := 18.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("beat_from_measure(5) = %v, want %v", got, want)
	}
}
