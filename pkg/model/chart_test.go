package model

import "testing"

// Property 7: Invalidate is idempotent — calling it twice in a row
// produces the same stamped Beat/TimeMsec values as calling it once.
func TestInvalidateIsIdempotent(t *testing.T) {
	chart := NewChart()
	chart.Meta.Bpm = 150
	chart.Tempo.AddBpm(0, 150)
	chart.Tempo.AddBpm(4, 200)
	chart.Tempo.AddStop(2, 500)
	chart.Notes.AddTap(0, Position{Measure: 1}, ChainNone, TapData{Player: 0, Lane: 1, Scoreable: true, Value: 1})
	chart.Notes.AddTap(0, Position{Measure: 5}, ChainNone, TapData{Player: 0, Lane: 1, Scoreable: true, Value: 2})

	chart.Invalidate()
	first := snapshotTimes(chart)

	chart.Invalidate()
	second := snapshotTimes(chart)

	if len(first) != len(second) {
		t.Fatalf("note count changed across Invalidate calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("note %d: TimeMsec = %v after first Invalidate, %v after second", i, first[i], second[i])
		}
	}
}

func snapshotTimes(chart *Chart) []float64 {
	var times []float64
	for _, n := range chart.Notes.AllTrackIter() {
		times = append(times, n.TimeMsec)
	}
	return times
}

func TestNewChartIsEmpty(t *testing.T) {
	chart := NewChart()
	if !chart.IsEmpty() {
		t.Error("a freshly created chart should be empty")
	}
	if chart.ScoreNoteCount() != 0 {
		t.Errorf("ScoreNoteCount() = %d, want 0", chart.ScoreNoteCount())
	}
}
