package effector

import (
	"testing"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

func laneSet(nd *model.NoteData, lanes int) map[int]int {
	counts := map[int]int{}
	for lane := 0; lane < lanes; lane++ {
		counts[lane] = nd.Track(lane).Len()
	}
	return counts
}

func buildChart(t *testing.T, measures int, lanes int) *model.NoteData {
	t.Helper()
	nd := model.NewNoteData()
	for m := 0; m < measures; m++ {
		for lane := 0; lane < lanes; lane++ {
			pos := model.Position{Measure: float64(m), RowPos: model.NewRational(0, 1)}
			nd.AddTap(lane, pos, model.ChainNone, model.TapData{Player: 0, Lane: lane, Scoreable: true, Visible: true, Value: 1})
		}
	}
	return nd
}

func totalNotes(nd *model.NoteData, lanes int) int {
	total := 0
	for lane := 0; lane < lanes; lane++ {
		total += nd.Track(lane).Len()
	}
	return total
}

func TestRandomPreservesNoteMultiset(t *testing.T) {
	nd := buildChart(t, 8, 7)
	before := totalNotes(nd, 7)

	p := For7Key(0, 0)
	p.Seed = 42
	Random(nd, p)

	after := totalNotes(nd, 7)
	if before != after {
		t.Fatalf("Random changed total note count: before=%d after=%d", before, after)
	}
}

func TestRandomIsPermutation(t *testing.T) {
	nd := buildChart(t, 4, 7)
	p := For7Key(0, 0)
	p.Seed = 7
	Random(nd, p)

	counts := laneSet(nd, 7)
	for lane, n := range counts {
		if n != 4 {
			t.Errorf("lane %d has %d notes, want 4 (Random must be a bijection on a uniform chart)", lane, n)
		}
	}
}

func TestMirrorSkipsScratchLane(t *testing.T) {
	nd := model.NewNoteData()
	p := ForBMS1P(0)
	// one note in the scratch lane, one in lane 0
	nd.AddTap(7, model.Position{Measure: 0}, model.ChainNone, model.TapData{Player: 0, Lane: 7, Scoreable: true})
	nd.AddTap(0, model.Position{Measure: 0}, model.ChainNone, model.TapData{Player: 0, Lane: 0, Scoreable: true})

	Mirror(nd, p)

	if nd.Track(7).Len() != 1 {
		t.Errorf("scratch lane 7 should still hold its note after Mirror, got %d notes", nd.Track(7).Len())
	}
	if nd.Track(6).Len() != 1 {
		t.Errorf("lane 0's note should have mirrored to lane 6, got lane 6 len=%d", nd.Track(6).Len())
	}
	if nd.Track(0).Len() != 0 {
		t.Errorf("lane 0 should be empty after mirroring to lane 6")
	}
}

func TestMirrorIsInvolution(t *testing.T) {
	p := For7Key(0, 0)
	nd := model.NewNoteData()
	values := make(map[int]int)
	for lane := 0; lane < 7; lane++ {
		nd.AddTap(lane, model.Position{Measure: float64(lane)}, model.ChainNone,
			model.TapData{Player: 0, Lane: lane, Scoreable: true, Value: lane + 1})
		values[lane] = lane + 1
	}

	Mirror(nd, p)
	Mirror(nd, p)

	for lane := 0; lane < 7; lane++ {
		all := nd.Track(lane).All()
		if len(all) != 1 {
			t.Fatalf("lane %d has %d notes after double Mirror, want 1", lane, len(all))
		}
		if all[0].Tap.Value != values[lane] {
			t.Errorf("lane %d value = %d after double Mirror, want original %d", lane, all[0].Tap.Value, values[lane])
		}
	}
}

func TestRemapTracksPreservesNoteMultiset(t *testing.T) {
	nd := model.NewNoteData()
	before := map[int]int{}
	next := 1
	for lane := 0; lane < 7; lane++ {
		for m := 0; m < 3; m++ {
			v := next
			next++
			nd.AddTap(lane, model.Position{Measure: float64(m)}, model.ChainNone,
				model.TapData{Player: 0, Lane: lane, Scoreable: true, Value: v})
			before[v]++
		}
	}

	// A permutation of [0,7): every note's value must survive the
	// remap exactly once, regardless of which lane it ends up in.
	mapping := []int{6, 5, 4, 3, 2, 1, 0}
	nd.RemapTracks(mapping)

	after := map[int]int{}
	for _, n := range nd.AllTrackIter() {
		after[n.Tap.Value]++
	}

	if len(before) != len(after) {
		t.Fatalf("distinct value count changed: before=%d after=%d", len(before), len(after))
	}
	for v, c := range before {
		if after[v] != c {
			t.Errorf("value %d count = %d after RemapTracks, want %d", v, after[v], c)
		}
	}
}

func TestFlipReversesLanes(t *testing.T) {
	nd := model.NewNoteData()
	p := For7Key(0, 0)
	nd.AddTap(0, model.Position{Measure: 0}, model.ChainNone, model.TapData{Player: 0, Lane: 0, Scoreable: true})
	nd.AddTap(6, model.Position{Measure: 0}, model.ChainNone, model.TapData{Player: 0, Lane: 6, Scoreable: true})

	Flip(nd, p)

	if nd.Track(6).Len() != 1 || nd.Track(0).Len() != 1 {
		t.Fatalf("Flip should swap lane 0 and lane 6 contents")
	}
}

func TestHRandomDoesNotSplitHoldNotes(t *testing.T) {
	nd := model.NewNoteData()
	p := For7Key(0, 0)
	p.Seed = 3

	// a longnote spanning measures 0 and 1 in lane 3
	start := nd.AddTap(3, model.Position{Measure: 0}, model.ChainStart, model.TapData{Player: 0, Lane: 3, Scoreable: true})
	end := nd.AddTap(3, model.Position{Measure: 1}, model.ChainEnd, model.TapData{Player: 0, Lane: 3, Scoreable: true})

	HRandom(nd, p)

	startLane, endLane := -1, -1
	for lane := 0; lane < 7; lane++ {
		for _, n := range nd.Track(lane).All() {
			if n == start {
				startLane = lane
			}
			if n == end {
				endLane = lane
			}
		}
	}
	if startLane == -1 || endLane == -1 {
		t.Fatalf("hold note endpoints got lost during HRandom")
	}
	if startLane != endLane {
		t.Errorf("hold note start/end must stay in the same lane across a hold, got start=%d end=%d", startLane, endLane)
	}
}

func TestAllSCMovesOnlyStandaloneNotes(t *testing.T) {
	nd := model.NewNoteData()
	p := ForBMS1P(0)

	// a hold note in lane 0, a standalone tap in lane 1, scratch empty.
	start := nd.AddTap(0, model.Position{Measure: 0}, model.ChainStart, model.TapData{Player: 0, Lane: 0, Scoreable: true})
	nd.AddTap(0, model.Position{Measure: 1}, model.ChainEnd, model.TapData{Player: 0, Lane: 0, Scoreable: true})
	tap := nd.AddTap(1, model.Position{Measure: 0}, model.ChainNone, model.TapData{Player: 0, Lane: 1, Scoreable: true})

	AllSC(nd, p)

	if nd.Track(0).Len() == 0 {
		t.Fatalf("hold note start should not have been moved out of lane 0")
	}
	found := false
	for _, n := range nd.Track(0).All() {
		if n == start {
			found = true
		}
	}
	if !found {
		t.Errorf("hold note start must remain in lane 0")
	}

	movedToScratch := false
	for _, n := range nd.Track(7).All() {
		if n == tap {
			movedToScratch = true
		}
	}
	if !movedToScratch {
		t.Errorf("standalone tap at the only free row should have moved to the scratch lane")
	}
}

func TestSRandomPreservesNoteMultiset(t *testing.T) {
	nd := buildChart(t, 6, 7)
	before := totalNotes(nd, 7)

	p := For7Key(0, 0)
	p.Seed = 11
	SRandom(nd, p)

	after := totalNotes(nd, 7)
	if before != after {
		t.Fatalf("SRandom changed total note count: before=%d after=%d", before, after)
	}
}

func TestRRandomSkipsDuringHold(t *testing.T) {
	nd := model.NewNoteData()
	p := For7Key(0, 0)
	p.Seed = 5

	start := nd.AddTap(2, model.Position{Measure: 0}, model.ChainStart, model.TapData{Player: 0, Lane: 2, Scoreable: true})
	end := nd.AddTap(2, model.Position{Measure: 1}, model.ChainEnd, model.TapData{Player: 0, Lane: 2, Scoreable: true})

	RRandom(nd, p, false)

	startLane, endLane := -1, -1
	for lane := 0; lane < 7; lane++ {
		for _, n := range nd.Track(lane).All() {
			if n == start {
				startLane = lane
			}
			if n == end {
				endLane = lane
			}
		}
	}
	if startLane == -1 || endLane == -1 {
		t.Fatalf("hold note endpoints got lost during RRandom")
	}
	if startLane != endLane {
		t.Errorf("RRandom must not split a hold note across lanes, got start=%d end=%d", startLane, endLane)
	}
}
