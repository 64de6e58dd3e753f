package effector

import (
	"sort"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// laneNote pairs a note with the absolute flat lane it currently
// lives in, since NoteElement itself carries no lane field once
// extracted from its owning Track.
type laneNote struct {
	lane int
	note *model.NoteElement
}

// collect gathers every note in p's lane window, ordered by ascending
// Measure (ties broken by lane then original insertion order), for
// effectors that reassign notes one at a time rather than through a
// single static permutation.
func collect(nd *model.NoteData, p Param) []laneNote {
	var out []laneNote
	for lane := p.LaneOffset; lane < p.LaneOffset+p.LaneCount; lane++ {
		for _, n := range nd.Track(lane).All() {
			out = append(out, laneNote{lane: lane, note: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].note.Measure < out[j].note.Measure })
	return out
}

// reassign moves each collected note to newLane[i] (a lane index
// parallel to moves), leaving notes already at their target alone.
func reassign(nd *model.NoteData, moves []laneNote, newLane []int) {
	for i, ln := range moves {
		target := newLane[i]
		if target == ln.lane {
			continue
		}
		if nd.Track(ln.lane).Remove(ln.note) {
			nd.Track(target).Insert(ln.note)
		}
	}
}

// isStandaloneTap reports whether n is a plain tap, not part of a
// longnote/charge chain (source's "chainsize() == 1").
func isStandaloneTap(n *model.NoteElement) bool {
	return !n.IsHold()
}
