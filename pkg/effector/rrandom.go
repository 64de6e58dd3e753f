package effector

import (
	"math"
	"math/rand"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// timeRotationDelta is R-Random's fixed time-domain rotation unit in
// milliseconds (spec §4.5 "floor(note.time_msec / 0.072)").
const timeRotationDelta = 0.072

// RRandom rotates notes among the window's Note lanes by a shifting
// delta, skipping rotation while a hold note is in progress at that
// row so a longnote is never split across mismatched lanes. With
// byTime false the delta for a row is floor(delta0 + note.measure);
// with byTime true it is floor(note.time_msec / 0.072), the variant
// S-Random builds on (spec §4.5 "R-Random").
func RRandom(nd *model.NoteData, p Param, byTime bool) {
	rng := rand.New(rand.NewSource(p.Seed))
	delta0 := float64(rng.Int())

	laneToIdx := make([]int, p.LaneCount)
	var idxToLane []int
	for i := 0; i < p.LaneCount; i++ {
		if p.LockedLane[i] == Note {
			laneToIdx[i] = len(idxToLane)
			idxToLane = append(idxToLane, i)
		}
	}
	shuffleCount := len(idxToLane)
	if shuffleCount == 0 {
		return
	}

	rows := nd.RowIter()
	shiftIdx := 0
	for _, row := range rows {
		changeMapping := !nd.HasHoldNoteAt(int(row.Measure))

		for i := 0; i < p.LaneCount; i++ {
			if p.LockedLane[i] != Note {
				continue
			}
			lane := p.LaneOffset + i
			n := row.Slots[lane]
			if n == nil {
				continue
			}

			if changeMapping {
				if byTime {
					shiftIdx = int(math.Floor(n.TimeMsec / timeRotationDelta))
				} else {
					shiftIdx = int(math.Floor(delta0 + n.Measure))
				}
			}

			newIdx := mod(laneToIdx[i]+shiftIdx+1, shuffleCount)
			newLocal := idxToLane[newIdx]
			if newLocal == i {
				continue
			}
			if nd.Track(lane).Remove(n) {
				nd.Track(p.LaneOffset + newLocal).Insert(n)
			}
		}
	}
}

// mod returns the non-negative remainder of a/b, since Go's % keeps
// the sign of a and shiftIdx can be negative.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
