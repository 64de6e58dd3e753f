package effector

import (
	"math/rand"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// HRandom draws a fresh lane permutation at every measure boundary,
// but only when no hold note is in progress at that measure, so a
// longnote is never split across mismatched lanes (spec §4.5
// "H-Random").
func HRandom(nd *model.NoteData, p Param) {
	rng := rand.New(rand.NewSource(p.Seed))
	moves := collect(nd, p)
	if len(moves) == 0 {
		return
	}

	newLane := make([]int, len(moves))
	localCol := generateRandomColumn(p, rng)
	currentMeasure := int(moves[0].note.Measure) - 1

	for i, ln := range moves {
		m := int(ln.note.Measure)
		if m != currentMeasure {
			currentMeasure = m
			if !nd.HasHoldNoteAt(m) {
				localCol = generateRandomColumn(p, rng)
			}
		}
		local := ln.lane - p.LaneOffset
		newLane[i] = p.LaneOffset + localCol[local]
	}

	reassign(nd, moves, newLane)
}
