package effector

import (
	"math/rand"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// generateRandomColumn builds a local permutation over p's lane
// window: Note lanes are shuffled among themselves, every other lane
// keeps its own index (spec §4.5 "Random": "generate permutation p of
// length lane_count; for each free lane keep the slot, for each Note
// lane assign the next un-used shuffle index").
func generateRandomColumn(p Param, rng *rand.Rand) []int {
	newCol := make([]int, p.LaneCount)
	var noteLanes []int
	for i := 0; i < p.LaneCount; i++ {
		newCol[i] = i
		if p.LockedLane[i] == Note {
			noteLanes = append(noteLanes, i)
		}
	}

	shuffled := append([]int(nil), noteLanes...)
	rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
	for k, lane := range noteLanes {
		newCol[lane] = shuffled[k]
	}
	return newCol
}

// Random shuffles every Note lane in p's window independently of
// measure or row, leaving locked/scratch/free lanes untouched.
func Random(nd *model.NoteData, p Param) {
	rng := rand.New(rand.NewSource(p.Seed))
	local := generateRandomColumn(p, rng)
	nd.RemapTracks(fullMapping(p, local))
}
