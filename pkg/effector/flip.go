package effector

import "github.com/rhythmus-emulator/rparser-sub000/pkg/model"

// Flip reverses every lane index in p's window, ignoring locked lanes
// entirely (spec §4.5 "Flip": "new = lane_count - 1 - old").
func Flip(nd *model.NoteData, p Param) {
	local := make([]int, p.LaneCount)
	for i := range local {
		local[i] = p.LaneCount - i - 1
	}
	nd.RemapTracks(fullMapping(p, local))
}
