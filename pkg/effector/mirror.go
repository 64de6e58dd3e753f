package effector

import "github.com/rhythmus-emulator/rparser-sub000/pkg/model"

// Mirror reverses the Note lanes end-to-end, swapping lane s with
// lane lane_count-1-s while skipping any lane that isn't Note on
// either side (spec §4.5 "Mirror").
func Mirror(nd *model.NoteData, p Param) {
	local := make([]int, p.LaneCount)
	for i := range local {
		local[i] = i
	}

	s, e := 0, p.LaneCount-1
	for s < e {
		for s < e && p.LockedLane[s] != Note {
			s++
		}
		for s < e && p.LockedLane[e] != Note {
			e--
		}
		local[s], local[e] = local[e], local[s]
		s++
		e--
	}

	nd.RemapTracks(fullMapping(p, local))
}
