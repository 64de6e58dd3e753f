package effector

import "github.com/rhythmus-emulator/rparser-sub000/pkg/model"

// AllSC reassigns, at every row where the scratch lane is free, the
// first standalone (non-longnote) note found by a scan that rotates
// its starting column each row, so the chosen note varies across the
// chart instead of always favoring one lane (spec §4.5 "AllSC").
func AllSC(nd *model.NoteData, p Param) {
	scIdx := -1
	for i := 0; i < p.LaneCount; i++ {
		if p.LockedLane[i] == SC {
			scIdx = i
			break
		}
	}
	if scIdx == -1 {
		return
	}
	scLane := p.LaneOffset + scIdx

	rows := nd.RowIter()
	scanStart := 0
	for _, row := range rows {
		if row.Slots[scLane] != nil {
			scanStart++
			continue
		}

		for i := 0; i < p.LaneCount; i++ {
			colIdx := (i + scanStart) % p.LaneCount
			lane := p.LaneOffset + colIdx
			n := row.Slots[lane]
			if n == nil || !isStandaloneTap(n) {
				continue
			}
			if nd.Track(lane).Remove(n) {
				nd.Track(scLane).Insert(n)
			}
			break
		}
		scanStart++
	}
}
