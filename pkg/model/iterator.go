package model

import "sort"

// trackEntry pairs a note with the lane (track index) and original
// insertion-order sequence number it was observed at, so the
// all-track iterator can apply its tie-break rules (spec §3
// TrackData, §9 Design Note "k-way merge over per-track cursors").
type trackEntry struct {
	note  *NoteElement
	lane  int
	seq   int
}

// AllTrackIter merges every lane's notes by ascending Measure,
// tie-breaking by ascending lane index, then by insertion order within
// a lane — except that for Tempo tracks, a BmsBpm sorts after a direct
// Bpm at the same (measure, lane) and a BmsStop sorts after a direct
// Stop, so the indirect lookup wins when both are replayed by the
// timing engine (spec §3 TrackData "all-track iterator").
func (td *TrackData) AllTrackIter() []*NoteElement {
	var entries []trackEntry
	seq := 0
	for lane, t := range td.tracks {
		if t == nil {
			continue
		}
		for _, n := range t.notes {
			entries = append(entries, trackEntry{note: n, lane: lane, seq: seq})
			seq++
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.note.Measure != b.note.Measure {
			return a.note.Measure < b.note.Measure
		}
		if a.lane != b.lane {
			return a.lane < b.lane
		}
		if td.Datatype == DatatypeTempo {
			ra, oka := tempoAuthorityRank(a.note.Tempo)
			rb, okb := tempoAuthorityRank(b.note.Tempo)
			if oka && okb && ra.group == rb.group && ra.group != tempoGroupOther {
				return ra.rank < rb.rank
			}
		}
		return a.seq < b.seq
	})

	out := make([]*NoteElement, len(entries))
	for i, e := range entries {
		out[i] = e.note
	}
	return out
}

type tempoGroup int

const (
	tempoGroupOther tempoGroup = iota
	tempoGroupBpm
	tempoGroupStop
)

type tempoAuthority struct {
	group tempoGroup
	rank  int // 0 = direct (authoritative source value), 1 = indirect (channel lookup)
}

func tempoAuthorityRank(t *TempoPayload) (tempoAuthority, bool) {
	if t == nil {
		return tempoAuthority{}, false
	}
	switch t.Subtype {
	case TempoBpm:
		return tempoAuthority{group: tempoGroupBpm, rank: 0}, true
	case TempoBmsBpm:
		return tempoAuthority{group: tempoGroupBpm, rank: 1}, true
	case TempoStop:
		return tempoAuthority{group: tempoGroupStop, rank: 0}, true
	case TempoBmsStop:
		return tempoAuthority{group: tempoGroupStop, rank: 1}, true
	default:
		return tempoAuthority{group: tempoGroupOther}, true
	}
}

// Row is one pseudo-row of the row iterator: all notes sharing a
// distinct Measure value, one slot per lane (nil if that lane has no
// note at this measure).
type Row struct {
	Measure float64
	Slots   [MaxTracks]*NoteElement
}

// RowIter yields one Row per distinct Measure value present in any
// lane, ordered ascending (spec §3 TrackData "row iterator").
func (td *TrackData) RowIter() []Row {
	measureIndex := map[float64]int{}
	var rows []Row
	for lane, t := range td.tracks {
		if t == nil {
			continue
		}
		for _, n := range t.notes {
			idx, ok := measureIndex[n.Measure]
			if !ok {
				idx = len(rows)
				measureIndex[n.Measure] = idx
				rows = append(rows, Row{Measure: n.Measure})
			}
			rows[idx].Slots[lane] = n
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Measure < rows[j].Measure })
	return rows
}
