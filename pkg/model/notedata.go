package model

// NoteData is the TrackData specialization holding playable/visible
// tap, long and hidden notes (spec §3 "Specialized TrackData
// instances").
type NoteData struct {
	*TrackData
}

// NewNoteData creates an empty NoteData.
func NewNoteData() *NoteData {
	return &NoteData{TrackData: NewTrackData(DatatypeNote)}
}

// AddTap inserts a tap/charge note at the given lane and position.
func (nd *NoteData) AddTap(lane int, pos Position, chain ChainStatus, tap TapData) *NoteElement {
	n := &NoteElement{Position: pos, Kind: DatatypeNote, ChainStatus: chain, Tap: &tap}
	nd.Track(lane).Insert(n)
	return n
}

// ScoreNoteCount returns the number of scoreable notes: every tap plus
// a longnote's Start (its Body/End are not separately counted).
func (nd *NoteData) ScoreNoteCount() int {
	count := 0
	for _, lane := range nd.Lanes() {
		for _, n := range nd.Track(lane).All() {
			if n.Tap == nil || !n.Tap.Scoreable {
				continue
			}
			switch n.ChainStatus {
			case ChainNone, ChainTap, ChainStart:
				count++
			}
		}
	}
	return count
}

// HasLongNote reports whether any lane contains a longnote chain.
func (nd *NoteData) HasLongNote() bool {
	for _, lane := range nd.Lanes() {
		for _, n := range nd.Track(lane).All() {
			if n.ChainStatus == ChainStart {
				return true
			}
		}
	}
	return false
}

// PlayLaneCount returns the number of lanes that contain at least one
// note, which for a normally-authored chart is the key count.
func (nd *NoteData) PlayLaneCount() int {
	count := 0
	for _, lane := range nd.Lanes() {
		if nd.Track(lane).Len() > 0 {
			count++
		}
	}
	return count
}

// LastObjectMeasure returns the Measure of the last note across every
// lane, or 0 if empty.
func (nd *NoteData) LastObjectMeasure() float64 {
	last := 0.0
	for _, lane := range nd.Lanes() {
		t := nd.Track(lane)
		if t.Len() == 0 {
			continue
		}
		if m := t.At(t.Len() - 1).Measure; m > last {
			last = m
		}
	}
	return last
}
