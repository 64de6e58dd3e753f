package model

// BgmData is the TrackData specialization holding autoplayed keysound
// references, one lane per simultaneous BGM "column" so that several
// #xxx01 lines in the same measure do not collide (spec §4.4 channel
// 01: "supports multiple lines per measure").
type BgmData struct {
	*TrackData
}

// NewBgmData creates an empty BgmData.
func NewBgmData() *BgmData {
	return &BgmData{TrackData: NewTrackData(DatatypeBgm)}
}

// Add inserts a BGM reference, choosing the first column at this
// measure that is not already occupied.
func (bd *BgmData) Add(pos Position, channelID int) *NoteElement {
	column := 0
	for {
		t := bd.Track(column)
		collision := false
		for _, n := range t.All() {
			if n.Measure == pos.Measure {
				collision = true
				break
			}
		}
		if !collision {
			n := &NoteElement{
				Position: pos,
				Kind:     DatatypeBgm,
				Bgm:      &BgmRefData{ChannelID: channelID, Column: column},
			}
			t.Insert(n)
			return n
		}
		column++
		if column >= MaxTracks {
			// Degenerate input: fall back to overwriting the last column
			// rather than panicking.
			column = MaxTracks - 1
			n := &NoteElement{
				Position: pos,
				Kind:     DatatypeBgm,
				Bgm:      &BgmRefData{ChannelID: channelID, Column: column},
			}
			t.Insert(n)
			return n
		}
	}
}
