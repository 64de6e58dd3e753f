package model

// BgaData is the TrackData specialization holding background
// animation layer switches, one lane per layer (main/miss/layer1/layer2).
type BgaData struct {
	*TrackData
}

// BGA layers.
const (
	BgaLayerMain = iota
	BgaLayerMiss
	BgaLayer1
	BgaLayer2
)

// NewBgaData creates an empty BgaData.
func NewBgaData() *BgaData {
	return &BgaData{TrackData: NewTrackData(DatatypeBga)}
}

// Add inserts a BGA reference into the given layer.
func (bg *BgaData) Add(layer int, pos Position, channelID int) *NoteElement {
	n := &NoteElement{
		Position: pos,
		Kind:     DatatypeBga,
		Bga:      &BgaRefData{ChannelID: channelID},
	}
	bg.Track(layer).Insert(n)
	return n
}
