package model

// TrackDatatype discriminates what kind of NoteElement a Track holds.
// It is the Track-level tag referenced throughout spec §3/§4.1.
type TrackDatatype int

const (
	DatatypeNote TrackDatatype = iota
	DatatypeBgm
	DatatypeBga
	DatatypeTempo
	DatatypeEvent
)

func (d TrackDatatype) String() string {
	switch d {
	case DatatypeNote:
		return "Note"
	case DatatypeBgm:
		return "Bgm"
	case DatatypeBga:
		return "Bga"
	case DatatypeTempo:
		return "Tempo"
	case DatatypeEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

// ChainStatus marks a NoteElement's role within a longnote/charge
// chain. A non-LN tap note carries ChainNone.
type ChainStatus int

const (
	ChainNone ChainStatus = iota
	ChainTap
	ChainStart
	ChainBody
	ChainEnd
)

// TempoSubtype enumerates TempoData (a.k.a. TimingData) note subtypes.
type TempoSubtype int

const (
	TempoMeasure TempoSubtype = iota
	TempoScroll
	TempoBpm
	TempoStop
	TempoWarp
	TempoTick
	TempoBmsBpm
	TempoBmsStop
	TempoDelay
)

// EventSubtype enumerates EventData note subtypes.
type EventSubtype int

const (
	EventBgaMain EventSubtype = iota
	EventBgaMiss
	EventBgaLayer1
	EventBgaLayer2
	EventBgm
	EventMidi
	EventBmsKeyBind
	EventBmsEXTCHR
	EventBmsText
	EventBmsBmsOption
	EventBmsArgbLayer
)

// Point3 is the (x, y, z) touch/column hint carried by every
// NoteElement (spec §3 NoteElement).
type Point3 struct {
	X, Y, Z float64
}

// SoundProperty is the one currently-defined property-union variant:
// a keysound reference.
type SoundProperty struct {
	Type   string // mime/format hint, e.g. "wav", "ogg"
	Length float64
	Key    int
	Volume float64
}

// TapData is the Note-track variant payload.
type TapData struct {
	Player    int // 0 or 1
	Lane      int // lane within player
	Scoreable bool
	Visible   bool // false for keysound-only ("invisible") notes
	Value     int  // raw decoded channel value (e.g. base-36 key id)
	Sound     SoundProperty
}

// BgmRefData is the Bgm-track variant payload: an autoplayed keysound
// reference into MetaData's SoundChannel.
type BgmRefData struct {
	ChannelID int
	Column    int // which simultaneous BGM column/line this occupies
}

// BgaRefData is the Bga-track variant payload: a reference into
// MetaData's BgaChannel.
type BgaRefData struct {
	ChannelID int
}

// TempoPayload is the Tempo-track variant payload. Only the field(s)
// relevant to Subtype are meaningful.
type TempoPayload struct {
	Subtype     TempoSubtype
	FloatValue  float64 // Bpm value, Stop ms, Scroll multiplier, Measure length
	IntValue    int     // BmsBpm/BmsStop channel id, Tick value
	WarpBeats   float64
}

// EventPayload is the Event-track variant payload.
type EventPayload struct {
	Subtype  EventSubtype
	IntValue int
	Text     string
}

// NoteElement is a single tagged object living in exactly one Track.
// Per spec §9 Design Note it is modeled as a tagged variant: exactly
// one of Tap/Bgm/Bga/Tempo/Event is populated, selected by Kind
// (which always matches the owning Track's Datatype).
type NoteElement struct {
	Position
	Kind        TrackDatatype
	ChainStatus ChainStatus
	Point       Point3

	Tap   *TapData
	Bgm   *BgmRefData
	Bga   *BgaRefData
	Tempo *TempoPayload
	Event *EventPayload
}

// Clone returns a deep copy of n.
func (n *NoteElement) Clone() *NoteElement {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Tap != nil {
		tap := *n.Tap
		cp.Tap = &tap
	}
	if n.Bgm != nil {
		bgm := *n.Bgm
		cp.Bgm = &bgm
	}
	if n.Bga != nil {
		bga := *n.Bga
		cp.Bga = &bga
	}
	if n.Tempo != nil {
		t := *n.Tempo
		cp.Tempo = &t
	}
	if n.Event != nil {
		e := *n.Event
		cp.Event = &e
	}
	return &cp
}

// IsHold reports whether n participates in a longnote/charge chain.
func (n *NoteElement) IsHold() bool {
	return n.ChainStatus == ChainStart || n.ChainStatus == ChainBody || n.ChainStatus == ChainEnd
}

// ShiftMeasure returns a copy of n with Measure (and RowPos's implied
// position) shifted by delta measures. Used by Chart.Merge and by
// Track.Shift.
func (n *NoteElement) ShiftMeasure(delta float64) *NoteElement {
	cp := n.Clone()
	cp.Measure += delta
	return cp
}
