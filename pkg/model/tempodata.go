package model

// TempoData (a.k.a. TimingData) is the TrackData specialization
// holding timing-modifying notes: Measure, Scroll, Bpm, Stop, Warp,
// Tick, BmsBpm, BmsStop (spec §3).
//
// By convention TempoData uses a single lane (lane 0): timing notes
// are not addressed by a playable column, only by Measure and
// Subtype. Using the shared TrackData/Track machinery (rather than a
// bespoke list) keeps insertion ordering and the all-track iterator's
// tie-break rules uniform across every specialized track type.
type TempoData struct {
	*TrackData
}

const tempoLane = 0

// NewTempoData creates an empty TempoData. Its single lane is
// duplicable: multiple timing notes may legitimately share a Measure
// (e.g. a Bpm and a Stop at the same position).
func NewTempoData() *TempoData {
	td := NewTrackData(DatatypeTempo)
	td.tracks[tempoLane] = NewTrack("Tempo", DatatypeTempo, true)
	return &TempoData{TrackData: td}
}

func (td *TempoData) insert(measure float64, payload TempoPayload) *NoteElement {
	n := &NoteElement{
		Position: Position{Measure: measure},
		Kind:     DatatypeTempo,
		Tempo:    &payload,
	}
	td.Track(tempoLane).Insert(n)
	return n
}

// AddBpm inserts a direct Bpm-change note.
func (td *TempoData) AddBpm(measure, bpm float64) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoBpm, FloatValue: bpm})
}

// AddBmsBpm inserts an indirect Bpm-change note resolved via
// MetaData.BmsBpmChannel[channelID].
func (td *TempoData) AddBmsBpm(measure float64, channelID int) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoBmsBpm, IntValue: channelID})
}

// AddStop inserts a direct Stop note (milliseconds).
func (td *TempoData) AddStop(measure, ms float64) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoStop, FloatValue: ms})
}

// AddBmsStop inserts an indirect Stop note resolved via
// MetaData.BmsStopChannel[channelID].
func (td *TempoData) AddBmsStop(measure float64, channelID int) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoBmsStop, IntValue: channelID})
}

// AddDelay inserts a direct Delay note (milliseconds), distinct from
// Stop in that a delay postpones subsequent notes without itself
// occupying a scorable instant (spec §4.3 "Stop versus Delay").
func (td *TempoData) AddDelay(measure, ms float64) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoDelay, FloatValue: ms})
}

// AddMeasureLength inserts a measure-length-change note. lengthFraction
// is expressed as a fraction of DefaultMeasureLength (spec §3: "2.00"
// in BMS channel 02 means this measure is twice the default length).
func (td *TempoData) AddMeasureLength(measure int, lengthFraction float64) *NoteElement {
	return td.insert(float64(measure), TempoPayload{Subtype: TempoMeasure, FloatValue: lengthFraction})
}

// AddWarp inserts a Warp note; negative values are coerced positive by
// the timing engine at Invalidate time (spec §7 OutOfRange).
func (td *TempoData) AddWarp(measure, beats float64) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoWarp, WarpBeats: beats})
}

// AddScroll inserts a Scroll-speed-change note.
func (td *TempoData) AddScroll(measure, speed float64) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoScroll, FloatValue: speed})
}

// AddTick inserts a Tick note.
func (td *TempoData) AddTick(measure float64, tick int) *NoteElement {
	return td.insert(measure, TempoPayload{Subtype: TempoTick, IntValue: tick})
}

// HasBpmChange reports whether more than one distinct Bpm value is
// established across the track (direct Bpm notes only — BmsBpm
// requires channel resolution and is counted by the timing engine).
func (td *TempoData) HasBpmChange() bool {
	seen := map[float64]bool{}
	for _, n := range td.Track(tempoLane).All() {
		if n.Tempo != nil && n.Tempo.Subtype == TempoBpm {
			seen[n.Tempo.FloatValue] = true
			if len(seen) > 1 {
				return true
			}
		}
	}
	return false
}

// HasStop reports whether any Stop or BmsStop note exists.
func (td *TempoData) HasStop() bool {
	for _, n := range td.Track(tempoLane).All() {
		if n.Tempo != nil && (n.Tempo.Subtype == TempoStop || n.Tempo.Subtype == TempoBmsStop) {
			return true
		}
	}
	return false
}

// HasWarp reports whether any Warp note exists.
func (td *TempoData) HasWarp() bool {
	for _, n := range td.Track(tempoLane).All() {
		if n.Tempo != nil && n.Tempo.Subtype == TempoWarp {
			return true
		}
	}
	return false
}
