package bms

import (
	"log/slog"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// lnLaneState tracks #LNTYPE 1/2 per-lane progress across the object
// pass, which must run in ascending measure order for "previous
// value"/"currently open" semantics to mean anything.
type lnLaneState struct {
	open      bool // LNTYPE 1: a chain is currently open in this lane
	lastNote  *model.NoteElement
	prevValue int // LNTYPE 2: the last nonzero value seen in this lane (0 = none open)
}

// decoder applies the objects pass to a chart, channel by channel
// (spec §4.4 "Objects pass").
type decoder struct {
	chart *model.Chart

	// lastVisible[lane] is the most recently inserted visible tap note
	// in that flat lane, used to resolve #LNOBJ conversion (spec §4.4:
	// "value == #LNOBJ converts the previous note in that lane into a
	// charge note ending at this position").
	lastVisible map[int]*model.NoteElement

	lnState map[int]*lnLaneState
}

func newDecoder(chart *model.Chart) *decoder {
	return &decoder{
		chart:       chart,
		lastVisible: map[int]*model.NoteElement{},
		lnState:     map[int]*lnLaneState{},
	}
}

func (d *decoder) apply(obj objLine, diags *[]Diagnostic, logger *slog.Logger) {
	switch obj.channel {
	case chMeasureLength:
		length := atofSafe(obj.payload)
		if length <= 0 {
			*diags = append(*diags, Diagnostic{Message: "measure length must be positive, ignored"})
			return
		}
		d.chart.Tempo.AddMeasureLength(obj.measure, length)
		return

	case chBgm:
		values := splitPayload(obj.payload)
		l := len(values)
		for i, v := range values {
			if isZeroValue(v) {
				continue
			}
			id, ok := model.ParseChannelID(v)
			if !ok {
				continue
			}
			pos := positionAt(obj.measure, i, l)
			d.chart.Bgm.Add(pos, int(id))
		}
		return

	case chBpmDirect:
		values := splitPayload(obj.payload)
		l := len(values)
		for i, v := range values {
			if isZeroValue(v) {
				continue
			}
			bpm := hexValue(v)
			if bpm <= 0 {
				continue
			}
			pos := positionAt(obj.measure, i, l)
			d.chart.Tempo.AddBpm(pos.Measure, float64(bpm))
		}
		return

	case chBpmIndirect:
		d.applyIndirectTempo(obj, func(measure float64, id model.ChannelID) {
			d.chart.Tempo.AddBmsBpm(measure, int(id))
		})
		return

	case chStopIndirect:
		d.applyIndirectTempo(obj, func(measure float64, id model.ChannelID) {
			d.chart.Tempo.AddBmsStop(measure, int(id))
		})
		return

	case chBgaMain:
		d.applyBga(obj, model.BgaLayerMain)
		return
	case chBgaMiss:
		d.applyBga(obj, model.BgaLayerMiss)
		return
	case chBgaLayer1:
		d.applyBga(obj, model.BgaLayer1)
		return
	case chBgaLayer2:
		d.applyBga(obj, model.BgaLayer2)
		return

	case chArgbLayerMain, chArgbLayerLayer1, chArgbLayerLayer2, chArgbLayerMiss:
		values := splitPayload(obj.payload)
		l := len(values)
		for i, v := range values {
			if isZeroValue(v) {
				continue
			}
			pos := positionAt(obj.measure, i, l)
			d.chart.Event.AddAuto(pos.Measure, model.EventBmsArgbLayer, hexValue(v), v)
		}
		return
	}

	if role, player, laneWithin, ok := classifyNoteChannel(obj.channel); ok {
		d.applyNoteChannel(obj, role, player, laneWithin)
		return
	}

	// Unknown channel: preserved verbatim for diagnostics (spec §4.4
	// "Unknown channels are routed to a catch-all BmsText event track").
	d.chart.Event.Add(model.EventLaneBmsMisc, float64(obj.measure), model.EventBmsText, 0, obj.channel+":"+obj.payload)
}

func (d *decoder) applyIndirectTempo(obj objLine, add func(measure float64, id model.ChannelID)) {
	values := splitPayload(obj.payload)
	l := len(values)
	for i, v := range values {
		if isZeroValue(v) {
			continue
		}
		id, ok := model.ParseChannelID(v)
		if !ok {
			continue
		}
		pos := positionAt(obj.measure, i, l)
		add(pos.Measure, id)
	}
}

func (d *decoder) applyBga(obj objLine, layer int) {
	values := splitPayload(obj.payload)
	l := len(values)
	for i, v := range values {
		if isZeroValue(v) {
			continue
		}
		id, ok := model.ParseChannelID(v)
		if !ok {
			continue
		}
		pos := positionAt(obj.measure, i, l)
		d.chart.Bga.Add(layer, pos, int(id))
	}
}

func (d *decoder) applyNoteChannel(obj objLine, role noteChannelRole, player, laneWithin int) {
	lane := flatLane(player, laneWithin)
	values := splitPayload(obj.payload)
	l := len(values)

	for i, v := range values {
		if isZeroValue(v) {
			continue
		}
		id, ok := model.ParseChannelID(v)
		if !ok {
			continue
		}
		pos := positionAt(obj.measure, i, l)

		switch role {
		case roleVisible:
			d.applyVisible(pos, lane, player, laneWithin, id)
		case roleInvisible:
			tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: false, Visible: false, Value: int(id)}
			d.chart.Notes.AddTap(lane, pos, model.ChainNone, tap)
		case roleLongNote:
			d.applyLongNote(pos, lane, player, laneWithin, id)
		case roleMine:
			tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: false, Visible: true, Value: int(id), Sound: model.SoundProperty{Type: "mine"}}
			d.chart.Notes.AddTap(lane, pos, model.ChainNone, tap)
		}
	}
}

func (d *decoder) applyVisible(pos model.Position, lane, player, laneWithin int, id model.ChannelID) {
	if d.chart.Meta.LNObj >= 0 && int(id) == d.chart.Meta.LNObj {
		prev := d.lastVisible[lane]
		if prev != nil {
			prev.ChainStatus = model.ChainStart
		}
		tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: false, Visible: true, Value: int(id)}
		d.chart.Notes.AddTap(lane, pos, model.ChainEnd, tap)
		return
	}

	tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: true, Visible: true, Value: int(id)}
	n := d.chart.Notes.AddTap(lane, pos, model.ChainNone, tap)
	d.lastVisible[lane] = n
}

func (d *decoder) applyLongNote(pos model.Position, lane, player, laneWithin int, id model.ChannelID) {
	st := d.lnState[lane]
	if st == nil {
		st = &lnLaneState{}
		d.lnState[lane] = st
	}

	if d.chart.Meta.LNType == 2 {
		tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: true, Visible: true, Value: int(id)}
		if st.prevValue == 0 {
			n := d.chart.Notes.AddTap(lane, pos, model.ChainStart, tap)
			st.prevValue = int(id)
			st.lastNote = n
		} else {
			d.chart.Notes.AddTap(lane, pos, model.ChainEnd, tap)
			st.prevValue = 0
			st.lastNote = nil
		}
		return
	}

	// LNTYPE 1: each occurrence toggles start/end.
	tap := model.TapData{Player: player, Lane: laneWithin, Scoreable: true, Visible: true, Value: int(id)}
	if !st.open {
		d.chart.Notes.AddTap(lane, pos, model.ChainStart, tap)
		st.open = true
	} else {
		d.chart.Notes.AddTap(lane, pos, model.ChainEnd, tap)
		st.open = false
	}
}

func positionAt(measure, i, l int) model.Position {
	if l <= 0 {
		l = 1
	}
	return model.Position{
		Measure: float64(measure) + float64(i)/float64(l),
		RowPos:  model.NewRational(i, l),
	}
}

// hexValue parses a 2-char hex byte (used by channel 03 direct BPM,
// spec §4.4: "decimal 0-255 hex").
func hexValue(v string) int {
	n := 0
	for i := 0; i < len(v); i++ {
		c := v[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		default:
			return 0
		}
		n = n*16 + d
	}
	return n
}
