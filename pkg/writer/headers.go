package writer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// writeHeaders emits the metadata pass: one "#COMMAND value" line per
// populated MetaData field, followed by the #WAVxx/#BMPxx/#BPMxx/
// #STOPxx indirect-channel tables, mirroring pkg/bms's applyHeader in
// reverse (spec §4.6 "two phases (metadata, then object lines)").
func writeHeaders(b *strings.Builder, meta *model.MetaData, bpmAlloc, stopAlloc *idAllocator) {
	line := func(cmd, val string) {
		if val == "" {
			return
		}
		fmt.Fprintf(b, "#%s %s\n", cmd, val)
	}

	line("TITLE", meta.Title)
	line("SUBTITLE", meta.Subtitle)
	line("ARTIST", meta.Artist)
	line("SUBARTIST", meta.Subartist)
	line("GENRE", meta.Genre)
	line("MAKER", meta.ChartMaker)
	if meta.PlayerCount > 0 {
		line("PLAYER", strconv.Itoa(meta.PlayerCount))
	}
	if meta.Level > 0 {
		line("PLAYLEVEL", strconv.Itoa(meta.Level))
	}
	if meta.Difficulty > 0 {
		line("DIFFICULTY", strconv.Itoa(meta.Difficulty))
	}
	if judge, ok := meta.Attribute("judge"); ok {
		line("RANK", strconv.Itoa(rankFrom100(atoiSafe(judge))))
	}
	if meta.GaugeTotal > 0 {
		line("TOTAL", formatFloat(meta.GaugeTotal))
	}
	line("BANNER", meta.Banner)
	if v, ok := meta.Attribute("backbmp"); ok {
		line("BACKBMP", v)
	}
	line("STAGEFILE", meta.Eyecatch)
	if meta.Bpm > 0 {
		line("BPM", formatFloat(meta.Bpm))
	}
	if meta.LNType > 0 {
		line("LNTYPE", strconv.Itoa(meta.LNType))
	}
	if meta.LNObj >= 0 {
		line("LNOBJ", model.ChannelID(meta.LNObj).String())
	}
	line("MUSIC", meta.Music)
	line("PREVIEW", meta.Preview)
	if v, ok := meta.Attribute("offset"); ok {
		line("OFFSET", v)
	}

	for _, id := range meta.SoundChannel().IDs() {
		if e := meta.SoundChannel().Get(id); e.Filename != "" {
			line("WAV"+id.String(), e.Filename)
		}
	}
	for _, id := range meta.BgaChannel().IDs() {
		if e := meta.BgaChannel().Get(id); e.Filename != "" {
			line("BMP"+id.String(), e.Filename)
		}
	}
	for _, id := range bpmAlloc.ids() {
		if v, ok := bpmAlloc.value(id); ok {
			line("BPM"+id.String(), formatFloat(v))
		}
	}
	for _, id := range stopAlloc.ids() {
		if v, ok := stopAlloc.value(id); ok {
			line("STOP"+id.String(), formatFloat(v))
		}
	}

	b.WriteByte('\n')
}

// rankFrom100 inverts pkg/bms's rankTo100 display-scale conversion.
func rankFrom100(v int) int {
	switch {
	case v <= 20:
		return 0
	case v <= 40:
		return 1
	case v <= 60:
		return 2
	default:
		return 3
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// formatFloat renders a float the way BMS charts conventionally carry
// them: no trailing zeros, no exponent notation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// idAllocator hands out BMS channel ids for indirect-table values
// (BPM or STOP, one allocator each) referenced by a chart's Tempo
// notes. TempoBmsBpm/TempoBmsStop notes already carry their original
// MetaData-table channel id; TempoBpm/TempoStop notes have none, since
// they have no entry in model.BmsBpmChannel/BmsStopChannel at all —
// see DESIGN.md. The allocator keeps its own local table
// instead, so writing a chart never mutates the chart's MetaData as a
// side effect.
type idAllocator struct {
	values map[model.ChannelID]float64
	rev    map[float64]model.ChannelID
	next   model.ChannelID
}

func newIDAllocator(start model.ChannelID) *idAllocator {
	return &idAllocator{
		values: map[model.ChannelID]float64{},
		rev:    map[float64]model.ChannelID{},
		next:   start,
	}
}

// bpmID and stopID are the same operation under different names so
// call sites in bms.go read as what they mean.
func (a *idAllocator) bpmID(value float64) model.ChannelID  { return a.id(value) }
func (a *idAllocator) stopID(value float64) model.ChannelID { return a.id(value) }

func (a *idAllocator) id(value float64) model.ChannelID {
	if id, ok := a.rev[value]; ok {
		return id
	}
	id := a.next
	if id > model.MaxChannelID {
		id = model.MaxChannelID
	} else {
		a.next++
	}
	a.values[id] = value
	a.rev[value] = id
	return id
}

func (a *idAllocator) value(id model.ChannelID) (float64, bool) {
	v, ok := a.values[id]
	return v, ok
}

func (a *idAllocator) ids() []model.ChannelID {
	ids := make([]model.ChannelID, 0, len(a.values))
	for id := range a.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
