// Package midi recovers tempo information from the SMF (Standard
// MIDI File) stream embedded in a VOS container. VOS carries no beat
// grid of its own -- "All tempo change/beat/instrument information
// is contained at MIDI file" -- so every VOS note's absolute
// millisecond timestamp has to be projected onto a measure/beat
// position using whatever tempo map the MIDI stream supplies. This is
// explicitly not a sound-rendering sequencer: only tempo meta events
// and note-on timestamps are read.
package midi

import (
	"bytes"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// NoteOn is a recovered note-on event, kept for diagnostics (e.g.
// locating the last sounding event) rather than playback.
type NoteOn struct {
	Tick    uint64
	Channel uint8
	Key     uint8
}

// tempoPoint is a tempo-map breakpoint with its tick position already
// projected to a beat count and a millisecond offset, so later lookups
// don't have to re-walk the whole event stream.
type tempoPoint struct {
	tick uint64
	beat float64
	msec float64
	bpm  float64
}

// TempoMap is the recovered tempo timeline of one VOS-embedded MIDI
// stream, in absolute-tick order.
type TempoMap struct {
	TicksPerQuarter uint16
	Notes           []NoteOn
	points          []tempoPoint
}

// Parse reads a raw SMF byte stream (starting at the "MThd" signature)
// and extracts its tempo map and note-on events.
func Parse(data []byte) (*TempoMap, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	tpq := uint16(480)
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		tpq = mt.Resolution()
	}

	type rawTempo struct {
		tick uint64
		bpm  float64
	}
	var rawTempos []rawTempo
	var notes []NoteOn

	for _, track := range s.Tracks {
		var tick uint64
		for _, ev := range track {
			tick += uint64(ev.Delta)
			msg := ev.Message

			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				micros := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if micros > 0 {
					rawTempos = append(rawTempos, rawTempo{tick: tick, bpm: 60000000.0 / float64(micros)})
				}
				continue
			}
			if len(msg) >= 3 {
				status := msg[0]
				if status >= 0x90 && status <= 0x9F && msg[2] > 0 {
					notes = append(notes, NoteOn{Tick: tick, Channel: status & 0x0F, Key: msg[1]})
				}
			}
		}
	}

	sort.Slice(rawTempos, func(i, j int) bool { return rawTempos[i].tick < rawTempos[j].tick })
	sort.Slice(notes, func(i, j int) bool { return notes[i].Tick < notes[j].Tick })

	if len(rawTempos) == 0 || rawTempos[0].tick != 0 {
		rawTempos = append([]rawTempo{{tick: 0, bpm: 120}}, rawTempos...)
	}

	m := &TempoMap{TicksPerQuarter: tpq, Notes: notes}
	var lastTick uint64
	var beat, msec float64
	bpm := rawTempos[0].bpm
	for _, rt := range rawTempos {
		if rt.tick > lastTick {
			delta := rt.tick - lastTick
			beat += float64(delta) / float64(tpq)
			msec += ticksToMs(delta, bpm, tpq)
		}
		bpm = rt.bpm
		lastTick = rt.tick
		m.points = append(m.points, tempoPoint{tick: rt.tick, beat: beat, msec: msec, bpm: bpm})
	}
	return m, nil
}

func ticksToMs(ticks uint64, bpm float64, tpq uint16) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	return float64(ticks) / float64(tpq) * (60000.0 / bpm)
}

// BeatFromMsec projects an absolute millisecond timestamp onto the
// tempo map's beat axis, walking the piecewise-constant bpm segments.
func (m *TempoMap) BeatFromMsec(ms float64) float64 {
	p := m.points[0]
	for _, next := range m.points[1:] {
		if next.msec > ms {
			break
		}
		p = next
	}
	elapsed := ms - p.msec
	quarterMs := 60000.0 / p.bpm
	return p.beat + elapsed/quarterMs
}

// MeasureFromMsec is BeatFromMsec expressed in measures, assuming the
// default 4/4 measure length (VOS carries no measure-length data).
func (m *TempoMap) MeasureFromMsec(ms float64) float64 {
	return m.BeatFromMsec(ms) / 4.0
}

// Breakpoints returns every tempo-map breakpoint as a (measure, bpm)
// pair, assuming 4/4 measures, used to replay the map into a
// model.TempoData as direct Bpm notes.
func (m *TempoMap) Breakpoints() []struct {
	Measure float64
	Bpm     float64
} {
	out := make([]struct {
		Measure float64
		Bpm     float64
	}, len(m.points))
	for i, p := range m.points {
		out[i].Measure = p.beat / 4.0
		out[i].Bpm = p.bpm
	}
	return out
}
