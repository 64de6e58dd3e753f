package model

import (
	"fmt"
	"strings"
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ChannelID is a validated 2-digit base-36 channel selector, the
// identifier BMS uses for #WAVxx/#BMPxx/#BPMxx/#STOPxx and for object
// line payload values (spec §3 MetaData, §4.4 BMS loader, §GLOSSARY
// "Channel (BMS)").
type ChannelID int

// MaxChannelID is the highest representable 2-digit base-36 value
// (ZZ), inclusive.
const MaxChannelID = 36*36 - 1

// ParseChannelID parses a 2-character base-36 channel id,
// case-insensitively. It never errors on malformed input per §7
// PayloadMalformed: unparseable ids decode to (0, false).
func ParseChannelID(s string) (ChannelID, bool) {
	if len(s) != 2 {
		return 0, false
	}
	s = strings.ToUpper(s)
	hi := strings.IndexByte(base36Digits, s[0])
	lo := strings.IndexByte(base36Digits, s[1])
	if hi < 0 || lo < 0 {
		return 0, false
	}
	return ChannelID(hi*36 + lo), true
}

// String renders the channel id back to its 2-character base-36 form.
func (c ChannelID) String() string {
	if c < 0 || int(c) > MaxChannelID {
		return "??"
	}
	return fmt.Sprintf("%c%c", base36Digits[c/36], base36Digits[c%36])
}

// MidiProgramChange is one ordered program-change event attached to a
// SoundChannel entry (spec §3 SoundChannel "programs: ordered MIDI
// program changes").
type MidiProgramChange struct {
	TimeOffsetMs float64
	Program      int
}

// SoundEntry is one #WAVxx mapping: a filename plus any MIDI program
// changes associated with that keysound channel.
type SoundEntry struct {
	Filename string
	Programs []MidiProgramChange
}

// Rect is an integer source/destination rectangle for a BGA layer
// frame. Plain ints (rather than an image-decoding library type) are
// enough: this package never decodes pixels, only records where a
// frame should be cropped from/drawn to (spec §1 Scope: "the audio
// decoder... is an external collaborator").
type Rect struct {
	X, Y, W, H int
}

// BgaHeader is one #BMPxx mapping.
type BgaHeader struct {
	Filename string
	SrcRect  Rect
	DstRect  Rect
}

// SoundChannel maps a 2-digit channel id to its keysound entry.
type SoundChannel struct {
	entries map[ChannelID]*SoundEntry
}

func newSoundChannel() *SoundChannel {
	return &SoundChannel{entries: map[ChannelID]*SoundEntry{}}
}

// Get returns the entry for id, auto-creating an empty one if absent
// (spec §4.2: "Channel getters return a non-null handle always").
func (c *SoundChannel) Get(id ChannelID) *SoundEntry {
	e, ok := c.entries[id]
	if !ok {
		e = &SoundEntry{}
		c.entries[id] = e
	}
	return e
}

// Set records filename for id.
func (c *SoundChannel) Set(id ChannelID, filename string) {
	c.Get(id).Filename = filename
}

// IDs returns every channel id that has been set or accessed, in
// ascending order.
func (c *SoundChannel) IDs() []ChannelID { return sortedIDs(c.entries) }

// BgaChannel maps a 2-digit channel id to its BGA header.
type BgaChannel struct {
	entries map[ChannelID]*BgaHeader
}

func newBgaChannel() *BgaChannel {
	return &BgaChannel{entries: map[ChannelID]*BgaHeader{}}
}

// Get returns the header for id, auto-creating an empty one if absent.
func (c *BgaChannel) Get(id ChannelID) *BgaHeader {
	e, ok := c.entries[id]
	if !ok {
		e = &BgaHeader{}
		c.entries[id] = e
	}
	return e
}

// Set records filename for id.
func (c *BgaChannel) Set(id ChannelID, filename string) {
	c.Get(id).Filename = filename
}

// IDs returns every channel id that has been set or accessed, in
// ascending order.
func (c *BgaChannel) IDs() []ChannelID { return sortedIDs(c.entries) }

// BmsBpmChannel maps a 2-digit channel id (from #BPMxx/#EXBPM) to a
// BPM value, for indirect BmsBpm timing notes to resolve against.
type BmsBpmChannel struct {
	values map[ChannelID]float64
}

func newBmsBpmChannel() *BmsBpmChannel {
	return &BmsBpmChannel{values: map[ChannelID]float64{}}
}

// Get returns (value, true) if id has been set, else (0, false) — the
// ReferenceMissing case from §7 is the caller's responsibility to warn
// on, not this accessor's.
func (c *BmsBpmChannel) Get(id ChannelID) (float64, bool) {
	v, ok := c.values[id]
	return v, ok
}

// Set records bpm for id.
func (c *BmsBpmChannel) Set(id ChannelID, bpm float64) { c.values[id] = bpm }

// BmsStopChannel maps a 2-digit channel id (from #STOPxx) to a stop
// duration in ticks, where 192 ticks equals one default measure (4
// beats), per spec §3.
type BmsStopChannel struct {
	ticks map[ChannelID]float64
}

func newBmsStopChannel() *BmsStopChannel {
	return &BmsStopChannel{ticks: map[ChannelID]float64{}}
}

// Get returns (ticks, true) if id has been set, else (0, false).
func (c *BmsStopChannel) Get(id ChannelID) (float64, bool) {
	v, ok := c.ticks[id]
	return v, ok
}

// Set records the stop duration in ticks for id.
func (c *BmsStopChannel) Set(id ChannelID, ticks float64) { c.ticks[id] = ticks }

// IDs returns every channel id that has been set, in ascending order.
func (c *BmsBpmChannel) IDs() []ChannelID { return sortedFloatKeys(c.values) }

// IDs returns every channel id that has been set, in ascending order.
func (c *BmsStopChannel) IDs() []ChannelID { return sortedFloatKeys(c.ticks) }

func sortedFloatKeys(m map[ChannelID]float64) []ChannelID {
	ids := make([]ChannelID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func sortedIDs[V any](m map[ChannelID]V) []ChannelID {
	ids := make([]ChannelID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
