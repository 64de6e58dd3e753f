package vos

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestParseNotesV2DecodesRecords(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u32le(0)) // cnt_inst
	buf.Write(u32le(0)) // cnt_chart

	// Channel 0 gets one note, channels 1-6 get none.
	buf.Write(u32le(1))
	rec := make([]byte, noteRecordSizeV2)
	rec[0] = 0xFF                                 // dummy
	binary.LittleEndian.PutUint32(rec[1:5], 1500) // time
	rec[5] = 60                                   // pitch
	rec[7] = 100                                  // volume
	rec[8] = 1                                    // playable
	rec[9] = 1                                    // soundable
	rec[10] = 1                                    // longnote
	binary.LittleEndian.PutUint32(rec[11:15], 250) // duration
	buf.Write(rec)
	for ch := 1; ch < 7; ch++ {
		buf.Write(u32le(0))
	}

	c := newCursor(buf.Bytes())
	notes := parseNotesV2(c)
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	n := notes[0]
	if n.channel != 0 || n.timeMs != 1500 || n.pitch != 60 || !n.longNote || n.durationMs != 250 {
		t.Errorf("unexpected note: %+v", n)
	}
}

func TestParseNotesV3StopsAtZeroCount(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u32le(0)) // midiinstrument
	buf.Write(u16le(1)) // count
	buf.Write(make([]byte, 2))
	buf.Write(make([]byte, 16)) // group header

	rec := make([]byte, noteRecordSizeV3)
	binary.LittleEndian.PutUint32(rec[0:4], 2000) // time
	binary.LittleEndian.PutUint16(rec[4:6], 300)  // duration
	rec[9] = 64                                   // pitch
	rec[10] = 90                                  // volume
	rec[11] = 3                                   // channel
	buf.Write(rec)

	buf.Write(u32le(0)) // midiinstrument
	buf.Write(u16le(0)) // terminating zero count
	buf.Write(make([]byte, 2))

	c := newCursor(buf.Bytes())
	notes := parseNotesV3(c)
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	n := notes[0]
	if n.timeMs != 2000 || n.durationMs != 300 || n.channel != 3 {
		t.Errorf("unexpected note: %+v", n)
	}
}
