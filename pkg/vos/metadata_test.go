package vos

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func TestParseMetaV2ReadsFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u32le(4))       // filename length
	buf.WriteString("abcd")   // filename
	buf.Write(u32le(0))       // vos track blob length
	buf.Write(u16le(5))       // TITLE frame
	buf.WriteString("Hello")
	buf.Write(u16le(6)) // ARTIST frame
	buf.WriteString("World!")
	buf.Write(u16le(0))          // terminator frame
	buf.Write(make([]byte, 26)) // binary meta block
	buf.WriteString("ABCDEF")   // not the VOS009 magic

	md := model.NewMetaData()
	c := newCursor(buf.Bytes())
	parseMetaV2(c, md)

	if md.Title != "Hello" {
		t.Errorf("Title = %q, want Hello", md.Title)
	}
	if md.Artist != "World!" {
		t.Errorf("Artist = %q, want World!", md.Artist)
	}
}

func TestParseMetaV3ReadsFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 4+4+12+4+4+12+4+4+12)) // offset table + padding, values unused by the parser

	names := []string{"Song Title", "Artist Name", "Chart Author", "Pop"}
	for _, n := range names {
		buf.Write(u32le(uint32(len(n))))
		buf.WriteString(n)
	}
	buf.WriteByte(3)            // genre id
	buf.WriteByte(0)            // unknown
	buf.Write(u32le(180000))    // song length ms
	buf.WriteByte(10)           // level (stored as +1)
	buf.Write(make([]byte, 4))
	buf.WriteByte(0)

	md := model.NewMetaData()
	c := newCursor(buf.Bytes())
	parseMetaV3(c, md)

	if md.Title != "Song Title" {
		t.Errorf("Title = %q, want %q", md.Title, "Song Title")
	}
	if md.ChartMaker != "Chart Author" {
		t.Errorf("ChartMaker = %q, want %q", md.ChartMaker, "Chart Author")
	}
	if md.Level != 11 {
		t.Errorf("Level = %d, want 11", md.Level)
	}
}
