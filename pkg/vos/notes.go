package vos

// Fixed VOS note-record sizes. The literal C++ struct field sums (16
// bytes for V2, 13 for V3, from original_source/ChartLoaderVOS.cpp's
// VOSNoteDataV2/V3) don't match the 15/14 bytes the format actually
// uses -- almost certainly compiler struct padding that can't be
// recovered without compiling the original source. The record layouts
// below are trimmed/padded to the stated sizes instead of the literal
// field list.
const (
	noteRecordSizeV2 = 15
	noteRecordSizeV3 = 14
)

type rawNoteV2 struct {
	channel    int
	timeMs     float64
	pitch      byte
	volume     byte
	playable   bool
	soundable  bool
	longNote   bool
	durationMs float64
}

type rawNoteV3 struct {
	timeMs     float64
	durationMs float64
	pitch      byte
	volume     byte
	channel    byte
}

// parseNotesV2 walks the fixed 7-channel note table that follows the
// V2 header (original_source ParseNoteDataV2): instrument/chart
// preamble fields, then per-channel record counts and fixed-size
// records.
func parseNotesV2(c *cursor) []rawNoteV2 {
	cntInst := int(c.i32())
	cntChart := int(c.i32())

	for i := 0; i < cntInst; i++ {
		c.skip(1)
		c.skip(4)
	}
	for i := 0; i < cntChart; i++ {
		c.skip(1) // playmode
		c.skip(1) // level
		n := int(c.u16())
		c.skip(n) // title
		c.skip(4) // track index
	}

	var out []rawNoteV2
	for ch := 0; ch < 7; ch++ {
		count := int(c.i32())
		for j := 0; j < count; j++ {
			rec := c.take(noteRecordSizeV2)
			if rec == nil {
				return out
			}
			out = append(out, rawNoteV2{
				channel:    ch,
				timeMs:     float64(le32(rec[1:5])),
				pitch:      rec[5],
				volume:     rec[7],
				playable:   rec[8] != 0,
				soundable:  rec[9] != 0,
				longNote:   rec[10] != 0,
				durationMs: float64(le32(rec[11:15])),
			})
		}
	}
	return out
}

// parseNotesV3 walks the variable-length block of per-instrument note
// groups that follows the V3 header, terminated by a zero-count group
// (original_source ParseNoteDataV3). The source reads the group's
// record count as a 16-bit value but advances its cursor by a full 32
// bits, silently discarding 2 bytes; that quirk is reproduced here so
// the following offsets land where the source's do.
func parseNotesV3(c *cursor) []rawNoteV3 {
	var out []rawNoteV3
	for {
		c.skip(4) // midiinstrument
		count := int(c.u16())
		c.skip(2) // discarded, matching the source's 4-byte advance for a u16 read
		if count == 0 || c.err != nil {
			break
		}
		c.skip(16) // per-group header, undeciphered in the source

		for j := 0; j < count; j++ {
			rec := c.take(noteRecordSizeV3)
			if rec == nil {
				return out
			}
			out = append(out, rawNoteV3{
				timeMs:     float64(le32(rec[0:4])),
				durationMs: float64(le16(rec[4:6])),
				pitch:      rec[9],
				volume:     rec[10],
				channel:    rec[11],
			})
		}
	}
	return out
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
