package vos

import (
	"strconv"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// parseMetaV2 walks a V2 header: a filename blob, a VOS track-blob
// length, up to five length-prefixed metadata frames terminated by a
// zero-length frame, 26 bytes of still-undeciphered binary meta, and
// a version-dependent pad (original_source/ChartLoaderVOS.cpp
// ParseMetaDataV2). It returns nothing; on return c is positioned
// where note data begins.
func parseMetaV2(c *cursor, md *model.MetaData) {
	fnamelen := int(c.i32())
	c.skip(fnamelen)
	c.skip(4) // VOS track file length; not needed to locate note data

	names := [4]string{"TITLE", "ARTIST", "SUBARTIST", "GENRE"}
	for i := 0; i < 5; i++ {
		n := c.u16()
		if n == 0 {
			break
		}
		body := c.take(int(n))
		if i < len(names) {
			md.SetAttribute(names[i], string(body))
			switch names[i] {
			case "TITLE":
				md.Title = string(body)
			case "ARTIST":
				md.Artist = string(body)
			case "SUBARTIST":
				md.Subartist = string(body)
			case "GENRE":
				md.Genre = string(body)
			}
		}
	}

	c.skip(26) // binary meta block; undeciphered in the source too

	magic := c.take(6)
	// take() already consumed the 6 magic bytes; the source's pad is
	// measured from before that comparison, so subtract them back out.
	if c.err == nil && string(magic) == "VOS009" {
		c.skip(1013 - 6)
	} else {
		c.skip(1017 - 6)
	}
}

// parseMetaV3 walks a V3 header: an offset table (header/inf/mid
// positions), four length-prefixed metadata frames, and a fixed
// trailer (original_source/ChartLoaderVOS.cpp ParseMetaDataV3).
func parseMetaV3(c *cursor, md *model.MetaData) {
	c.skip(4)  // headersize
	c.skip(4)  // inf static flag
	c.skip(12) // unknown
	c.skip(4)  // infpos: end of inf file pos (start of MID file)
	c.skip(4)  // mid static flag
	c.skip(12) // unknown
	c.skip(4)  // midpos
	c.skip(4)  // EOF flag
	c.skip(12) // unknown

	names := [4]string{"TITLE", "ARTIST", "CHARTMAKER", "GENRE"}
	for i := 0; i < 4; i++ {
		n := int(c.i32())
		body := c.take(n)
		md.SetAttribute(names[i], string(body))
		switch names[i] {
		case "TITLE":
			md.Title = string(body)
		case "ARTIST":
			md.Artist = string(body)
		case "CHARTMAKER":
			md.ChartMaker = string(body)
		case "GENRE":
			md.Genre = string(body)
		}
	}

	genre := c.u8()
	md.SetAttribute("genre_id", strconv.Itoa(int(genre)))
	c.skip(1) // unknown
	songLengthMs := c.i32()
	md.SetAttribute("songlength_ms", strconv.Itoa(int(songLengthMs)))
	level := c.u8()
	md.Level = int(level) + 1 // source reads raw value then increments
	c.skip(4)
	c.skip(1)
	c.skip(1018)
}
