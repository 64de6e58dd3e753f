package model

import "github.com/rhythmus-emulator/rparser-sub000/pkg/encoding"

// SetUTF8Encoding re-transcodes every text field and every channel
// filename from an auto-detected source encoding to UTF-8 (spec §4.2).
// It never fails: fields that cannot be confidently transcoded are
// left as-is (spec §7 EncodingFailure).
func (m *MetaData) SetUTF8Encoding() {
	fields := []*string{
		&m.Title, &m.Subtitle, &m.Artist, &m.Subartist, &m.Genre,
		&m.ChartMaker, &m.Preview, &m.Banner, &m.Eyecatch, &m.Music, &m.Lyrics,
	}
	for _, f := range fields {
		if *f == "" {
			continue
		}
		if decoded, enc := encoding.DetectAndDecode([]byte(*f)); enc != encoding.Unchanged {
			*f = decoded
		}
	}

	if m.soundChannel != nil {
		for _, e := range m.soundChannel.entries {
			if e.Filename == "" {
				continue
			}
			if decoded, enc := encoding.DetectAndDecode([]byte(e.Filename)); enc != encoding.Unchanged {
				e.Filename = decoded
			}
		}
	}
	if m.bgaChannel != nil {
		for _, e := range m.bgaChannel.entries {
			if e.Filename == "" {
				continue
			}
			if decoded, enc := encoding.DetectAndDecode([]byte(e.Filename)); enc != encoding.Unchanged {
				e.Filename = decoded
			}
		}
	}
}
