// Package encoding auto-detects and transcodes the handful of legacy
// encodings rhythm-game chart authors actually use (Shift_JIS for BMS,
// EUC-KR for PMS) into UTF-8.
//
// A short, ordered candidate list of decoders is tried and the first
// strategy that produces valid UTF-8 wins; if none do, each byte is
// passed through as one Latin-1 code point rather than failing the load.
package encoding

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding names a detected source encoding.
type Encoding string

const (
	UTF8      Encoding = "utf-8"
	ShiftJIS  Encoding = "shift_jis"
	EUCKR     Encoding = "euc-kr"
	Unchanged Encoding = "unchanged" // detection failed; bytes passed through as Latin-1
)

// candidates is the deterministic fallback order spec §4.2 requires:
// "Shift_JIS/EUC-KR candidate -> UTF-8 with a deterministic fallback
// order". UTF-8 validity is checked first (the common case once a
// chart has already been transcoded once) before either legacy
// encoding is attempted.
var candidates = []struct {
	name Encoding
	dec  encoding.Encoding
}{
	{ShiftJIS, japanese.ShiftJIS},
	{EUCKR, korean.EUCKR},
}

// DetectAndDecode converts raw into a UTF-8 string, returning which
// encoding was used. It never errors: if no candidate decodes cleanly,
// raw is passed through byte-for-byte (each byte treated as one
// Latin-1 codepoint) and Unchanged is returned.
func DetectAndDecode(raw []byte) (string, Encoding) {
	if utf8.Valid(raw) {
		return string(raw), UTF8
	}
	for _, c := range candidates {
		if s, ok := tryDecode(raw, c.dec); ok {
			return s, c.name
		}
	}
	return latin1Passthrough(raw), Unchanged
}

func tryDecode(raw []byte, dec encoding.Encoding) (string, bool) {
	reader := transform.NewReader(strings.NewReader(string(raw)), dec.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil || len(out) == 0 && len(raw) != 0 {
		return "", false
	}
	if !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}

func latin1Passthrough(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}
