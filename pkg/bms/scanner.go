package bms

import "strings"

// lineKind classifies one physical line of BMS source.
type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineControl
	lineHeader
	lineObject
)

// rawLine is one scanned physical line plus its classification and
// (for header/object lines) its decomposed fields.
type rawLine struct {
	Kind lineKind
	Text string // original text, trimmed of trailing CR

	Command string // header/control command, uppercased, without '#'
	Arg     string // header argument / control argument, as written

	Measure int    // object line: 3-digit measure index
	Channel string // object line: 2-char channel id, as written
	Payload string // object line: everything after ':'
}

// Scanner walks a BMS source byte-for-byte, character at a time,
// yielding one rawLine per newline-terminated (or EOF-terminated)
// span.
type Scanner struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

// NewScanner creates a Scanner over already-UTF8-decoded source text.
func NewScanner(input string) *Scanner {
	s := &Scanner{input: input}
	s.readChar()
	return s
}

func (s *Scanner) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = 0
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition++
}

// NextLine returns the next scanned and classified line, or ok=false
// at end of input.
func (s *Scanner) NextLine() (rawLine, bool) {
	if s.ch == 0 {
		return rawLine{}, false
	}

	start := s.position
	for s.ch != '\n' && s.ch != 0 {
		s.readChar()
	}
	end := s.position
	if end > start && s.input[end-1] == '\r' {
		end--
	}
	if s.ch == '\n' {
		s.readChar()
	}

	return classifyLine(s.input[start:end]), true
}

func classifyLine(text string) rawLine {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return rawLine{Kind: lineBlank, Text: text}
	}
	if trimmed[0] == ';' || strings.HasPrefix(trimmed, "//") {
		return rawLine{Kind: lineComment, Text: text}
	}
	if trimmed[0] != '#' {
		return rawLine{Kind: lineComment, Text: text}
	}

	body := trimmed[1:]

	// Object line: 3 digits + 2 channel chars + ':' with no intervening
	// whitespace before the colon.
	if len(body) >= 6 && isDigits(body[0:3]) && body[5] == ':' {
		return rawLine{
			Kind:    lineObject,
			Text:    text,
			Measure: atoi(body[0:3]),
			Channel: strings.ToUpper(body[3:5]),
			Payload: strings.TrimSpace(body[6:]),
		}
	}

	cmd, arg := splitCommand(body)
	upper := strings.ToUpper(cmd)
	if isControlCommand(upper) {
		return rawLine{Kind: lineControl, Text: text, Command: upper, Arg: arg}
	}
	return rawLine{Kind: lineHeader, Text: text, Command: upper, Arg: arg}
}

func splitCommand(body string) (cmd, arg string) {
	i := 0
	for i < len(body) && body[i] != ' ' && body[i] != '\t' && body[i] != ':' {
		i++
	}
	cmd = body[:i]
	arg = strings.TrimSpace(body[i:])
	return cmd, arg
}

func isControlCommand(upper string) bool {
	switch upper {
	case "IF", "ELSEIF", "ELSE", "ENDIF",
		"RANDOM", "SETRANDOM", "ENDRANDOM",
		"SWITCH", "SETSWITCH", "CASE", "SKIP", "DEF", "ENDSW":
		return true
	default:
		return false
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
