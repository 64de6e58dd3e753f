// Package bms implements the BMS/BME/BML/PMS chart loader: a nested
// conditional preprocessor, a line scanner and a channel decoder that
// together emit a normalized *model.Chart (spec §4.4).
package bms

import (
	"math/rand"
	"strings"
)

// frameKind discriminates the two condition-frame shapes the
// preprocessor's stack can hold.
type frameKind int

const (
	frameIf frameKind = iota
	frameSwitch
)

// frame is one entry of the preprocessor's condition stack.
type frame struct {
	kind frameKind

	// If-frame fields.
	condIdx   int // number of branches seen so far
	activeCnt int // how many branches have activated
	active    bool

	// Switch-frame fields.
	value int // the value #SWITCH/#SETSWITCH established for this frame
	stat  int // -1 skipped, 0 idle, >=1 active
}

func (f frame) isActive() bool {
	if f.kind == frameSwitch {
		return f.stat >= 1
	}
	return f.active
}

// Preprocessor evaluates #IF/#ELSEIF/#ELSE/#ENDIF, #RANDOM/#SETRANDOM/
// #ENDRANDOM and #SWITCH/#SETSWITCH/#CASE/#SKIP/#DEF/#ENDSW directives
// over a line stream and reports which lines survive (spec §4.4
// Preprocessor). Conditional directive lines are never themselves kept.
type Preprocessor struct {
	rng *rand.Rand

	conditions []frame // the If/Switch stack
	randoms    []int   // active-value stack pushed by #RANDOM/#SWITCH nesting
	active     int     // the #RANDOM-resolved value currently in scope

	// Script accumulates the verbatim text of every control line seen,
	// regardless of whether it was kept, for MetaData.Script (spec
	// §4.4 "the original raw text of condition branches is preserved").
	Script strings.Builder
}

// NewPreprocessor creates a Preprocessor whose PRNG is seeded with seed
// exactly as given; Preprocessor never inspects the clock. Load passes
// the seed set with WithSeed, or 0 when none was set.
func NewPreprocessor(seed int64) *Preprocessor {
	return &Preprocessor{rng: rand.New(rand.NewSource(seed))}
}

// randUniform returns a uniform value in [1, n], or n itself for n<=1.
func (p *Preprocessor) randUniform(n int) int {
	if n <= 1 {
		return n
	}
	return p.rng.Intn(n) + 1
}

// Keep reports whether line should be kept, consuming it if it is (or
// was) a conditional control directive. Non-directive lines are kept
// iff the condition stack is empty or every frame on it is active
// (spec §4.4 "A line is kept iff...").
func (p *Preprocessor) Keep(line string) bool {
	trimmed := strings.TrimSpace(line)
	upper := strings.ToUpper(trimmed)

	if strings.HasPrefix(upper, "#") {
		if cmd, _ := splitCommand(upper[1:]); isControlCommand(cmd) {
			p.Script.WriteString(line)
			p.Script.WriteByte('\n')
		}
	}

	switch {
	case matchDirective(upper, "#RANDOM"):
		p.pushRandom(p.randUniform(intArg(trimmed, "#RANDOM")))
		return false
	case matchDirective(upper, "#SETRANDOM"):
		p.pushRandom(intArg(trimmed, "#SETRANDOM"))
		return false
	case matchDirective(upper, "#ENDRANDOM"):
		p.popRandom()
		return false

	case matchDirective(upper, "#IF"):
		p.pushIf(intArg(trimmed, "#IF"))
		return false
	case matchDirective(upper, "#ELSEIF"):
		p.elseIf(intArg(trimmed, "#ELSEIF"))
		return false
	case matchDirective(upper, "#ELSE"):
		p.doElse()
		return false
	case matchDirective(upper, "#ENDIF"):
		p.popIf()
		return false

	case matchDirective(upper, "#SWITCH"):
		p.pushSwitch(p.randUniform(intArg(trimmed, "#SWITCH")))
		return false
	case matchDirective(upper, "#SETSWITCH"):
		p.pushSwitch(intArg(trimmed, "#SETSWITCH"))
		return false
	case matchDirective(upper, "#CASE"):
		p.switchCase(intArg(trimmed, "#CASE"))
		return false
	case matchDirective(upper, "#SKIP"):
		p.switchSkip()
		return false
	case matchDirective(upper, "#DEF"):
		p.switchDef()
		return false
	case matchDirective(upper, "#ENDSW"):
		p.popSwitch()
		return false
	}

	return p.allActive()
}

func (p *Preprocessor) allActive() bool {
	for _, f := range p.conditions {
		if !f.isActive() {
			return false
		}
	}
	return true
}

func (p *Preprocessor) pushRandom(value int) {
	p.randoms = append(p.randoms, p.active)
	p.active = value
}

func (p *Preprocessor) popRandom() {
	if len(p.randoms) == 0 {
		return
	}
	p.active = p.randoms[len(p.randoms)-1]
	p.randoms = p.randoms[:len(p.randoms)-1]
}

func (p *Preprocessor) pushIf(v int) {
	f := frame{kind: frameIf}
	f.condIdx = 1
	if v == p.active {
		f.active = true
		f.activeCnt = 1
	}
	p.conditions = append(p.conditions, f)
}

func (p *Preprocessor) elseIf(v int) {
	f := p.topIf()
	if f == nil {
		return
	}
	f.condIdx++
	f.active = false
	if f.activeCnt == 0 && v == p.active {
		f.active = true
		f.activeCnt++
	}
}

func (p *Preprocessor) doElse() {
	f := p.topIf()
	if f == nil {
		return
	}
	f.active = f.activeCnt == 0
	if f.active {
		f.activeCnt++
	}
}

func (p *Preprocessor) popIf() {
	if n := len(p.conditions); n > 0 && p.conditions[n-1].kind == frameIf {
		p.conditions = p.conditions[:n-1]
	}
}

func (p *Preprocessor) topIf() *frame {
	if n := len(p.conditions); n > 0 && p.conditions[n-1].kind == frameIf {
		return &p.conditions[n-1]
	}
	return nil
}

func (p *Preprocessor) pushSwitch(value int) {
	p.conditions = append(p.conditions, frame{kind: frameSwitch, value: value})
}

func (p *Preprocessor) switchCase(v int) {
	f := p.topSwitch()
	if f == nil || f.stat == -1 {
		return
	}
	if v == f.value {
		f.stat++
	}
}

func (p *Preprocessor) switchSkip() {
	if f := p.topSwitch(); f != nil {
		f.stat = -1
	}
}

func (p *Preprocessor) switchDef() {
	f := p.topSwitch()
	if f == nil || f.stat != 0 {
		return
	}
	f.stat++
}

func (p *Preprocessor) popSwitch() {
	if n := len(p.conditions); n > 0 && p.conditions[n-1].kind == frameSwitch {
		p.conditions = p.conditions[:n-1]
	}
}

func (p *Preprocessor) topSwitch() *frame {
	if n := len(p.conditions); n > 0 && p.conditions[n-1].kind == frameSwitch {
		return &p.conditions[n-1]
	}
	return nil
}

// matchDirective reports whether upper (already uppercased, trimmed)
// begins with directive followed by a word boundary (whitespace or
// end of string).
func matchDirective(upper, directive string) bool {
	if !strings.HasPrefix(upper, directive) {
		return false
	}
	rest := upper[len(directive):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// intArg parses the integer argument following a directive keyword,
// returning 0 if absent or malformed (spec §7 PayloadMalformed: never
// error, degrade gracefully).
func intArg(line, directive string) int {
	rest := strings.TrimSpace(line[len(directive):])
	n := 0
	neg := false
	i := 0
	if i < len(rest) && (rest[i] == '-' || rest[i] == '+') {
		neg = rest[i] == '-'
		i++
	}
	start := i
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		n = n*10 + int(rest[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
