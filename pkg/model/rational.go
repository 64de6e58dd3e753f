// Package model implements the chart object model: tracks of note
// elements addressed by measure/beat/time, plus the metadata and
// resource channels that sit alongside them.
package model

// Rational is an offset-in-measure expressed as Num/Deno so that
// integer ratios coming out of a parser (e.g. "note i of L in this
// measure") survive without float drift. A zero Deno means "not set";
// callers should treat it as Num==0, Deno==1.
type Rational struct {
	Num  int
	Deno int
}

// NewRational builds a Rational from a parser-observed index/length
// pair, normalizing a zero or negative Deno to 1.
func NewRational(num, deno int) Rational {
	if deno <= 0 {
		deno = 1
	}
	return Rational{Num: num, Deno: deno}
}

// Reduce returns r divided by its greatest common divisor.
func (r Rational) Reduce() Rational {
	if r.Num == 0 {
		return Rational{Num: 0, Deno: 1}
	}
	g := gcd(abs(r.Num), r.Deno)
	if g == 0 {
		return r
	}
	return Rational{Num: r.Num / g, Deno: r.Deno / g}
}

// Float returns the rational as a float64 fraction of one measure.
func (r Rational) Float() float64 {
	if r.Deno == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Deno)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
