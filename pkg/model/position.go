package model

// DefaultMeasureLength is the default length of a measure, in beats
// (quarter notes). A measure-length-change segment scales this.
const DefaultMeasureLength = 4.0

// Position is the triple positional view every chart object carries.
// Measure/Beat/TimeMsec are kept consistent by Chart.Invalidate; RowPos
// is the edit-time rational fallback used by parsers.
type Position struct {
	// Measure is a real number: the integer part is the measure index,
	// the fractional part is the offset within that measure (weighted
	// by that measure's length). This is the edit-time canonical field.
	Measure float64

	// Beat is in units of quarter notes. Derived by the timing engine.
	Beat float64

	// TimeMsec is absolute milliseconds from the chart's time origin.
	// Derived by the timing engine.
	TimeMsec float64

	// RowPos is the rational offset-in-measure a parser observed
	// (e.g. note 1 of 4 in measure 3 -> {Num: 1, Deno: 4}).
	RowPos Rational
}

// MeasureIndex returns the integer measure number.
func (p Position) MeasureIndex() int {
	return int(p.Measure)
}

// MeasureOffset returns the fractional offset within the measure,
// in [0, 1).
func (p Position) MeasureOffset() float64 {
	return p.Measure - float64(p.MeasureIndex())
}

// Less reports whether p sorts strictly before q by Measure, which is
// the canonical edit-time ordering key for a Track (spec §3 Invariants).
func (p Position) Less(q Position) bool {
	return p.Measure < q.Measure
}
