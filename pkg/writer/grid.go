package writer

// minResolution is the lowest denominator a measure's object grid is
// ever rounded to, even for an empty or single-note measure (spec
// §4.6: "a resolution rounded to preserve the rational row_pos of
// every note with a minimum denominator of 192").
const minResolution = 192

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / gcd(a, b) * b
}

// gridSlot is one occupied row in a per-measure object grid: num/deno
// is the row's position within the measure (deno normalized against
// the other slots sharing that grid before rendering).
type gridSlot struct {
	num, deno int
	token     string
}

// buildGrid lays out slots onto a single base-36 token grid whose
// length is the LCM of every slot's denominator and minResolution, so
// that every slot's row_pos survives exactly.
func buildGrid(slots []gridSlot) []string {
	res := minResolution
	for _, s := range slots {
		d := s.deno
		if d <= 0 {
			d = 1
		}
		res = lcm(res, d)
	}

	grid := make([]string, res)
	for i := range grid {
		grid[i] = "00"
	}
	for _, s := range slots {
		d := s.deno
		if d <= 0 {
			d = 1
		}
		idx := s.num * (res / d)
		if idx < 0 {
			idx = 0
		}
		if idx >= res {
			idx = res - 1
		}
		grid[idx] = s.token
	}
	return grid
}
