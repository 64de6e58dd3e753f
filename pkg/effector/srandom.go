package effector

import "github.com/rhythmus-emulator/rparser-sub000/pkg/model"

// SRandom applies Random, then R-Random in its time-based mode, then
// Random again, a three-pass algorithm used by community BMS players
// that otherwise defies a single closed-form description (spec §4.5
// "S-Random").
func SRandom(nd *model.NoteData, p Param) {
	Random(nd, p)
	RRandom(nd, p, true)
	Random(nd, p)
}
