package bms

import (
	"testing"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

// Scenario D: LNOBJ conversion. "#LNOBJ ZZ" plus a visible note in
// lane 1 at "#00111:AA00ZZ00" converts the AA note into a charge note
// ending at the ZZ position; the ZZ note itself is not a scorable
// object.
func TestScenarioDLNOBJConversion(t *testing.T) {
	src := "#LNOBJ ZZ\n#00111:AA00ZZ00\n"
	chart, diags := Load([]byte(src))
	for _, d := range diags {
		t.Logf("diagnostic: %v", d)
	}

	notes := chart.Notes.Track(0).All() // player0 lane1 -> flat lane 0
	if len(notes) != 2 {
		t.Fatalf("lane has %d notes, want 2 (AA start + ZZ end), got %+v", len(notes), notes)
	}

	start, end := notes[0], notes[1]
	if start.ChainStatus != model.ChainStart {
		t.Errorf("first note ChainStatus = %v, want ChainStart", start.ChainStatus)
	}
	if !start.Tap.Scoreable {
		t.Error("the converted start note should remain scoreable")
	}
	if end.ChainStatus != model.ChainEnd {
		t.Errorf("second note ChainStatus = %v, want ChainEnd", end.ChainStatus)
	}
	if end.Tap.Scoreable {
		t.Error("the LNOBJ note itself must not be scoreable")
	}
	if end.MeasureOffset() <= start.MeasureOffset() {
		t.Errorf("end measure offset %v should be after start offset %v", end.MeasureOffset(), start.MeasureOffset())
	}

	if got := chart.ScoreNoteCount(); got != 1 {
		t.Errorf("ScoreNoteCount() = %d, want 1 (only the converted start counts)", got)
	}
}

// Scenario E: the #RANDOM preprocessor. #SETRANDOM pins the resolved
// value deterministically, exercising the same branch-selection path
// #RANDOM would take with a seed landing on that value.
func TestScenarioERandomPreprocessorBranch1(t *testing.T) {
	src := "#SETRANDOM 1\n#IF 1\n#00111:AA00\n#ELSE\n#00111:00BB\n#ENDIF\n#ENDRANDOM\n"
	chart, _ := Load([]byte(src))

	notes := chart.Notes.Track(0).All()
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want exactly 1", len(notes))
	}
	if notes[0].MeasureIndex() != 1 {
		t.Errorf("note measure = %d, want 1", notes[0].MeasureIndex())
	}
	if notes[0].RowPos.Num != 0 || notes[0].RowPos.Deno != 2 {
		t.Errorf("note row = %d/%d, want 0/2", notes[0].RowPos.Num, notes[0].RowPos.Deno)
	}
}

func TestScenarioERandomPreprocessorBranch2(t *testing.T) {
	src := "#SETRANDOM 2\n#IF 1\n#00111:AA00\n#ELSE\n#00111:00BB\n#ENDIF\n#ENDRANDOM\n"
	chart, _ := Load([]byte(src))

	notes := chart.Notes.Track(0).All()
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want exactly 1", len(notes))
	}
	if notes[0].MeasureIndex() != 1 {
		t.Errorf("note measure = %d, want 1", notes[0].MeasureIndex())
	}
	if notes[0].RowPos.Num != 1 || notes[0].RowPos.Deno != 2 {
		t.Errorf("note row = %d/%d, want 1/2", notes[0].RowPos.Num, notes[0].RowPos.Deno)
	}
}
