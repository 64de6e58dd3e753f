package htmlexport

import (
	"strings"
	"testing"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

func newTestChart() *model.Chart {
	chart := model.NewChart()
	chart.Meta.Title = "Test Song"
	chart.Meta.Subtitle = "a remix"
	chart.Meta.Artist = "Someone"
	chart.Meta.ChartType = "BMS"
	chart.Meta.Bpm = 150
	chart.Tempo.AddBpm(0, 150)
	return chart
}

func TestExportEmitsMetadata(t *testing.T) {
	chart := newTestChart()
	chart.Invalidate()

	out := Export(chart)

	for _, want := range []string{"Test Song", "a remix", "Someone", "BMS", "150"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestExportListsResourceChannels(t *testing.T) {
	chart := newTestChart()
	chart.Meta.SoundChannel().Set(1, "kick.wav")
	chart.Meta.BgaChannel().Set(2, "bg.png")
	chart.Meta.BmsBpmChannel().Set(3, 240)
	chart.Meta.BmsStopChannel().Set(4, 48)
	chart.Invalidate()

	out := Export(chart)

	for _, want := range []string{"kick.wav", "bg.png", "240", "48"} {
		if !strings.Contains(out, want) {
			t.Errorf("resource data missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestExportPlacesTapNoteInItsMeasureBox(t *testing.T) {
	chart := newTestChart()
	chart.Notes.AddTap(0, model.Position{Measure: 1.5, RowPos: model.NewRational(1, 2)}, model.ChainNone,
		model.TapData{Player: 0, Lane: 1, Scoreable: true, Visible: true, Value: 1})
	chart.Invalidate()

	out := Export(chart)

	measure1 := sectionBetween(out, "id='measure1'", "id='measure2'")
	if !strings.Contains(measure1, "tapnote") {
		t.Errorf("expected a tapnote div inside measure1's box, got:\n%s", measure1)
	}
}

func TestExportSpansLongnoteAcrossMeasures(t *testing.T) {
	chart := newTestChart()
	chart.Notes.AddTap(0, model.Position{Measure: 0}, model.ChainStart,
		model.TapData{Player: 0, Lane: 1, Scoreable: true, Visible: true, Value: 1})
	chart.Notes.AddTap(0, model.Position{Measure: 2}, model.ChainEnd,
		model.TapData{Player: 0, Lane: 1, Scoreable: true, Visible: true, Value: 1})
	chart.Invalidate()

	out := Export(chart)

	sections := []struct{ id, next string }{
		{"id='measure0'", "id='measure1'"},
		{"id='measure1'", "id='measure2'"},
		{"id='measure2'", ""},
	}
	for _, s := range sections {
		section := sectionBetween(out, s.id, s.next)
		if !strings.Contains(section, "longnote") {
			t.Errorf("expected a longnote fragment inside %s, got:\n%s", s.id, section)
		}
	}
}

func TestExportNeverFailsOnEmptyChart(t *testing.T) {
	chart := model.NewChart()
	chart.Invalidate()

	out := Export(chart)
	if out == "" {
		t.Fatal("Export returned empty string for an empty chart")
	}
}

// sectionBetween returns the substring starting at the first occurrence
// of start, up to (but not including) the first occurrence of end found
// after it (or to the end of the string, if end is empty or absent).
func sectionBetween(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i:]
	if end == "" {
		return rest
	}
	j := strings.Index(rest, end)
	if j < 0 {
		return rest
	}
	return rest[:j]
}
