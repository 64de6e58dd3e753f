package model

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property 1: after inserting notes at arbitrary measures, a track's
// notes are always sorted non-strictly by Measure, and strictly so
// when the track disallows duplicates (duplicate measures collapse).
func TestPropertyTrackNotesStayOrdered(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-duplicable track stays strictly ordered", prop.ForAll(
		func(measures []float64) bool {
			track := NewTrack("", DatatypeNote, false)
			for _, m := range measures {
				track.Insert(&NoteElement{Position: Position{Measure: m}})
			}
			all := track.All()
			for i := 1; i < len(all); i++ {
				if all[i-1].Measure >= all[i].Measure {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.Property("duplicable track stays non-strictly ordered", prop.ForAll(
		func(measures []float64) bool {
			track := NewTrack("", DatatypeBgm, true)
			for _, m := range measures {
				track.Insert(&NoteElement{Position: Position{Measure: m}})
			}
			all := track.All()
			for i := 1; i < len(all); i++ {
				if all[i-1].Measure > all[i].Measure {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.TestingRun(t)
}

func TestTrackInsertReplacesSameMeasureWhenNotDuplicable(t *testing.T) {
	track := NewTrack("", DatatypeNote, false)
	track.Insert(&NoteElement{Position: Position{Measure: 2}, Tap: &TapData{Value: 1}})
	track.Insert(&NoteElement{Position: Position{Measure: 2}, Tap: &TapData{Value: 2}})

	if track.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (same-measure insert should replace)", track.Len())
	}
	if track.At(0).Tap.Value != 2 {
		t.Errorf("At(0).Tap.Value = %d, want 2 (the later insert should win)", track.At(0).Tap.Value)
	}
}

func TestTrackInsertKeepsBothWhenDuplicable(t *testing.T) {
	track := NewTrack("", DatatypeBgm, true)
	track.Insert(&NoteElement{Position: Position{Measure: 2}, Bgm: &BgmRefData{ChannelID: 1}})
	track.Insert(&NoteElement{Position: Position{Measure: 2}, Bgm: &BgmRefData{ChannelID: 2}})

	if track.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (duplicable track should keep both)", track.Len())
	}
}
