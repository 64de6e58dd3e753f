package writer

import (
	"testing"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
)

func TestChannelForNoteVisible(t *testing.T) {
	n := &model.NoteElement{Tap: &model.TapData{Visible: true, Scoreable: true}}
	if got := channelForNote(0, n); got != "11" {
		t.Errorf("player0 lane1 visible = %q, want 11", got)
	}
	if got := channelForNote(9, n); got != "21" {
		t.Errorf("player1 lane1 visible = %q, want 21", got)
	}
}

func TestChannelForNoteInvisible(t *testing.T) {
	n := &model.NoteElement{Tap: &model.TapData{Visible: false}}
	if got := channelForNote(2, n); got != "33" {
		t.Errorf("player0 lane3 invisible = %q, want 33", got)
	}
}

func TestChannelForNoteMine(t *testing.T) {
	n := &model.NoteElement{Tap: &model.TapData{Visible: true, Sound: model.SoundProperty{Type: "mine"}}}
	if got := channelForNote(4, n); got != "D5" {
		t.Errorf("player0 lane5 mine = %q, want D5", got)
	}
}

func TestChannelForNoteHold(t *testing.T) {
	n := &model.NoteElement{ChainStatus: model.ChainStart, Tap: &model.TapData{Visible: true, Scoreable: true}}
	if got := channelForNote(1, n); got != "52" {
		t.Errorf("player0 lane2 hold start = %q, want 52", got)
	}
	n.ChainStatus = model.ChainEnd
	if got := channelForNote(1, n); got != "52" {
		t.Errorf("player0 lane2 hold end = %q, want 52", got)
	}
}

func TestValueAllocatorReusesParsedChannelID(t *testing.T) {
	v := newValueAllocator()
	if got := v.token(1); got != "01" {
		t.Errorf("token(1) = %q, want 01", got)
	}
	if got := v.token(71); got != "1Z" {
		t.Errorf("token(71) = %q, want 1Z", got)
	}
}

func TestValueAllocatorSynthesizesDistinctIDsForZero(t *testing.T) {
	v := newValueAllocator()
	first := v.token(0)
	second := v.token(0)
	if first == "00" || second == "00" {
		t.Fatalf("synthesized tokens must never be 00 (reserved for \"no object\"): got %q, %q", first, second)
	}
	if first == second {
		t.Errorf("expected distinct synthesized ids, got %q twice", first)
	}
}
