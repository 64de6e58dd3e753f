package model

import "sort"

// Track is a named, ordered sequence of NoteElements sharing one
// Datatype tag. Within a Track, notes are ordered by Measure. When
// Duplicable is false the order is strict: inserting at an existing
// Measure replaces the prior note (spec §3 Invariants). When Duplicable
// is true, notes may share a Measure and keep their insertion order.
type Track struct {
	Name        string
	Datatype    TrackDatatype
	Duplicable  bool
	notes       []*NoteElement
}

// NewTrack creates an empty Track of the given datatype and name.
func NewTrack(name string, datatype TrackDatatype, duplicable bool) *Track {
	return &Track{Name: name, Datatype: datatype, Duplicable: duplicable}
}

// Len returns the number of notes in the track.
func (t *Track) Len() int { return len(t.notes) }

// At returns the i-th note in measure order.
func (t *Track) At(i int) *NoteElement { return t.notes[i] }

// All returns the track's notes in measure order. The slice is owned
// by the caller; mutating it does not affect the track.
func (t *Track) All() []*NoteElement {
	out := make([]*NoteElement, len(t.notes))
	copy(out, t.notes)
	return out
}

// Insert adds n to the track, maintaining Measure order. If the track
// disallows duplicates and a note already exists at n.Measure, that
// note is replaced in place; otherwise n is appended after any
// existing notes at the same Measure (preserving insertion order among
// same-measure notes, per spec §3).
func (t *Track) Insert(n *NoteElement) {
	n.Kind = t.Datatype
	idx := sort.Search(len(t.notes), func(i int) bool {
		return t.notes[i].Measure >= n.Measure
	})

	if !t.Duplicable {
		if idx < len(t.notes) && t.notes[idx].Measure == n.Measure {
			t.notes[idx] = n
			return
		}
	} else if idx < len(t.notes) {
		for idx < len(t.notes) && t.notes[idx].Measure == n.Measure {
			idx++
		}
	}

	t.notes = append(t.notes, nil)
	copy(t.notes[idx+1:], t.notes[idx:])
	t.notes[idx] = n
}

// Remove deletes n from the track by pointer identity, reporting
// whether it was found. Used by effectors that reassign individual
// notes between lanes rather than remapping a whole track at once.
func (t *Track) Remove(n *NoteElement) bool {
	for i, cur := range t.notes {
		if cur == n {
			t.notes = append(t.notes[:i], t.notes[i+1:]...)
			return true
		}
	}
	return false
}

// RangeScan returns all notes with Measure in [from, to).
func (t *Track) RangeScan(from, to float64) []*NoteElement {
	lo := sort.Search(len(t.notes), func(i int) bool { return t.notes[i].Measure >= from })
	hi := sort.Search(len(t.notes), func(i int) bool { return t.notes[i].Measure >= to })
	out := make([]*NoteElement, hi-lo)
	copy(out, t.notes[lo:hi])
	return out
}

// HasHoldAt reports whether a longnote/charge chain is in progress at
// the given integer measure: i.e. some note with ChainStatus Start or
// Body has Measure in [measure, measure+1), or a chain that started
// before this measure has not yet ended by its start.
func (t *Track) HasHoldAt(measure int) bool {
	lo := float64(measure)
	hi := lo + 1
	open := false
	for _, n := range t.notes {
		if n.Measure >= hi {
			break
		}
		switch n.ChainStatus {
		case ChainStart:
			open = true
		case ChainEnd:
			if n.Measure < hi {
				if n.Measure >= lo {
					return true
				}
				open = false
			}
		}
	}
	if open {
		return true
	}
	// also true if a Start/Body note itself falls within this measure
	for _, n := range t.notes {
		if n.Measure >= lo && n.Measure < hi && (n.ChainStatus == ChainStart || n.ChainStatus == ChainBody) {
			return true
		}
	}
	return false
}

// ClearRange removes all notes with Measure in [from, to).
func (t *Track) ClearRange(from, to float64) {
	out := t.notes[:0]
	for _, n := range t.notes {
		if n.Measure >= from && n.Measure < to {
			continue
		}
		out = append(out, n)
	}
	t.notes = out
}

// MoveRange removes all notes with Measure in [from, to) and
// re-inserts them shifted by delta measures.
func (t *Track) MoveRange(from, to, delta float64) {
	moved := t.RangeScan(from, to)
	t.ClearRange(from, to)
	for _, n := range moved {
		t.Insert(n.ShiftMeasure(delta))
	}
}

// CopyRange copies all notes with Measure in [from, to), shifted so
// that the copy starts at destMeasure, and inserts the copies.
func (t *Track) CopyRange(from, to, destMeasure float64) {
	src := t.RangeScan(from, to)
	delta := destMeasure - from
	for _, n := range src {
		t.Insert(n.Clone().ShiftMeasure(delta))
	}
}

// Shift moves every note in the track by delta measures.
func (t *Track) Shift(delta float64) {
	shifted := make([]*NoteElement, len(t.notes))
	for i, n := range t.notes {
		shifted[i] = n.ShiftMeasure(delta)
	}
	t.notes = shifted
	sort.SliceStable(t.notes, func(i, j int) bool { return t.notes[i].Measure < t.notes[j].Measure })
}

// Clone returns a deep copy of the track.
func (t *Track) Clone() *Track {
	cp := &Track{Name: t.Name, Datatype: t.Datatype, Duplicable: t.Duplicable}
	cp.notes = make([]*NoteElement, len(t.notes))
	for i, n := range t.notes {
		cp.notes[i] = n.Clone()
	}
	return cp
}
