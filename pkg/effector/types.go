// Package effector implements the deterministic lane-permutation passes
// over a chart's NoteData: Random, S-Random, H-Random, R-Random,
// Mirror, AllSC and Flip (spec §4.5). Every effector mutates NoteData
// in place; the caller is expected to call Chart.Invalidate afterwards
// to refresh derived timing.
package effector

// LaneState classifies one flat lane's role within a Param's
// lane_count window.
type LaneState int

const (
	// Free marks a lane outside the playable layout (e.g. the unused
	// half of a single-play chart's 16-lane DP window). Its index is
	// always kept.
	Free LaneState = iota
	// Note marks a shufflable playable lane.
	Note
	// SC marks a scratch/turntable lane: its own identity is kept by
	// the shuffling effectors, but AllSC treats it as the reassignment
	// target.
	SC
	// Locked marks a lane that must never move, distinct from Free only
	// for readability at call sites (both behave identically here).
	Locked
)

const maxLanes = 128

// Param configures one effector pass over a single player's lane
// window within a shared, multi-player NoteData (spec §4.5 "{ player,
// lane_count, locked_lane[128], seed }").
type Param struct {
	Player int

	// LaneOffset is the absolute flat lane of this window's lane 0
	// (e.g. 9 for player 2 in a 1P+2P BMS layout).
	LaneOffset int
	LaneCount  int
	LockedLane [maxLanes]LaneState
	Seed       int64
}

func newParam(player, laneOffset, laneCount int) Param {
	return Param{Player: player, LaneOffset: laneOffset, LaneCount: laneCount}
}

// For7Key returns lane parameters for a 7-key, no-scratch layout.
func For7Key(player, laneOffset int) Param {
	p := newParam(player, laneOffset, 7)
	for i := 0; i < 7; i++ {
		p.LockedLane[i] = Note
	}
	return p
}

// For9Key returns lane parameters for a 9-key, no-scratch layout.
func For9Key(player, laneOffset int) Param {
	p := newParam(player, laneOffset, 9)
	for i := 0; i < 9; i++ {
		p.LockedLane[i] = Note
	}
	return p
}

// ForBMS1P returns lane parameters for a standard 7-key+scratch BMS
// 1P layout: lanes 0-6 playable, lane 7 is the scratch column.
func ForBMS1P(laneOffset int) Param {
	p := newParam(0, laneOffset, 8)
	for i := 0; i < 7; i++ {
		p.LockedLane[i] = Note
	}
	p.LockedLane[7] = SC
	return p
}

// ForBMS2P is ForBMS1P for the second player's side in 2P battle mode.
func ForBMS2P(laneOffset int) Param {
	p := ForBMS1P(laneOffset)
	p.Player = 1
	return p
}

// ForBMSDP1P returns lane parameters for a 14-key+2-scratch
// double-play layout's first-player keys (lanes 0-6), sharing the
// 16-lane flat window with ForBMSDP2P. DP is played by a single
// person, so both halves keep player 0.
func ForBMSDP1P(laneOffset int) Param {
	p := newParam(0, laneOffset, 16)
	for i := 0; i < 7; i++ {
		p.LockedLane[i] = Note
	}
	p.LockedLane[14] = SC
	p.LockedLane[15] = SC
	return p
}

// ForBMSDP2P is the second-player-key half (lanes 7-13) of the same
// double-play window as ForBMSDP1P.
func ForBMSDP2P(laneOffset int) Param {
	p := newParam(0, laneOffset, 16)
	for i := 7; i < 14; i++ {
		p.LockedLane[i] = Note
	}
	p.LockedLane[14] = SC
	p.LockedLane[15] = SC
	return p
}

// fullMapping expands a permutation over p's local lane window
// [0, LaneCount) into a full-width mapping suitable for
// TrackData.RemapTracks, leaving every lane outside the window
// mapped to itself.
func fullMapping(p Param, local []int) []int {
	size := p.LaneOffset + p.LaneCount
	m := make([]int, size)
	for i := 0; i < size; i++ {
		m[i] = i
	}
	for i, v := range local {
		m[p.LaneOffset+i] = p.LaneOffset + v
	}
	return m
}
