package writer

import "github.com/rhythmus-emulator/rparser-sub000/pkg/model"

// lanesPerPlayer mirrors pkg/bms's own convention: flat lane index ->
// (player, laneWithinPlayer) via lane/9, lane%9+1.
const lanesPerPlayer = 9

func playerAndLane(flat int) (player, lane int) {
	return flat / lanesPerPlayer, flat%lanesPerPlayer + 1
}

// channelForNote picks the two-character object channel a note
// belongs on. Hold notes (chain start/end) always go out on the
// explicit long-note channels (51-59/61-69) rather than round-tripping
// the #LNOBJ overload of the visible channel: NoteElement carries no
// marker distinguishing "decoded from #LNOBJ" from "decoded from an
// explicit LN channel" once both have normalized to the same
// ChainStart/ChainEnd shape, so re-deriving the LNOBJ form isn't
// possible without guessing. This produces a semantically equivalent,
// not byte-identical, BMS file.
func channelForNote(flatLane int, n *model.NoteElement) string {
	player, lane := playerAndLane(flatLane)
	tap := n.Tap

	digit := func(visible, ln, invisible, mine byte) string {
		switch {
		case n.IsHold():
			return string(ln) + laneDigit(lane)
		case !tap.Visible:
			return string(invisible) + laneDigit(lane)
		case tap.Sound.Type == "mine":
			return string(mine) + laneDigit(lane)
		default:
			return string(visible) + laneDigit(lane)
		}
	}

	if player == 0 {
		return digit('1', '5', '3', 'D')
	}
	return digit('2', '6', '4', 'E')
}

func laneDigit(lane int) string {
	if lane < 1 {
		lane = 1
	}
	if lane > 9 {
		lane = 9
	}
	return string(rune('0' + lane))
}

// valueAllocator renders a TapData/BgmRefData's raw channel value
// (model.ChannelID-space int) to its 2-char object-line token, handing
// out a synthetic nonzero id for the zero value instead of emitting
// "00" — which BMS reads as "no object here" (pkg/bms's isZeroValue) —
// since a note that decoded with Value==0 (every note built by a
// non-BMS loader, e.g. pkg/vos, which has no channel-id concept of its
// own) must still round-trip as a real object line.
type valueAllocator struct {
	next model.ChannelID
}

func newValueAllocator() *valueAllocator {
	return &valueAllocator{next: 1}
}

func (v *valueAllocator) token(value int) string {
	if value > 0 {
		return model.ChannelID(value).String()
	}
	id := v.next
	if id > model.MaxChannelID {
		id = model.MaxChannelID
	} else {
		v.next++
	}
	return id.String()
}
