package bms

import "strings"

// Channel IDs recognized by the objects pass (spec §4.4, SPEC_FULL.md
// §4.4 expanded channel table transcribed from
// original_source/src/ChartLoaderBMS.cpp).
const (
	chBgm           = "01"
	chMeasureLength = "02"
	chBpmDirect     = "03"
	chBgaMain       = "04"
	chBgaMiss       = "06"
	chBgaLayer1     = "07"
	chBpmIndirect   = "08"
	chStopIndirect  = "09"
	chBgaLayer2     = "0A"

	chArgbLayerMain   = "0B"
	chArgbLayerLayer1 = "0C"
	chArgbLayerLayer2 = "0D"
	chArgbLayerMiss   = "0E"
)

// lanesPerPlayer is the conventional BMS key count per player channel
// range (11-19 / 21-29 -> 9 lanes each).
const lanesPerPlayer = 9

// noteChannelRole classifies a two-digit visible/invisible/LN/mine
// channel id.
type noteChannelRole int

const (
	roleNone noteChannelRole = iota
	roleVisible
	roleInvisible
	roleLongNote
	roleMine
)

// classifyNoteChannel decodes a channel id of the object pass's
// player-lane ranges into (role, player, laneWithinPlayer), where
// player is 0 or 1 and laneWithinPlayer is 1-based (spec §4.4:
// "11-19/21-29", "31-39/41-49", "51-59/61-69", "D1-D9/E1-E9").
func classifyNoteChannel(ch string) (role noteChannelRole, player, lane int, ok bool) {
	if len(ch) != 2 {
		return roleNone, 0, 0, false
	}
	first := ch[0]
	second := ch[1]
	if second < '1' || second > '9' {
		return roleNone, 0, 0, false
	}
	lane = int(second - '0')

	switch first {
	case '1':
		return roleVisible, 0, lane, true
	case '2':
		return roleVisible, 1, lane, true
	case '3':
		return roleInvisible, 0, lane, true
	case '4':
		return roleInvisible, 1, lane, true
	case '5':
		return roleLongNote, 0, lane, true
	case '6':
		return roleLongNote, 1, lane, true
	case 'D':
		return roleMine, 0, lane, true
	case 'E':
		return roleMine, 1, lane, true
	default:
		return roleNone, 0, 0, false
	}
}

// flatLane combines (player, laneWithinPlayer) into the single flat
// lane index NoteData.Track addresses.
func flatLane(player, laneWithinPlayer int) int {
	return player*lanesPerPlayer + (laneWithinPlayer - 1)
}

// splitPayload breaks a BMS object payload into its 2-char base-36
// value sequence, ignoring a trailing odd character (malformed
// payloads are truncated, never rejected, per §7 PayloadMalformed).
func splitPayload(payload string) []string {
	payload = strings.TrimSpace(payload)
	n := len(payload) / 2
	out := make([]string, 0, n)
	for i := 0; i+1 < len(payload); i += 2 {
		out = append(out, payload[i:i+2])
	}
	return out
}

// isZeroValue reports whether a 2-char base-36 payload value encodes
// "no object here" (BMS convention: "00").
func isZeroValue(v string) bool {
	return v == "00" || v == ""
}
