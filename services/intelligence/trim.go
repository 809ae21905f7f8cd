package intelligence

import "schooltrip/models"

const MaxSessionTurns = 10

// TrimHistory drops the two oldest turns after the preamble at index 0
// until at most MaxSessionTurns remain. The input is not modified.
func TrimHistory(turns []models.ChatTurn) []models.ChatTurn {
	out := cloneTurns(turns)
	for len(out) > MaxSessionTurns {
		out = append(out[:1], out[3:]...)
	}
	return out
}
