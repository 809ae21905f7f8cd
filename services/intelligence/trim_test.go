package intelligence

import (
	"fmt"
	"testing"

	"schooltrip/models"
)

func turnsOf(n int) []models.ChatTurn {
	out := []models.ChatTurn{{Role: models.RoleSystem, Text: "preamble"}}
	for i := 1; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleModel
		}
		out = append(out, models.ChatTurn{Role: role, Text: fmt.Sprintf("t%d", i)})
	}
	return out
}

func TestTrimHistoryAfterEleventhTurn(t *testing.T) {
	in := turnsOf(11)
	got := TrimHistory(in)
	if len(got) > 9 {
		t.Fatalf("len = %d, want <= 9", len(got))
	}
	if got[0] != in[0] {
		t.Fatalf("preamble changed: %+v", got[0])
	}
	if got[1].Text != "t3" || got[len(got)-1].Text != "t10" {
		t.Fatalf("unexpected turns kept: %+v", got)
	}
	if len(in) != 11 || in[1].Text != "t1" {
		t.Fatalf("input modified")
	}
}

func TestTrimHistoryBounds(t *testing.T) {
	for n := 1; n <= 30; n++ {
		got := TrimHistory(turnsOf(n))
		if len(got) > MaxSessionTurns {
			t.Fatalf("n=%d: len %d", n, len(got))
		}
		if n <= MaxSessionTurns && len(got) != n {
			t.Fatalf("n=%d: short session trimmed to %d", n, len(got))
		}
		if got[0].Text != "preamble" {
			t.Fatalf("n=%d: preamble lost", n)
		}
	}
}

func TestTrimHistoryKeepsAlternation(t *testing.T) {
	turns := turnsOf(2)
	for i := 0; i < 20; i++ {
		turns = TrimHistory(append(turns, models.ChatTurn{Role: models.RoleUser, Text: "q"}))
		turns = TrimHistory(append(turns, models.ChatTurn{Role: models.RoleModel, Text: "a"}))
	}
	for i := 2; i < len(turns); i++ {
		if turns[i].Role == turns[i-1].Role {
			t.Fatalf("roles repeat at %d: %+v", i, turns)
		}
	}
}
