package queue

import (
	"encoding/json"
	"testing"
)

func TestTicketSoldEventRoundTrip(t *testing.T) {
	ev := TicketSoldEvent{
		ClassID:          5,
		PlayerID:         "player-1",
		TicketIDs:        []string{"a", "b"},
		TotalAmountCents: 1000,
		ConfirmedAt:      "2026-07-30T00:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got TicketSoldEvent
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ClassID != ev.ClassID || got.PlayerID != ev.PlayerID || len(got.TicketIDs) != 2 {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}
