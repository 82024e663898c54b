package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewTurn_NumberingAndTimestamp(t *testing.T) {
	tests := []struct {
		priorTurns    int
		wantNumber    int
		wantTimestamp string
	}{
		{0, 1, "00:00:00"},
		{1, 2, "00:00:10"},
		{5, 6, "00:00:50"},
		{360, 361, "01:00:00"},
	}

	for _, tt := range tests {
		turn := NewTurn(tt.priorTurns, SpeakerSalesperson, "Alex", "hello")
		if turn.TurnNumber != tt.wantNumber {
			t.Errorf("priorTurns=%d: got turn number %d, want %d", tt.priorTurns, turn.TurnNumber, tt.wantNumber)
		}
		if turn.Timestamp != tt.wantTimestamp {
			t.Errorf("priorTurns=%d: got timestamp %q, want %q", tt.priorTurns, turn.Timestamp, tt.wantTimestamp)
		}
	}
}

func TestTurn_IsSalesperson(t *testing.T) {
	human := NewTurn(0, SpeakerSalesperson, "Alex", "hi")
	if !human.IsSalesperson() {
		t.Error("salesperson turn not classified as salesperson")
	}

	ai := NewTurn(1, uuid.NewString(), "Sarah Chen", "hello")
	if ai.IsSalesperson() {
		t.Error("persona turn classified as salesperson")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3661, "01:01:01"},
		{90.7, "00:01:30"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestConversation_AppendExchangeKeepsCountersConsistent(t *testing.T) {
	c := NewConversation(uuid.New())

	for i := 0; i < 4; i++ {
		human := NewTurn(len(c.Turns), SpeakerSalesperson, "Alex", "question")
		human.DurationSeconds = HumanTurnDurationSeconds
		ai := NewTurn(len(c.Turns)+1, uuid.NewString(), "Sarah Chen", "answer")
		ai.DurationSeconds = AITurnDurationSeconds
		c.AppendExchange(human, ai)
	}

	if c.TotalTurns != len(c.Turns) || c.TotalTurns != 8 {
		t.Fatalf("counter out of sync: total=%d len=%d", c.TotalTurns, len(c.Turns))
	}
	if c.SalespersonTalkTime != 4*HumanTurnDurationSeconds {
		t.Fatalf("salesperson talk time = %v", c.SalespersonTalkTime)
	}
	if c.RepresentativesTalkTime != 4*AITurnDurationSeconds {
		t.Fatalf("representatives talk time = %v", c.RepresentativesTalkTime)
	}

	sales, reps := c.TurnsBySpeakerClass()
	if sales != 4 || reps != 4 {
		t.Fatalf("speaker-class split = %d/%d", sales, reps)
	}
}
