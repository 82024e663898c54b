package entities

import (
	"fmt"
	"time"
)

// SpeakerSalesperson is the literal speaker value for the human participant.
// AI turns carry the persona id instead.
const SpeakerSalesperson = "salesperson"

// Speaking-duration placeholders used when no real measurement exists.
// Acknowledged as approximate, not measured wall-clock audio length.
const (
	HumanTurnDurationSeconds = 5.0
	AITurnDurationSeconds    = 6.0

	// Per-turn estimate used to compute the cumulative elapsed timestamp
	ElapsedSecondsPerTurn = 10
)

// Turn is one atomic utterance in a conversation, immutable once appended.
// Turns live embedded in the Conversation's JSONB turns array.
type Turn struct {
	TurnNumber      int       `json:"turn_number"`
	Speaker         string    `json:"speaker"`
	SpeakerName     string    `json:"speaker_name"`
	Text            string    `json:"text"`
	AudioURL        *string   `json:"audio_url"`
	Timestamp       string    `json:"timestamp"`
	DurationSeconds float64   `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTurn constructs a turn. priorTurns is the number of turns already in the
// conversation when this utterance happened; it fixes both the turn number and
// the estimated elapsed timestamp.
func NewTurn(priorTurns int, speaker, speakerName, text string) Turn {
	return Turn{
		TurnNumber:  priorTurns + 1,
		Speaker:     speaker,
		SpeakerName: speakerName,
		Text:        text,
		Timestamp:   FormatElapsed(float64(priorTurns * ElapsedSecondsPerTurn)),
		CreatedAt:   time.Now().UTC(),
	}
}

// IsSalesperson reports whether this turn belongs to the human speaker class
func (t Turn) IsSalesperson() bool {
	return t.Speaker == SpeakerSalesperson
}

// FormatElapsed formats a duration in seconds as HH:MM:SS
func FormatElapsed(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
