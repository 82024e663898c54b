package entities

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the authoritative append-only turn log for a meeting.
// Invariants: TotalTurns == len(Turns); each talk-time counter equals the sum
// of DurationSeconds over the corresponding speaker class.
type Conversation struct {
	ID                      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"meeting_id"`
	Turns                   []Turn    `gorm:"type:jsonb;serializer:json" json:"turns"`
	TotalTurns              int       `gorm:"default:0" json:"total_turns"`
	SalespersonTalkTime     float64   `gorm:"default:0" json:"salesperson_talk_time"`
	RepresentativesTalkTime float64   `gorm:"default:0" json:"representatives_talk_time"`
	CreatedAt               time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt               time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation creates an empty conversation for a meeting
func NewConversation(meetingID uuid.UUID) *Conversation {
	return &Conversation{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Turns:     []Turn{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// AppendExchange applies a human/AI turn pair to the in-memory document,
// updating the counters the same way the ledger's transactional write does.
func (c *Conversation) AppendExchange(humanTurn, aiTurn Turn) {
	c.Turns = append(c.Turns, humanTurn, aiTurn)
	c.TotalTurns = len(c.Turns)
	c.addTalkTime(humanTurn)
	c.addTalkTime(aiTurn)
	c.UpdatedAt = time.Now()
}

func (c *Conversation) addTalkTime(t Turn) {
	if t.IsSalesperson() {
		c.SalespersonTalkTime += t.DurationSeconds
	} else {
		c.RepresentativesTalkTime += t.DurationSeconds
	}
}

// TurnsBySpeakerClass returns the salesperson and representative turn counts
func (c *Conversation) TurnsBySpeakerClass() (salesperson, representatives int) {
	for _, t := range c.Turns {
		if t.IsSalesperson() {
			salesperson++
		} else {
			representatives++
		}
	}
	return salesperson, representatives
}
