package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
)

// ConversationRepository is the conversation ledger. A human utterance and its
// AI reply are committed in a single atomic operation; a reader never observes
// one turn of an exchange without the other.
type ConversationRepository interface {
	// EnsureConversation creates the conversation document for a meeting if it
	// does not exist yet. "Already exists" counts as success.
	EnsureConversation(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error)

	// GetByMeetingID returns the conversation, or (nil, nil) when absent.
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error)

	// AppendExchange appends both turns and updates the turn counter and both
	// talk-time counters as one transactional unit.
	AppendExchange(ctx context.Context, meetingID uuid.UUID, humanTurn, aiTurn entities.Turn) error
}
