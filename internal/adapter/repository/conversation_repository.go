package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	"github.com/salestrainer-team/sales-trainer/internal/domain/repositories"
)

// conversationRepository implements the ConversationRepository interface on
// Postgres. The turn log lives in a single JSONB column per meeting; the
// append path locks the row so concurrent exchanges serialize instead of
// clobbering each other.
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) repositories.ConversationRepository {
	return &conversationRepository{db: db}
}

// EnsureConversation creates the conversation row for a meeting if it does not
// exist yet. A concurrent create losing the unique-index race counts as
// success; the winner's row is returned.
func (r *conversationRepository) EnsureConversation(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	existing, err := r.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := entities.NewConversation(meetingID)
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		// Lost the race: another request created the row first
		existing, fetchErr := r.GetByMeetingID(ctx, meetingID)
		if fetchErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return conversation, nil
}

// GetByMeetingID returns the conversation for a meeting, or (nil, nil) when absent
func (r *conversationRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	var conversation entities.Conversation
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		First(&conversation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// AppendExchange appends the human turn and its AI reply in one transaction.
// The conversation row is locked FOR UPDATE for the duration so the turn
// numbers assigned by the caller stay consistent with the stored log.
func (r *conversationRepository) AppendExchange(ctx context.Context, meetingID uuid.UUID, humanTurn, aiTurn entities.Turn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation entities.Conversation
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("meeting_id = ?", meetingID).
			First(&conversation).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			conversation = *entities.NewConversation(meetingID)
			if err := tx.Create(&conversation).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		conversation.AppendExchange(humanTurn, aiTurn)

		return tx.Save(&conversation).Error
	})
}
