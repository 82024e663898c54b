package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	"github.com/salestrainer-team/sales-trainer/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting along with its personas
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// Update updates an existing meeting
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Save(meeting).Error
}

// FindByID retrieves a meeting with its persona roster, or (nil, nil) when absent
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Personas").
		Where("id = ?", id).
		First(&meeting).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// FindPersonasByMeetingID retrieves the persona roster for a meeting in
// creation order
func (r *meetingRepository) FindPersonasByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.Persona, error) {
	var personas []entities.Persona
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&personas).Error
	return personas, err
}

// FindPersonaByID retrieves a persona, or (nil, nil) when absent
func (r *meetingRepository) FindPersonaByID(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	var persona entities.Persona
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&persona).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &persona, nil
}
