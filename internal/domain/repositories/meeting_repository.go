package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
)

// MeetingRepository provides access to meetings and their persona rosters.
// The conversation core reads through this interface only; personas are
// immutable for the lifetime of a meeting.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	Update(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	FindPersonasByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.Persona, error)
	FindPersonaByID(ctx context.Context, id uuid.UUID) (*entities.Persona, error)
}
