package meeting

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/salestrainer-team/sales-trainer/errors"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	"github.com/salestrainer-team/sales-trainer/internal/domain/repositories"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/cache"
	pkgai "github.com/salestrainer-team/sales-trainer/pkg/ai"
)

// PersonaSpec describes one representative to create with a meeting
type PersonaSpec struct {
	DisplayName     string
	Role            entities.PersonaRole
	Traits          []string
	IsDecisionMaker bool
	VoiceID         string
	TenureMonths    int
	Notes           string
}

// CreateMeetingInput carries everything needed to configure a meeting
type CreateMeetingInput struct {
	Title    string
	Goal     string
	Product  entities.ProductContext
	Company  entities.CompanyContext
	Personas []PersonaSpec
}

// Service manages meeting lifecycle around the conversation core
type Service interface {
	Create(ctx context.Context, in CreateMeetingInput) (*entities.Meeting, error)
	Start(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	End(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
}

type meetingService struct {
	repo         repositories.MeetingRepository
	contextCache cache.Store
	logger       *zap.Logger
}

// NewService constructs the meeting service. contextCache may be nil.
func NewService(repo repositories.MeetingRepository, contextCache cache.Store, logger *zap.Logger) Service {
	return &meetingService{
		repo:         repo,
		contextCache: contextCache,
		logger:       logger,
	}
}

// Create configures a new meeting with one to three personas. Personas
// without an explicit voice get one from the stock pool, round-robin.
func (s *meetingService) Create(ctx context.Context, in CreateMeetingInput) (*entities.Meeting, error) {
	if len(in.Personas) < 1 || len(in.Personas) > 3 {
		return nil, apperrors.ErrInvalidArgument("a meeting requires between 1 and 3 personas")
	}

	meeting := entities.NewMeeting(in.Title)
	meeting.Goal = in.Goal
	meeting.Product = in.Product
	meeting.Company = in.Company

	for i, spec := range in.Personas {
		persona := entities.NewPersona(meeting.ID, spec.DisplayName, spec.Role)
		persona.PersonalityTraits = spec.Traits
		persona.IsDecisionMaker = spec.IsDecisionMaker
		persona.TenureMonths = spec.TenureMonths
		persona.Notes = spec.Notes

		persona.VoiceID = spec.VoiceID
		if persona.VoiceID == "" {
			persona.VoiceID = pkgai.DefaultVoicePool[i%len(pkgai.DefaultVoicePool)]
		}

		meeting.Personas = append(meeting.Personas, *persona)
	}

	if err := s.repo.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Meeting created",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("personas", len(meeting.Personas)),
		)
	}
	return meeting, nil
}

// Start transitions a pending meeting to active
func (s *meetingService) Start(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting.Status == entities.MeetingStatusEnded {
		return nil, apperrors.ErrMeetingInvalidState(id.String(), string(meeting.Status), string(entities.MeetingStatusPending))
	}

	meeting.Start()
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	s.invalidate(ctx, id)
	return meeting, nil
}

// End transitions an active meeting to ended
func (s *meetingService) End(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	meeting.End()
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	s.invalidate(ctx, id)
	return meeting, nil
}

// Get returns a meeting with its persona roster
func (s *meetingService) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return s.find(ctx, id)
}

func (s *meetingService) find(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound(id.String())
	}
	return meeting, nil
}

// invalidate drops the cached meeting context after a status transition so
// the conversation core never sees a stale status
func (s *meetingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.contextCache != nil {
		s.contextCache.Delete(ctx, "meeting_ctx:"+id.String())
	}
}
