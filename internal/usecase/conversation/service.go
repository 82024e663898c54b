package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/salestrainer-team/sales-trainer/errors"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	"github.com/salestrainer-team/sales-trainer/internal/domain/repositories"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/cache"
	"github.com/salestrainer-team/sales-trainer/pkg/exchangectx"
)

// Synthesizer converts reply text into an audio waveform
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, personality string) ([]byte, error)
	IsConfigured() bool
}

// Transcriber converts a buffered audio segment into text
type Transcriber interface {
	TranscribeSegment(ctx context.Context, audio []byte) (string, error)
	IsConfigured() bool
}

// AudioStore persists turn audio and returns a retrievable reference
type AudioStore interface {
	UploadTurnAudio(ctx context.Context, meetingID uuid.UUID, turnNumber int, speaker string, audio []byte) (string, error)
}

// Emitter receives live progress events during an exchange. Nil for the
// synchronous request/response path.
type Emitter interface {
	EmitThinking(speakerName, speakerRole string)
	EmitResponseText(text, speakerName, speakerRole string)
	StreamAudio(ctx context.Context, audio []byte) error
}

// ExchangeInput is one inbound utterance plus its delivery context
type ExchangeInput struct {
	MeetingID uuid.UUID
	Speaker   string
	Message   string
	Audio     []byte
	Emitter   Emitter
}

// ExchangeResult is the outcome of one orchestration pass
type ExchangeResult struct {
	ResponderID     uuid.UUID `json:"speaker_id"`
	ResponderName   string    `json:"speaker_name"`
	ResponderRole   string    `json:"speaker_role"`
	ReplyText       string    `json:"response_text"`
	AudioURL        *string   `json:"audio_url"`
	DurationSeconds float64   `json:"duration_seconds"`
	HumanTurnNumber int       `json:"human_turn_number"`
	AITurnNumber    int       `json:"turn_number"`
	Rationale       string    `json:"reasoning,omitempty"`
	LedgerWarning   string    `json:"ledger_warning,omitempty"`
}

// Analytics summarizes a conversation for review after a training session
type Analytics struct {
	TotalTurns              int     `json:"total_turns"`
	SalespersonTurns        int     `json:"salesperson_turns"`
	AITurns                 int     `json:"ai_turns"`
	SalespersonTalkTime     float64 `json:"salesperson_talk_time"`
	RepresentativesTalkTime float64 `json:"representatives_talk_time"`
	TotalDuration           float64 `json:"total_duration"`
	SalespersonTalkRatio    float64 `json:"salesperson_talk_ratio"`
	RepresentativesRatio    float64 `json:"representatives_talk_ratio"`
	QuestionsAsked          int     `json:"questions_asked"`
}

// Service defines conversation orchestration methods
type Service interface {
	Exchange(ctx context.Context, in ExchangeInput) (*ExchangeResult, error)
	LoadMeetingContext(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error)
	EnsureConversation(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error)
	History(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error)
	ConversationAnalytics(ctx context.Context, meetingID uuid.UUID) (*Analytics, error)
	Transcribe(ctx context.Context, segments [][]byte) (string, error)
	Stream() *SessionStream
}

type conversationService struct {
	meetingRepo    repositories.MeetingRepository
	ledger         repositories.ConversationRepository
	selector       *Selector
	synthesizer    Synthesizer
	transcriber    Transcriber
	audioStore     AudioStore
	stream         *SessionStream
	contextCache   cache.Store
	ledgerRetryMax time.Duration
	logger         *zap.Logger
}

// NewService constructs the turn orchestrator. synthesizer, transcriber,
// audioStore and contextCache may be nil; the exchange degrades per backend.
func NewService(
	meetingRepo repositories.MeetingRepository,
	ledger repositories.ConversationRepository,
	selector *Selector,
	synthesizer Synthesizer,
	transcriber Transcriber,
	audioStore AudioStore,
	stream *SessionStream,
	contextCache cache.Store,
	ledgerRetryMax time.Duration,
	logger *zap.Logger,
) Service {
	if ledgerRetryMax <= 0 {
		ledgerRetryMax = 10 * time.Second
	}
	return &conversationService{
		meetingRepo:    meetingRepo,
		ledger:         ledger,
		selector:       selector,
		synthesizer:    synthesizer,
		transcriber:    transcriber,
		audioStore:     audioStore,
		stream:         stream,
		contextCache:   contextCache,
		ledgerRetryMax: ledgerRetryMax,
		logger:         logger,
	}
}

// Stream exposes the live-session audio state machine
func (s *conversationService) Stream() *SessionStream {
	return s.stream
}

// LoadMeetingContext loads a meeting with its persona roster, serving from
// the context cache when possible. Meetings are cached briefly; the meeting
// service invalidates on status transitions.
func (s *conversationService) LoadMeetingContext(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	cacheKey := "meeting_ctx:" + meetingID.String()

	if s.contextCache != nil {
		if raw, ok := s.contextCache.Get(ctx, cacheKey); ok {
			var meeting entities.Meeting
			if err := json.Unmarshal([]byte(raw), &meeting); err == nil {
				return &meeting, nil
			}
		}
	}

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound(meetingID.String())
	}

	if s.contextCache != nil {
		if raw, err := json.Marshal(meeting); err == nil {
			s.contextCache.Set(ctx, cacheKey, string(raw), 5*time.Minute)
		}
	}
	return meeting, nil
}

// EnsureConversation lazily creates the conversation document for a meeting
func (s *conversationService) EnsureConversation(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	conversation, err := s.ledger.EnsureConversation(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrLedgerAppendFailed(err)
	}
	return conversation, nil
}

// Exchange runs one full orchestration pass: precondition checks, responder
// selection, synthesis, optional live streaming and the atomic dual-turn
// append. Backend failures after the precondition stage degrade instead of
// aborting.
func (s *conversationService) Exchange(ctx context.Context, in ExchangeInput) (*ExchangeResult, error) {
	// Precondition stage: reject before any external call
	meeting, err := s.LoadMeetingContext(ctx, in.MeetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsActive() {
		return nil, apperrors.ErrMeetingNotActive(in.MeetingID.String())
	}

	personas := meeting.Personas
	if len(personas) == 0 {
		personas, err = s.meetingRepo.FindPersonasByMeetingID(ctx, in.MeetingID)
		if err != nil {
			return nil, apperrors.ErrDBQueryFailed(err)
		}
	}
	if len(personas) == 0 {
		return nil, apperrors.ErrNoPersonas(in.MeetingID.String())
	}

	conversation, err := s.EnsureConversation(ctx, in.MeetingID)
	if err != nil {
		return nil, err
	}

	speaker := in.Speaker
	if speaker == "" {
		speaker = entities.SpeakerSalesperson
	}
	speakerName := s.resolveSpeakerName(ctx, speaker, personas)

	// Turn numbers are snapshotted once per exchange
	priorTurns := len(conversation.Turns)

	mode := "rest"
	if in.Emitter != nil {
		mode = "live"
	}
	ctx, cancel := exchangectx.Begin(ctx, in.MeetingID, mode, priorTurns+1)
	defer cancel()

	humanTurn := entities.NewTurn(priorTurns, speaker, speakerName, in.Message)
	humanTurn.DurationSeconds = entities.HumanTurnDurationSeconds
	if url := s.uploadAudio(ctx, in.MeetingID, humanTurn.TurnNumber, speaker, in.Audio); url != "" {
		humanTurn.AudioURL = &url
	}

	selection := s.selector.Select(ctx, conversation.Turns, personas, meeting, in.Message)

	// Defense in depth: the selector already resolved against the roster,
	// but never trust a nil responder this deep into the exchange
	responder := selection.Responder
	if responder == nil {
		responder = &personas[0]
	}

	if in.Emitter != nil {
		in.Emitter.EmitThinking(responder.DisplayName, string(responder.Role))
		in.Emitter.EmitResponseText(selection.ReplyText, responder.DisplayName, string(responder.Role))
	}

	aiAudio := s.synthesize(ctx, selection.ReplyText, responder)

	if len(aiAudio) > 0 && in.Emitter != nil {
		if err := in.Emitter.StreamAudio(ctx, aiAudio); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Audio streaming interrupted",
				zap.String("meeting_id", in.MeetingID.String()),
				zap.Error(err),
			)
		}
	}

	aiTurn := entities.NewTurn(priorTurns+1, responder.ID.String(), responder.DisplayName, selection.ReplyText)
	aiTurn.DurationSeconds = entities.AITurnDurationSeconds
	if url := s.uploadAudio(ctx, in.MeetingID, aiTurn.TurnNumber, responder.ID.String(), aiAudio); url != "" {
		aiTurn.AudioURL = &url
	}

	result := &ExchangeResult{
		ResponderID:     responder.ID,
		ResponderName:   responder.DisplayName,
		ResponderRole:   string(responder.Role),
		ReplyText:       selection.ReplyText,
		AudioURL:        aiTurn.AudioURL,
		DurationSeconds: aiTurn.DurationSeconds,
		HumanTurnNumber: humanTurn.TurnNumber,
		AITurnNumber:    aiTurn.TurnNumber,
		Rationale:       selection.Rationale,
	}

	// Durability stage. The reply has already been delivered; a persistent
	// ledger failure is retried, then surfaced as a warning on the result.
	if err := s.appendWithRetry(ctx, in.MeetingID, humanTurn, aiTurn); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Ledger append failed after retries",
				zap.String("meeting_id", in.MeetingID.String()),
				zap.Int("human_turn", humanTurn.TurnNumber),
				zap.Error(err),
			)
		}
		result.LedgerWarning = "conversation could not be saved; the transcript may be incomplete"
	}

	if s.logger != nil {
		if start, ok := exchangectx.GetStartTime(ctx); ok {
			s.logger.Info("✅ Exchange completed",
				zap.String("meeting_id", in.MeetingID.String()),
				zap.String("mode", mode),
				zap.String("responder", responder.DisplayName),
				zap.Int("turn", aiTurn.TurnNumber),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}

	return result, nil
}

// appendWithRetry commits the dual-turn append, retrying transient failures
// with exponential backoff up to the configured budget
func (s *conversationService) appendWithRetry(ctx context.Context, meetingID uuid.UUID, humanTurn, aiTurn entities.Turn) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = s.ledgerRetryMax

	return backoff.Retry(func() error {
		err := s.ledger.AppendExchange(ctx, meetingID, humanTurn, aiTurn)
		if err != nil && !exchangectx.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
}

// synthesize runs TTS for the reply, swallowing every failure mode
func (s *conversationService) synthesize(ctx context.Context, text string, responder *entities.Persona) []byte {
	if s.synthesizer == nil || !s.synthesizer.IsConfigured() {
		return nil
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, responder.VoiceID, responder.PrimaryTrait())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Voice synthesis failed, continuing text-only",
				zap.String("persona", responder.DisplayName),
				zap.Error(err),
			)
		}
		return nil
	}
	return audio
}

// uploadAudio stores turn audio fail-soft: a failed upload yields no
// reference, never an error
func (s *conversationService) uploadAudio(ctx context.Context, meetingID uuid.UUID, turnNumber int, speaker string, audio []byte) string {
	if s.audioStore == nil || len(audio) == 0 {
		return ""
	}

	url, err := s.audioStore.UploadTurnAudio(ctx, meetingID, turnNumber, speaker, audio)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Turn audio upload failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Int("turn", turnNumber),
				zap.Error(err),
			)
		}
		return ""
	}
	return url
}

// resolveSpeakerName maps a speaker value to its display name
func (s *conversationService) resolveSpeakerName(ctx context.Context, speaker string, personas []entities.Persona) string {
	if speaker == entities.SpeakerSalesperson {
		return "Salesperson"
	}

	for i := range personas {
		if personas[i].ID.String() == speaker {
			return personas[i].DisplayName
		}
	}

	if id, err := uuid.Parse(speaker); err == nil {
		if persona, err := s.meetingRepo.FindPersonaByID(ctx, id); err == nil && persona != nil {
			return persona.DisplayName
		}
	}
	return "Salesperson"
}

// Transcribe joins buffered audio segments and runs speech-to-text
func (s *conversationService) Transcribe(ctx context.Context, segments [][]byte) (string, error) {
	if s.transcriber == nil || !s.transcriber.IsConfigured() {
		return "", apperrors.ErrTranscriptionFailed(fmt.Errorf("no transcription backend configured"))
	}

	var joined []byte
	for _, segment := range segments {
		joined = append(joined, segment...)
	}
	if len(joined) == 0 {
		return "", nil
	}

	text, err := s.transcriber.TranscribeSegment(ctx, joined)
	if err != nil {
		return "", apperrors.ErrTranscriptionFailed(err)
	}
	return strings.TrimSpace(text), nil
}

// History returns the conversation for a meeting, or an empty document when
// no exchange has happened yet
func (s *conversationService) History(ctx context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	conversation, err := s.ledger.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if conversation == nil {
		return entities.NewConversation(meetingID), nil
	}
	return conversation, nil
}

// ConversationAnalytics computes talk-time and engagement metrics
func (s *conversationService) ConversationAnalytics(ctx context.Context, meetingID uuid.UUID) (*Analytics, error) {
	conversation, err := s.ledger.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if conversation == nil {
		return nil, apperrors.ErrConversationNotFound(meetingID.String())
	}

	salesTurns, aiTurns := conversation.TurnsBySpeakerClass()
	totalTime := conversation.SalespersonTalkTime + conversation.RepresentativesTalkTime

	analytics := &Analytics{
		TotalTurns:              conversation.TotalTurns,
		SalespersonTurns:        salesTurns,
		AITurns:                 aiTurns,
		SalespersonTalkTime:     conversation.SalespersonTalkTime,
		RepresentativesTalkTime: conversation.RepresentativesTalkTime,
		TotalDuration:           totalTime,
	}

	if totalTime > 0 {
		analytics.SalespersonTalkRatio = round2(conversation.SalespersonTalkTime / totalTime * 100)
		analytics.RepresentativesRatio = round2(conversation.RepresentativesTalkTime / totalTime * 100)
	}

	for _, turn := range conversation.Turns {
		if turn.IsSalesperson() && strings.Contains(turn.Text, "?") {
			analytics.QuestionsAsked++
		}
	}

	return analytics, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
