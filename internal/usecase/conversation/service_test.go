package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/salestrainer-team/sales-trainer/errors"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
)

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo(meetings ...*entities.Meeting) *fakeMeetingRepo {
	r := &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
	for _, m := range meetings {
		r.meetings[m.ID] = m
	}
	return r
}

func (r *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.meetings[m.ID] = m
	return nil
}

func (r *fakeMeetingRepo) Update(_ context.Context, m *entities.Meeting) error {
	r.meetings[m.ID] = m
	return nil
}

func (r *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return r.meetings[id], nil
}

func (r *fakeMeetingRepo) FindPersonasByMeetingID(_ context.Context, meetingID uuid.UUID) ([]entities.Persona, error) {
	if m, ok := r.meetings[meetingID]; ok {
		return m.Personas, nil
	}
	return nil, nil
}

func (r *fakeMeetingRepo) FindPersonaByID(_ context.Context, id uuid.UUID) (*entities.Persona, error) {
	for _, m := range r.meetings {
		for i := range m.Personas {
			if m.Personas[i].ID == id {
				return &m.Personas[i], nil
			}
		}
	}
	return nil, nil
}

// fakeLedger mirrors the transactional semantics of the Postgres ledger:
// an append either applies both turns and all counters or nothing
type fakeLedger struct {
	conversations map[uuid.UUID]*entities.Conversation
	appendErr     error
	appends       int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{conversations: make(map[uuid.UUID]*entities.Conversation)}
}

func (l *fakeLedger) EnsureConversation(_ context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	if c, ok := l.conversations[meetingID]; ok {
		return c, nil
	}
	c := entities.NewConversation(meetingID)
	l.conversations[meetingID] = c
	return c, nil
}

func (l *fakeLedger) GetByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Conversation, error) {
	return l.conversations[meetingID], nil
}

func (l *fakeLedger) AppendExchange(_ context.Context, meetingID uuid.UUID, humanTurn, aiTurn entities.Turn) error {
	l.appends++
	if l.appendErr != nil {
		return l.appendErr
	}
	c, ok := l.conversations[meetingID]
	if !ok {
		c = entities.NewConversation(meetingID)
		l.conversations[meetingID] = c
	}
	c.AppendExchange(humanTurn, aiTurn)
	return nil
}

type stubSynth struct {
	audio      []byte
	err        error
	configured bool
	calls      int
	lastVoice  string
	lastTrait  string
	lastText   string
}

func (s *stubSynth) Synthesize(_ context.Context, text, voiceID, personality string) ([]byte, error) {
	s.calls++
	s.lastText = text
	s.lastVoice = voiceID
	s.lastTrait = personality
	return s.audio, s.err
}

func (s *stubSynth) IsConfigured() bool { return s.configured }

type stubStore struct {
	err   error
	calls int
}

func (s *stubStore) UploadTurnAudio(_ context.Context, meetingID uuid.UUID, turnNumber int, speaker string, _ []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("http://storage/meetings/%s/turns/%d_%s.mp3", meetingID, turnNumber, speaker), nil
}

func activeMeeting() *entities.Meeting {
	m := testMeeting()
	m.Start()

	cfo := entities.NewPersona(m.ID, "Sarah Chen", entities.PersonaRoleCFO)
	cfo.PersonalityTraits = []string{"cold_hearted"}
	cfo.IsDecisionMaker = true
	cfo.VoiceID = "voice-cfo"
	m.Personas = []entities.Persona{*cfo}
	return m
}

func newTestService(meeting *entities.Meeting, llm *stubLLM, ledger *fakeLedger, synth *stubSynth, store AudioStore) Service {
	selector := NewSelector(llm, NewRegexAddresseeExtractor(), 10, nil)
	return NewService(
		newFakeMeetingRepo(meeting),
		ledger,
		selector,
		synth,
		nil,
		store,
		NewSessionStream(16000, nil),
		nil,
		time.Second,
		nil,
	)
}

func cfoReply(m *entities.Meeting) string {
	return fmt.Sprintf(
		`{"responding_rep_id":"%s","responding_rep_name":"Sarah Chen","response_text":"Margins first. ROI within two quarters or no deal.","reasoning":"financial question"}`,
		m.Personas[0].ID,
	)
}

func TestExchange_TurnNumberingAndCounters(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	ledger := newFakeLedger()
	svc := newTestService(meeting, llm, ledger, &stubSynth{}, nil)

	for i := 0; i < 3; i++ {
		result, err := svc.Exchange(context.Background(), ExchangeInput{
			MeetingID: meeting.ID,
			Message:   "What's the ROI?",
		})
		if err != nil {
			t.Fatalf("exchange %d failed: %v", i, err)
		}
		wantHuman := i*2 + 1
		if result.HumanTurnNumber != wantHuman || result.AITurnNumber != wantHuman+1 {
			t.Fatalf("exchange %d: got turns (%d, %d), want (%d, %d)",
				i, result.HumanTurnNumber, result.AITurnNumber, wantHuman, wantHuman+1)
		}
	}

	c := ledger.conversations[meeting.ID]
	if c.TotalTurns != 6 || len(c.Turns) != 6 {
		t.Fatalf("expected 6 turns, got total=%d len=%d", c.TotalTurns, len(c.Turns))
	}

	var salesTime, repTime float64
	for _, turn := range c.Turns {
		if turn.IsSalesperson() {
			salesTime += turn.DurationSeconds
		} else {
			repTime += turn.DurationSeconds
		}
	}
	if c.SalespersonTalkTime != salesTime || c.RepresentativesTalkTime != repTime {
		t.Fatalf("talk-time counters diverged: %v/%v vs %v/%v",
			c.SalespersonTalkTime, c.RepresentativesTalkTime, salesTime, repTime)
	}
}

func TestExchange_RoutesFinancialQuestionToCFO(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	synth := &stubSynth{configured: true, audio: []byte("mp3")}
	svc := newTestService(meeting, llm, newFakeLedger(), synth, &stubStore{})

	result, err := svc.Exchange(context.Background(), ExchangeInput{
		MeetingID: meeting.ID,
		Message:   "What's the ROI?",
	})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if result.ResponderID != meeting.Personas[0].ID || result.ResponderRole != "CFO" {
		t.Fatalf("expected CFO responder, got %s (%s)", result.ResponderName, result.ResponderRole)
	}
	if synth.lastTrait != "cold_hearted" {
		t.Fatalf("expected cold_hearted synthesis preset, got %q", synth.lastTrait)
	}
	if synth.lastVoice != "voice-cfo" {
		t.Fatalf("expected persona voice, got %q", synth.lastVoice)
	}
	if result.AudioURL == nil {
		t.Fatal("expected audio reference when synthesis and upload succeed")
	}
}

func TestExchange_PendingMeetingRejectedBeforeBackendCalls(t *testing.T) {
	meeting := testMeeting() // pending
	cfo := entities.NewPersona(meeting.ID, "Sarah Chen", entities.PersonaRoleCFO)
	meeting.Personas = []entities.Persona{*cfo}

	llm := &stubLLM{response: `{}`}
	synth := &stubSynth{configured: true}
	ledger := newFakeLedger()
	svc := newTestService(meeting, llm, ledger, synth, nil)

	_, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hi"})

	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_MEETING_NOT_ACTIVE {
		t.Fatalf("expected meeting-not-active error, got %v", err)
	}
	if llm.calls != 0 || synth.calls != 0 || ledger.appends != 0 {
		t.Fatalf("expected zero backend calls, got llm=%d synth=%d ledger=%d",
			llm.calls, synth.calls, ledger.appends)
	}
}

func TestExchange_MeetingNotFound(t *testing.T) {
	meeting := activeMeeting()
	svc := newTestService(meeting, &stubLLM{response: `{}`}, newFakeLedger(), &stubSynth{}, nil)

	_, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: uuid.New(), Message: "Hi"})

	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_MEETING_NOT_FOUND {
		t.Fatalf("expected meeting-not-found error, got %v", err)
	}
}

func TestExchange_SynthesisDisabledStillPersists(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	ledger := newFakeLedger()
	synth := &stubSynth{configured: false}
	svc := newTestService(meeting, llm, ledger, synth, &stubStore{})

	result, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hello"})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if result.AudioURL != nil {
		t.Fatal("expected nil audio reference with synthesis disabled")
	}
	if result.ReplyText == "" {
		t.Fatal("expected reply text despite disabled synthesis")
	}
	if synth.calls != 0 {
		t.Fatalf("unconfigured synthesizer must not be invoked, got %d calls", synth.calls)
	}
	if c := ledger.conversations[meeting.ID]; c.TotalTurns != 2 {
		t.Fatalf("expected both turns persisted, got %d", c.TotalTurns)
	}
}

func TestExchange_SynthesisFailureSwallowed(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	synth := &stubSynth{configured: true, err: errors.New("tts exploded")}
	svc := newTestService(meeting, llm, newFakeLedger(), synth, &stubStore{})

	result, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hello"})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if result.AudioURL != nil {
		t.Fatal("expected nil audio reference after synthesis failure")
	}
}

func TestExchange_UploadFailureYieldsNoReference(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	synth := &stubSynth{configured: true, audio: []byte("mp3")}
	store := &stubStore{err: errors.New("bucket gone")}
	ledger := newFakeLedger()
	svc := newTestService(meeting, llm, ledger, synth, store)

	result, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hello"})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if result.AudioURL != nil {
		t.Fatal("expected nil audio reference when upload fails")
	}
	if c := ledger.conversations[meeting.ID]; c.TotalTurns != 2 {
		t.Fatalf("upload failure must not block persistence, got %d turns", c.TotalTurns)
	}
}

func TestExchange_LedgerFailureSurfacedAsWarning(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	ledger := newFakeLedger()
	ledger.appendErr = errors.New("invalid write") // non-retryable
	svc := newTestService(meeting, llm, ledger, &stubSynth{}, nil)

	result, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hello"})
	if err != nil {
		t.Fatalf("ledger failure must not fail the exchange: %v", err)
	}
	if result.LedgerWarning == "" {
		t.Fatal("expected ledger warning on the result")
	}
	// Atomicity: the failed append left no orphaned single turn behind
	if c := ledger.conversations[meeting.ID]; c != nil && len(c.Turns) != 0 {
		t.Fatalf("expected no turns after failed append, got %d", len(c.Turns))
	}
}

func TestExchange_FallbackSelectionStillCompletes(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{err: errors.New("connection refused")}
	ledger := newFakeLedger()
	svc := newTestService(meeting, llm, ledger, &stubSynth{}, nil)

	result, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: "Hello"})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if result.ResponderID != meeting.Personas[0].ID {
		t.Fatal("fallback must draw the responder from the roster")
	}
	if result.ReplyText == "" {
		t.Fatal("fallback reply must be non-empty")
	}
	if c := ledger.conversations[meeting.ID]; c.TotalTurns != 2 {
		t.Fatalf("fallback exchange must persist both turns, got %d", c.TotalTurns)
	}
}

func TestHistory_EmptyConversationForUnknownMeeting(t *testing.T) {
	meeting := activeMeeting()
	svc := newTestService(meeting, &stubLLM{response: `{}`}, newFakeLedger(), &stubSynth{}, nil)

	c, err := svc.History(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if c.TotalTurns != 0 || len(c.Turns) != 0 {
		t.Fatalf("expected empty conversation, got %d turns", c.TotalTurns)
	}
}

func TestConversationAnalytics(t *testing.T) {
	meeting := activeMeeting()
	llm := &stubLLM{response: cfoReply(meeting)}
	ledger := newFakeLedger()
	svc := newTestService(meeting, llm, ledger, &stubSynth{}, nil)

	for _, msg := range []string{"What's the ROI?", "Any concerns?", "Great, let's proceed."} {
		if _, err := svc.Exchange(context.Background(), ExchangeInput{MeetingID: meeting.ID, Message: msg}); err != nil {
			t.Fatalf("exchange failed: %v", err)
		}
	}

	a, err := svc.ConversationAnalytics(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if a.TotalTurns != 6 || a.SalespersonTurns != 3 || a.AITurns != 3 {
		t.Fatalf("unexpected turn counts: %+v", a)
	}
	if a.QuestionsAsked != 2 {
		t.Fatalf("expected 2 questions asked, got %d", a.QuestionsAsked)
	}
	if a.TotalDuration != a.SalespersonTalkTime+a.RepresentativesTalkTime {
		t.Fatalf("duration mismatch: %+v", a)
	}
	if a.SalespersonTalkRatio+a.RepresentativesRatio < 99.9 {
		t.Fatalf("ratios should sum to ~100, got %v + %v", a.SalespersonTalkRatio, a.RepresentativesRatio)
	}
}

func TestConversationAnalytics_NotFound(t *testing.T) {
	meeting := activeMeeting()
	svc := newTestService(meeting, &stubLLM{response: `{}`}, newFakeLedger(), &stubSynth{}, nil)

	_, err := svc.ConversationAnalytics(context.Background(), meeting.ID)

	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_CONVERSATION_NOT_FOUND {
		t.Fatalf("expected conversation-not-found, got %v", err)
	}
}
