package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	pkgai "github.com/salestrainer-team/sales-trainer/pkg/ai"
)

type stubLLM struct {
	response     string
	err          error
	calls        int
	lastMessages []pkgai.ChatMessage
}

func (s *stubLLM) CreateJSONCompletion(_ context.Context, _ string, messages []pkgai.ChatMessage) (string, error) {
	s.calls++
	s.lastMessages = messages
	return s.response, s.err
}

func testRoster() []entities.Persona {
	cfo := entities.NewPersona(uuid.New(), "Sarah Chen", entities.PersonaRoleCFO)
	cfo.PersonalityTraits = []string{"cold_hearted"}
	cfo.IsDecisionMaker = true

	cto := entities.NewPersona(uuid.New(), "Mike Torres", entities.PersonaRoleCTO)
	cto.PersonalityTraits = []string{"analytical"}

	return []entities.Persona{*cfo, *cto}
}

func testMeeting() *entities.Meeting {
	m := entities.NewMeeting("Q3 pitch")
	m.Product = entities.ProductContext{Name: "CRM Suite", Description: "Sales pipeline tooling"}
	m.Company = entities.CompanyContext{Industry: "fintech", Size: "200"}
	return m
}

func TestSelect_ValidJSON(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: fmt.Sprintf(
		`{"responding_rep_id":"%s","responding_rep_name":"Sarah Chen","response_text":"Show me the numbers.","reasoning":"budget topic"}`,
		personas[0].ID,
	)}
	selector := NewSelector(llm, NewRegexAddresseeExtractor(), 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "What's the ROI?")

	if sel.UsedFallback {
		t.Fatal("did not expect fallback")
	}
	if sel.Responder.ID != personas[0].ID {
		t.Fatalf("expected CFO to respond, got %s", sel.Responder.DisplayName)
	}
	if sel.ReplyText != "Show me the numbers." {
		t.Fatalf("unexpected reply %q", sel.ReplyText)
	}
	if sel.Rationale != "budget topic" {
		t.Fatalf("unexpected rationale %q", sel.Rationale)
	}
}

func TestSelect_RecoversWrappedJSON(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: "```json\n{\"responding_rep_name\":\"Mike Torres\",\"response_text\":\"Which stack are you on?\"}\n```"}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "How does it integrate?")

	if sel.Responder.DisplayName != "Mike Torres" {
		t.Fatalf("expected name-matched responder, got %s", sel.Responder.DisplayName)
	}
}

func TestSelect_RepairsByName(t *testing.T) {
	personas := testRoster()
	// No id in response; resolution must fall back to case-insensitive name match
	llm := &stubLLM{response: `{"responding_rep_name":"sarah chen","response_text":"Fine."}`}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "Hello everyone")

	if sel.Responder.ID != personas[0].ID {
		t.Fatalf("expected Sarah Chen, got %s", sel.Responder.DisplayName)
	}
}

func TestSelect_UnresolvedDefaultsToFirstPersona(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: `{"responding_rep_id":"nobody","responding_rep_name":"Unknown","response_text":"Hi."}`}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "Hello")

	if sel.Responder.ID != personas[0].ID {
		t.Fatalf("expected first persona fallback, got %s", sel.Responder.DisplayName)
	}
}

func TestSelect_EmptyReplySubstituted(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: `{"responding_rep_name":"Sarah Chen","response_text":""}`}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "Hello")

	if sel.ReplyText == "" {
		t.Fatal("expected generic continuation for empty reply")
	}
}

func TestSelect_BackendFailureCannedFallback(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{err: fmt.Errorf("connection refused")}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "What's the ROI?")

	if !sel.UsedFallback {
		t.Fatal("expected fallback selection")
	}
	if sel.Responder == nil || sel.Responder.ID != personas[0].ID {
		t.Fatal("fallback must pick the first persona")
	}
	// cold_hearted trait has a distinct canned reply
	if sel.ReplyText != cannedReplies["cold_hearted"] {
		t.Fatalf("expected cold_hearted canned reply, got %q", sel.ReplyText)
	}
}

func TestSelect_MalformedOutputCannedFallback(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: "I think Sarah should respond because"}
	selector := NewSelector(llm, nil, 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "Hello")

	if !sel.UsedFallback {
		t.Fatal("expected fallback for unparseable output")
	}
	if sel.ReplyText == "" {
		t.Fatal("fallback reply must be non-empty")
	}
}

func TestSelect_AddressedPersonaOverridesModel(t *testing.T) {
	personas := testRoster()
	// Model picks the CFO, but the utterance addresses Mike by name
	llm := &stubLLM{response: `{"responding_rep_name":"Sarah Chen","response_text":"I'll take this."}`}
	selector := NewSelector(llm, NewRegexAddresseeExtractor(), 10, nil)

	sel := selector.Select(context.Background(), nil, personas, testMeeting(), "Mike, what do you think?")

	if sel.Responder.DisplayName != "Mike Torres" {
		t.Fatalf("expected addressed persona to respond, got %s", sel.Responder.DisplayName)
	}
}

func TestSelect_HistoryWindowBounded(t *testing.T) {
	personas := testRoster()
	llm := &stubLLM{response: `{"responding_rep_name":"Sarah Chen","response_text":"Ok."}`}
	selector := NewSelector(llm, nil, 3, nil)

	var history []entities.Turn
	for i := 0; i < 20; i++ {
		history = append(history, entities.NewTurn(i, entities.SpeakerSalesperson, "Salesperson", fmt.Sprintf("turn %d", i)))
	}

	sel := selector.Select(context.Background(), history, personas, testMeeting(), "latest")
	if sel.UsedFallback {
		t.Fatal("unexpected fallback")
	}
	// 3 history turns plus the current utterance
	if len(llm.lastMessages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(llm.lastMessages))
	}
	if llm.lastMessages[0].Content != "[Salesperson]: turn 17" {
		t.Fatalf("expected oldest turns dropped first, got %q", llm.lastMessages[0].Content)
	}
}
