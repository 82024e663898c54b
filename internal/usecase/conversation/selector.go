package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	pkgai "github.com/salestrainer-team/sales-trainer/pkg/ai"
)

// LLMBackend is the text-generation dependency of the selector. It accepts a
// system instruction plus bounded message history and returns structured JSON.
type LLMBackend interface {
	CreateJSONCompletion(ctx context.Context, system string, messages []pkgai.ChatMessage) (string, error)
}

// Selection is the fully-repaired outcome of one responder-selection pass.
// Every field is populated; callers never see a partially-valid result.
type Selection struct {
	Responder       *entities.Persona
	ReplyText       string
	ShouldInterrupt bool
	InterruptingID  string
	Rationale       string
	UsedFallback    bool
}

// rawSelection is the wire shape the model is asked to produce. Any field may
// be missing or null; the repair pass turns it into a Selection or rejects it.
type rawSelection struct {
	RespondingRepID   string `json:"responding_rep_id"`
	RespondingRepName string `json:"responding_rep_name"`
	ResponseText      string `json:"response_text"`
	ShouldInterrupt   bool   `json:"should_interrupt"`
	InterruptingRepID string `json:"interrupting_rep_id"`
	Reasoning         string `json:"reasoning"`
}

// cannedReplies keeps the conversation moving when the LLM backend is down.
// Keyed by the responder's primary personality trait.
var cannedReplies = map[string]string{
	"angry":        "Look, I don't have all day for this. Get to the point.",
	"arrogant":     "I've heard this pitch a hundred times. What makes you any different?",
	"soft":         "That's interesting, please go on. I'd love to hear more about that.",
	"cold_hearted": "Noted. Continue.",
	"nice":         "Thanks for sharing that! Could you tell us a bit more?",
	"cool":         "Sure, keep going. We're listening.",
	"not_well":     "Sorry, I'm not at my best today. Could you repeat that briefly?",
	"analytical":   "I'd want to see the numbers behind that claim. Can you elaborate?",
}

const genericCannedReply = "I see. Can you tell us more about that?"

// genericContinuation substitutes for an empty model reply after all repairs
const genericContinuation = "Could you expand on that a little more?"

// Selector decides which persona speaks next and drafts its reply. It wraps a
// single LLM call and guarantees a usable result: every failure mode degrades
// to a deterministic fallback instead of an error.
type Selector struct {
	llm           LLMBackend
	extractor     AddresseeExtractor
	historyWindow int
	logger        *zap.Logger
}

// NewSelector constructs a responder selector. historyWindow bounds how many
// prior turns are sent to the model, oldest dropped first.
func NewSelector(llm LLMBackend, extractor AddresseeExtractor, historyWindow int, logger *zap.Logger) *Selector {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Selector{
		llm:           llm,
		extractor:     extractor,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Select picks the responding persona and its reply for the given utterance.
// personas must be non-empty; the orchestrator rejects empty rosters before
// reaching this point.
func (s *Selector) Select(
	ctx context.Context,
	history []entities.Turn,
	personas []entities.Persona,
	meeting *entities.Meeting,
	utterance string,
) Selection {
	raw, err := s.invoke(ctx, history, personas, meeting, utterance)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Responder selection failed, using canned fallback", zap.Error(err))
		}
		return s.fallback(personas)
	}

	responder := resolveResponder(personas, raw.RespondingRepID, raw.RespondingRepName)

	// A persona addressed by name must respond, whatever the model decided
	if s.extractor != nil {
		if name, ok := s.extractor.ExtractAddressee(utterance); ok {
			for i := range personas {
				if personas[i].MatchesName(name) {
					responder = &personas[i]
					break
				}
			}
		}
	}

	reply := strings.TrimSpace(raw.ResponseText)
	if reply == "" {
		reply = genericContinuation
	}

	return Selection{
		Responder:       responder,
		ReplyText:       reply,
		ShouldInterrupt: raw.ShouldInterrupt,
		InterruptingID:  raw.InterruptingRepID,
		Rationale:       raw.Reasoning,
	}
}

// invoke runs the LLM call and parses its output into a rawSelection
func (s *Selector) invoke(
	ctx context.Context,
	history []entities.Turn,
	personas []entities.Persona,
	meeting *entities.Meeting,
	utterance string,
) (*rawSelection, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("no text-generation backend configured")
	}

	system := s.buildOrchestratorPrompt(personas, meeting)

	window := history
	if len(window) > s.historyWindow {
		window = window[len(window)-s.historyWindow:]
	}

	messages := make([]pkgai.ChatMessage, 0, len(window)+1)
	for _, turn := range window {
		role := "assistant"
		if turn.IsSalesperson() {
			role = "user"
		}
		messages = append(messages, pkgai.ChatMessage{
			Role:    role,
			Content: fmt.Sprintf("[%s]: %s", turn.SpeakerName, turn.Text),
		})
	}
	messages = append(messages, pkgai.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("[Salesperson]: %s\n\nWho should respond and what should they say?", utterance),
	})

	content, err := s.llm.CreateJSONCompletion(ctx, system, messages)
	if err != nil {
		return nil, err
	}

	raw, err := parseSelection(content)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// buildOrchestratorPrompt embeds the full roster and meeting briefing into a
// single instruction for the model
func (s *Selector) buildOrchestratorPrompt(personas []entities.Persona, meeting *entities.Meeting) string {
	var roster strings.Builder
	for i, p := range personas {
		fmt.Fprintf(&roster, `
Representative %d:
- ID: %s
- Name: %s
- Role: %s
- Personality: %s
- Decision Maker: %t
- Tenure: %d months
- Notes: %s
`,
			i+1, p.ID, p.DisplayName, p.Role,
			strings.Join(p.PersonalityTraits, ", "),
			p.IsDecisionMaker, p.TenureMonths, orNA(p.Notes))
	}

	return fmt.Sprintf(`You are an AI orchestrator managing a sales meeting simulation with multiple company representatives.

COMPANY INFORMATION:
- Company: %s
- Industry: %s
- Size: %s
- Revenue: %s

PRODUCT BEING SOLD:
- Product: %s
- Description: %s

REPRESENTATIVES IN THIS MEETING:
%s
YOUR TASK:
1. Analyze the salesperson's message
2. Decide which representative should respond based on:
   - Their role and expertise
   - Their personality traits
   - Whether salesperson specifically addressed them
   - Natural conversation flow
   - Decision-making authority
3. Generate an authentic response that matches the representative's personality
4. Determine if another rep might interrupt or add to the conversation

RESPONSE RULES:
- If salesperson asks "What do you think, [Name]?" - that specific rep MUST respond
- If discussing budget/financials - CFO is most likely to respond
- If discussing technology - CTO is most likely to respond
- If discussing strategy/vision - CEO is most likely to respond
- Arrogant personalities will be dismissive, ask tough questions
- Soft personalities will be encouraging, helpful
- Cold personalities will be brief, factual, unemotional
- Decision makers have final say on commitments

OUTPUT FORMAT (JSON):
{
    "responding_rep_id": "rep uuid",
    "responding_rep_name": "John Smith",
    "response_text": "The actual response from this representative",
    "should_interrupt": false,
    "interrupting_rep_id": null,
    "reasoning": "Brief explanation of why this rep is responding"
}

IMPORTANT:
- Keep responses natural and conversational (2-4 sentences)
- Maintain personality consistency
- Consider power dynamics and hierarchy
- Create realistic business meeting interactions
- If multiple reps want to speak, primary responder goes first`,
		orNA(meeting.Company.URL), orNA(meeting.Company.Industry),
		orNA(meeting.Company.Size), orNA(meeting.Company.Revenue),
		orNA(meeting.Product.Name), orNA(meeting.Product.Description),
		roster.String())
}

// fallback produces the deterministic degraded result: first persona in roster
// order, canned reply keyed by its primary trait
func (s *Selector) fallback(personas []entities.Persona) Selection {
	responder := &personas[0]

	reply, ok := cannedReplies[responder.PrimaryTrait()]
	if !ok {
		reply = genericCannedReply
	}

	return Selection{
		Responder:    responder,
		ReplyText:    reply,
		Rationale:    "fallback: text-generation backend unavailable",
		UsedFallback: true,
	}
}

// parseSelection parses the model output, recovering a JSON payload embedded
// in surrounding text before giving up
func parseSelection(content string) (*rawSelection, error) {
	content = extractJSON(content)

	var raw rawSelection
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse selection response: %w", err)
	}
	return &raw, nil
}

// resolveResponder maps the model's id or name to a roster persona. Unresolved
// selections default to the first persona in roster order.
func resolveResponder(personas []entities.Persona, id, name string) *entities.Persona {
	for i := range personas {
		if id != "" && personas[i].ID.String() == id {
			return &personas[i]
		}
	}
	for i := range personas {
		if personas[i].MatchesName(name) {
			return &personas[i]
		}
	}
	return &personas[0]
}

// extractJSON extracts JSON content from markdown code blocks or surrounding
// prose
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	content = strings.TrimSpace(content)

	// Model sometimes wraps the object in explanatory text
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start != -1 && end > start {
			content = content[start : end+1]
		}
	}

	return content
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
