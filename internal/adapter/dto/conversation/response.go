package conversation

// TurnResponse represents one turn in the conversation history
type TurnResponse struct {
	TurnNumber      int     `json:"turn_number"`
	Speaker         string  `json:"speaker"`
	SpeakerName     string  `json:"speaker_name"`
	Text            string  `json:"text"`
	AudioURL        *string `json:"audio_url"`
	Timestamp       string  `json:"timestamp"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// HistoryResponse represents the full conversation log for a meeting.
// A meeting with no exchanges yet gets the empty shape, not an error.
type HistoryResponse struct {
	MeetingID               string         `json:"meeting_id"`
	Turns                   []TurnResponse `json:"turns"`
	TotalTurns              int            `json:"total_turns"`
	SalespersonTalkTime     float64        `json:"salesperson_talk_time"`
	RepresentativesTalkTime float64        `json:"representatives_talk_time"`
}

// SendMessageResponse mirrors the orchestrator's exchange result
type SendMessageResponse struct {
	SpeakerID       string  `json:"speaker_id"`
	SpeakerName     string  `json:"speaker_name"`
	SpeakerRole     string  `json:"speaker_role"`
	ResponseText    string  `json:"response_text"`
	AudioURL        *string `json:"audio_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	TurnNumber      int     `json:"turn_number"`
	Reasoning       string  `json:"reasoning,omitempty"`
	LedgerWarning   string  `json:"ledger_warning,omitempty"`
}

// AnalyticsResponse summarizes talk-time and engagement for a meeting
type AnalyticsResponse struct {
	MeetingID               string  `json:"meeting_id"`
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
