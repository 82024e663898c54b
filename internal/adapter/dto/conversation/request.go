package conversation

// SendMessageRequest represents one salesperson utterance submitted over HTTP.
// Audio is optional base64-encoded speech for the turn being sent.
type SendMessageRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	Speaker   string `json:"speaker,omitempty" validate:"omitempty,max=255"`
	Message   string `json:"message" validate:"required,min=1,max=10000"`
	Audio     string `json:"audio,omitempty"`
}

// LiveClientEvent is the envelope for inbound websocket messages
type LiveClientEvent struct {
	Type       string `json:"type" validate:"required,oneof=audio_chunk stop_speaking ping disconnect"`
	Data       string `json:"data,omitempty"`
	IsSpeaking bool   `json:"is_speaking,omitempty"`
}
