package meeting

import "time"

// PersonaResponse represents a persona in API responses
type PersonaResponse struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"display_name"`
	Role              string   `json:"role"`
	PersonalityTraits []string `json:"personality_traits"`
	IsDecisionMaker   bool     `json:"is_decision_maker"`
	VoiceID           string   `json:"voice_id,omitempty"`
	TenureMonths      int      `json:"tenure_months,omitempty"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Status    string            `json:"status"`
	Goal      string            `json:"goal,omitempty"`
	Product   ProductRequest    `json:"product"`
	Company   CompanyRequest    `json:"company"`
	Personas  []PersonaResponse `json:"personas"`
	StartedAt *time.Time        `json:"started_at,omitempty"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
