package meeting

// PersonaRequest describes one company representative to simulate
type PersonaRequest struct {
	DisplayName       string   `json:"display_name" validate:"required,min=1,max=255"`
	Role              string   `json:"role" validate:"required,oneof=CEO CMO CFO COO CTO VP_SALES DIRECTOR MANAGER"`
	PersonalityTraits []string `json:"personality_traits" validate:"required,min=1,max=3,dive,oneof=angry arrogant soft cold_hearted nice cool not_well analytical"`
	IsDecisionMaker   bool     `json:"is_decision_maker"`
	VoiceID           string   `json:"voice_id,omitempty"`
	TenureMonths      int      `json:"tenure_months" validate:"min=0"`
	Notes             string   `json:"notes,omitempty" validate:"max=2000"`
}

// ProductRequest describes the product the salesperson is pitching
type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// CompanyRequest describes the prospect company the personas represent
type CompanyRequest struct {
	URL      string `json:"url,omitempty" validate:"omitempty,url"`
	Industry string `json:"industry,omitempty" validate:"max=255"`
	Size     string `json:"size,omitempty" validate:"max=100"`
	Revenue  string `json:"revenue,omitempty" validate:"max=100"`
}

// CreateMeetingRequest represents the request to configure a training meeting
type CreateMeetingRequest struct {
	Title    string           `json:"title" validate:"required,min=1,max=255"`
	Goal     string           `json:"goal,omitempty" validate:"max=2000"`
	Product  ProductRequest   `json:"product" validate:"required"`
	Company  CompanyRequest   `json:"company"`
	Personas []PersonaRequest `json:"personas" validate:"required,min=1,max=3,dive"`
}
