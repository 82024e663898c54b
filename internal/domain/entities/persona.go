package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PersonaRole represents the company role a persona holds
type PersonaRole string

const (
	PersonaRoleCEO      PersonaRole = "CEO"
	PersonaRoleCMO      PersonaRole = "CMO"
	PersonaRoleCFO      PersonaRole = "CFO"
	PersonaRoleCOO      PersonaRole = "COO"
	PersonaRoleCTO      PersonaRole = "CTO"
	PersonaRoleVPSales  PersonaRole = "VP_SALES"
	PersonaRoleDirector PersonaRole = "DIRECTOR"
	PersonaRoleManager  PersonaRole = "MANAGER"
)

// ValidPersonaRoles lists all accepted persona roles
var ValidPersonaRoles = []PersonaRole{
	PersonaRoleCEO, PersonaRoleCMO, PersonaRoleCFO, PersonaRoleCOO,
	PersonaRoleCTO, PersonaRoleVPSales, PersonaRoleDirector, PersonaRoleManager,
}

// PersonalityTrait is one entry of the fixed personality vocabulary
type PersonalityTrait string

const (
	TraitAngry       PersonalityTrait = "angry"
	TraitArrogant    PersonalityTrait = "arrogant"
	TraitSoft        PersonalityTrait = "soft"
	TraitColdHearted PersonalityTrait = "cold_hearted"
	TraitNice        PersonalityTrait = "nice"
	TraitCool        PersonalityTrait = "cool"
	TraitNotWell     PersonalityTrait = "not_well"
	TraitAnalytical  PersonalityTrait = "analytical"
)

// ValidPersonalityTraits lists the fixed trait vocabulary
var ValidPersonalityTraits = []PersonalityTrait{
	TraitAngry, TraitArrogant, TraitSoft, TraitColdHearted,
	TraitNice, TraitCool, TraitNotWell, TraitAnalytical,
}

// IsValidTrait reports whether s is part of the trait vocabulary
func IsValidTrait(s string) bool {
	for _, t := range ValidPersonalityTraits {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// Persona is a simulated company representative. Personas are created when a
// meeting is configured and never mutated mid-conversation.
type Persona struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"meeting_id"`
	DisplayName       string                      `gorm:"type:varchar(255);not null" json:"display_name"`
	Role              PersonaRole                 `gorm:"type:varchar(20);not null" json:"role"`
	PersonalityTraits datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"personality_traits"`
	IsDecisionMaker   bool                        `gorm:"default:false" json:"is_decision_maker"`
	VoiceID           string                      `gorm:"type:varchar(100)" json:"voice_id,omitempty"`
	TenureMonths      int                         `gorm:"default:0" json:"tenure_months"`
	Notes             string                      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time                   `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Persona
func (Persona) TableName() string {
	return "personas"
}

// NewPersona creates a persona attached to a meeting
func NewPersona(meetingID uuid.UUID, displayName string, role PersonaRole) *Persona {
	return &Persona{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}
}

// PrimaryTrait returns the first personality trait, or "neutral" when none is set
func (p *Persona) PrimaryTrait() string {
	if len(p.PersonalityTraits) == 0 {
		return "neutral"
	}
	return p.PersonalityTraits[0]
}

// MatchesName reports whether name matches the persona display name,
// case-insensitively. A bare first name matches too.
func (p *Persona) MatchesName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	display := strings.ToLower(p.DisplayName)
	if display == name {
		return true
	}
	first, _, _ := strings.Cut(display, " ")
	return first == name
}
