package presenter

import (
	meetingdto "github.com/salestrainer-team/sales-trainer/internal/adapter/dto/meeting"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
)

// ToPersonaResponse converts a Persona entity to PersonaResponse DTO
func ToPersonaResponse(p *entities.Persona) meetingdto.PersonaResponse {
	return meetingdto.PersonaResponse{
		ID:                p.ID.String(),
		DisplayName:       p.DisplayName,
		Role:              string(p.Role),
		PersonalityTraits: p.PersonalityTraits,
		IsDecisionMaker:   p.IsDecisionMaker,
		VoiceID:           p.VoiceID,
		TenureMonths:      p.TenureMonths,
	}
}

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingdto.MeetingResponse {
	if m == nil {
		return nil
	}

	personas := make([]meetingdto.PersonaResponse, len(m.Personas))
	for i := range m.Personas {
		personas[i] = ToPersonaResponse(&m.Personas[i])
	}

	return &meetingdto.MeetingResponse{
		ID:     m.ID.String(),
		Title:  m.Title,
		Status: string(m.Status),
		Goal:   m.Goal,
		Product: meetingdto.ProductRequest{
			Name:        m.Product.Name,
			Description: m.Product.Description,
		},
		Company: meetingdto.CompanyRequest{
			URL:      m.Company.URL,
			Industry: m.Company.Industry,
			Size:     m.Company.Size,
			Revenue:  m.Company.Revenue,
		},
		Personas:  personas,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		CreatedAt: m.CreatedAt,
	}
}
