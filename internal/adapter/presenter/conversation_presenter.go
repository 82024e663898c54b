package presenter

import (
	"github.com/google/uuid"

	conversationdto "github.com/salestrainer-team/sales-trainer/internal/adapter/dto/conversation"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	conversationUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/conversation"
)

// ToTurnResponse converts a Turn entity to TurnResponse DTO
func ToTurnResponse(t entities.Turn) conversationdto.TurnResponse {
	return conversationdto.TurnResponse{
		TurnNumber:      t.TurnNumber,
		Speaker:         t.Speaker,
		SpeakerName:     t.SpeakerName,
		Text:            t.Text,
		AudioURL:        t.AudioURL,
		Timestamp:       t.Timestamp,
		DurationSeconds: t.DurationSeconds,
	}
}

// ToHistoryResponse converts a Conversation entity to HistoryResponse DTO
func ToHistoryResponse(c *entities.Conversation) *conversationdto.HistoryResponse {
	if c == nil {
		return nil
	}

	turns := make([]conversationdto.TurnResponse, len(c.Turns))
	for i, t := range c.Turns {
		turns[i] = ToTurnResponse(t)
	}

	return &conversationdto.HistoryResponse{
		MeetingID:               c.MeetingID.String(),
		Turns:                   turns,
		TotalTurns:              c.TotalTurns,
		SalespersonTalkTime:     c.SalespersonTalkTime,
		RepresentativesTalkTime: c.RepresentativesTalkTime,
	}
}

// ToSendMessageResponse converts an exchange result to SendMessageResponse DTO
func ToSendMessageResponse(r *conversationUsecase.ExchangeResult) *conversationdto.SendMessageResponse {
	if r == nil {
		return nil
	}
	return &conversationdto.SendMessageResponse{
		SpeakerID:       r.ResponderID.String(),
		SpeakerName:     r.ResponderName,
		SpeakerRole:     r.ResponderRole,
		ResponseText:    r.ReplyText,
		AudioURL:        r.AudioURL,
		DurationSeconds: r.DurationSeconds,
		TurnNumber:      r.AITurnNumber,
		Reasoning:       r.Rationale,
		LedgerWarning:   r.LedgerWarning,
	}
}

// ToAnalyticsResponse converts analytics to AnalyticsResponse DTO
func ToAnalyticsResponse(meetingID uuid.UUID, a *conversationUsecase.Analytics) *conversationdto.AnalyticsResponse {
	if a == nil {
		return nil
	}
	return &conversationdto.AnalyticsResponse{
		MeetingID:               meetingID.String(),
		TotalTurns:              a.TotalTurns,
		SalespersonTurns:        a.SalespersonTurns,
		AITurns:                 a.AITurns,
		SalespersonTalkTime:     a.SalespersonTalkTime,
		RepresentativesTalkTime: a.RepresentativesTalkTime,
		TotalDuration:           a.TotalDuration,
		SalespersonTalkRatio:    a.SalespersonTalkRatio,
		RepresentativesRatio:    a.RepresentativesRatio,
		QuestionsAsked:          a.QuestionsAsked,
	}
}
