package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/salestrainer-team/sales-trainer/errors"
	conversationdto "github.com/salestrainer-team/sales-trainer/internal/adapter/dto/conversation"
	"github.com/salestrainer-team/sales-trainer/internal/adapter/presenter"
	conversationUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/conversation"
)

// Conversation handles conversation HTTP requests
type Conversation struct {
	conversationService conversationUsecase.Service
	logger              *zap.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService conversationUsecase.Service, logger *zap.Logger) *Conversation {
	return &Conversation{
		conversationService: conversationService,
		logger:              logger,
	}
}

// SendMessage handles POST /conversations/send-message
// @Summary      Send a salesperson message
// @Description  Runs one exchange: the utterance is recorded and one persona replies
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        request  body      conversation.SendMessageRequest  true  "Salesperson utterance"
// @Success      200      {object}  conversation.SendMessageResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      409      {object}  map[string]interface{}  "Meeting not active"
// @Router       /conversations/send-message [post]
func (h *Conversation) SendMessage(c echo.Context) error {
	var req conversationdto.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("meeting_id must be a valid UUID"))
	}

	var audio []byte
	if req.Audio != "" {
		audio, err = base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("audio must be base64 encoded"))
		}
	}

	result, err := h.conversationService.Exchange(c.Request().Context(), conversationUsecase.ExchangeInput{
		MeetingID: meetingID,
		Speaker:   req.Speaker,
		Message:   req.Message,
		Audio:     audio,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSendMessageResponse(result))
}

// GetHistory handles GET /conversations/:meeting_id/history
// @Summary      Get conversation history
// @Description  Returns the full turn log; a meeting with no exchanges gets the empty shape
// @Tags         Conversations
// @Produce      json
// @Param        meeting_id  path      string  true  "Meeting ID (UUID)"
// @Success      200         {object}  conversation.HistoryResponse
// @Router       /conversations/{meeting_id}/history [get]
func (h *Conversation) GetHistory(c echo.Context) error {
	meetingID, err := h.meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	history, err := h.conversationService.History(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToHistoryResponse(history))
}

// GetAnalytics handles GET /conversations/:meeting_id/analytics
// @Summary      Get conversation analytics
// @Description  Returns talk-time split, turn counts and questions asked
// @Tags         Conversations
// @Produce      json
// @Param        meeting_id  path      string  true  "Meeting ID (UUID)"
// @Success      200         {object}  conversation.AnalyticsResponse
// @Failure      404         {object}  map[string]interface{}  "No conversation for meeting"
// @Router       /conversations/{meeting_id}/analytics [get]
func (h *Conversation) GetAnalytics(c echo.Context) error {
	meetingID, err := h.meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	analytics, err := h.conversationService.ConversationAnalytics(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAnalyticsResponse(meetingID, analytics))
}

func (h *Conversation) meetingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("meeting_id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidArgument("meeting_id must be a valid UUID")
	}
	return id, nil
}
