package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/salestrainer-team/sales-trainer/errors"
	meetingdto "github.com/salestrainer-team/sales-trainer/internal/adapter/dto/meeting"
	"github.com/salestrainer-team/sales-trainer/internal/adapter/presenter"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	meetingUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/meeting"
)

// Meeting handles meeting lifecycle HTTP requests
type Meeting struct {
	meetingService meetingUsecase.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// CreateMeeting handles POST /meetings
// @Summary      Configure a training meeting
// @Description  Creates a meeting with one to three simulated company representatives
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting configuration"
// @Success      201      {object}  meeting.MeetingResponse  "Meeting created"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or validation failed"
// @Router       /meetings [post]
func (h *Meeting) CreateMeeting(c echo.Context) error {
	var req meetingdto.CreateMeetingRequest
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

	input := meetingUsecase.CreateMeetingInput{
		Title: req.Title,
		Goal:  req.Goal,
		Product: entities.ProductContext{
			Name:        req.Product.Name,
			Description: req.Product.Description,
		},
		Company: entities.CompanyContext{
			URL:      req.Company.URL,
			Industry: req.Company.Industry,
			Size:     req.Company.Size,
			Revenue:  req.Company.Revenue,
		},
	}
	for _, p := range req.Personas {
		input.Personas = append(input.Personas, meetingUsecase.PersonaSpec{
			DisplayName:     p.DisplayName,
			Role:            entities.PersonaRole(p.Role),
			Traits:          p.PersonalityTraits,
			IsDecisionMaker: p.IsDecisionMaker,
			VoiceID:         p.VoiceID,
			TenureMonths:    p.TenureMonths,
			Notes:           p.Notes,
		})
	}

	meeting, err := h.meetingService.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToMeetingResponse(meeting))
}

// GetMeeting handles GET /meetings/:id
// @Summary      Get meeting details
// @Description  Returns a meeting with its persona roster
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := h.meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// StartMeeting handles POST /meetings/:id/start
// @Summary      Start a meeting
// @Description  Transitions a pending meeting to active so exchanges can begin
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      409  {object}  map[string]interface{}  "Meeting already ended"
// @Router       /meetings/{id}/start [post]
func (h *Meeting) StartMeeting(c echo.Context) error {
	id, err := h.meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.Start(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

// EndMeeting handles POST /meetings/:id/end
// @Summary      End a meeting
// @Description  Transitions an active meeting to ended
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Router       /meetings/{id}/end [post]
func (h *Meeting) EndMeeting(c echo.Context) error {
	id, err := h.meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.meetingService.End(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(meeting))
}

func (h *Meeting) meetingID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidArgument("meeting id must be a valid UUID")
	}
	return id, nil
}
