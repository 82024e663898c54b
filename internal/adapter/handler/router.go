package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                 *config.Config
	meetingHandler      *Meeting
	conversationHandler *Conversation
	liveHandler         *Live
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, conversationHandler *Conversation, liveHandler *Live) *Router {
	return &Router{
		cfg:                 cfg,
		meetingHandler:      meetingHandler,
		conversationHandler: conversationHandler,
		liveHandler:         liveHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
	rt.setupConversationRoutes(v1)
}

// setupMeetingRoutes configures meeting lifecycle routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	if rt.meetingHandler != nil {
		meetingGroup.POST("", rt.meetingHandler.CreateMeeting)
		meetingGroup.GET("/:id", rt.meetingHandler.GetMeeting)
		meetingGroup.POST("/:id/start", rt.meetingHandler.StartMeeting)
		meetingGroup.POST("/:id/end", rt.meetingHandler.EndMeeting)
	} else {
		meetingGroup.POST("", rt.notImplemented)
		meetingGroup.GET("/:id", rt.notImplemented)
		meetingGroup.POST("/:id/start", rt.notImplemented)
		meetingGroup.POST("/:id/end", rt.notImplemented)
	}
}

// setupConversationRoutes configures text and voice conversation routes
func (rt *Router) setupConversationRoutes(g *echo.Group) {
	conversationGroup := g.Group("/conversations")

	if rt.conversationHandler != nil {
		conversationGroup.POST("/send-message", rt.conversationHandler.SendMessage)
		conversationGroup.GET("/:meeting_id/history", rt.conversationHandler.GetHistory)
		conversationGroup.GET("/:meeting_id/analytics", rt.conversationHandler.GetAnalytics)
	} else {
		conversationGroup.POST("/send-message", rt.notImplemented)
		conversationGroup.GET("/:meeting_id/history", rt.notImplemented)
		conversationGroup.GET("/:meeting_id/analytics", rt.notImplemented)
	}

	if rt.liveHandler != nil {
		conversationGroup.GET("/ws/live/:meeting_id", rt.liveHandler.Connect)
	} else {
		conversationGroup.GET("/ws/live/:meeting_id", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
