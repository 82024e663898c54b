package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	conversationdto "github.com/salestrainer-team/sales-trainer/internal/adapter/dto/conversation"
	conversationUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/conversation"
)

// Live handles the websocket voice conversation channel
type Live struct {
	conversationService conversationUsecase.Service
	upgrader            websocket.Upgrader
	logger              *zap.Logger
}

// NewLiveHandler creates a new live conversation handler
func NewLiveHandler(conversationService conversationUsecase.Service, logger *zap.Logger) *Live {
	return &Live{
		conversationService: conversationService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			// Browser clients connect from a different origin during training
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// liveConn wraps a websocket connection with a write lock so the exchange
// pipeline and the heartbeat path never interleave frames
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (lc *liveConn) sendJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.conn.WriteJSON(v)
}

// liveEmitter forwards exchange progress events onto the websocket
type liveEmitter struct {
	lc     *liveConn
	stream *conversationUsecase.SessionStream
}

func (e *liveEmitter) EmitThinking(speakerName, speakerRole string) {
	e.lc.sendJSON(map[string]interface{}{
		"type":         "ai_thinking",
		"speaker_name": speakerName,
		"speaker_role": speakerRole,
	})
}

func (e *liveEmitter) EmitResponseText(text, speakerName, speakerRole string) {
	e.lc.sendJSON(map[string]interface{}{
		"type":         "ai_response_text",
		"text":         text,
		"speaker_name": speakerName,
		"speaker_role": speakerRole,
	})
}

func (e *liveEmitter) StreamAudio(ctx context.Context, audio []byte) error {
	for chunk := range e.stream.StreamAudioResponse(ctx, audio) {
		err := e.lc.sendJSON(map[string]interface{}{
			"type":         "ai_audio_chunk",
			"audio_data":   chunk.Data,
			"chunk_number": chunk.ChunkNumber,
			"is_final":     chunk.IsFinal,
		})
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Connect handles GET /conversations/ws/live/:meeting_id
//
// Outbound events: connected, transcription, ai_thinking, ai_response_text,
// ai_audio_chunk, conversation_saved, ledger_warning, error.
// Inbound events: audio_chunk, stop_speaking, ping, disconnect.
func (h *Live) Connect(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("meeting_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": "meeting_id must be a valid UUID",
		})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	lc := &liveConn{conn: conn}
	ctx := c.Request().Context()

	meeting, err := h.conversationService.LoadMeetingContext(ctx, meetingID)
	if err != nil {
		lc.sendJSON(map[string]interface{}{"type": "error", "message": "Meeting not found"})
		return nil
	}
	if !meeting.IsActive() {
		lc.sendJSON(map[string]interface{}{
			"type":    "error",
			"message": "Meeting is not active. Please start the meeting first.",
		})
		return nil
	}

	if _, err := h.conversationService.EnsureConversation(ctx, meetingID); err != nil {
		lc.sendJSON(map[string]interface{}{"type": "error", "message": "Failed to open conversation"})
		return nil
	}

	roster := make([]map[string]interface{}, 0, len(meeting.Personas))
	for _, p := range meeting.Personas {
		roster = append(roster, map[string]interface{}{
			"name":        p.DisplayName,
			"role":        string(p.Role),
			"personality": []string(p.PersonalityTraits),
		})
	}
	lc.sendJSON(map[string]interface{}{
		"type":            "connected",
		"message":         "Connected to live conversation",
		"meeting_id":      meetingID.String(),
		"representatives": roster,
	})

	stream := h.conversationService.Stream()
	stream.Start(meetingID.String())
	defer stream.Clear(meetingID.String())

	if h.logger != nil {
		h.logger.Info("✅ WebSocket connected", zap.String("meeting_id", meetingID.String()))
	}

	for {
		var event conversationdto.LiveClientEvent
		if err := conn.ReadJSON(&event); err != nil {
			if h.logger != nil {
				h.logger.Info("🔌 WebSocket disconnected", zap.String("meeting_id", meetingID.String()))
			}
			return nil
		}

		switch event.Type {
		case "audio_chunk":
			if event.IsSpeaking {
				if err := stream.AddChunk(meetingID.String(), event.Data); err != nil {
					lc.sendJSON(map[string]interface{}{"type": "error", "message": err.Error()})
				}
				continue
			}
			h.processUtterance(ctx, lc, stream, meetingID)

		case "stop_speaking":
			h.processUtterance(ctx, lc, stream, meetingID)

		case "ping":
			lc.sendJSON(map[string]interface{}{"type": "pong"})

		case "disconnect":
			return nil

		default:
			lc.sendJSON(map[string]interface{}{"type": "error", "message": "unknown event type"})
		}
	}
}

// processUtterance runs the full voice exchange for one buffered utterance.
// Errors are reported as events; the connection stays open either way.
func (h *Live) processUtterance(ctx context.Context, lc *liveConn, stream *conversationUsecase.SessionStream, meetingID uuid.UUID) {
	segments := stream.StopSpeaking(meetingID.String())
	if len(segments) == 0 {
		return
	}

	text, err := h.conversationService.Transcribe(ctx, segments)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Transcription failed", zap.String("meeting_id", meetingID.String()), zap.Error(err))
		}
		lc.sendJSON(map[string]interface{}{"type": "error", "message": "Transcription failed"})
		return
	}
	if text == "" {
		return
	}

	lc.sendJSON(map[string]interface{}{
		"type":    "transcription",
		"text":    text,
		"speaker": "salesperson",
	})
	lc.sendJSON(map[string]interface{}{
		"type":    "ai_thinking",
		"message": "AI is thinking...",
	})

	result, err := h.conversationService.Exchange(ctx, conversationUsecase.ExchangeInput{
		MeetingID: meetingID,
		Message:   text,
		Emitter:   &liveEmitter{lc: lc, stream: stream},
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Exchange failed", zap.String("meeting_id", meetingID.String()), zap.Error(err))
		}
		lc.sendJSON(map[string]interface{}{"type": "error", "message": "Exchange failed"})
		return
	}

	if result.LedgerWarning != "" {
		lc.sendJSON(map[string]interface{}{
			"type":    "ledger_warning",
			"message": result.LedgerWarning,
		})
		return
	}
	lc.sendJSON(map[string]interface{}{
		"type":        "conversation_saved",
		"turn_number": result.AITurnNumber,
		"message":     "Conversation saved",
	})
}
