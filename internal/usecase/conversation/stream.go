package conversation

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AudioChunk is one outbound slice of a synthesized reply. Data is base64;
// the final marker carries empty data.
type AudioChunk struct {
	Data        string
	ChunkNumber int
	IsFinal     bool
}

// sessionBuffer accumulates inbound audio for one meeting's live connection
type sessionBuffer struct {
	chunks     [][]byte
	isSpeaking bool
}

// SessionStream is the audio-buffering state machine behind live connections.
// One buffer per meeting; each buffer is driven by the single connection bound
// to that meeting, concurrent connections for different meetings are
// independent.
type SessionStream struct {
	mu        sync.Mutex
	sessions  map[string]*sessionBuffer
	chunkSize int
	logger    *zap.Logger
}

// NewSessionStream creates the session table. chunkSize is the outbound slice
// size in bytes, sized to roughly one second of audio at the encoder bitrate.
func NewSessionStream(chunkSize int, logger *zap.Logger) *SessionStream {
	if chunkSize <= 0 {
		chunkSize = 16000
	}
	return &SessionStream{
		sessions:  make(map[string]*sessionBuffer),
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// Start opens an accumulation cycle for a meeting. Starting again for the same
// meeting resets state unconditionally; no merge with a prior session.
func (s *SessionStream) Start(meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[meetingID] = &sessionBuffer{}

	if s.logger != nil {
		s.logger.Info("🎬 Started audio session", zap.String("meeting_id", meetingID))
	}
}

// AddChunk decodes and buffers one inbound base64 audio chunk, marking the
// speaker as active. An unknown meeting id implicitly starts a session.
func (s *SessionStream) AddChunk(meetingID string, data string) error {
	audio, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.sessions[meetingID]
	if !ok {
		buf = &sessionBuffer{}
		s.sessions[meetingID] = buf
	}

	buf.chunks = append(buf.chunks, audio)
	buf.isSpeaking = true
	return nil
}

// StopSpeaking marks the speaker as stopped and drains the buffered audio.
// The buffer is cleared atomically; a second call returns nothing.
func (s *SessionStream) StopSpeaking(meetingID string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.sessions[meetingID]
	if !ok {
		return nil
	}

	buf.isSpeaking = false
	chunks := buf.chunks
	buf.chunks = nil

	if s.logger != nil {
		s.logger.Info("🛑 Speaker stopped",
			zap.String("meeting_id", meetingID),
			zap.Int("chunks", len(chunks)),
		)
	}
	return chunks
}

// IsSpeaking reports whether the meeting's speaker is mid-utterance
func (s *SessionStream) IsSpeaking(meetingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.sessions[meetingID]
	return ok && buf.isSpeaking
}

// Clear releases the meeting's buffer. Called on every connection exit path.
func (s *SessionStream) Clear(meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, meetingID)

	if s.logger != nil {
		s.logger.Info("🧹 Cleared audio session", zap.String("meeting_id", meetingID))
	}
}

// StreamAudioResponse slices a synthesized waveform into playback-paced
// chunks. Each content chunk is followed by a pause of roughly 70% of its
// real-time playback duration (floored at 50ms) so the client's buffer stays
// ahead of arrival without the producer racing far ahead. A final empty
// marker chunk signals end of utterance.
func (s *SessionStream) StreamAudioResponse(ctx context.Context, audio []byte) <-chan AudioChunk {
	out := make(chan AudioChunk)

	go func() {
		defer close(out)

		// chunkSize bytes approximate one second of playback
		pause := time.Duration(float64(time.Second) * 0.7)
		const minPause = 50 * time.Millisecond

		number := 0
		for offset := 0; offset < len(audio); offset += s.chunkSize {
			end := offset + s.chunkSize
			if end > len(audio) {
				end = len(audio)
			}

			number++
			chunk := AudioChunk{
				Data:        base64.StdEncoding.EncodeToString(audio[offset:end]),
				ChunkNumber: number,
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}

			// Pause in proportion to how much playback this chunk covers
			wait := time.Duration(float64(pause) * float64(end-offset) / float64(s.chunkSize))
			if wait < minPause {
				wait = minPause
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
		}

		final := AudioChunk{ChunkNumber: number + 1, IsFinal: true}
		select {
		case out <- final:
		case <-ctx.Done():
		}
	}()

	return out
}
