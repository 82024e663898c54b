package exchangectx

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyMeetingID    KeyContext = "meeting_id"
	keyExchangeMode KeyContext = "exchange_mode"
	keyTurnNumber   KeyContext = "turn_number"
	keyStartTime    KeyContext = "exchange_start_time"
)

// ExchangeMetadata holds metadata for a single conversation exchange
type ExchangeMetadata struct {
	MeetingID uuid.UUID
	Mode      string
	NextTurn  int
	StartTime time.Time
}

// Begin initializes an exchange context with metadata and timeout.
// One exchange covers the full pipeline: transcription, responder selection,
// reply generation, synthesis and ledger persistence.
func Begin(parentCtx context.Context, meetingID uuid.UUID, mode string, nextTurn int) (context.Context, context.CancelFunc) {
	// Bound the whole exchange so a stuck AI backend cannot hang the session
	ctx, cancel := context.WithTimeout(parentCtx, 2*time.Minute)

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyExchangeMode, mode)
	ctx = context.WithValue(ctx, keyTurnNumber, nextTurn)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (uuid.UUID, bool) {
	meetingID, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return meetingID, ok
}

// GetMode extracts the exchange mode (rest or live) from context
func GetMode(ctx context.Context) (string, bool) {
	mode, ok := ctx.Value(keyExchangeMode).(string)
	return mode, ok
}

// GetNextTurn extracts the upcoming human turn number from context
func GetNextTurn(ctx context.Context) int {
	turn, ok := ctx.Value(keyTurnNumber).(int)
	if !ok {
		return 0
	}
	return turn
}

// GetStartTime extracts the exchange start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetMetadata extracts all exchange metadata from context
func GetMetadata(ctx context.Context) *ExchangeMetadata {
	meetingID, _ := GetMeetingID(ctx)
	mode, _ := GetMode(ctx)
	startTime, _ := GetStartTime(ctx)

	return &ExchangeMetadata{
		MeetingID: meetingID,
		Mode:      mode,
		NextTurn:  GetNextTurn(ctx),
		StartTime: startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, deadlocks, rate limits
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") { // deadlock_detected
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}

// IsNonRetryableError checks if an error should NOT trigger a retry
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Client errors (4xx except 429)
	if strings.Contains(errStr, "400") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "bad request") {
		return true
	}

	// Data validation errors
	if strings.Contains(errStr, "validation failed") ||
		strings.Contains(errStr, "malformed") ||
		strings.Contains(errStr, "parse error") {
		return true
	}

	return false
}

// CalculateBackoff calculates exponential backoff duration
func CalculateBackoff(attempt int, baseDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// 2^attempt * baseDelay, max 60 seconds
	backoff := time.Duration(1<<uint(attempt)) * baseDelay

	maxBackoff := 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}
