package errors

// ErrorCode identifies application error categories across API responses and logs
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1005

	// Meeting
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 2000
	ErrorCode_MEETING_NOT_ACTIVE    ErrorCode = 2001
	ErrorCode_MEETING_INVALID_STATE ErrorCode = 2002
	ErrorCode_NO_PERSONAS           ErrorCode = 2003

	// Conversation
	ErrorCode_CONVERSATION_NOT_FOUND ErrorCode = 3000
	ErrorCode_EXCHANGE_FAILED        ErrorCode = 3001
	ErrorCode_LEDGER_APPEND_FAILED   ErrorCode = 3002

	// AI backends
	ErrorCode_SELECTION_FAILED       ErrorCode = 4000
	ErrorCode_SYNTHESIS_UNAVAILABLE  ErrorCode = 4001
	ErrorCode_SYNTHESIS_FAILED       ErrorCode = 4002
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = 4003
	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = 4004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001

	// Database
	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 6001
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 6002
)

// String returns a stable text name for the code
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_ALREADY_EXISTS:
		return "ALREADY_EXISTS"
	case ErrorCode_PERMISSION_DENIED:
		return "PERMISSION_DENIED"
	case ErrorCode_INVALID_PAYLOAD:
		return "INVALID_PAYLOAD"
	case ErrorCode_MEETING_NOT_FOUND:
		return "MEETING_NOT_FOUND"
	case ErrorCode_MEETING_NOT_ACTIVE:
		return "MEETING_NOT_ACTIVE"
	case ErrorCode_MEETING_INVALID_STATE:
		return "MEETING_INVALID_STATE"
	case ErrorCode_NO_PERSONAS:
		return "NO_PERSONAS"
	case ErrorCode_CONVERSATION_NOT_FOUND:
		return "CONVERSATION_NOT_FOUND"
	case ErrorCode_EXCHANGE_FAILED:
		return "EXCHANGE_FAILED"
	case ErrorCode_LEDGER_APPEND_FAILED:
		return "LEDGER_APPEND_FAILED"
	case ErrorCode_SELECTION_FAILED:
		return "SELECTION_FAILED"
	case ErrorCode_SYNTHESIS_UNAVAILABLE:
		return "SYNTHESIS_UNAVAILABLE"
	case ErrorCode_SYNTHESIS_FAILED:
		return "SYNTHESIS_FAILED"
	case ErrorCode_TRANSCRIPTION_FAILED:
		return "TRANSCRIPTION_FAILED"
	case ErrorCode_AI_SERVICE_UNAVAILABLE:
		return "AI_SERVICE_UNAVAILABLE"
	case ErrorCode_INTEGRATION_STORAGE_FAILED:
		return "INTEGRATION_STORAGE_FAILED"
	case ErrorCode_INTEGRATION_CACHE_FAILED:
		return "INTEGRATION_CACHE_FAILED"
	case ErrorCode_DB_CONNECTION_FAILED:
		return "DB_CONNECTION_FAILED"
	case ErrorCode_DB_QUERY_FAILED:
		return "DB_QUERY_FAILED"
	case ErrorCode_DB_TRANSACTION_FAILED:
		return "DB_TRANSACTION_FAILED"
	default:
		return "UNKNOWN"
	}
}
