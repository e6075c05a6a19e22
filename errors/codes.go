package errors

// ErrorCode identifies an application-level error condition independent of
// the HTTP status it maps to.
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_HTTP_OK
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_FORBIDDEN

	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_TOKEN_EXPIRED
	ErrorCode_AUTH_OAUTH_FAILED

	ErrorCode_MEETING_NOT_FOUND
	ErrorCode_MEETING_ACCESS_DENIED
	ErrorCode_ACTION_ITEM_NOT_FOUND

	ErrorCode_AUDIO_INPUT_MISSING
	ErrorCode_PAYLOAD_TOO_LARGE
	ErrorCode_AUDIO_FETCH_FAILED
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_EXTRACTION_FAILED

	ErrorCode_AI_RATE_LIMITED
	ErrorCode_AI_QUOTA_EXCEEDED

	ErrorCode_TRACKER_NOT_CONNECTED
	ErrorCode_TRACKER_INVALID_CONFIG

	ErrorCode_DB_QUERY_FAILED
	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INVALID_PAYLOAD
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                    "UNKNOWN",
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_OAUTH_FAILED:          "AUTH_OAUTH_FAILED",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_MEETING_ACCESS_DENIED:      "MEETING_ACCESS_DENIED",
	ErrorCode_ACTION_ITEM_NOT_FOUND:      "ACTION_ITEM_NOT_FOUND",
	ErrorCode_AUDIO_INPUT_MISSING:        "AUDIO_INPUT_MISSING",
	ErrorCode_PAYLOAD_TOO_LARGE:          "PAYLOAD_TOO_LARGE",
	ErrorCode_AUDIO_FETCH_FAILED:         "AUDIO_FETCH_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_EXTRACTION_FAILED:          "EXTRACTION_FAILED",
	ErrorCode_AI_RATE_LIMITED:            "AI_RATE_LIMITED",
	ErrorCode_AI_QUOTA_EXCEEDED:          "AI_QUOTA_EXCEEDED",
	ErrorCode_TRACKER_NOT_CONNECTED:      "TRACKER_NOT_CONNECTED",
	ErrorCode_TRACKER_INVALID_CONFIG:     "TRACKER_INVALID_CONFIG",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
