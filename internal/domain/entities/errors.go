package entities

import "errors"

// Domain sentinel errors
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrMeetingNotFound         = errors.New("meeting not found")
	ErrActionItemNotFound      = errors.New("action item not found")
	ErrIntegrationNotFound     = errors.New("integration not found")
	ErrEmptyTranscript         = errors.New("empty transcript produced")
	ErrWrongIntegrationService = errors.New("credential stored for a different service")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrOAuthStateMismatch      = errors.New("oauth state mismatch")
)
