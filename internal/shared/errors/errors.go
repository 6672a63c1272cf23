package errors

import "errors"

var (
	ErrMissingBotToken       = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrMissingAPICredentials = errors.New("API_ID and API_HASH environment variables are required")
	ErrNoGroups              = errors.New("at least one monitor group must be configured")
	ErrGroupNotFound         = errors.New("group not found")
	ErrConfig                = errors.New("keyword source unavailable")
	ErrUnauthorized          = errors.New("telegram account is not logged in; set PHONE to log in")
)
