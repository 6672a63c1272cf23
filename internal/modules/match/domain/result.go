package domain

import (
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
)

// Result is a successful keyword hit for one message in one monitor group.
type Result struct {
	Group      string
	Alias      string
	SourceText string
	Chat       messageDomain.ChatRef
	MessageID  int64
	Sender     messageDomain.Sender
}
