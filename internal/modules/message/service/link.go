package service

import (
	"fmt"
	"strings"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
)

// BuildLink returns a t.me deep link to the message, or false when the chat
// cannot be linked (small groups and ids outside the channel space).
func BuildLink(chat domain.ChatRef, messageID int64) (string, bool) {
	if messageID <= 0 {
		return "", false
	}

	if username := strings.TrimPrefix(strings.TrimSpace(chat.Username), "@"); username != "" {
		return fmt.Sprintf("https://t.me/%s/%d", username, messageID), true
	}

	if chat.Kind == domain.ChatKindSmallGroup {
		return "", false
	}

	id := chat.ID
	if id < 0 {
		id = -id
	}
	adjusted := id - domain.ChannelIDOffset
	if adjusted <= 0 {
		return "", false
	}

	return fmt.Sprintf("https://t.me/c/%d/%d", adjusted, messageID), true
}
