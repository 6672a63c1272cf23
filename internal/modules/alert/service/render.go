package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	matchDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/match/domain"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
)

// LinkUnavailable is shown in place of a deep link when none can be built.
const LinkUnavailable = "link unavailable"

// htmlEscaper escapes only what Telegram's HTML parse mode requires.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes s for Telegram's HTML parse mode.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// MaxMessageLength is the longest text the Bot API accepts in one message,
// counted in UTF-16 code units.
const MaxMessageLength = 4096

const ellipsis = "…"

// Render formats an alert. The alias, the original text and the link (or the
// placeholder) are always present; the text is shortened so the whole alert
// stays within MaxMessageLength.
func Render(res *matchDomain.Result, link string, hasLink bool) string {
	var head strings.Builder

	fmt.Fprintf(&head, "🚨 <b>%s</b>\n", EscapeHTML(res.Alias))

	chat := res.Chat.Title
	if chat == "" {
		chat = strconv.FormatInt(res.Chat.ID, 10)
	}
	fmt.Fprintf(&head, "Chat: %s\n", EscapeHTML(chat))

	if from := senderLine(res.Sender); from != "" {
		fmt.Fprintf(&head, "From: %s\n", from)
	}
	head.WriteString("\n")

	tail := LinkUnavailable
	if hasLink && link != "" {
		tail = fmt.Sprintf(`<a href="%s">Open message</a>`, link)
	}
	tail = "\n\n" + tail

	budget := MaxMessageLength - textLength(head.String()) - textLength(tail)
	return head.String() + escapeWithin(res.SourceText, budget) + tail
}

// escapeWithin escapes s and cuts it on a rune boundary, never inside an
// entity, so the result is at most budget units long including the ellipsis.
func escapeWithin(s string, budget int) string {
	escaped := EscapeHTML(s)
	if textLength(escaped) <= budget {
		return escaped
	}

	limit := budget - textLength(ellipsis)
	if limit <= 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		part := EscapeHTML(string(r))
		n := textLength(part)
		if used+n > limit {
			break
		}
		b.WriteString(part)
		used += n
	}
	b.WriteString(ellipsis)
	return b.String()
}

func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func senderLine(s messageDomain.Sender) string {
	switch v := s.(type) {
	case messageDomain.UserSender:
		name := v.DisplayName
		if name == "" {
			name = v.Username
		}
		if name == "" {
			name = "user " + strconv.FormatInt(v.ID, 10)
		}
		line := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, v.ID, EscapeHTML(name))
		if v.Username != "" {
			line += " (@" + EscapeHTML(v.Username) + ")"
		}
		return line
	case messageDomain.ChatSender:
		if v.Title == "" {
			return ""
		}
		return EscapeHTML(v.Title)
	default:
		return ""
	}
}
