package service

import (
	"strings"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	matchDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/match/domain"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(sender messageDomain.Sender) *matchDomain.Result {
	return &matchDomain.Result{
		Group:      "rent",
		Alias:      "Alias A",
		SourceText: "send 5 < 6 & more to wallet1",
		Chat:       messageDomain.ChatRef{ID: -1001234567890, Title: "Cars & Co", Kind: messageDomain.ChatKindPrivateSupergroup},
		MessageID:  42,
		Sender:     sender,
	}
}

func TestRender_WithLink(t *testing.T) {
	res := testResult(messageDomain.UserSender{ID: 7, Username: "ann", DisplayName: "Ann <3"})

	out := Render(res, "https://t.me/c/1234567890/42", true)

	assert.Contains(t, out, "<b>Alias A</b>")
	assert.Contains(t, out, "send 5 &lt; 6 &amp; more to wallet1")
	assert.Contains(t, out, `<a href="https://t.me/c/1234567890/42">Open message</a>`)
	assert.Contains(t, out, "Chat: Cars &amp; Co")
	assert.Contains(t, out, `<a href="tg://user?id=7">Ann &lt;3</a> (@ann)`)
	assert.NotContains(t, out, LinkUnavailable)
}

func TestRender_Placeholder(t *testing.T) {
	out := Render(testResult(messageDomain.UnknownSender{}), "", false)

	assert.Contains(t, out, "<b>Alias A</b>")
	assert.Contains(t, out, LinkUnavailable)
	assert.NotContains(t, out, "<a href")
	assert.NotContains(t, out, "From:")
}

func TestRender_ChatSender(t *testing.T) {
	out := Render(testResult(messageDomain.ChatSender{ID: -1001234567890, Title: "News"}), "https://t.me/news/1", true)
	assert.Contains(t, out, "From: News\n")
}

func TestRender_QuotesKeptVerbatim(t *testing.T) {
	res := testResult(nil)
	res.SourceText = `he said "hi" it's fine`

	out := Render(res, "", false)
	assert.Contains(t, out, `he said "hi" it's fine`)
	assert.Contains(t, out, "Chat: Cars &amp; Co")
}

func TestRender_LongTextFitsMessageLimit(t *testing.T) {
	link := "https://t.me/c/1234567890/42"

	t.Run("plain text", func(t *testing.T) {
		res := testResult(messageDomain.UserSender{ID: 7, DisplayName: "Ann"})
		res.SourceText = "wallet1 " + strings.Repeat("x", 5000)

		out := Render(res, link, true)
		assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
		assert.True(t, strings.HasPrefix(out, "🚨 <b>Alias A</b>\n"))
		assert.True(t, strings.HasSuffix(out, "…\n\n"+`<a href="https://t.me/c/1234567890/42">Open message</a>`))
		assert.Contains(t, out, "wallet1 xxx")
	})

	t.Run("entities are never split", func(t *testing.T) {
		res := testResult(nil)
		res.SourceText = strings.Repeat("a&", 2500)

		out := Render(res, "", false)
		require.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
		assert.True(t, strings.HasSuffix(out, "…\n\n"+LinkUnavailable))

		body := strings.TrimSuffix(out, "…\n\n"+LinkUnavailable)
		body = body[strings.LastIndex(body, "\n")+1:]
		assert.NotContains(t, strings.ReplaceAll(body, "&amp;", ""), "&")
	})

	t.Run("multibyte text is cut on rune boundaries", func(t *testing.T) {
		res := testResult(nil)
		res.SourceText = strings.Repeat("аренда ", 800)

		out := Render(res, link, true)
		assert.LessOrEqual(t, utf8.RuneCountInString(out), MaxMessageLength)
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("emoji count as two units", func(t *testing.T) {
		res := testResult(nil)
		res.SourceText = strings.Repeat("🔥", 3000)

		out := Render(res, link, true)
		assert.LessOrEqual(t, len(utf16.Encode([]rune(out))), MaxMessageLength)
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("short text is untouched", func(t *testing.T) {
		out := Render(testResult(nil), link, true)
		assert.NotContains(t, out, "…")
	})
}
