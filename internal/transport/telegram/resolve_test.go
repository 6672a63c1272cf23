package telegram

import (
	"testing"
	"time"

	"github.com/gotd/td/tg"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	messageService "github.com/reshetovitsme/keyword-monitor/internal/modules/message/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entities() tg.Entities {
	return tg.Entities{
		Users: map[int64]*tg.User{
			7:  {ID: 7, FirstName: "Ann", LastName: "Lee", Username: "annlee"},
			99: {ID: 99, FirstName: "Helper", Bot: true},
		},
		Chats: map[int64]*tg.Chat{
			555: {ID: 555, Title: "Neighbours"},
		},
		Channels: map[int64]*tg.Channel{
			1234567890: {ID: 1234567890, Title: "Flats"},
			42:         {ID: 42, Title: "News", Username: "newsroom"},
		},
	}
}

func TestResolveChat(t *testing.T) {
	e := entities()

	tests := []struct {
		name string
		peer tg.PeerClass
		want messageDomain.ChatRef
	}{
		{
			name: "private supergroup",
			peer: &tg.PeerChannel{ChannelID: 1234567890},
			want: messageDomain.ChatRef{ID: -1001234567890, Title: "Flats", Kind: messageDomain.ChatKindPrivateSupergroup},
		},
		{
			name: "public channel",
			peer: &tg.PeerChannel{ChannelID: 42},
			want: messageDomain.ChatRef{ID: -1000000000042, Title: "News", Username: "newsroom", Kind: messageDomain.ChatKindPublicChannel},
		},
		{
			name: "unknown channel keeps the marked id",
			peer: &tg.PeerChannel{ChannelID: 3},
			want: messageDomain.ChatRef{ID: -1000000000003, Kind: messageDomain.ChatKindPrivateSupergroup},
		},
		{
			name: "small group",
			peer: &tg.PeerChat{ChatID: 555},
			want: messageDomain.ChatRef{ID: -555, Title: "Neighbours", Kind: messageDomain.ChatKindSmallGroup},
		},
		{
			name: "private dialog",
			peer: &tg.PeerUser{UserID: 7},
			want: messageDomain.ChatRef{ID: 7, Title: "Ann Lee", Kind: messageDomain.ChatKindSmallGroup},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveChat(tt.peer, e)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := resolveChat(nil, e)
	assert.False(t, ok)
}

func TestResolveChat_LinksFollowKind(t *testing.T) {
	e := entities()

	ref, _ := resolveChat(&tg.PeerChannel{ChannelID: 1234567890}, e)
	link, ok := messageService.BuildLink(ref, 42)
	require.True(t, ok)
	assert.Equal(t, "https://t.me/c/1234567890/42", link)

	ref, _ = resolveChat(&tg.PeerChannel{ChannelID: 42}, e)
	link, ok = messageService.BuildLink(ref, 9)
	require.True(t, ok)
	assert.Equal(t, "https://t.me/newsroom/9", link)

	ref, _ = resolveChat(&tg.PeerChat{ChatID: 555}, e)
	_, ok = messageService.BuildLink(ref, 9)
	assert.False(t, ok)
}

func TestResolveSender(t *testing.T) {
	e := entities()

	msg := &tg.Message{PeerID: &tg.PeerChannel{ChannelID: 1234567890}}
	msg.SetFromID(&tg.PeerUser{UserID: 7})
	assert.Equal(t, messageDomain.UserSender{ID: 7, Username: "annlee", DisplayName: "Ann Lee"}, resolveSender(msg, e))

	msg = &tg.Message{PeerID: &tg.PeerChannel{ChannelID: 1234567890}}
	msg.SetFromID(&tg.PeerUser{UserID: 99})
	assert.True(t, messageDomain.IsBot(resolveSender(msg, e)))

	msg = &tg.Message{PeerID: &tg.PeerChannel{ChannelID: 1234567890}}
	msg.SetFromID(&tg.PeerUser{UserID: 1000})
	assert.Equal(t, messageDomain.UserSender{ID: 1000}, resolveSender(msg, e))

	// channel posts have no from_id
	msg = &tg.Message{PeerID: &tg.PeerChannel{ChannelID: 42}}
	assert.Equal(t, messageDomain.ChatSender{ID: -1000000000042, Title: "News"}, resolveSender(msg, e))

	msg = &tg.Message{PeerID: &tg.PeerChat{ChatID: 555}}
	assert.Equal(t, messageDomain.ChatSender{ID: -555, Title: "Neighbours"}, resolveSender(msg, e))

	msg = &tg.Message{}
	assert.Equal(t, messageDomain.UnknownSender{}, resolveSender(msg, e))
}

func TestToMessage(t *testing.T) {
	e := entities()

	raw := &tg.Message{
		ID:      42,
		PeerID:  &tg.PeerChannel{ChannelID: 1234567890},
		Message: "flat for rent, wallet1",
		Date:    1714555800,
		Out:     true,
	}
	raw.SetFromID(&tg.PeerUser{UserID: 7})

	msg, ok := toMessage(raw, e)
	require.True(t, ok)
	assert.Equal(t, int64(-1001234567890), msg.Chat.ID)
	assert.Equal(t, int64(42), msg.ID)
	assert.Equal(t, "flat for rent, wallet1", msg.Text)
	assert.True(t, msg.Outgoing)
	assert.Equal(t, time.Unix(1714555800, 0).UTC(), msg.Date)
	assert.Equal(t, messageDomain.MessageKey{ChatID: -1001234567890, MessageID: 42}, msg.Key())

	_, ok = toMessage(&tg.MessageService{ID: 1}, e)
	assert.False(t, ok)

	_, ok = toMessage(&tg.MessageEmpty{ID: 2}, e)
	assert.False(t, ok)
}
