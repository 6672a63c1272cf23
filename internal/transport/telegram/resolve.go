package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
)

func markChannel(id int64) int64 {
	return -(messageDomain.ChannelIDOffset + id)
}

// resolveChat turns the peer a message was posted in into a ChatRef with a
// marked id. Titles and handles come from the update's entities when present.
func resolveChat(peer tg.PeerClass, e tg.Entities) (messageDomain.ChatRef, bool) {
	switch p := peer.(type) {
	case *tg.PeerChannel:
		ref := messageDomain.ChatRef{
			ID:   markChannel(p.ChannelID),
			Kind: messageDomain.ChatKindPrivateSupergroup,
		}
		if ch, ok := e.Channels[p.ChannelID]; ok {
			ref.Title = ch.Title
			if ch.Username != "" {
				ref.Username = ch.Username
				ref.Kind = messageDomain.ChatKindPublicChannel
			}
		}
		return ref, true
	case *tg.PeerChat:
		ref := messageDomain.ChatRef{
			ID:   -p.ChatID,
			Kind: messageDomain.ChatKindSmallGroup,
		}
		if chat, ok := e.Chats[p.ChatID]; ok {
			ref.Title = chat.Title
		}
		return ref, true
	case *tg.PeerUser:
		// private dialogs have no shareable message links
		ref := messageDomain.ChatRef{
			ID:   p.UserID,
			Kind: messageDomain.ChatKindSmallGroup,
		}
		if u, ok := e.Users[p.UserID]; ok {
			ref.Title = displayName(u)
		}
		return ref, true
	default:
		return messageDomain.ChatRef{}, false
	}
}

// resolveSender picks the author of msg. Channel posts carry no from_id and
// are attributed to the channel itself.
func resolveSender(msg *tg.Message, e tg.Entities) messageDomain.Sender {
	from, ok := msg.GetFromID()
	if !ok {
		from = msg.PeerID
	}

	switch p := from.(type) {
	case *tg.PeerUser:
		u, ok := e.Users[p.UserID]
		if !ok {
			return messageDomain.UserSender{ID: p.UserID}
		}
		return messageDomain.UserSender{
			ID:          p.UserID,
			Username:    u.Username,
			DisplayName: displayName(u),
			Bot:         u.Bot,
		}
	case *tg.PeerChannel:
		sender := messageDomain.ChatSender{ID: markChannel(p.ChannelID)}
		if ch, ok := e.Channels[p.ChannelID]; ok {
			sender.Title = ch.Title
		}
		return sender
	case *tg.PeerChat:
		sender := messageDomain.ChatSender{ID: -p.ChatID}
		if chat, ok := e.Chats[p.ChatID]; ok {
			sender.Title = chat.Title
		}
		return sender
	default:
		return messageDomain.UnknownSender{}
	}
}

func displayName(u *tg.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// toMessage converts an MTProto message into the inbound event. Service
// messages and messages without a resolvable chat are skipped.
func toMessage(m tg.MessageClass, e tg.Entities) (*messageDomain.Message, bool) {
	msg, ok := m.(*tg.Message)
	if !ok {
		return nil, false
	}

	chat, ok := resolveChat(msg.PeerID, e)
	if !ok {
		return nil, false
	}

	return &messageDomain.Message{
		Chat:     chat,
		ID:       int64(msg.ID),
		Text:     msg.Message,
		Sender:   resolveSender(msg, e),
		Outgoing: msg.Out,
		Date:     time.Unix(int64(msg.Date), 0).UTC(),
	}, true
}
