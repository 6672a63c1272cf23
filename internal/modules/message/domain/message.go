package domain

import "time"

// ChannelIDOffset is the shift Telegram applies to channel and supergroup ids
// in the "marked" id space: a channel with raw id N is addressed as -(10^12 + N).
const ChannelIDOffset int64 = 1_000_000_000_000

// ChatRef is a read-only view of the chat a message was posted in.
// ID is the marked id: channels and supergroups are -(10^12 + raw),
// small groups are -raw, users are raw.
type ChatRef struct {
	ID       int64    `json:"id"`
	Username string   `json:"username,omitempty"`
	Title    string   `json:"title,omitempty"`
	Kind     ChatKind `json:"kind"`
}

// IsChannelSpace reports whether the chat id lives in the channel/supergroup id space.
func (c ChatRef) IsChannelSpace() bool {
	return c.ID < -ChannelIDOffset
}

// ChatKindFromID infers the chat kind from a marked id alone. Chats known only
// by id never have a public handle.
func ChatKindFromID(id int64) ChatKind {
	if id < -ChannelIDOffset {
		return ChatKindPrivateSupergroup
	}
	return ChatKindSmallGroup
}

// MessageKey identifies a message instance within the observation window.
type MessageKey struct {
	ChatID    int64
	MessageID int64
}

// Message is an inbound "new message" event.
type Message struct {
	Chat     ChatRef
	ID       int64
	Text     string
	Sender   Sender
	Outgoing bool
	Date     time.Time
}

// Key returns the dedup key of the message.
func (m *Message) Key() MessageKey {
	return MessageKey{ChatID: m.Chat.ID, MessageID: m.ID}
}
