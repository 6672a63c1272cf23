package domain

// Sender is resolved once per event by the transport. It is one of
// UserSender, ChatSender or UnknownSender.
type Sender interface {
	Kind() SenderKind
}

// UserSender is a message posted by a user account (or a bot).
type UserSender struct {
	ID          int64
	Username    string
	DisplayName string
	Bot         bool
}

func (UserSender) Kind() SenderKind { return SenderKindUser }

// ChatSender is a message posted on behalf of a channel or group.
type ChatSender struct {
	ID    int64
	Title string
}

func (ChatSender) Kind() SenderKind { return SenderKindChat }

// UnknownSender is used when the provider gave no usable author.
type UnknownSender struct{}

func (UnknownSender) Kind() SenderKind { return SenderKindUnknown }

// IsBot reports whether the sender is a bot user.
func IsBot(s Sender) bool {
	u, ok := s.(UserSender)
	return ok && u.Bot
}
