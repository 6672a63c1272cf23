//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ChatKind represents the kind of chat a message originates from
// ENUM(public_channel,private_supergroup,small_group)
type ChatKind string

// SenderKind represents the resolved author variant of a message
// ENUM(user,chat,unknown)
type SenderKind string
