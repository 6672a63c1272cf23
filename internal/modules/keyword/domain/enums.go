//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MatchMode selects how a keyword pattern is located in message text
// ENUM(whole_word,substring)
type MatchMode string
