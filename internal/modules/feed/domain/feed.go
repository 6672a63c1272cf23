package domain

import "time"

// FeedConfig describes the RSS feed published for one monitor group
type FeedConfig struct {
	Group        string    `json:"group"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	TargetChatID int64     `json:"target_chat_id"`
	Updated      time.Time `json:"updated"`
}
