package service

import (
	"fmt"
	"strings"

	"github.com/gorilla/feeds"
	auditDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/modules/feed/domain"
	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	messageService "github.com/reshetovitsme/keyword-monitor/internal/modules/message/service"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultLimit is the number of audit records published per feed.
const DefaultLimit = 50

// Groups gives access to the monitor groups and their audit history.
type Groups interface {
	Groups() []*groupDomain.MonitorGroup
	Group(name string) (*groupDomain.MonitorGroup, error)
	History(name string) (auditDomain.Reader, error)
}

// Service handles RSS feed generation
type Service struct {
	groups Groups
	limit  int
}

// New creates a new feed service
func New(groups Groups, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		groups: groups,
		limit:  limit,
	}
}

// FeedPath is the HTTP path of a group's feed.
func FeedPath(group string) string {
	return "/feed/" + group
}

// GenerateFeed builds the RSS feed of a group's most recent audit records
func (s *Service) GenerateFeed(groupName string, baseURL string) (*feeds.Feed, error) {
	group, err := s.groups.Group(groupName)
	if err != nil {
		return nil, err
	}

	history, err := s.groups.History(groupName)
	if err != nil {
		return nil, err
	}

	records, err := history.Recent(s.limit)
	if err != nil {
		return nil, oops.With("group", groupName, "context", "failed to read audit history").Wrap(err)
	}

	feedURL := baseURL + FeedPath(group.Name)
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - keyword matches", group.Name),
		Link:        &feeds.Link{Href: feedURL},
		Description: fmt.Sprintf("Messages matched by monitor group %s", group.Name),
		Author:      &feeds.Author{Name: "keyword-monitor"},
	}
	if len(records) > 0 {
		feed.Updated = records[0].Timestamp
	}

	feed.Items = lo.Map(records, func(rec auditDomain.Record, _ int) *feeds.Item {
		return recordToFeedItem(rec, feedURL)
	})
	return feed, nil
}

// Feeds lists the feed of every group.
func (s *Service) Feeds(baseURL string) []domain.FeedConfig {
	return lo.Map(s.groups.Groups(), func(g *groupDomain.MonitorGroup, _ int) domain.FeedConfig {
		cfg := domain.FeedConfig{
			Group:        g.Name,
			Title:        fmt.Sprintf("%s - keyword matches", g.Name),
			Link:         baseURL + FeedPath(g.Name),
			TargetChatID: g.TargetChannelID,
		}
		if history, err := s.groups.History(g.Name); err == nil {
			if recent, err := history.Recent(1); err == nil && len(recent) == 1 {
				cfg.Updated = recent[0].Timestamp
			}
		}
		return cfg
	})
}

func recordToFeedItem(rec auditDomain.Record, fallbackLink string) *feeds.Item {
	link, ok := messageService.BuildLink(messageDomain.ChatRef{
		ID:   rec.ChatID,
		Kind: messageDomain.ChatKindFromID(rec.ChatID),
	}, rec.MessageID)
	if !ok {
		link = fallbackLink
	}

	text := rec.Text
	if text == "" {
		text = "No text content"
	}

	title := truncate(text, 100)
	if rec.Alias != "" {
		title = rec.Alias + ": " + title
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: text,
		Content:     fmt.Sprintf("<p>%s</p>", escapeHTML(text)),
		Created:     rec.Timestamp,
		Id:          fmt.Sprintf("%d-%d", rec.ChatID, rec.MessageID),
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
