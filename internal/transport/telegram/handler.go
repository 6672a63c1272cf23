package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	"github.com/samber/lo"
)

// GroupLister exposes the configured monitor groups.
type GroupLister interface {
	Groups() []*groupDomain.MonitorGroup
}

// Stats exposes runtime counters shown by /status.
type Stats interface {
	InFlight() int64
}

// DedupStats exposes the duplicate guard size.
type DedupStats interface {
	Len() int
}

// Handler serves the operator commands of the alert bot
type Handler struct {
	allowed []int64
	groups  GroupLister
	stats   Stats
	dedup   DedupStats
	logger  *slog.Logger
	started time.Time
	now     func() time.Time
}

// NewHandler creates a new Telegram handler
func NewHandler(allowed []int64, groups GroupLister, stats Stats, dedup DedupStats, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		allowed: allowed,
		groups:  groups,
		stats:   stats,
		dedup:   dedup,
		logger:  logger.With("component", "bot_commands"),
		started: time.Now(),
		now:     time.Now,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, h.handleStatus)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/groups", bot.MatchTypeExact, h.handleGroups)
}

// IsAuthorized reports whether userID may use the commands. An empty
// allow-list leaves the bot open.
func (h *Handler) IsAuthorized(userID int64) bool {
	if len(h.allowed) == 0 {
		return true
	}
	return lo.Contains(h.allowed, userID)
}

const unauthorizedText = "❌ You are not authorized to use this bot."

const helpText = `👋 Keyword monitor bot

Matched messages from monitored chats are posted to each group's target channel.

Available commands:
/help - Show this help message
/status - Show monitor status
/groups - List monitor groups`

// reply answers a command, or refuses it when the sender is not allowed.
func (h *Handler) reply(ctx context.Context, b *bot.Bot, update *models.Update, text func() string) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	body := unauthorizedText
	if h.IsAuthorized(update.Message.From.ID) {
		body = text()
	} else {
		h.logger.Warn("Unauthorized command", "user_id", update.Message.From.ID, "text", update.Message.Text)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   body,
	}); err != nil {
		h.logger.Error("Failed to send reply", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.reply(ctx, b, update, func() string { return helpText })
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.reply(ctx, b, update, h.statusText)
}

func (h *Handler) handleGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.reply(ctx, b, update, h.groupsText)
}

func (h *Handler) statusText() string {
	var sb strings.Builder
	sb.WriteString("📊 Monitor status\n\n")
	fmt.Fprintf(&sb, "Uptime: %s\n", h.now().Sub(h.started).Truncate(time.Second))
	fmt.Fprintf(&sb, "Groups: %d\n", len(h.groups.Groups()))
	fmt.Fprintf(&sb, "In flight: %d\n", h.stats.InFlight())
	fmt.Fprintf(&sb, "Seen messages: %d\n", h.dedup.Len())
	return sb.String()
}

func (h *Handler) groupsText() string {
	groups := h.groups.Groups()
	if len(groups) == 0 {
		return "No monitor groups configured."
	}

	var sb strings.Builder
	sb.WriteString("📋 Monitor groups:\n\n")
	for i, g := range groups {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, g.Name)
		fmt.Fprintf(&sb, "   Target: %d\n", g.TargetChannelID)
		fmt.Fprintf(&sb, "   Keywords: %d (excluded: %d, mode: %s)\n",
			g.Keywords.Len(), g.Keywords.ExcludedLen(), g.Keywords.Mode())
		if g.AuditSubject != "" {
			fmt.Fprintf(&sb, "   NATS: %s\n", g.AuditSubject)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
