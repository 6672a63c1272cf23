package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	alertDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/alert/domain"
	alertService "github.com/reshetovitsme/keyword-monitor/internal/modules/alert/service"
	auditDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	matchDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/match/domain"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	messageService "github.com/reshetovitsme/keyword-monitor/internal/modules/message/service"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/metrics"
	"github.com/samber/oops"
)

// Outcome is the terminal state of one inbound message.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeDropped Outcome = "dropped"
	OutcomeIgnored Outcome = "ignored"
)

// Guard suppresses duplicate deliveries.
type Guard interface {
	Observe(key messageDomain.MessageKey) bool
}

// Matcher evaluates a message against one group.
type Matcher interface {
	Evaluate(msg *messageDomain.Message, group *groupDomain.MonitorGroup) (*matchDomain.Result, bool)
}

// Notifier delivers a rendered alert.
type Notifier interface {
	Notify(ctx context.Context, targetID int64, html string) error
}

// Groups provides the monitor groups and their audit sinks.
type Groups interface {
	Groups() []*groupDomain.MonitorGroup
	Sink(name string) (auditDomain.Sink, bool)
}

type Config struct {
	IgnoreBots  bool
	AuditPolicy groupDomain.AuditPolicy
}

// Pipeline runs every inbound message through dedup, matching, delivery
// and audit for each monitor group.
type Pipeline struct {
	guard    Guard
	matcher  Matcher
	notifier Notifier
	groups   Groups
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
	baseCtx  context.Context
	cancel   context.CancelFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNow replaces the clock used for audit timestamps.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a new pipeline
func New(guard Guard, matcher Matcher, notifier Notifier, groups Groups, cfg Config, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.AuditPolicy.IsValid() {
		cfg.AuditPolicy = groupDomain.AuditPolicyMatches
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		guard:    guard,
		matcher:  matcher,
		notifier: notifier,
		groups:   groups,
		cfg:      cfg,
		logger:   logger.With("component", "pipeline"),
		metrics:  m,
		now:      time.Now,
		baseCtx:  ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dispatch handles msg on its own goroutine so slow sends never hold up
// other messages. It returns false once Shutdown has started.
func (p *Pipeline) Dispatch(msg *messageDomain.Message) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	p.inFlight.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Message handler panicked", "chat_id", msg.Chat.ID, "message_id", msg.ID, "panic", fmt.Sprint(r))
			}
		}()
		p.Handle(p.baseCtx, msg)
	}()
	return true
}

// InFlight returns the number of messages currently being handled.
func (p *Pipeline) InFlight() int64 {
	return p.inFlight.Load()
}

// Shutdown stops accepting messages and waits for in-flight handlers.
// When ctx expires first, handlers are cancelled and awaited.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.logger.Warn("Grace period expired, cancelling in-flight handlers", "in_flight", p.InFlight())
		p.cancel()
		<-done
		return oops.With("context", "pipeline shutdown").Wrap(ctx.Err())
	}
}

// Handle processes one message synchronously.
func (p *Pipeline) Handle(ctx context.Context, msg *messageDomain.Message) Outcome {
	p.metrics.Received()

	if p.cfg.IgnoreBots && messageDomain.IsBot(msg.Sender) {
		p.logger.Debug("Message is from a bot, ignoring", "chat_id", msg.Chat.ID, "message_id", msg.ID)
		p.metrics.IgnoredBot()
		return OutcomeIgnored
	}

	if !p.guard.Observe(msg.Key()) {
		p.logger.Debug("Duplicate message dropped", "chat_id", msg.Chat.ID, "message_id", msg.ID)
		p.metrics.Duplicate()
		return OutcomeDropped
	}

	for _, group := range p.groups.Groups() {
		p.handleGroup(ctx, msg, group)
	}
	return OutcomeDone
}

func (p *Pipeline) handleGroup(ctx context.Context, msg *messageDomain.Message, group *groupDomain.MonitorGroup) {
	if group.IsTarget(msg.Chat.ID) {
		p.logger.Debug("Message from target chat, ignoring", "group", group.Name, "chat_id", msg.Chat.ID)
		return
	}

	res, ok := p.matcher.Evaluate(msg, group)
	if !ok {
		if p.cfg.AuditPolicy == groupDomain.AuditPolicyAll {
			p.audit(group, msg, "", false)
		}
		return
	}

	p.metrics.Matched(group.Name)
	link, hasLink := messageService.BuildLink(msg.Chat, msg.ID)
	logger := p.logger.With(
		"group", group.Name,
		"alias", res.Alias,
		"chat_id", msg.Chat.ID,
		"message_id", msg.ID,
		"target_chat_id", group.TargetChannelID,
	)
	logger.Info("Keyword matched", "link", link)

	if err := p.notifier.Notify(ctx, group.TargetChannelID, alertService.Render(res, link, hasLink)); err != nil {
		reason := alertDomain.Reason(err)
		logger.Error("Failed to deliver alert", "reason", reason, "error", err)
		p.metrics.Failed(group.Name, reason)
	} else {
		logger.Info("Alert delivered")
		p.metrics.Sent(group.Name)
	}

	p.audit(group, msg, res.Alias, true)
}

func (p *Pipeline) audit(group *groupDomain.MonitorGroup, msg *messageDomain.Message, alias string, matched bool) {
	sink, ok := p.groups.Sink(group.Name)
	if !ok {
		return
	}

	rec := auditDomain.Record{
		Timestamp: p.now().UTC(),
		Group:     group.Name,
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Alias:     alias,
		Matched:   matched,
		Text:      msg.Text,
	}
	if err := sink.Append(rec); err != nil {
		p.logger.Error("Failed to write audit record", "group", group.Name, "chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
		p.metrics.AuditFailed(group.Name)
	}
}
