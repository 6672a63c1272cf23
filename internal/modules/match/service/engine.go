package service

import (
	"strings"

	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/modules/match/domain"
	messageDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
)

// Engine evaluates messages against monitor groups.
type Engine struct{}

// New creates a new match engine
func New() *Engine {
	return &Engine{}
}

// Evaluate returns the first keyword hit of msg in group. The self-loop check
// runs before any text is looked at.
func (e *Engine) Evaluate(msg *messageDomain.Message, group *groupDomain.MonitorGroup) (*domain.Result, bool) {
	if msg == nil || group == nil {
		return nil, false
	}
	if group.IsTarget(msg.Chat.ID) {
		return nil, false
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, false
	}

	alias, ok := group.Keywords.FindFirst(msg.Text)
	if !ok {
		return nil, false
	}

	return &domain.Result{
		Group:      group.Name,
		Alias:      alias,
		SourceText: msg.Text,
		Chat:       msg.Chat,
		MessageID:  msg.ID,
		Sender:     msg.Sender,
	}, true
}
