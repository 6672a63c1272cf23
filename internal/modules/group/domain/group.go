package domain

import (
	keywordDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
)

// MonitorGroup pairs a keyword table with the channel that receives its alerts
// and the audit destinations its matches are written to.
type MonitorGroup struct {
	Name            string
	Keywords        *keywordDomain.Table
	TargetChannelID int64
	AuditPath       string
	AuditSubject    string
}

// IsTarget reports whether chatID is this group's own alert destination.
// Messages posted in the target are never scanned.
func (g *MonitorGroup) IsTarget(chatID int64) bool {
	return g.TargetChannelID != 0 && g.TargetChannelID == chatID
}
