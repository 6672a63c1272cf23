package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorGroup_IsTarget(t *testing.T) {
	g := &MonitorGroup{Name: "rent", TargetChannelID: -1001234567890}

	assert.True(t, g.IsTarget(-1001234567890))
	assert.False(t, g.IsTarget(-1009999999999))
	assert.False(t, (&MonitorGroup{}).IsTarget(0), "unset target never matches")
}

func TestParseAuditPolicy(t *testing.T) {
	p, err := ParseAuditPolicy("ALL")
	assert.NoError(t, err)
	assert.Equal(t, AuditPolicyAll, p)

	_, err = ParseAuditPolicy("some")
	assert.ErrorIs(t, err, ErrInvalidAuditPolicy)
}
