package service

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	auditDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	keywordDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
	keywordRepo "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/repository"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/config"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	subjects []string
}

func (p *fakePublisher) Publish(subj string, _ []byte) error {
	p.subjects = append(p.subjects, subj)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	keywords := filepath.Join(dir, "rent.txt")
	require.NoError(t, os.WriteFile(keywords, []byte("wallet1|Alias A\ncar\n"), 0644))
	excluded := filepath.Join(dir, "excluded.txt")
	require.NoError(t, os.WriteFile(excluded, []byte("spam\n"), 0644))

	return &config.Config{
		MatchMode:   keywordDomain.MatchModeWholeWord,
		AuditPolicy: groupDomain.AuditPolicyMatches,
		Groups: []config.GroupConfig{
			{
				Name:              "rent",
				KeywordsFile:      keywords,
				ExcludedWordsFile: excluded,
				TargetChatID:      -1001111111111,
				CSVFile:           filepath.Join(dir, "audit", "rent.csv"),
				NATSSubject:       "monitor.audit.rent",
			},
			{
				Name:         "broken",
				KeywordsFile: filepath.Join(dir, "missing.txt"),
				TargetChatID: -1002222222222,
				CSVFile:      filepath.Join(dir, "audit", "broken.csv"),
			},
		},
	}
}

func TestService_New(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg, keywordRepo.NewFileSource(), nil, quietLogger())
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, []string{"rent", "broken"}, svc.Names())
	assert.Equal(t, groupDomain.AuditPolicyMatches, svc.Policy())

	rent, err := svc.Group("rent")
	require.NoError(t, err)
	assert.Equal(t, 2, rent.Keywords.Len())
	assert.Equal(t, 1, rent.Keywords.ExcludedLen())
	assert.Equal(t, int64(-1001111111111), rent.TargetChannelID)

	_, ok := rent.Keywords.FindFirst("wallet1 spam")
	assert.False(t, ok, "excluded terms are applied")

	broken, err := svc.Group("broken")
	require.NoError(t, err)
	assert.Zero(t, broken.Keywords.Len(), "missing keyword file degrades to an empty table")

	_, err = svc.Group("nope")
	assert.ErrorIs(t, err, errors.ErrGroupNotFound)
}

func TestService_SinksAndHistory(t *testing.T) {
	cfg := testConfig(t)
	pub := &fakePublisher{}
	svc, err := New(cfg, keywordRepo.NewFileSource(), pub, quietLogger())
	require.NoError(t, err)

	sink, ok := svc.Sink("rent")
	require.True(t, ok)
	require.NoError(t, sink.Append(auditDomain.Record{
		Timestamp: time.Now(),
		Group:     "rent",
		ChatID:    -100,
		MessageID: 1,
		Matched:   true,
		Text:      "wallet1",
	}))
	assert.Equal(t, []string{"monitor.audit.rent"}, pub.subjects)

	history, err := svc.History("rent")
	require.NoError(t, err)
	recs, err := history.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "wallet1", recs[0].Text)

	brokenSink, ok := svc.Sink("broken")
	require.True(t, ok)
	require.NoError(t, brokenSink.Append(auditDomain.Record{Timestamp: time.Now(), ChatID: -1, MessageID: 2}))
	assert.Len(t, pub.subjects, 1, "group without subject does not publish")

	_, err = svc.History("nope")
	assert.ErrorIs(t, err, errors.ErrGroupNotFound)

	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}
