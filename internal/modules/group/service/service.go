package service

import (
	stderrors "errors"
	"log/slog"
	"sync"

	auditDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/domain"
	auditRepo "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/repository"
	"github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	keywordDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
	keywordRepo "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/repository"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/config"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service owns the configured monitor groups and their audit destinations
type Service struct {
	groups  []*domain.MonitorGroup
	byName  map[string]*domain.MonitorGroup
	sinks   map[string]auditDomain.Sink
	readers map[string]auditDomain.Reader
	policy  domain.AuditPolicy
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New loads every group's keyword table and opens its audit sinks.
// A missing keyword file only disables that group's matching; a broken
// audit destination fails startup. pub may be nil when NATS is not configured.
func New(cfg *config.Config, repo keywordRepo.Repository, pub auditRepo.Publisher, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "groups")

	s := &Service{
		byName:  make(map[string]*domain.MonitorGroup, len(cfg.Groups)),
		sinks:   make(map[string]auditDomain.Sink, len(cfg.Groups)),
		readers: make(map[string]auditDomain.Reader, len(cfg.Groups)),
		policy:  cfg.AuditPolicy,
		logger:  logger,
	}

	for _, gc := range cfg.Groups {
		group := &domain.MonitorGroup{
			Name:            gc.Name,
			Keywords:        s.loadTable(gc, cfg.MatchMode, repo),
			TargetChannelID: gc.TargetChatID,
			AuditPath:       gc.CSVFile,
			AuditSubject:    gc.NATSSubject,
		}

		file, err := auditRepo.NewFileStorage(gc.CSVFile)
		if err != nil {
			_ = s.Close()
			return nil, oops.With("group", gc.Name).Wrap(err)
		}

		sinks := []auditDomain.Sink{file}
		if pub != nil && gc.NATSSubject != "" {
			sinks = append(sinks, auditRepo.NewNATSSink(pub, gc.NATSSubject))
		}

		s.groups = append(s.groups, group)
		s.byName[group.Name] = group
		s.sinks[group.Name] = auditRepo.NewMultiSink(sinks...)
		s.readers[group.Name] = file

		logger.Info("Monitor group ready",
			"group", group.Name,
			"keywords", group.Keywords.Len(),
			"excluded", group.Keywords.ExcludedLen(),
			"mode", group.Keywords.Mode(),
			"target_chat_id", group.TargetChannelID,
			"audit_file", gc.CSVFile,
			"nats_subject", gc.NATSSubject,
		)
	}

	return s, nil
}

func (s *Service) loadTable(gc config.GroupConfig, mode keywordDomain.MatchMode, repo keywordRepo.Repository) *keywordDomain.Table {
	table, err := repo.LoadTable(gc.KeywordsFile, mode)
	if err != nil {
		s.logger.Warn("Keyword source unavailable, group will not match", "group", gc.Name, "path", gc.KeywordsFile, "error", err)
		table = keywordDomain.EmptyTable(mode)
	}

	if gc.ExcludedWordsFile == "" {
		return table
	}
	excluded, err := repo.LoadExcluded(gc.ExcludedWordsFile)
	if err != nil {
		s.logger.Warn("Excluded words unavailable", "group", gc.Name, "path", gc.ExcludedWordsFile, "error", err)
		return table
	}
	return table.WithExcluded(excluded)
}

// Groups returns the groups in configuration order.
func (s *Service) Groups() []*domain.MonitorGroup {
	return s.groups
}

// Group looks a group up by name.
func (s *Service) Group(name string) (*domain.MonitorGroup, error) {
	g, ok := s.byName[name]
	if !ok {
		return nil, oops.With("group", name).Wrap(errors.ErrGroupNotFound)
	}
	return g, nil
}

// Names returns the group names in configuration order.
func (s *Service) Names() []string {
	return lo.Map(s.groups, func(g *domain.MonitorGroup, _ int) string { return g.Name })
}

// Sink returns the audit sink of a group.
func (s *Service) Sink(name string) (auditDomain.Sink, bool) {
	sink, ok := s.sinks[name]
	return sink, ok
}

// History returns the readable audit log of a group.
func (s *Service) History(name string) (auditDomain.Reader, error) {
	r, ok := s.readers[name]
	if !ok {
		return nil, oops.With("group", name).Wrap(errors.ErrGroupNotFound)
	}
	return r, nil
}

// Policy returns which evaluations are audited.
func (s *Service) Policy() domain.AuditPolicy {
	return s.policy
}

// Close closes every audit sink once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		for name, sink := range s.sinks {
			if err := sink.Close(); err != nil {
				errs = append(errs, oops.With("group", name).Wrap(err))
			}
		}
		s.closeErr = stderrors.Join(errs...)
	})
	return s.closeErr
}
