package di

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/nats-io/nats.go"
	alertService "github.com/reshetovitsme/keyword-monitor/internal/modules/alert/service"
	auditRepo "github.com/reshetovitsme/keyword-monitor/internal/modules/audit/repository"
	feedService "github.com/reshetovitsme/keyword-monitor/internal/modules/feed/service"
	groupService "github.com/reshetovitsme/keyword-monitor/internal/modules/group/service"
	keywordRepo "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/repository"
	matchService "github.com/reshetovitsme/keyword-monitor/internal/modules/match/service"
	messageService "github.com/reshetovitsme/keyword-monitor/internal/modules/message/service"
	pipelineService "github.com/reshetovitsme/keyword-monitor/internal/modules/pipeline/service"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/config"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/keyword-monitor/internal/transport/http"
	"github.com/reshetovitsme/keyword-monitor/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup(logger *slog.Logger) (do.Injector, error) {
	injector := do.New()

	do.ProvideValue(injector, logger)

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (keywordRepo.Repository, error) {
		return keywordRepo.NewFileSource(), nil
	})

	// NATS is optional; without a URL audit records only go to files
	do.Provide(injector, func(i do.Injector) (*nats.Conn, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.NATSURL == "" {
			return nil, nil
		}
		conn, err := nats.Connect(cfg.NATSURL, nats.Name("keyword-monitor"))
		if err != nil {
			return nil, oops.With("nats_url", cfg.NATSURL, "context", "failed to connect to NATS").Wrap(err)
		}
		return conn, nil
	})

	// Register Group Service
	do.Provide(injector, func(i do.Injector) (*groupService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[keywordRepo.Repository](i)
		logger := do.MustInvoke[*slog.Logger](i)

		var pub auditRepo.Publisher
		if conn := do.MustInvoke[*nats.Conn](i); conn != nil {
			pub = conn
		}
		return groupService.New(cfg, repo, pub, logger)
	})

	do.Provide(injector, func(i do.Injector) (*messageService.DuplicateGuard, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return messageService.NewDuplicateGuard(cfg.DedupTTL, cfg.DedupCapacity)
	})

	// Register Bot
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b, err := bot.New(cfg.TelegramBotToken)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}
		return b, nil
	})

	do.Provide(injector, func(i do.Injector) (*alertService.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b := do.MustInvoke[*bot.Bot](i)
		return alertService.New(
			telegram.NewBotSender(b, do.MustInvoke[*slog.Logger](i)),
			alertService.Config{
				MaxAttempts:   cfg.NotifyMaxAttempts,
				RetryDelay:    cfg.NotifyRetryDelay,
				RatePerMinute: cfg.SendRatePerMinute,
			},
			do.MustInvoke[*slog.Logger](i),
			do.MustInvoke[*metrics.Metrics](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*pipelineService.Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return pipelineService.New(
			do.MustInvoke[*messageService.DuplicateGuard](i),
			matchService.New(),
			do.MustInvoke[*alertService.Notifier](i),
			do.MustInvoke[*groupService.Service](i),
			pipelineService.Config{
				IgnoreBots:  cfg.IgnoreBots,
				AuditPolicy: cfg.AuditPolicy,
			},
			do.MustInvoke[*slog.Logger](i),
			do.MustInvoke[*metrics.Metrics](i),
		), nil
	})

	// Register Telegram Handler; commands are bound to the bot here
	do.Provide(injector, func(i do.Injector) (*telegram.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		h := telegram.NewHandler(
			cfg.AllowedUsers,
			do.MustInvoke[*groupService.Service](i),
			do.MustInvoke[*pipelineService.Pipeline](i),
			do.MustInvoke[*messageService.DuplicateGuard](i),
			do.MustInvoke[*slog.Logger](i),
		)
		h.RegisterCommands(do.MustInvoke[*bot.Bot](i))
		return h, nil
	})

	do.Provide(injector, func(i do.Injector) (*telegram.Listener, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return telegram.NewListener(telegram.ListenerConfig{
			APIID:       cfg.APIID,
			APIHash:     cfg.APIHash,
			Phone:       cfg.Phone,
			Password:    cfg.Password,
			SessionPath: cfg.SessionPath,
		}, do.MustInvoke[*pipelineService.Pipeline](i), do.MustInvoke[*slog.Logger](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(do.MustInvoke[*groupService.Service](i), cfg.FeedLimit), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(
			cfg.HTTPPort,
			do.MustInvoke[*feedService.Service](i),
			do.MustInvoke[*metrics.Metrics](i).Handler(),
		)
		server.SetLogger(do.MustInvoke[*slog.Logger](i))
		return server, nil
	})

	return injector, nil
}

// Shutdown drains in-flight messages within grace, then stops the HTTP
// server and closes audit destinations.
func Shutdown(injector do.Injector, grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	var errs []error

	if p, err := do.Invoke[*pipelineService.Pipeline](injector); err == nil && p != nil {
		if err := p.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "http shutdown").Wrap(err))
		}
	}

	if groups, err := do.Invoke[*groupService.Service](injector); err == nil && groups != nil {
		if err := groups.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if conn, err := do.Invoke[*nats.Conn](injector); err == nil && conn != nil {
		if err := conn.Drain(); err != nil {
			errs = append(errs, oops.With("context", "nats drain").Wrap(err))
		}
	}

	return stderrors.Join(errs...)
}
