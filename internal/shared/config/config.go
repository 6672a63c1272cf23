package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	groupDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/group/domain"
	keywordDomain "github.com/reshetovitsme/keyword-monitor/internal/modules/keyword/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// GroupConfig describes one monitor group.
type GroupConfig struct {
	Name              string `koanf:"name"`
	KeywordsFile      string `koanf:"keywords_file"`
	ExcludedWordsFile string `koanf:"excluded_words_file"`
	TargetChatID      int64  `koanf:"target_chat_id"`
	CSVFile           string `koanf:"csv_file"`
	NATSSubject       string `koanf:"nats_subject"`
}

type Config struct {
	// Telegram
	TelegramBotToken string  `koanf:"telegram_bot_token"`
	APIID            int     `koanf:"api_id"`
	APIHash          string  `koanf:"api_hash"`
	Phone            string  `koanf:"phone"`
	Password         string  `koanf:"password"`
	SessionPath      string  `koanf:"session_path"`
	AllowedUsers     []int64 `koanf:"-"`

	// Service
	HTTPPort      string        `koanf:"http_port"`
	LogLevel      string        `koanf:"log_level"`
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`
	FeedLimit     int           `koanf:"feed_limit"`
	NATSURL       string        `koanf:"nats_url"`

	// Pipeline
	DedupTTL          time.Duration           `koanf:"dedup_ttl"`
	DedupCapacity     int                     `koanf:"dedup_capacity"`
	MatchMode         keywordDomain.MatchMode `koanf:"match_mode"`
	AuditPolicy       groupDomain.AuditPolicy `koanf:"audit_policy"`
	IgnoreBots        bool                    `koanf:"ignore_bots"`
	NotifyMaxAttempts int                     `koanf:"notify_max_attempts"`
	NotifyRetryDelay  time.Duration           `koanf:"notify_retry_delay"`
	SendRatePerMinute int                     `koanf:"send_rate_per_minute"`

	Groups []GroupConfig `koanf:"groups"`
}

// Load reads .env, the first config file found in the working directory and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with config files looked up in dir.
func LoadFrom(dir string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := lo.Map([]string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}, func(name string, _ int) string {
		return filepath.Join(dir, name)
	})

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	setDefaults(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.AllowedUsers = parseAllowedUsersValue(k.Get("allowed_users"))

	if mode, err := keywordDomain.ParseMatchMode(string(cfg.MatchMode)); err == nil {
		cfg.MatchMode = mode
	} else {
		return nil, oops.With("match_mode", cfg.MatchMode).Wrap(err)
	}
	if policy, err := groupDomain.ParseAuditPolicy(string(cfg.AuditPolicy)); err == nil {
		cfg.AuditPolicy = policy
	} else {
		return nil, oops.With("audit_policy", cfg.AuditPolicy).Wrap(err)
	}

	if len(cfg.Groups) == 0 {
		if g, ok := defaultGroup(k); ok {
			cfg.Groups = []GroupConfig{g}
		}
	}
	cfg.Groups = normalizeGroups(cfg.Groups)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		"session_path":         "./data/session.json",
		"http_port":            "8080",
		"log_level":            "info",
		"shutdown_grace":       "15s",
		"feed_limit":           50,
		"dedup_ttl":            "24h",
		"dedup_capacity":       1_000_000,
		"match_mode":           keywordDomain.MatchModeWholeWord.String(),
		"audit_policy":         groupDomain.AuditPolicyMatches.String(),
		"ignore_bots":          true,
		"notify_max_attempts":  5,
		"notify_retry_delay":   "10s",
		"send_rate_per_minute": 20,
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}
}

// defaultGroup builds a single group from flat keys, the way a one-group
// deployment is configured through the environment alone.
func defaultGroup(k *koanf.Koanf) (GroupConfig, bool) {
	if !k.Exists("keywords_file") && !k.Exists("target_chat_id") {
		return GroupConfig{}, false
	}
	return GroupConfig{
		Name:              k.String("group_name"),
		KeywordsFile:      k.String("keywords_file"),
		ExcludedWordsFile: k.String("excluded_words_file"),
		TargetChatID:      k.Int64("target_chat_id"),
		CSVFile:           k.String("csv_file"),
		NATSSubject:       k.String("nats_subject"),
	}, true
}

func normalizeGroups(groups []GroupConfig) []GroupConfig {
	return lo.Map(groups, func(g GroupConfig, i int) GroupConfig {
		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" {
			g.Name = fmt.Sprintf("group-%d", i+1)
		}
		if g.CSVFile == "" {
			g.CSVFile = filepath.Join("data", "audit", g.Name+".csv")
		}
		return g
	})
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.ErrMissingBotToken
	}
	if c.APIID == 0 || c.APIHash == "" {
		return errors.ErrMissingAPICredentials
	}
	if len(c.Groups) == 0 {
		return errors.ErrNoGroups
	}
	for _, g := range c.Groups {
		if g.TargetChatID == 0 {
			return oops.With("group", g.Name, "context", "target_chat_id is required").Wrap(errors.ErrNoGroups)
		}
	}
	if dups := lo.FindDuplicatesBy(c.Groups, func(g GroupConfig) string { return g.Name }); len(dups) > 0 {
		return oops.With("group", dups[0].Name).Errorf("duplicate group name")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseAllowedUsersValue(v any) []int64 {
	switch val := v.(type) {
	case string:
		return ParseAllowedUsers(val)
	case []any:
		return lo.FilterMap(val, func(item any, _ int) (int64, bool) {
			switch id := item.(type) {
			case int64:
				return id, true
			case int:
				return int64(id), true
			case float64:
				return int64(id), true
			case string:
				ids := ParseAllowedUsers(id)
				return lo.FirstOrEmpty(ids), len(ids) == 1
			default:
				return 0, false
			}
		})
	default:
		return []int64{}
	}
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
