package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv     = "ALPHA_WATCHER_CONFIG"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	seenPathEnv       = "SEEN_FILE"
	onceEnv           = "ONCE"
)

// Config holds high-level settings required across the watcher.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Storage       StorageConfig      `yaml:"storage"`
	Watcher       WatcherConfig      `yaml:"watcher"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when watch cycles run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	Once           bool           `yaml:"once"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// StorageConfig selects the seen-set backend: "file" (JSON array) or
// "sqlite" (embedded database).
type StorageConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// WatcherConfig holds cycle-level tunables.
type WatcherConfig struct {
	NotifyDelay    time.Duration `yaml:"notifyDelay"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// SourceConfig describes one announcement source with its strategy,
// in priority order within Config.Sources.
type SourceConfig struct {
	Name      string            `yaml:"name"`
	Strategy  string            `yaml:"strategy"`
	Endpoints []EndpointConfig  `yaml:"endpoints"`
	Options   map[string]string `yaml:"options"`
}

// EndpointConfig holds one named URL a strategy talks to.
type EndpointConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(seenPathEnv); v != "" {
		c.Storage.Path = v
	}

	if os.Getenv(onceEnv) == "1" {
		c.Scheduler.Once = true
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.Once {
		base.Scheduler.Once = true
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Storage.Kind != "" {
		base.Storage.Kind = override.Storage.Kind
	}
	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}

	if override.Watcher.NotifyDelay > 0 {
		base.Watcher.NotifyDelay = override.Watcher.NotifyDelay
	}
	if override.Watcher.RequestTimeout > 0 {
		base.Watcher.RequestTimeout = override.Watcher.RequestTimeout
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{CronExpression: "*/15 * * * *", Timezone: defaultTimezone, location: tz},
		Storage:   StorageConfig{Kind: "file", Path: "seen_alpha_ids.json"},
		Watcher: WatcherConfig{
			NotifyDelay:    time.Second,
			RequestTimeout: 20 * time.Second,
		},
		Sources: []SourceConfig{
			{
				Name:     "binance-cms",
				Strategy: "cms",
				Endpoints: []EndpointConfig{
					{Name: "list", URL: "https://www.binance.com/bapi/composite/v1/public/cms/article/list"},
					{Name: "detail", URL: "https://www.binance.com/bapi/composite/v1/public/cms/article/detail"},
				},
				Options: map[string]string{
					"catalogId":        "48",
					"pageSize":         "30",
					"lang":             "en",
					"articleUrlPrefix": "https://www.binance.com/en/support/announcement/detail/",
				},
			},
			{
				Name:     "binance-feed",
				Strategy: "feed",
				Endpoints: []EndpointConfig{
					{Name: "en", URL: "https://www.binance.com/en/feed/alpha"},
					{Name: "ko", URL: "https://www.binance.com/ko/feed/alpha"},
				},
				Options: map[string]string{
					"articleUrlPrefix": "https://www.binance.com/en/feed/post/",
				},
			},
		},
	}
}
