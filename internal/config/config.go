package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ShellConfig holds shell status indicator configuration.
type ShellConfig struct {
	CacheTTL    string `mapstructure:"cache_ttl"`
	TodayIcon   string `mapstructure:"today_icon"`
	NoTodayIcon string `mapstructure:"no_today_icon"`
	StreakIcon  string `mapstructure:"streak_icon"`
	ShowBackend bool   `mapstructure:"show_backend"`
}

// ThemeConfig selects a color preset and optional per-color overrides.
type ThemeConfig struct {
	Preset        string `mapstructure:"preset"`
	Primary       string `mapstructure:"primary"`
	Secondary     string `mapstructure:"secondary"`
	Accent        string `mapstructure:"accent"`
	Muted         string `mapstructure:"muted"`
	Danger        string `mapstructure:"danger"`
	Background    string `mapstructure:"background"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// MoodConfig selects and configures the mood analyzer.
type MoodConfig struct {
	Provider string        `mapstructure:"provider"` // proxy, openai, gemini
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Fallback bool          `mapstructure:"fallback"`
}

// ServerConfig configures `moodjournal serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config holds the application configuration.
type Config struct {
	Storage     string       `mapstructure:"storage"`
	DataDir     string       `mapstructure:"data_dir"`
	PostgresDSN string       `mapstructure:"postgres_dsn"`
	Editor      string       `mapstructure:"editor"`
	MaxWidth    int          `mapstructure:"max_width"`
	Theme       ThemeConfig  `mapstructure:"theme"`
	Mood        MoodConfig   `mapstructure:"mood"`
	Server      ServerConfig `mapstructure:"server"`
	Log         LogConfig    `mapstructure:"log"`
	Shell       ShellConfig  `mapstructure:"shell"`
}

// DefaultDataDir returns the default data directory (~/.moodjournal/).
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", ".moodjournal")
	}
	return filepath.Join(home, ".moodjournal")
}

// Load reads configuration from file, .env, environment variables, and defaults.
func Load(configPath string) (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("storage", "sqlite")
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("editor", "")
	v.SetDefault("max_width", 100)
	v.SetDefault("theme.preset", "default-dark")
	v.SetDefault("theme.primary", "")
	v.SetDefault("theme.secondary", "")
	v.SetDefault("theme.accent", "")
	v.SetDefault("theme.muted", "")
	v.SetDefault("theme.danger", "")
	v.SetDefault("theme.markdown_style", "")
	v.SetDefault("mood.provider", "proxy")
	v.SetDefault("mood.endpoint", "http://localhost:8080")
	v.SetDefault("mood.api_key", "")
	v.SetDefault("mood.model", "")
	v.SetDefault("mood.timeout", 30*time.Second)
	v.SetDefault("mood.fallback", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("shell.cache_ttl", "5m")
	v.SetDefault("shell.today_icon", "✓")
	v.SetDefault("shell.no_today_icon", "✗")
	v.SetDefault("shell.streak_icon", "🔥")
	v.SetDefault("shell.show_backend", false)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// XDG support
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "moodjournal"))
		}
		v.AddConfigPath(DefaultDataDir())
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	// Environment variables: MOODJOURNAL_STORAGE, MOODJOURNAL_MOOD_API_KEY, etc.
	v.SetEnvPrefix("MOODJOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error if it's not a "file not found" error
			if configPath != "" {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if expanded, err := homedir.Expand(cfg.DataDir); err == nil {
		cfg.DataDir = expanded
	}
	if cfg.Log.File != "" {
		if expanded, err := homedir.Expand(cfg.Log.File); err == nil {
			cfg.Log.File = expanded
		}
	}

	return cfg, nil
}

// CacheTTL parses the shell cache TTL, falling back to five minutes.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Shell.CacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}
