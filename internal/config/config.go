package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	APIBaseURL        string        `mapstructure:"api_base_url"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`
	User              string        `mapstructure:"api_user"`

	ProfilesFile   string `mapstructure:"profiles_file"`
	Profile        string `mapstructure:"profile"`
	PublishersFile string `mapstructure:"publishers_file"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`

	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads configuration through v, which callers may have bound to CLI flags.
func LoadWith(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	if v == nil {
		v = viper.New()
	}

	v.SetDefault("app_name", "expenses-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("api_timeout_seconds", 15)
	v.SetDefault("api_user", "")
	v.SetDefault("profiles_file", "./configs/profiles.yaml")
	v.SetDefault("profile", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("metrics_textfile", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Profile = strings.TrimSpace(cfg.Profile)

	if cfg.APIBaseURL == "" && cfg.Profile == "" {
		return nil, fmt.Errorf("api_base_url is required when no profile is selected")
	}
	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}
