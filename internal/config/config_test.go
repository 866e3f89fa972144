package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout)
	}
	if cfg.JournalType != "bbolt" || cfg.JournalTTL != 30*24*time.Hour {
		t.Fatalf("unexpected journal settings %+v", cfg)
	}
	if cfg.LogOutput != "stderr" {
		t.Fatalf("unexpected log output %q", cfg.LogOutput)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", " https://api.example.com ")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("API_USER", "u@x.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Fatalf("base url not trimmed: %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("timeout = %v", cfg.APITimeout)
	}
	if cfg.User != "u@x.com" {
		t.Fatalf("user = %q", cfg.User)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestLoadRejectsInvalidJournalTTL(t *testing.T) {
	t.Setenv("JOURNAL_TTL_SECONDS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative journal ttl")
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("profile", "staging")
	v.Set("api_base_url", "")

	cfg, err := LoadWith(v)
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Profile != "staging" {
		t.Fatalf("profile = %q", cfg.Profile)
	}
}

func TestLoadRequiresBaseURLWithoutProfile(t *testing.T) {
	v := viper.New()
	v.Set("api_base_url", "  ")
	if _, err := LoadWith(v); err == nil {
		t.Fatalf("expected error for blank base url")
	}
}
