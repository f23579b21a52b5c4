package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLocale, "")

	s, err := (&Config{}).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("Resolve() of empty config = %+v, want defaults %+v", s, DefaultSettings())
	}
	if s.APIBaseURL != constants.DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q", s.APIBaseURL)
	}
	if s.SearchStale != 5*time.Minute || s.IssuesStale != 2*time.Minute {
		t.Errorf("stale times = %v/%v", s.SearchStale, s.IssuesStale)
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLocale, "")

	search := "10m"
	issues := "1h"
	retries := 0
	persist := false
	timeout := "5s"
	cfg := &Config{
		DefaultFormat: FormatJSON,
		Locale:        "en",
		Stale:         &StaleOverrides{Search: &search, Issues: &issues},
		Retry:         &RetryOverrides{MaxRetries: &retries},
		Cache:         &CacheOverrides{Persist: &persist},
		HTTP:          &HTTPOverrides{Timeout: &timeout},
	}

	s, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Format != FormatJSON {
		t.Errorf("Format = %q", s.Format)
	}
	if s.Locale != "en" {
		t.Errorf("Locale = %q", s.Locale)
	}
	if s.SearchStale != 10*time.Minute {
		t.Errorf("SearchStale = %v", s.SearchStale)
	}
	if s.RepositoryStale != constants.RepositoryStaleTime {
		t.Errorf("RepositoryStale = %v, want default", s.RepositoryStale)
	}
	if s.IssuesStale != time.Hour {
		t.Errorf("IssuesStale = %v", s.IssuesStale)
	}
	if s.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0", s.MaxRetries)
	}
	if s.Persist {
		t.Error("Persist should be false")
	}
	if s.MaxEntries != constants.MaxCacheEntries {
		t.Errorf("MaxEntries = %d, want default", s.MaxEntries)
	}
	if s.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", s.Timeout)
	}
}

func TestResolveEnvironmentWins(t *testing.T) {
	t.Setenv(EnvAPIBase, "https://ghe.example.com/api/v3")
	t.Setenv(EnvToken, "abc123")
	t.Setenv(EnvLocale, "en")

	cfg := &Config{APIBaseURL: "https://proxy.example.com", Locale: "pt-BR"}
	s, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.APIBaseURL != "https://ghe.example.com/api/v3" {
		t.Errorf("APIBaseURL = %q", s.APIBaseURL)
	}
	if s.Token != "abc123" {
		t.Errorf("Token = %q", s.Token)
	}
	if s.Locale != "en" {
		t.Errorf("Locale = %q", s.Locale)
	}
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvLocale, "")

	bad := "soon"
	negative := -1
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"format", &Config{DefaultFormat: "xml"}, "default_format"},
		{"base url", &Config{APIBaseURL: "not a url"}, "api_base_url"},
		{"stale", &Config{Stale: &StaleOverrides{Repository: &bad}}, "stale.repository"},
		{"retries", &Config{Retry: &RetryOverrides{MaxRetries: &negative}}, "retry.max_retries"},
		{"timeout", &Config{HTTP: &HTTPOverrides{Timeout: &bad}}, "http.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "global.yaml"), filepath.Join(dir, "local.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultFormat != "" || cfg.Stale != nil {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadFromSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "default_format: markdown\n")

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultFormat != "markdown" {
		t.Errorf("DefaultFormat = %q, want markdown", cfg.DefaultFormat)
	}
}

func TestLoadFromMergesLocalOverGlobal(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	local := filepath.Join(dir, "local.yaml")

	writeFile(t, global, `
default_format: json
locale: en
stale:
  search: 10m
  issues: 1m
cache:
  max_entries: 50
`)
	writeFile(t, local, `
locale: pt-BR
stale:
  issues: 30s
`)

	cfg, err := LoadFrom(global, local)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want global value", cfg.DefaultFormat)
	}
	if cfg.Locale != "pt-BR" {
		t.Errorf("Locale = %q, want local value", cfg.Locale)
	}
	if cfg.Stale == nil || cfg.Stale.Search == nil || *cfg.Stale.Search != "10m" {
		t.Errorf("stale.search not preserved from global: %+v", cfg.Stale)
	}
	if cfg.Stale.Issues == nil || *cfg.Stale.Issues != "30s" {
		t.Errorf("stale.issues not overridden by local: %+v", cfg.Stale)
	}
	if cfg.Cache == nil || cfg.Cache.MaxEntries == nil || *cfg.Cache.MaxEntries != 50 {
		t.Errorf("cache.max_entries not preserved: %+v", cfg.Cache)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	writeFile(t, global, "stale: [unclosed")

	if _, err := LoadFrom(global, filepath.Join(dir, "none.yaml")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSet(t *testing.T) {
	cfg := &Config{}

	valid := map[string]string{
		"default_format":           "json",
		"api_base_url":             "https://ghe.example.com/api/v3",
		"locale":                   "en",
		"stale.search":             "1h",
		"stale.repository":         "2d",
		"stale.issues":             "30s",
		"retry.max_retries":        "4",
		"cache.max_entries":        "-1",
		"cache.persist":            "false",
		"http.timeout":             "10s",
		"http.requests_per_minute": "60",
	}
	for key, value := range valid {
		if err := cfg.Set(key, value); err != nil {
			t.Errorf("Set(%q, %q) error = %v", key, value, err)
		}
	}

	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvLocale, "")
	s, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.RepositoryStale != 48*time.Hour {
		t.Errorf("RepositoryStale = %v", s.RepositoryStale)
	}
	if s.MaxRetries != 4 || s.MaxEntries != -1 || s.Persist {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.RequestsPerMinute != 60 {
		t.Errorf("RequestsPerMinute = %d", s.RequestsPerMinute)
	}

	invalid := map[string]string{
		"default_format":    "xml",
		"api_base_url":      "nope",
		"stale.search":      "later",
		"retry.max_retries": "-2",
		"cache.persist":     "maybe",
		"unknown":           "x",
	}
	for key, value := range invalid {
		if err := cfg.Set(key, value); err == nil {
			t.Errorf("Set(%q, %q) expected error", key, value)
		}
	}
}

func TestDefaultConfigMatchesDefaultSettings(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLocale, "")

	cfg := DefaultConfig()
	out, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}

	var parsed Config
	if err := yaml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("generated YAML does not parse: %v", err)
	}
	s, err := parsed.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := DefaultSettings()
	want.Locale = "pt-BR"
	if s != want {
		t.Errorf("round-tripped defaults = %+v, want %+v", s, want)
	}
}

func TestMinimalConfigParses(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(MinimalConfig()), &cfg); err != nil {
		t.Fatalf("MinimalConfig() is not valid YAML: %v", err)
	}
	if cfg.DefaultFormat != FormatTable {
		t.Errorf("DefaultFormat = %q", cfg.DefaultFormat)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveTo(path, "locale: en\n"); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	cfg, err := LoadFrom(path, filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q", cfg.Locale)
	}
}
