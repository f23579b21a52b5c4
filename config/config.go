package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spiffcs/explore/internal/constants"
	"github.com/spiffcs/explore/internal/duration"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Resolve.
const (
	EnvAPIBase = "GITHUB_API_BASE"
	EnvToken   = "GITHUB_TOKEN"
	EnvLocale  = "EXPLORE_LOCALE"
)

// Output formats accepted by default_format.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

func validFormat(f string) bool {
	return f == FormatTable || f == FormatJSON || f == FormatMarkdown
}

// Config represents the application configuration file. Unset fields keep
// their defaults; see Resolve.
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`
	APIBaseURL    string `yaml:"api_base_url,omitempty"`
	Locale        string `yaml:"locale,omitempty"`
	UserAgent     string `yaml:"user_agent,omitempty"`

	Stale *StaleOverrides `yaml:"stale,omitempty"`
	Retry *RetryOverrides `yaml:"retry,omitempty"`
	Cache *CacheOverrides `yaml:"cache,omitempty"`
	HTTP  *HTTPOverrides  `yaml:"http,omitempty"`
}

// StaleOverrides sets how long each resource is served from cache, as
// human durations like "5m".
type StaleOverrides struct {
	Search     *string `yaml:"search,omitempty"`
	Repository *string `yaml:"repository,omitempty"`
	Issues     *string `yaml:"issues,omitempty"`
}

// RetryOverrides - automatic retry settings
type RetryOverrides struct {
	MaxRetries *int `yaml:"max_retries,omitempty"`
}

// CacheOverrides - query cache settings
type CacheOverrides struct {
	MaxEntries *int  `yaml:"max_entries,omitempty"`
	Persist    *bool `yaml:"persist,omitempty"`
}

// HTTPOverrides - transport settings
type HTTPOverrides struct {
	Timeout           *string `yaml:"timeout,omitempty"`
	RequestsPerMinute *int    `yaml:"requests_per_minute,omitempty"`
}

// Settings is the fully resolved configuration the application runs with.
type Settings struct {
	Format     string
	APIBaseURL string
	// Token is read from the environment only; it is never stored in a file.
	Token     string
	Locale    string
	UserAgent string

	SearchStale     time.Duration
	RepositoryStale time.Duration
	IssuesStale     time.Duration

	MaxRetries int

	MaxEntries int
	Persist    bool

	Timeout           time.Duration
	RequestsPerMinute int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Format:          FormatTable,
		APIBaseURL:      constants.DefaultAPIBaseURL,
		UserAgent:       constants.UserAgent,
		SearchStale:     constants.SearchStaleTime,
		RepositoryStale: constants.RepositoryStaleTime,
		IssuesStale:     constants.IssuesStaleTime,
		MaxRetries:      constants.MaxRetries,
		MaxEntries:      constants.MaxCacheEntries,
		Persist:         true,
		Timeout:         constants.HTTPTimeout,
	}
}

// Resolve applies the config file's overrides and the environment on top of
// DefaultSettings. Environment variables win over the file.
func (c *Config) Resolve() (Settings, error) {
	s := DefaultSettings()

	if c.DefaultFormat != "" {
		s.Format = c.DefaultFormat
	}
	if c.APIBaseURL != "" {
		s.APIBaseURL = c.APIBaseURL
	}
	if c.Locale != "" {
		s.Locale = c.Locale
	}
	if c.UserAgent != "" {
		s.UserAgent = c.UserAgent
	}

	if st := c.Stale; st != nil {
		for _, o := range []struct {
			name string
			raw  *string
			dst  *time.Duration
		}{
			{"stale.search", st.Search, &s.SearchStale},
			{"stale.repository", st.Repository, &s.RepositoryStale},
			{"stale.issues", st.Issues, &s.IssuesStale},
		} {
			if o.raw == nil {
				continue
			}
			d, err := duration.Parse(*o.raw)
			if err != nil {
				return Settings{}, fmt.Errorf("%s: %w", o.name, err)
			}
			*o.dst = d
		}
	}

	if c.Retry != nil && c.Retry.MaxRetries != nil {
		s.MaxRetries = *c.Retry.MaxRetries
	}
	if c.Cache != nil {
		if c.Cache.MaxEntries != nil {
			s.MaxEntries = *c.Cache.MaxEntries
		}
		if c.Cache.Persist != nil {
			s.Persist = *c.Cache.Persist
		}
	}
	if c.HTTP != nil {
		if c.HTTP.Timeout != nil {
			d, err := duration.Parse(*c.HTTP.Timeout)
			if err != nil {
				return Settings{}, fmt.Errorf("http.timeout: %w", err)
			}
			s.Timeout = d
		}
		if c.HTTP.RequestsPerMinute != nil {
			s.RequestsPerMinute = *c.HTTP.RequestsPerMinute
		}
	}

	if v := os.Getenv(EnvAPIBase); v != "" {
		s.APIBaseURL = v
	}
	if v := os.Getenv(EnvLocale); v != "" {
		s.Locale = v
	}
	s.Token = c.GetGitHubToken()

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (s Settings) Validate() error {
	if !validFormat(s.Format) {
		return fmt.Errorf("default_format: unknown format %q (use table, json or markdown)", s.Format)
	}
	u, err := url.Parse(s.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url: invalid URL %q", s.APIBaseURL)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries: must not be negative")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("http.timeout: must not be negative")
	}
	return nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".explore"
	}
	return filepath.Join(configDir, "explore")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".explore.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the user config directory, then
// merges any local .explore.yaml on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the config files at globalPath and localPath.
// Missing files and empty paths are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readConfig(globalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readConfig(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

func readConfig(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		DefaultFormat: pickString(global.DefaultFormat, local.DefaultFormat),
		APIBaseURL:    pickString(global.APIBaseURL, local.APIBaseURL),
		Locale:        pickString(global.Locale, local.Locale),
		UserAgent:     pickString(global.UserAgent, local.UserAgent),
	}

	if global.Stale != nil || local.Stale != nil {
		g, l := orZero(global.Stale), orZero(local.Stale)
		result.Stale = &StaleOverrides{
			Search:     pick(g.Search, l.Search),
			Repository: pick(g.Repository, l.Repository),
			Issues:     pick(g.Issues, l.Issues),
		}
	}
	if global.Retry != nil || local.Retry != nil {
		g, l := orZero(global.Retry), orZero(local.Retry)
		result.Retry = &RetryOverrides{MaxRetries: pick(g.MaxRetries, l.MaxRetries)}
	}
	if global.Cache != nil || local.Cache != nil {
		g, l := orZero(global.Cache), orZero(local.Cache)
		result.Cache = &CacheOverrides{
			MaxEntries: pick(g.MaxEntries, l.MaxEntries),
			Persist:    pick(g.Persist, l.Persist),
		}
	}
	if global.HTTP != nil || local.HTTP != nil {
		g, l := orZero(global.HTTP), orZero(local.HTTP)
		result.HTTP = &HTTPOverrides{
			Timeout:           pick(g.Timeout, l.Timeout),
			RequestsPerMinute: pick(g.RequestsPerMinute, l.RequestsPerMinute),
		}
	}

	return result
}

func pickString(global, local string) string {
	if local != "" {
		return local
	}
	return global
}

func pick[T any](global, local *T) *T {
	if local != nil {
		return local
	}
	return global
}

func orZero[T any](p *T) *T {
	if p == nil {
		return new(T)
	}
	return p
}

// Save writes the configuration to path, which is usually ConfigPath or
// LocalConfigPath.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(path, string(data))
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
// Tokens are only read from the environment. An empty token is valid and
// means unauthenticated requests.
func (c *Config) GetGitHubToken() string {
	return os.Getenv(EnvToken)
}

// Keys lists the settable config keys in display order.
func Keys() []string {
	return []string{
		"default_format",
		"api_base_url",
		"locale",
		"user_agent",
		"stale.search",
		"stale.repository",
		"stale.issues",
		"retry.max_retries",
		"cache.max_entries",
		"cache.persist",
		"http.timeout",
		"http.requests_per_minute",
	}
}

// Set assigns value to the dotted key, validating it first.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_format":
		if !validFormat(value) {
			return fmt.Errorf("unknown format %q (use table, json or markdown)", value)
		}
		c.DefaultFormat = value
	case "api_base_url":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid URL %q", value)
		}
		c.APIBaseURL = value
	case "locale":
		c.Locale = value
	case "user_agent":
		c.UserAgent = value
	case "stale.search", "stale.repository", "stale.issues":
		if _, err := duration.Parse(value); err != nil {
			return err
		}
		if c.Stale == nil {
			c.Stale = &StaleOverrides{}
		}
		switch strings.TrimPrefix(key, "stale.") {
		case "search":
			c.Stale.Search = &value
		case "repository":
			c.Stale.Repository = &value
		default:
			c.Stale.Issues = &value
		}
	case "retry.max_retries":
		n, err := parseNonNegative(value)
		if err != nil {
			return err
		}
		c.Retry = &RetryOverrides{MaxRetries: &n}
	case "cache.max_entries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		if c.Cache == nil {
			c.Cache = &CacheOverrides{}
		}
		c.Cache.MaxEntries = &n
	case "cache.persist":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		if c.Cache == nil {
			c.Cache = &CacheOverrides{}
		}
		c.Cache.Persist = &b
	case "http.timeout":
		if _, err := duration.Parse(value); err != nil {
			return err
		}
		if c.HTTP == nil {
			c.HTTP = &HTTPOverrides{}
		}
		c.HTTP.Timeout = &value
	case "http.requests_per_minute":
		n, err := parseNonNegative(value)
		if err != nil {
			return err
		}
		if c.HTTP == nil {
			c.HTTP = &HTTPOverrides{}
		}
		c.HTTP.RequestsPerMinute = &n
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func parseNonNegative(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid non-negative number %q", value)
	}
	return n, nil
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	s := DefaultSettings()
	search := duration.Format(s.SearchStale)
	repo := duration.Format(s.RepositoryStale)
	issues := duration.Format(s.IssuesStale)
	timeout := duration.Format(s.Timeout)

	return &Config{
		DefaultFormat: s.Format,
		APIBaseURL:    s.APIBaseURL,
		Locale:        "pt-BR",
		UserAgent:     s.UserAgent,
		Stale: &StaleOverrides{
			Search:     &search,
			Repository: &repo,
			Issues:     &issues,
		},
		Retry: &RetryOverrides{MaxRetries: &s.MaxRetries},
		Cache: &CacheOverrides{
			MaxEntries: &s.MaxEntries,
			Persist:    &s.Persist,
		},
		HTTP: &HTTPOverrides{
			Timeout:           &timeout,
			RequestsPerMinute: &s.RequestsPerMinute,
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# explore configuration file
# See: explore config defaults  (for all available options)

# Output format: table, json or markdown
default_format: table

# Language of error messages: pt-BR (default) or en
# locale: en

# GitHub Enterprise or a proxy (GITHUB_API_BASE overrides this)
# api_base_url: https://api.github.com

# How long results are served from cache
# stale:
#   search: 5m
#   repository: 5m
#   issues: 2m

# The access token is read from GITHUB_TOKEN only.
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
