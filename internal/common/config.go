package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production" - controls education fetch policy
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Limits      LimitsConfig    `toml:"limits"`
	Education   EducationConfig `toml:"education"`
	Reports     ReportsConfig   `toml:"reports"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Type   string       `toml:"type"` // only "badger" is supported
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"` // Wipe the store on startup (development only)
}

// LimitsConfig controls API rate limiting. Enforcement lives in the HTTP
// layer; the scoring engine itself performs no throttling.
type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// EducationConfig controls the kidney-health education catalog and the
// optional article fetcher.
type EducationConfig struct {
	CatalogPath    string `toml:"catalog_path"`
	FetchEnabled   bool   `toml:"fetch_enabled"` // Fetch article bodies from source URLs
	FetchTimeout   string `toml:"fetch_timeout"` // e.g., "15s"
	RefreshAfter   string `toml:"refresh_after"` // e.g., "168h" - cached article age before refetch
	UserAgent      string `toml:"user_agent"`
	FetchPerMinute int    `toml:"fetch_per_minute"` // Politeness limit toward article hosts
}

// ReportsConfig controls PDF score report generation.
type ReportsConfig struct {
	MaxEntries int    `toml:"max_entries"` // Most recent scores included in a report
	Title      string `toml:"title"`
}

// SchedulerConfig controls background jobs (daily summary rollup).
type SchedulerConfig struct {
	Enabled           bool   `toml:"enabled"`
	SummarySchedule   string `toml:"summary_schedule"`     // Standard 5-field cron expression
	SummaryWindowDays int    `toml:"summary_window_days"`  // Score history window per rollup
	RetainSummaries   int    `toml:"retain_summaries"`     // Stored rollups kept after pruning
}

// WebSocketConfig controls the event stream pushed to dashboard clients.
type WebSocketConfig struct {
	MinLevel          string            `toml:"min_level"`
	ExcludePatterns   []string          `toml:"exclude_patterns"`
	AllowedEvents     []string          `toml:"allowed_events"`
	ThrottleIntervals map[string]string `toml:"throttle_intervals"` // event type -> interval, e.g., "log" -> "250ms"
}

// NewDefaultConfig returns a config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8087,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path:           "./data/nephra",
				ResetOnStartup: false,
			},
		},
		Limits: LimitsConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Education: EducationConfig{
			CatalogPath:    "./config/education_topics.yaml",
			FetchEnabled:   false,
			FetchTimeout:   "15s",
			RefreshAfter:   "168h",
			UserAgent:      "nephra-education/1.0",
			FetchPerMinute: 6,
		},
		Reports: ReportsConfig{
			MaxEntries: 30,
			Title:      "Kidney Stress Load Report",
		},
		Scheduler: SchedulerConfig{
			Enabled:           true,
			SummarySchedule:   "0 2 * * *", // 02:00 daily
			SummaryWindowDays: 30,
			RetainSummaries:   90,
		},
		WebSocket: WebSocketConfig{
			MinLevel: "info",
			ExcludePatterns: []string{
				"WebSocket client connected",
				"WebSocket client disconnected",
				"HTTP request",
				"HTTP response",
				"Publishing event",
			},
			AllowedEvents: []string{"score_recorded", "gfr_recorded", "summary_updated", "log"},
			ThrottleIntervals: map[string]string{
				"log": "250ms",
			},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files.
// Example: LoadFromFiles("base.toml", "override.toml") - override.toml settings take precedence over base.toml
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: NEPHRA_ENV, fallback: GO_ENV)
	if env := os.Getenv("NEPHRA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("NEPHRA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NEPHRA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("NEPHRA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reset := os.Getenv("NEPHRA_BADGER_RESET"); reset != "" {
		if r, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = r
		}
	}

	// Logging configuration
	if level := os.Getenv("NEPHRA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("NEPHRA_LOG_OUTPUT"); output != "" {
		// Split comma-separated output types
		outputs := []string{}
		for _, o := range splitString(output, ",") {
			trimmed := trimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Rate limiting
	if rps := os.Getenv("NEPHRA_RATE_LIMIT"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			config.Limits.RequestsPerSecond = r
		}
	}
	if burst := os.Getenv("NEPHRA_RATE_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			config.Limits.Burst = b
		}
	}

	// Education configuration
	if catalogPath := os.Getenv("NEPHRA_EDUCATION_CATALOG"); catalogPath != "" {
		config.Education.CatalogPath = catalogPath
	}
	if fetchEnabled := os.Getenv("NEPHRA_EDUCATION_FETCH"); fetchEnabled != "" {
		if fe, err := strconv.ParseBool(fetchEnabled); err == nil {
			config.Education.FetchEnabled = fe
		}
	}
	if userAgent := os.Getenv("NEPHRA_EDUCATION_USER_AGENT"); userAgent != "" {
		config.Education.UserAgent = userAgent
	}

	// Scheduler configuration
	if enabled := os.Getenv("NEPHRA_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("NEPHRA_SUMMARY_SCHEDULE"); schedule != "" {
		config.Scheduler.SummarySchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Limits.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid rate limit %.2f: must be positive", c.Limits.RequestsPerSecond)
	}
	if c.Limits.Burst < 1 {
		return fmt.Errorf("invalid rate limit burst %d: must be at least 1", c.Limits.Burst)
	}
	if c.Scheduler.Enabled {
		if err := ValidateCronSchedule(c.Scheduler.SummarySchedule); err != nil {
			return fmt.Errorf("invalid summary schedule: %w", err)
		}
	}
	if _, err := c.Education.FetchTimeoutDuration(); err != nil {
		return fmt.Errorf("invalid education fetch_timeout: %w", err)
	}
	if _, err := c.Education.RefreshAfterDuration(); err != nil {
		return fmt.Errorf("invalid education refresh_after: %w", err)
	}
	return nil
}

// FetchTimeoutDuration parses the configured fetch timeout, defaulting to 15s
func (e *EducationConfig) FetchTimeoutDuration() (time.Duration, error) {
	if e.FetchTimeout == "" {
		return 15 * time.Second, nil
	}
	return time.ParseDuration(e.FetchTimeout)
}

// RefreshAfterDuration parses the configured article refresh age, defaulting to 7 days
func (e *EducationConfig) RefreshAfterDuration() (time.Duration, error) {
	if e.RefreshAfter == "" {
		return 7 * 24 * time.Hour, nil
	}
	return time.ParseDuration(e.RefreshAfter)
}

// ValidateCronSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateCronSchedule(schedule string) error {
	// Parse the cron expression
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	// Check for minimum 5-minute interval
	// Validate minute field (first field in standard cron)
	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]

	// Check for patterns that violate 5-minute minimum
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}

	// Check for */n patterns where n < 5
	if strings.HasPrefix(minuteField, "*/") {
		intervalStr := strings.TrimPrefix(minuteField, "*/")
		interval, err := strconv.Atoi(intervalStr)
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Helper functions for string manipulation
func splitString(s, sep string) []string {
	result := []string{}
	start := 0
	for i := 0; i < len(s); i++ {
		if i+len(sep) <= len(s) && s[i:i+len(sep)] == sep {
			result = append(result, s[start:i])
			start = i + len(sep)
			i = start - 1
		}
	}
	result = append(result, s[start:])
	return result
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
