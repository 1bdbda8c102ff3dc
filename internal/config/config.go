package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// RetryConfig shapes the extraction retry policy. Only transient errors
// (rate limiting, timeouts) are retried.
type RetryConfig struct {
	MaxAttempts       int     `toml:"max_attempts"`
	InitialBackoffMS  int     `toml:"initial_backoff_ms"`
	BackoffMultiplier float64 `toml:"backoff_multiplier"`
	MaxBackoffMS      int     `toml:"max_backoff_ms"`
	AttemptTimeoutMS  int     `toml:"attempt_timeout_ms"`
}

// RateLimitConfig is the shared request budget for the extraction service.
// All concurrent workers draw from the same bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ChunkingConfig bounds what is sent per extraction call. Documents longer
// than MaxChars are split into overlapping chunks.
type ChunkingConfig struct {
	MaxChars     int `toml:"max_chars"`
	OverlapChars int `toml:"overlap_chars"`
}

// MatchingConfig tunes filename-to-property matching.
type MatchingConfig struct {
	// OverlapThreshold is the minimum address-token overlap ratio to accept.
	OverlapThreshold float64 `toml:"overlap_threshold"`
	// TieMargin is how far the best candidate must beat the runner-up.
	TieMargin float64 `toml:"tie_margin"`
}

// ReconciliationConfig holds the rule thresholds. These are required inputs,
// not inferred defaults. Leaving rate_min and rate_max at zero disables the
// rate-bounds rule entirely; a tranche_tolerance of zero demands exact
// equality of the tranche sum.
type ReconciliationConfig struct {
	TrancheTolerance    float64  `toml:"tranche_tolerance"`
	RateMin             float64  `toml:"rate_min"`
	RateMax             float64  `toml:"rate_max"`
	RequiredFields      []string `toml:"required_fields"`
	ConfidenceThreshold float64  `toml:"confidence_threshold"`
	// Severities overrides the severity of individual rules by rule name,
	// e.g. severities.rate_bounds = "discrepancy".
	Severities map[string]string `toml:"severities"`
}

// MergeConfig selects the policy for same-type base-document siblings.
type MergeConfig struct {
	// BasePrecedence is "latest" (the later-dated sibling is authoritative
	// per field, the default) or "earliest".
	BasePrecedence string `toml:"base_precedence"`
}

type ConcurrencyConfig struct {
	BundleWorkers   int `toml:"bundle_workers"`
	DocumentWorkers int `toml:"document_workers"`
}

// PropertyRef is one entry of the property reference list used for matching.
type PropertyRef struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Codes   []string `toml:"codes"`
	Address string   `toml:"address"`
}

// FieldSpec optionally overrides the built-in field schema.
type FieldSpec struct {
	Name        string   `toml:"name"`
	Kind        string   `toml:"kind"`
	Description string   `toml:"description"`
	Enum        []string `toml:"enum"`
	Rate        bool     `toml:"rate"`
}

type SchemaConfig struct {
	Fields []FieldSpec `toml:"fields"`
}

type Config struct {
	LLM            LLMConfig            `toml:"llm"`
	Memgraph       MemgraphConfig       `toml:"memgraph"`
	Retry          RetryConfig          `toml:"retry"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
	Chunking       ChunkingConfig       `toml:"chunking"`
	Matching       MatchingConfig       `toml:"matching"`
	Merge          MergeConfig          `toml:"merge"`
	Reconciliation ReconciliationConfig `toml:"reconciliation"`
	Concurrency    ConcurrencyConfig    `toml:"concurrency"`
	Schema         SchemaConfig         `toml:"schema"`
	Properties     []PropertyRef        `toml:"properties"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills operational knobs only. Domain thresholds (matching,
// reconciliation, confidence) stay explicit and are validated instead.
func (c *Config) applyDefaults() {
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 4
	}
	if c.Retry.InitialBackoffMS == 0 {
		c.Retry.InitialBackoffMS = 1000
	}
	if c.Retry.BackoffMultiplier == 0 {
		c.Retry.BackoffMultiplier = 2.0
	}
	if c.Retry.MaxBackoffMS == 0 {
		c.Retry.MaxBackoffMS = 30000
	}
	if c.Retry.AttemptTimeoutMS == 0 {
		c.Retry.AttemptTimeoutMS = 120000
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 50.0 / 60.0
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 5
	}
	if c.Chunking.MaxChars == 0 {
		c.Chunking.MaxChars = 50000
	}
	if c.Chunking.OverlapChars == 0 {
		c.Chunking.OverlapChars = 2000
	}
	if c.Concurrency.BundleWorkers == 0 {
		c.Concurrency.BundleWorkers = 4
	}
	if c.Concurrency.DocumentWorkers == 0 {
		c.Concurrency.DocumentWorkers = 2
	}
	if c.Merge.BasePrecedence == "" {
		c.Merge.BasePrecedence = "latest"
	}
}

func (c *Config) validate() error {
	if len(c.Properties) > 0 && c.Matching.OverlapThreshold <= 0 {
		return fmt.Errorf("matching.overlap_threshold must be set")
	}
	if c.Reconciliation.ConfidenceThreshold <= 0 {
		return fmt.Errorf("reconciliation.confidence_threshold must be set")
	}
	if c.Chunking.OverlapChars >= c.Chunking.MaxChars {
		return fmt.Errorf("chunking.overlap_chars must be smaller than chunking.max_chars")
	}
	if c.Merge.BasePrecedence != "latest" && c.Merge.BasePrecedence != "earliest" {
		return fmt.Errorf("merge.base_precedence must be \"latest\" or \"earliest\", got %q", c.Merge.BasePrecedence)
	}
	for rule, severity := range c.Reconciliation.Severities {
		switch severity {
		case "info", "warning", "discrepancy":
		default:
			return fmt.Errorf("reconciliation.severities.%s: unknown severity %q", rule, severity)
		}
	}
	if c.Reconciliation.RateMin < 0 || c.Reconciliation.RateMax < 0 {
		return fmt.Errorf("reconciliation rate bounds must not be negative")
	}
	if c.Reconciliation.RateMax > 0 && c.Reconciliation.RateMin >= c.Reconciliation.RateMax {
		return fmt.Errorf("reconciliation.rate_min must be below rate_max")
	}
	return nil
}
