// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the staffit YAML configuration file. Values of the
// form ${VAR} or ${VAR:-default} are expanded from the environment before
// parsing, so deployment secrets never need to live in the file itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full staffit configuration.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Host     string `yaml:"host"`
	Model    string `yaml:"model"`
	APIToken string `yaml:"api_token"`
	CacheDir string `yaml:"cache_dir"` // empty disables the embedding cache
}

// IndexConfig holds index persistence settings.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// SearchConfig holds hybrid search tuning knobs.
type SearchConfig struct {
	DefaultK       int     `yaml:"default_k"`
	ScoreThreshold float32 `yaml:"score_threshold"`
	KeywordBoost   float32 `yaml:"keyword_boost"`
}

// PipelineConfig holds ingestion settings.
type PipelineConfig struct {
	PoolSize      int `yaml:"pool_size"`
	BatchSize     int `yaml:"batch_size"`
	MaxAttempts   int `yaml:"max_attempts"`
	RetryDelaySec int `yaml:"retry_delay_sec"`
}

// RetryDelay returns the retry base delay as a duration.
func (p PipelineConfig) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelaySec) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads, expands, parses, and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document, expanding environment
// variables and applying defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Embedding.Host == "" {
		c.Embedding.Host = "http://localhost:11434/v1"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "embeddinggemma"
	}
	if c.Embedding.APIToken == "" {
		c.Embedding.APIToken = "none"
	}
	if c.Index.Dir == "" {
		c.Index.Dir = "data/index"
	}
	if c.Search.DefaultK <= 0 {
		c.Search.DefaultK = 5
	}
	if c.Search.ScoreThreshold <= 0 {
		c.Search.ScoreThreshold = 0.3
	}
	if c.Search.KeywordBoost <= 0 {
		c.Search.KeywordBoost = 0.15
	}
	if c.Pipeline.PoolSize <= 0 {
		c.Pipeline.PoolSize = 4
	}
	if c.Pipeline.BatchSize <= 0 {
		c.Pipeline.BatchSize = 16
	}
	if c.Pipeline.MaxAttempts <= 0 {
		c.Pipeline.MaxAttempts = 3
	}
	if c.Pipeline.RetryDelaySec <= 0 {
		c.Pipeline.RetryDelaySec = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Search.ScoreThreshold > 1 {
		return fmt.Errorf("search.score_threshold must be in (0, 1], got %g", c.Search.ScoreThreshold)
	}
	if c.Search.KeywordBoost > 1 {
		return fmt.Errorf("search.keyword_boost must be in (0, 1], got %g", c.Search.KeywordBoost)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
