package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONConfig описывает JSON-файл конфигурации.
// Поля - указатели, чтобы отличать отсутствующие значения от нулевых.
type JSONConfig struct {
	InputFile         *string `json:"input_file"`
	OutputFile        *string `json:"output_file"`
	APIURL            *string `json:"api_url"`
	ShortPrefix       *string `json:"short_url_prefix"`
	RequestDelay      *string `json:"request_delay"`
	RequestTimeout    *string `json:"request_timeout"`
	MaxAttempts       *int    `json:"max_attempts"`
	RateLimitAttempts *int    `json:"rate_limit_attempts"`
	BackoffBase       *string `json:"backoff_base"`
	BackoffMax        *string `json:"backoff_max"`
	LogLevel          *string `json:"log_level"`
	Verbose           *bool   `json:"verbose"`
}

// LoadJSONConfig читает JSON-файл конфигурации
func LoadJSONConfig(path string) (*JSONConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg JSONConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// apply переносит значения в cfg, пропуская поля, заданные флагами явно
func (j *JSONConfig) apply(cfg *Config, explicit map[string]bool) error {
	setString(&cfg.InputFile, j.InputFile, explicit["f"])
	setString(&cfg.OutputFile, j.OutputFile, explicit["o"])
	setString(&cfg.APIURL, j.APIURL, explicit["api"])
	setString(&cfg.ShortPrefix, j.ShortPrefix, explicit["prefix"])
	setString(&cfg.LogLevel, j.LogLevel, explicit["log-level"])

	if j.MaxAttempts != nil && !explicit["attempts"] {
		cfg.MaxAttempts = *j.MaxAttempts
	}
	if j.RateLimitAttempts != nil && !explicit["rate-attempts"] {
		cfg.RateLimitAttempts = *j.RateLimitAttempts
	}
	if j.Verbose != nil && !explicit["v"] {
		cfg.Verbose = *j.Verbose
	}

	durations := []struct {
		name  string
		flag  string
		value *string
		dst   *time.Duration
	}{
		{"request_delay", "delay", j.RequestDelay, &cfg.RequestDelay},
		{"request_timeout", "timeout", j.RequestTimeout, &cfg.RequestTimeout},
		{"backoff_base", "backoff", j.BackoffBase, &cfg.BackoffBase},
		{"backoff_max", "backoff-max", j.BackoffMax, &cfg.BackoffMax},
	}
	for _, d := range durations {
		if d.value == nil || explicit[d.flag] {
			continue
		}
		parsed, err := time.ParseDuration(*d.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, value *string, skip bool) {
	if value != nil && !skip {
		*dst = *value
	}
}
