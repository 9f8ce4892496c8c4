// Package config loads converter settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	converter "go-currency-converter"
)

// Feed names accepted by FEED
const (
	FeedNone     = "none"
	FeedCoinbase = "coinbase"
	FeedJitter   = "jitter"
)

// Config holds application configuration.
type Config struct {
	Port            string
	TargetCurrency  converter.Currency
	Feed            string
	CoinbaseURL     string
	CoinbaseTimeout time.Duration
	CoinbaseTTL     time.Duration
	UpdateFrequency time.Duration
	JitterSpread    float64
	JitterSeed      int64
}

// Load reads configuration from environment variables, with values from a
// .env file in the working directory when one exists.
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("TARGET_CURRENCY", "CNY")
	v.SetDefault("FEED", FeedNone)
	v.SetDefault("COINBASE_URL", "")
	v.SetDefault("COINBASE_TIMEOUT", "5s")
	v.SetDefault("COINBASE_CACHE_TTL", "15s")
	v.SetDefault("UPDATE_FREQUENCY", "1m")
	v.SetDefault("JITTER_SPREAD", 0.05)
	v.SetDefault("JITTER_SEED", 0)
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		TargetCurrency: converter.Currency(strings.ToUpper(v.GetString("TARGET_CURRENCY"))),
		Feed:           strings.ToLower(v.GetString("FEED")),
		CoinbaseURL:    v.GetString("COINBASE_URL"),
		JitterSpread:   v.GetFloat64("JITTER_SPREAD"),
		JitterSeed:     v.GetInt64("JITTER_SEED"),
	}

	var err error
	cfg.CoinbaseTimeout, err = time.ParseDuration(v.GetString("COINBASE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("COINBASE_TIMEOUT: %w", err)
	}
	cfg.CoinbaseTTL, err = time.ParseDuration(v.GetString("COINBASE_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("COINBASE_CACHE_TTL: %w", err)
	}
	cfg.UpdateFrequency, err = time.ParseDuration(v.GetString("UPDATE_FREQUENCY"))
	if err != nil {
		return nil, fmt.Errorf("UPDATE_FREQUENCY: %w", err)
	}
	if cfg.UpdateFrequency <= 0 {
		return nil, fmt.Errorf("UPDATE_FREQUENCY must be positive, got %v", cfg.UpdateFrequency)
	}

	// scheduled updates must outlive the cached rates or they never reach coinbase
	if cfg.CoinbaseTTL < 0 || cfg.CoinbaseTTL >= cfg.UpdateFrequency {
		return nil, fmt.Errorf("COINBASE_CACHE_TTL %v must be in [0, UPDATE_FREQUENCY %v)", cfg.CoinbaseTTL, cfg.UpdateFrequency)
	}

	if cfg.TargetCurrency == "" {
		return nil, fmt.Errorf("TARGET_CURRENCY: %w", converter.ErrEmptyCurrency)
	}

	switch cfg.Feed {
	case FeedNone, FeedCoinbase, FeedJitter:
	default:
		return nil, fmt.Errorf("FEED: unknown feed %q", cfg.Feed)
	}

	return cfg, nil
}
