// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads process-wide rapidhttp settings from the
// environment, an optional .env file, and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, so the
// key "engine" is read from RAPIDHTTP_ENGINE.
const EnvPrefix = "RAPIDHTTP"

// FileEnv names the environment variable holding the path of an
// optional config file (yaml, json, or toml).
const FileEnv = EnvPrefix + "_CONFIG"

// Config holds the process-wide defaults for new sessions.
type Config struct {
	Engine       string        `mapstructure:"engine"`
	JSONCodec    string        `mapstructure:"json_codec"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRedirects int           `mapstructure:"max_redirects"`
	Verify       bool          `mapstructure:"verify"`
	CABundle     string        `mapstructure:"ca_bundle"`
	TrustEnv     bool          `mapstructure:"trust_env"`
	LogLevel     string        `mapstructure:"log_level"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// DefaultUserAgent is the User-Agent header value new sessions send.
const DefaultUserAgent = "rapidhttp/1.0"

var keys = []string{
	"engine", "json_codec", "timeout", "max_redirects", "verify",
	"ca_bundle", "trust_env", "log_level", "user_agent",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", "nethttp")
	v.SetDefault("json_codec", "json")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("max_redirects", 30)
	v.SetDefault("verify", true)
	v.SetDefault("ca_bundle", "")
	v.SetDefault("trust_env", true)
	v.SetDefault("log_level", "")
	v.SetDefault("user_agent", DefaultUserAgent)
}

// Load reads the configuration. A .env file in the working directory,
// if present, is loaded into the environment first without overriding
// variables already set. Environment variables win over the config
// file named by RAPIDHTTP_CONFIG, which wins over built-in defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("rapidhttp/config: bind %s: %w", key, err)
		}
	}

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("rapidhttp/config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("rapidhttp/config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Timeout < 0 {
		return errors.New("rapidhttp/config: invalid timeout (must not be negative)")
	}
	if cfg.MaxRedirects < 0 {
		return errors.New("rapidhttp/config: invalid max_redirects (must not be negative)")
	}
	if !cfg.Verify && cfg.CABundle != "" {
		return errors.New("rapidhttp/config: ca_bundle given with verify off")
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultCfg  *Config
	defaultErr  error
)

// Default returns the process configuration, loading it on first use.
// Every later call returns the same result, so the engine and codec a
// process uses are fixed for its lifetime.
func Default() (*Config, error) {
	defaultOnce.Do(func() {
		defaultCfg, defaultErr = Load()
	})
	return defaultCfg, defaultErr
}
