// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package common

import (
	"debt-advice-engine/internal/config"
)

// Config is the application configuration, loaded from a JSON file or
// from the environment. It is re-exported here so CLI commands only
// need to import cmd/common, not internal/config directly.
type Config = config.Config

// LLMProviderConfig is the per-provider LLM settings block, re-exported
// for callers that build one directly instead of loading it from file.
type LLMProviderConfig = config.LLMProviderConfig

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// LoadConfigFromEnv loads configuration from environment variables,
// falling back to the documented defaults for anything unset.
func LoadConfigFromEnv() *Config {
	return config.LoadFromEnv()
}

// DefaultConfig returns a configuration suitable for initial setup. It
// is the same configuration LoadConfigFromEnv builds: the documented
// defaults, overridden by any environment variables or .env files set.
func DefaultConfig() *Config {
	return config.LoadFromEnv()
}
