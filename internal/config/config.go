// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"debt-advice-engine/pkg/embedding"
	"debt-advice-engine/pkg/engine"
	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/vectorstore"
)

// Config represents the complete configuration for the debt-advice
// reasoning engine.
type Config struct {
	LLM         LLMConfig         `json:"llm"`
	Embedding   EmbeddingConfig   `json:"embedding"`
	VectorStore VectorStoreConfig `json:"vector_store"`
	Audit       AuditConfig       `json:"audit"`
	Engine      EngineConfig      `json:"engine"`
	Redis       RedisConfig       `json:"redis"`
}

// LLMConfig contains settings for LLM providers.
type LLMConfig struct {
	// ReasoningLLM is used for analysis, symbolic reasoning, and synthesis.
	ReasoningLLM LLMProviderConfig `json:"reasoning_llm"`

	// FastLLM is used for quick tasks (threshold bootstrap extraction).
	FastLLM LLMProviderConfig `json:"fast_llm"`
}

// LLMProviderConfig contains settings for a specific LLM provider.
type LLMProviderConfig struct {
	Provider           string  `json:"provider"` // "openai"
	APIKey             string  `json:"api_key,omitempty"`
	BaseURL            string  `json:"base_url,omitempty"`
	Model              string  `json:"model"`
	DefaultTemperature float32 `json:"default_temperature"`
	DefaultMaxTokens   int     `json:"default_max_tokens"`
	TimeoutSeconds     int     `json:"timeout_seconds"`
}

// EmbeddingConfig contains settings for embedding generation.
type EmbeddingConfig struct {
	Provider       string `json:"provider"`
	APIKey         string `json:"api_key,omitempty"`
	BaseURL        string `json:"base_url,omitempty"`
	Model          string `json:"model"`
	BatchSize      int    `json:"batch_size"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// VectorStoreConfig contains settings for the manual-corpus vector store.
type VectorStoreConfig struct {
	Type              string                 `json:"type"` // "qdrant"
	Address           string                 `json:"address"`
	APIKey            string                 `json:"api_key,omitempty"`
	TimeoutSeconds    int                    `json:"timeout_seconds"`
	DefaultCollection string                 `json:"default_collection"`
	Extra             map[string]interface{} `json:"extra,omitempty"`
}

// AuditConfig contains settings for the query-audit store.
type AuditConfig struct {
	Driver      string `json:"driver"` // "sqlite" or "postgres"
	DSN         string `json:"dsn"`
	AutoMigrate bool   `json:"auto_migrate"`
}

// RedisConfig controls the optional threshold-cache snapshot store. An
// empty Address leaves threshold snapshot persistence disabled: the
// engine still runs, it just re-extracts from the manual corpus on
// every restart instead of restoring the last-known-good cache.
type RedisConfig struct {
	Address     string `json:"address,omitempty"`
	Password    string `json:"password,omitempty"`
	DB          int    `json:"db"`
	SnapshotKey string `json:"snapshot_key,omitempty"`
}

// EngineConfig mirrors engine.Options for file/env-driven configuration.
type EngineConfig struct {
	DefaultTopK         int                `json:"default_top_k"`
	MaxToolIterations   int                `json:"max_tool_iterations"`
	QueryTimeoutMS      int                `json:"query_timeout_ms"`
	LLMTimeoutMS        int                `json:"llm_timeout_ms"`
	SymbolicEnabled     bool               `json:"symbolic_enabled"`
	CacheBootstrapQuery string             `json:"cache_bootstrap_query"`
	ToleranceDefaults   map[string]float64 `json:"tolerance_defaults,omitempty"`
}

// ToEngineOptions converts to engine.Options. SymbolicEnabled is always
// set explicitly (never nil) since LoadFromEnv/LoadFromFile always
// resolve it first, through getEnvBool or EngineConfig.UnmarshalJSON.
func (c EngineConfig) ToEngineOptions() engine.Options {
	symbolicEnabled := c.SymbolicEnabled
	return engine.Options{
		TopK:                c.DefaultTopK,
		MaxIterations:       c.MaxToolIterations,
		QueryTimeoutMS:      c.QueryTimeoutMS,
		LLMTimeoutMS:        c.LLMTimeoutMS,
		SymbolicEnabled:     &symbolicEnabled,
		CacheBootstrapQuery: c.CacheBootstrapQuery,
		ToleranceOverrides:  c.ToleranceDefaults,
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// LoadFromEnv loads configuration from environment variables, useful
// for containerized deployments.
func LoadFromEnv() *Config {
	loadEnvFiles()

	config := &Config{
		LLM: LLMConfig{
			ReasoningLLM: LLMProviderConfig{
				Provider:           getEnv("REASONING_LLM_PROVIDER", "openai"),
				APIKey:             getEnv("REASONING_LLM_API_KEY", ""),
				Model:              getEnv("REASONING_LLM_MODEL", "gpt-4o"),
				DefaultTemperature: 0.3,
				DefaultMaxTokens:   1200,
				TimeoutSeconds:     getEnvInt("LLM_TIMEOUT_SECONDS", 20),
			},
			FastLLM: LLMProviderConfig{
				Provider:           getEnv("FAST_LLM_PROVIDER", "openai"),
				APIKey:             getEnv("FAST_LLM_API_KEY", ""),
				Model:              getEnv("FAST_LLM_MODEL", "gpt-4o-mini"),
				DefaultTemperature: 0.1,
				DefaultMaxTokens:   1500,
				TimeoutSeconds:     30,
			},
		},
		Embedding: EmbeddingConfig{
			Provider:       getEnv("EMBEDDING_PROVIDER", "openai"),
			APIKey:         getEnv("EMBEDDING_API_KEY", ""),
			Model:          getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			BatchSize:      100,
			TimeoutSeconds: 30,
		},
		VectorStore: VectorStoreConfig{
			Type:              getEnv("VECTOR_STORE_TYPE", "qdrant"),
			Address:           getEnv("VECTOR_STORE_ADDRESS", "localhost:6334"),
			DefaultCollection: getEnv("VECTOR_STORE_COLLECTION", "debt-advice-manuals"),
			TimeoutSeconds:    30,
		},
		Audit: AuditConfig{
			Driver:      getEnv("AUDIT_DRIVER", "sqlite"),
			DSN:         getEnv("AUDIT_DSN", "debt-advice-audit.db"),
			AutoMigrate: true,
		},
		Engine: EngineConfig{
			DefaultTopK:         getEnvInt("DEFAULT_TOP_K", 4),
			MaxToolIterations:   getEnvInt("MAX_TOOL_ITERATIONS", 3),
			QueryTimeoutMS:      getEnvInt("QUERY_TIMEOUT_MS", 60000),
			LLMTimeoutMS:        getEnvInt("LLM_TIMEOUT_MS", 20000),
			SymbolicEnabled:     getEnvBool("SYMBOLIC_ENABLED", true),
			CacheBootstrapQuery: getEnv("CACHE_BOOTSTRAP_QUERY", "List all numerical limits, maximums, minimums, thresholds, and fees for debt solutions."),
		},
		Redis: RedisConfig{
			Address:     getEnv("REDIS_ADDRESS", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			SnapshotKey: getEnv("REDIS_SNAPSHOT_KEY", ""),
		},
	}

	return config
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ToLLMConfig converts to llm.Config for the reasoning LLM.
func (c *Config) ToLLMConfig() *llm.Config {
	return &llm.Config{
		Provider:           c.LLM.ReasoningLLM.Provider,
		APIKey:             c.LLM.ReasoningLLM.APIKey,
		BaseURL:            c.LLM.ReasoningLLM.BaseURL,
		Model:              c.LLM.ReasoningLLM.Model,
		DefaultTemperature: c.LLM.ReasoningLLM.DefaultTemperature,
		DefaultMaxTokens:   c.LLM.ReasoningLLM.DefaultMaxTokens,
		TimeoutSeconds:     c.LLM.ReasoningLLM.TimeoutSeconds,
	}
}

// ToFastLLMConfig converts to llm.Config for the fast LLM.
func (c *Config) ToFastLLMConfig() *llm.Config {
	return &llm.Config{
		Provider:           c.LLM.FastLLM.Provider,
		APIKey:             c.LLM.FastLLM.APIKey,
		BaseURL:            c.LLM.FastLLM.BaseURL,
		Model:              c.LLM.FastLLM.Model,
		DefaultTemperature: c.LLM.FastLLM.DefaultTemperature,
		DefaultMaxTokens:   c.LLM.FastLLM.DefaultMaxTokens,
		TimeoutSeconds:     c.LLM.FastLLM.TimeoutSeconds,
	}
}

// ToEmbeddingConfig converts to embedding.Config.
func (c *Config) ToEmbeddingConfig() *embedding.Config {
	return &embedding.Config{
		Provider:       c.Embedding.Provider,
		APIKey:         c.Embedding.APIKey,
		BaseURL:        c.Embedding.BaseURL,
		Model:          c.Embedding.Model,
		BatchSize:      c.Embedding.BatchSize,
		TimeoutSeconds: c.Embedding.TimeoutSeconds,
	}
}

// ToVectorStoreConfig converts to vectorstore.Config.
func (c *Config) ToVectorStoreConfig() *vectorstore.Config {
	return &vectorstore.Config{
		Type:              c.VectorStore.Type,
		Address:           c.VectorStore.Address,
		APIKey:            c.VectorStore.APIKey,
		TimeoutSeconds:    c.VectorStore.TimeoutSeconds,
		DefaultCollection: c.VectorStore.DefaultCollection,
		Extra:             c.VectorStore.Extra,
	}
}

func applyDefaults(config *Config) {
	if config.LLM.ReasoningLLM.DefaultTemperature == 0 {
		config.LLM.ReasoningLLM.DefaultTemperature = 0.3
	}
	if config.LLM.ReasoningLLM.DefaultMaxTokens == 0 {
		config.LLM.ReasoningLLM.DefaultMaxTokens = 1200
	}
	if config.LLM.ReasoningLLM.TimeoutSeconds == 0 {
		config.LLM.ReasoningLLM.TimeoutSeconds = 20
	}

	if config.LLM.FastLLM.DefaultMaxTokens == 0 {
		config.LLM.FastLLM.DefaultMaxTokens = 1500
	}
	if config.LLM.FastLLM.TimeoutSeconds == 0 {
		config.LLM.FastLLM.TimeoutSeconds = 30
	}

	if config.Embedding.BatchSize == 0 {
		config.Embedding.BatchSize = 100
	}
	if config.Embedding.TimeoutSeconds == 0 {
		config.Embedding.TimeoutSeconds = 30
	}

	if config.VectorStore.TimeoutSeconds == 0 {
		config.VectorStore.TimeoutSeconds = 30
	}
	if config.VectorStore.DefaultCollection == "" {
		config.VectorStore.DefaultCollection = "debt-advice-manuals"
	}

	if config.Audit.Driver == "" {
		config.Audit.Driver = "sqlite"
	}
	if config.Audit.DSN == "" {
		config.Audit.DSN = "debt-advice-audit.db"
	}

	if config.Engine.DefaultTopK == 0 {
		config.Engine.DefaultTopK = 4
	}
	if config.Engine.MaxToolIterations == 0 {
		config.Engine.MaxToolIterations = 3
	}
	if config.Engine.QueryTimeoutMS == 0 {
		config.Engine.QueryTimeoutMS = 60000
	}
	if config.Engine.LLMTimeoutMS == 0 {
		config.Engine.LLMTimeoutMS = 20000
	}
	if config.Engine.CacheBootstrapQuery == "" {
		config.Engine.CacheBootstrapQuery = "List all numerical limits, maximums, minimums, thresholds, and fees for debt solutions."
	}
}

// UnmarshalJSON defaults SymbolicEnabled to true when the field is
// absent from the source JSON, since its bool zero value (false) would
// otherwise silently disable symbolic reasoning for any config file
// that doesn't mention it.
func (c *EngineConfig) UnmarshalJSON(data []byte) error {
	type alias EngineConfig
	aux := alias{SymbolicEnabled: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = EngineConfig(aux)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	switch value {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func loadEnvFiles() {
	envFiles := []string{".env", ".env.local"}
	merged := make(map[string]string)

	for _, file := range envFiles {
		envMap, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			continue
		}
		for key, value := range envMap {
			merged[key] = value
		}
	}

	for key, value := range merged {
		current, exists := os.LookupEnv(key)
		if !exists || current == "" {
			_ = os.Setenv(key, value)
		}
	}
}
