// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package common

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"debt-advice-engine/pkg/audit"
	"debt-advice-engine/pkg/embedding"
	"debt-advice-engine/pkg/engine"
	"debt-advice-engine/pkg/knowledge"
	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/llm/openai"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/vectorstore"
	"debt-advice-engine/pkg/vectorstore/qdrant"
)

// System wires up an Engine and its dependencies from a Config, so CLI
// commands have a single thing to construct and close.
type System struct {
	Config     *Config
	Engine     *engine.Engine
	AuditStore *audit.Store
}

// InitializeSystem builds every dependency the engine needs (LLM
// providers, embedder, vector store, audit store) and assembles them
// into a ready-to-use Engine.
func InitializeSystem(config *Config) (*System, error) {
	sys := &System{Config: config}

	reasoningLLM, err := newLLMProvider(&config.LLM.ReasoningLLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reasoning LLM: %w", err)
	}

	fastLLM, err := newLLMProvider(&config.LLM.FastLLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fast LLM: %w", err)
	}

	store, err := newKnowledgeStore(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize knowledge store: %w", err)
	}

	auditStore, err := audit.Open(&audit.Config{
		Driver:      config.Audit.Driver,
		DSN:         config.Audit.DSN,
		AutoMigrate: config.Audit.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}
	sys.AuditStore = auditStore

	eng, err := engine.New(engine.Dependencies{
		ReasoningLLM: reasoningLLM,
		FastLLM:      fastLLM,
		Store:        store,
		Cache:        threshold.NewCache(),
		AuditStore:   auditStore,
		Snapshot:     newSnapshotStore(config),
	}, config.Engine.ToEngineOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	sys.Engine = eng

	return sys, nil
}

func newLLMProvider(cfg *LLMProviderConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.APIKey, cfg.Model, &llm.Config{
			Provider:           cfg.Provider,
			APIKey:             cfg.APIKey,
			BaseURL:            cfg.BaseURL,
			Model:              cfg.Model,
			DefaultTemperature: cfg.DefaultTemperature,
			DefaultMaxTokens:   cfg.DefaultMaxTokens,
			TimeoutSeconds:     cfg.TimeoutSeconds,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func newKnowledgeStore(config *Config) (knowledge.Store, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	var vs vectorstore.Store
	switch config.VectorStore.Type {
	case "qdrant":
		vs, err = qdrant.NewStore(config.VectorStore.Address, config.ToVectorStoreConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create vector store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported vector store type: %s", config.VectorStore.Type)
	}

	return knowledge.NewVectorKnowledgeStore(embedder, vs, config.VectorStore.DefaultCollection)
}

// newSnapshotStore returns a RedisSnapshotStore for the threshold cache
// when Redis is configured, or nil when it isn't — Engine treats a nil
// Snapshot as persistence simply being disabled, not an error.
func newSnapshotStore(config *Config) *threshold.RedisSnapshotStore {
	if config.Redis.Address == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return threshold.NewRedisSnapshotStore(client, config.Redis.SnapshotKey)
}

func newEmbedder(config *Config) (embedding.Embedder, error) {
	switch config.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(config.Embedding.APIKey, config.Embedding.Model, config.ToEmbeddingConfig())
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", config.Embedding.Provider)
	}
}

// Bootstrap (re)populates the threshold cache and decision trees from
// the manual corpus, using the system's fast LLM for extraction.
func (s *System) Bootstrap(ctx context.Context) error {
	return s.Engine.Bootstrap(ctx, nil)
}

// Close releases system resources. The audit store's underlying
// connection pool is managed by gorm/database-sql and closes itself on
// process exit, so there is nothing to release explicitly here.
func (s *System) Close() error {
	return nil
}
