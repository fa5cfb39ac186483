// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package common

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFromEnv_EnvFiles ensures that .env files are loaded and
// supply provider API keys, with .env.local taking precedence over .env.
func TestLoadConfigFromEnv_EnvFiles(t *testing.T) {
	for _, key := range []string{"REASONING_LLM_API_KEY", "FAST_LLM_API_KEY", "EMBEDDING_API_KEY"} {
		if original, ok := os.LookupEnv(key); ok {
			defer func(k, v string) { _ = os.Setenv(k, v) }(key, original)
		} else {
			defer os.Unsetenv(key)
		}
		os.Unsetenv(key)
	}

	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"),
		[]byte("REASONING_LLM_API_KEY=base-key\nFAST_LLM_API_KEY=base-key\nEMBEDDING_API_KEY=base-key\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".env.local"),
		[]byte("REASONING_LLM_API_KEY=local-key\nFAST_LLM_API_KEY=local-key\nEMBEDDING_API_KEY=local-key\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env.local file: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}

	cfg := LoadConfigFromEnv()

	if cfg.LLM.ReasoningLLM.APIKey != "local-key" {
		t.Fatalf("expected reasoning API key from .env.local, got %q", cfg.LLM.ReasoningLLM.APIKey)
	}
	if cfg.LLM.FastLLM.APIKey != "local-key" {
		t.Fatalf("expected fast API key from .env.local, got %q", cfg.LLM.FastLLM.APIKey)
	}
	if cfg.Embedding.APIKey != "local-key" {
		t.Fatalf("expected embedding API key from .env.local, got %q", cfg.Embedding.APIKey)
	}
}

// TestLoadConfig_FromFile exercises loading a JSON config through the
// cmd/common facade and confirms defaults are applied for fields the
// file omits.
func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `{
		"llm": {
			"reasoning_llm": {"provider": "openai", "model": "gpt-4o"},
			"fast_llm": {"provider": "openai", "model": "gpt-4o-mini"}
		},
		"embedding": {"provider": "openai", "model": "text-embedding-3-small"},
		"vector_store": {"type": "qdrant", "address": "localhost:6334"}
	}`

	configPath := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Audit.Driver != "sqlite" {
		t.Errorf("Audit.Driver = %q, want sqlite default", cfg.Audit.Driver)
	}
	if cfg.Engine.DefaultTopK != 4 {
		t.Errorf("Engine.DefaultTopK = %d, want 4 default", cfg.Engine.DefaultTopK)
	}
	if !cfg.Engine.SymbolicEnabled {
		t.Error("Engine.SymbolicEnabled should default to true when the field is absent from the file")
	}
}
