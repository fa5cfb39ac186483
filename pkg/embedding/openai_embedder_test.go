// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package embedding

import "testing"

func TestNewOpenAIEmbedder(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		model   string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid embedder with defaults",
			apiKey:  "test-api-key",
			model:   "text-embedding-3-small",
			config:  nil,
			wantErr: false,
		},
		{
			name:    "valid embedder with custom config",
			apiKey:  "test-api-key",
			model:   "text-embedding-ada-002",
			config:  &Config{BatchSize: 50, TimeoutSeconds: 60},
			wantErr: false,
		},
		{
			name:    "missing API key",
			apiKey:  "",
			model:   "text-embedding-3-small",
			config:  nil,
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name:    "missing model",
			apiKey:  "test-api-key",
			model:   "",
			config:  nil,
			wantErr: true,
			errMsg:  "embedding model name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, err := NewOpenAIEmbedder(tt.apiKey, tt.model, tt.config)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewOpenAIEmbedder() expected error but got nil")
				} else if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Errorf("NewOpenAIEmbedder() error = %v, want %v", err.Error(), tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("NewOpenAIEmbedder() unexpected error: %v", err)
				return
			}

			if embedder == nil {
				t.Error("NewOpenAIEmbedder() returned nil embedder")
				return
			}

			if embedder.ModelName() != tt.model {
				t.Errorf("Embedder.ModelName() = %v, want %v", embedder.ModelName(), tt.model)
			}

			expectedDims := getDimensionsForModel(tt.model)
			if embedder.Dimensions() != expectedDims {
				t.Errorf("Embedder.Dimensions() = %v, want %v", embedder.Dimensions(), expectedDims)
			}
		})
	}
}

func TestGetDimensionsForModel(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"text-embedding-3-small", DimensionsTextEmbedding3Small},
		{"text-embedding-3-large", DimensionsTextEmbedding3Large},
		{"text-embedding-ada-002", DimensionsTextEmbeddingAda002},
		{"unknown-model", DimensionsTextEmbeddingAda002},
	}

	for _, tt := range tests {
		if got := getDimensionsForModel(tt.model); got != tt.want {
			t.Errorf("getDimensionsForModel(%q) = %d, want %d", tt.model, got, tt.want)
		}
	}
}
