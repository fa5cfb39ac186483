// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"errors"
	"testing"

	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/workflow"
)

type mockProvider struct {
	response  string
	err       error
	toolCalls []llm.ToolCall
	native    bool
}

func (m *mockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.response, ToolCalls: m.toolCalls}, nil
}
func (m *mockProvider) Name() string                    { return "mock" }
func (m *mockProvider) ModelName() string               { return "mock-model" }
func (m *mockProvider) SupportsNativeToolCalling() bool { return m.native }
func (m *mockProvider) SupportsStreaming() bool         { return false }

func TestAnalyzeParsesComplexityAndSearches(t *testing.T) {
	provider := &mockProvider{response: `{
		"complexity": "complex",
		"reasoning": "requires comparing three eligibility criteria",
		"suggested_searches": ["dro eligibility criteria", "dro maximum debt"],
		"requires_symbolic": true
	}`}
	analyzer := NewAnalyzer(provider, nil)

	state := workflow.NewState("Am I eligible for a DRO with £51,000 of debt?", nil, "dro_eligibility")
	next, err := analyzer.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if next.Complexity != workflow.ComplexityComplex {
		t.Errorf("Complexity = %q, want complex", next.Complexity)
	}
	if !next.RequiresSymbolic {
		t.Error("RequiresSymbolic = false, want true")
	}
	if len(next.SuggestedSearches) != 2 {
		t.Errorf("SuggestedSearches = %v, want 2 entries", next.SuggestedSearches)
	}
}

func TestAnalyzeFallsBackOnLLMFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("provider unavailable")}
	analyzer := NewAnalyzer(provider, nil)

	state := workflow.NewState("What is a DRO?", nil, "")
	next, err := analyzer.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() should recover from analysis failure, got error: %v", err)
	}

	if next.Complexity != workflow.ComplexityModerate {
		t.Errorf("Complexity = %q, want moderate fallback", next.Complexity)
	}
	if len(next.SuggestedSearches) != 1 || next.SuggestedSearches[0] != state.Question {
		t.Errorf("SuggestedSearches = %v, want [question]", next.SuggestedSearches)
	}
}

func TestAnalyzeFallsBackOnMalformedJSON(t *testing.T) {
	provider := &mockProvider{response: "not json at all"}
	analyzer := NewAnalyzer(provider, nil)

	state := workflow.NewState("What is a DRO?", nil, "")
	next, err := analyzer.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.Complexity != workflow.ComplexityModerate {
		t.Errorf("Complexity = %q, want moderate fallback", next.Complexity)
	}
}

func TestAnalyzeCapsSuggestedSearchesAtThree(t *testing.T) {
	provider := &mockProvider{response: `{
		"complexity": "moderate",
		"reasoning": "several angles",
		"suggested_searches": ["a", "b", "c", "d"],
		"requires_symbolic": false
	}`}
	analyzer := NewAnalyzer(provider, nil)

	next, err := analyzer.Execute(context.Background(), workflow.NewState("q", nil, ""))
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if len(next.SuggestedSearches) != 3 {
		t.Errorf("SuggestedSearches len = %d, want 3", len(next.SuggestedSearches))
	}
}
