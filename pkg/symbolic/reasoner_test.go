// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package symbolic

import (
	"context"
	"errors"
	"testing"

	"debt-advice-engine/pkg/llm"
)

type mockProvider struct {
	response string
	err      error
}

func (m *mockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.response}, nil
}
func (m *mockProvider) Name() string                    { return "mock" }
func (m *mockProvider) ModelName() string               { return "mock-model" }
func (m *mockProvider) SupportsNativeToolCalling() bool { return false }
func (m *mockProvider) SupportsStreaming() bool         { return false }

func TestReasonComputesExactComparison(t *testing.T) {
	provider := &mockProvider{response: `{
		"comparisons": [
			{"lhs_role": "client_debt", "op": "<=", "rhs_role": "dro_limit", "lhs_symbol": "[AMOUNT_1]", "rhs_symbol": "[AMOUNT_2]"}
		]
	}`}
	reasoner := NewSymbolicReasoner(provider, nil)

	symbols := []Symbol{
		{Name: "[AMOUNT_1]", Surface: "£51,000", Value: 51000, Unit: "GBP"},
		{Name: "[AMOUNT_2]", Surface: "£50,000", Value: 50000, Unit: "GBP"},
	}

	comparisons, err := reasoner.Reason(context.Background(), "Is [AMOUNT_1] within [AMOUNT_2]?", nil, symbols)
	if err != nil {
		t.Fatalf("Reason() unexpected error: %v", err)
	}
	if len(comparisons) != 1 {
		t.Fatalf("Reason() returned %d comparisons, want 1", len(comparisons))
	}

	c := comparisons[0]
	if c.Result != false {
		t.Errorf("Reason() result = %v, want false (51000 is not <= 50000)", c.Result)
	}
	if c.NeedsLookup {
		t.Error("Reason() should have resolved both symbols")
	}
}

func TestReasonMarksUnresolvedSymbolsAsNeedsLookup(t *testing.T) {
	provider := &mockProvider{response: `{
		"comparisons": [
			{"lhs_role": "client_income", "op": "<=", "rhs_role": "income_limit", "lhs_symbol": "[AMOUNT_9]", "rhs_symbol": "[AMOUNT_10]"}
		]
	}`}
	reasoner := NewSymbolicReasoner(provider, nil)

	comparisons, err := reasoner.Reason(context.Background(), "question", nil, nil)
	if err != nil {
		t.Fatalf("Reason() unexpected error: %v", err)
	}
	if !comparisons[0].NeedsLookup {
		t.Error("Reason() expected NeedsLookup for unresolved symbols")
	}
}

func TestReasonPropagatesLLMError(t *testing.T) {
	provider := &mockProvider{err: errors.New("provider down")}
	reasoner := NewSymbolicReasoner(provider, nil)

	if _, err := reasoner.Reason(context.Background(), "q", nil, nil); err == nil {
		t.Error("Reason() expected an error when the LLM call fails")
	}
}
