// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/tools"
	"debt-advice-engine/pkg/workflow"
)

func TestSynthesizeReturnsDirectAnswerWithoutToolCalls(t *testing.T) {
	provider := &mockProvider{response: "A DRO writes off qualifying debts. [Source 1]\n\nCONFIDENCE: HIGH — directly stated in the manual"}
	synth := NewSynthesizer(provider, tools.NewRegistry(threshold.NewCache()), nil)

	state := workflow.NewState("What is a DRO?", nil, "")
	state.ContextChunks = []workflow.ContextChunk{{Text: "A DRO writes off qualifying debts.", Source: "dro.md"}}

	next, err := synth.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", next.Confidence)
	}
	if len(next.ToolCalls) != 0 {
		t.Errorf("ToolCalls len = %d, want 0", len(next.ToolCalls))
	}
}

func TestSynthesizeRunsFallbackToolDirective(t *testing.T) {
	responses := []string{
		`I need to check this. TOOL_CALL: {"name": "check_threshold", "args": {"amount": 51000, "threshold_name": "dro_maximum_debt"}}`,
		"Based on the threshold check, this exceeds the limit.\n\nCONFIDENCE: MEDIUM — computed via tool",
	}
	provider := &sequentialProvider{responses: responses}

	cache := threshold.NewCache()
	cache.Set("dro_maximum_debt", threshold.Entry{Amount: 50000, Formatted: "£50,000.00"})
	synth := NewSynthesizer(provider, tools.NewRegistry(cache), nil)

	state := workflow.NewState("Does £51,000 of debt exceed the DRO limit?", nil, "dro_eligibility")
	state.ContextChunks = []workflow.ContextChunk{{Text: "The DRO debt limit is £50,000.", Source: "dro.md"}}
	next, err := synth.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if len(next.ToolCalls) != 1 {
		t.Fatalf("ToolCalls len = %d, want 1", len(next.ToolCalls))
	}
	if next.ToolCalls[0].Name != "check_threshold" {
		t.Errorf("ToolCalls[0].Name = %q, want check_threshold", next.ToolCalls[0].Name)
	}
	if next.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", next.Confidence)
	}
}

func TestSynthesizeStopsAtMaxIterations(t *testing.T) {
	loop := `TOOL_CALL: {"name": "calculate", "args": {"expression": "1+1"}}`
	finalAnswer := "Based on the tool results above, the total is 2.\n\nCONFIDENCE: MEDIUM — derived from tool output"
	provider := &sequentialProvider{responses: []string{loop, loop, finalAnswer}}

	synth := NewSynthesizer(provider, tools.NewRegistry(threshold.NewCache()), nil)
	state := workflow.NewState("q", nil, "")
	state.MaxToolIterations = 2

	next, err := synth.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.ToolIteration != 2 {
		t.Errorf("ToolIteration = %d, want 2", next.ToolIteration)
	}
	if strings.Contains(next.Answer, "TOOL_CALL") {
		t.Errorf("Answer = %q, should not leak a raw tool-call directive once the iteration budget is exhausted", next.Answer)
	}
	if !strings.Contains(next.Answer, "total is 2") {
		t.Errorf("Answer = %q, want the finalize call's synthesized answer folded in", next.Answer)
	}
	if provider.calls != 3 {
		t.Errorf("provider.calls = %d, want 3 (2 budgeted tool turns + 1 finalize call)", provider.calls)
	}
}

func TestSynthesizeCapsConfidenceOnEmptyContext(t *testing.T) {
	provider := &mockProvider{response: "The limit is unclear from what I have.\n\nCONFIDENCE: HIGH — stated directly"}
	synth := NewSynthesizer(provider, tools.NewRegistry(threshold.NewCache()), nil)

	state := workflow.NewState("q", nil, "")
	next, err := synth.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.Confidence != 0.4 {
		t.Errorf("Confidence = %v, want capped at 0.4", next.Confidence)
	}
}

func TestSynthesizePropagatesLLMFailureAsStateError(t *testing.T) {
	provider := &mockProvider{err: errors.New("provider down")}
	synth := NewSynthesizer(provider, tools.NewRegistry(threshold.NewCache()), nil)

	next, err := synth.Execute(context.Background(), workflow.NewState("q", nil, ""))
	if err != nil {
		t.Fatalf("Execute() should surface failure via state.Error, got Go error: %v", err)
	}
	if next.Error == nil {
		t.Error("state.Error is nil, want LLM failure recorded")
	}
	if next.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0 on failure", next.Confidence)
	}
}

func TestSynthesizeInjectsSymbolicVerdictsIntoAnswer(t *testing.T) {
	provider := &mockProvider{response: "This debt is too high for a DRO.\n\nCONFIDENCE: HIGH — exact comparison available"}
	synth := NewSynthesizer(provider, tools.NewRegistry(threshold.NewCache()), nil)

	state := workflow.NewState("q", nil, "")
	state.SymbolicComparisons = []workflow.SymbolicComparison{
		{Verdict: "£51,000.00 <= £50,000.00 ⇒ exceeds limit by £1000.00"},
	}

	next, err := synth.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if !strings.Contains(next.Answer, "exceeds limit by £1000.00") {
		t.Errorf("Answer = %q, want it to include the symbolic verdict", next.Answer)
	}
}

// sequentialProvider returns one response per call, in order, looping
// on the final entry once exhausted.
type sequentialProvider struct {
	responses []string
	calls     int
}

func (p *sequentialProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := p.calls
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	p.calls++
	return &llm.CompletionResponse{Content: p.responses[i]}, nil
}
func (p *sequentialProvider) Name() string                    { return "mock-sequential" }
func (p *sequentialProvider) ModelName() string               { return "mock-model" }
func (p *sequentialProvider) SupportsNativeToolCalling() bool { return false }
func (p *sequentialProvider) SupportsStreaming() bool         { return false }
