// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package engine

import (
	"context"
	"fmt"

	"debt-advice-engine/pkg/workflow"
)

// ReasoningStep is one entry of a QueryResult's optional trace, shown to
// callers that pass ShowReasoning so they can see how an answer was
// reached rather than just the answer itself.
type ReasoningStep struct {
	Step        string `json:"step"`
	Description string `json:"description"`
	Result      string `json:"result"`
}

// QueryResult is the output of AnswerQuery.
type QueryResult struct {
	Answer         string          `json:"answer"`
	Sources        []string        `json:"sources"`
	IterationsUsed int             `json:"iterations_used"`
	Confidence     string          `json:"confidence"`
	ReasoningSteps []ReasoningStep `json:"reasoning_steps,omitempty"`
}

// AnswerQuery runs question through the reasoning graph and returns a
// synthesized answer grounded in the retrieved manual corpus. It never
// carries client financial values, so the run always ends after
// synthesis — eligibility verdicts are EvaluateEligibility's concern.
func (e *Engine) AnswerQuery(ctx context.Context, question string, opts Options) (*QueryResult, error) {
	merged := e.merge(opts)

	state := workflow.NewState(question, nil, "")
	state.TopK = merged.TopK
	state.MaxToolIterations = merged.MaxIterations
	if merged.SymbolicEnabled != nil && !*merged.SymbolicEnabled {
		state.SymbolicDisabled = true
	}

	finalState, err := e.run(ctx, state, merged)
	e.saveAudit(ctx, finalState)

	result := &QueryResult{
		Answer:         finalState.Answer,
		Sources:        finalState.Sources,
		IterationsUsed: finalState.ToolIteration,
		Confidence:     formatConfidence(finalState.Confidence, finalState.ConfidenceReason),
	}
	if merged.ShowReasoning {
		result.ReasoningSteps = buildReasoningSteps(finalState)
	}

	if err != nil {
		return result, err
	}

	if finalState.Cancelled {
		return result, ErrCancelled
	}

	return result, nil
}

func formatConfidence(score float64, reason string) string {
	pct := int(score*100 + 0.5)
	if reason == "" {
		reason = "no explanation given"
	}
	return fmt.Sprintf("%d%% - %s", pct, reason)
}

func buildReasoningSteps(state *workflow.State) []ReasoningStep {
	steps := []ReasoningStep{
		{
			Step:        "analyze",
			Description: "classified question complexity and planned retrieval searches",
			Result:      fmt.Sprintf("complexity=%s: %s", state.Complexity, state.AnalysisReasoning),
		},
		{
			Step:        "retrieve",
			Description: "searched the manual corpus for relevant passages",
			Result:      fmt.Sprintf("%d chunks retrieved from %d sources", len(state.ContextChunks), len(state.Sources)),
		},
	}

	if len(state.SymbolicComparisons) > 0 {
		steps = append(steps, ReasoningStep{
			Step:        "symbolic",
			Description: "computed exact numeric comparisons outside the LLM",
			Result:      fmt.Sprintf("%d comparisons resolved", len(state.SymbolicComparisons)),
		})
	}

	steps = append(steps, ReasoningStep{
		Step:        "synthesize",
		Description: "drafted the answer, invoking tools as needed",
		Result:      fmt.Sprintf("%d tool calls across %d iterations", len(state.ToolCalls), state.ToolIteration),
	})

	if state.TreeResult != nil {
		steps = append(steps, ReasoningStep{
			Step:        "tree_eval",
			Description: "evaluated client values against the topic's eligibility tree",
			Result:      fmt.Sprintf("verdict=%s", state.TreeResult.Verdict),
		})
	}

	return steps
}
