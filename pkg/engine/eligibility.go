// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package engine

import (
	"context"
	"fmt"
	"strings"

	"debt-advice-engine/pkg/decisiontree"
	"debt-advice-engine/pkg/workflow"
)

// CriterionResult reports one eligibility criterion's evaluation.
type CriterionResult struct {
	Criterion      string                `json:"criterion"`
	ThresholdName  string                `json:"threshold_name"`
	ThresholdValue float64               `json:"threshold_value"`
	ClientValue    float64               `json:"client_value"`
	Status         decisiontree.Status   `json:"status"`
	Gap            float64               `json:"gap"`
	Operator       decisiontree.Operator `json:"operator"`
	Explanation    string                `json:"explanation"`
}

// StrategyResult is one way a client could close a near-miss gap.
type StrategyResult struct {
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Likelihood  string   `json:"likelihood"`
}

// NearMissResult reports a criterion that failed strictly but within tolerance.
type NearMissResult struct {
	ThresholdName string           `json:"threshold_name"`
	Tolerance     float64          `json:"tolerance"`
	Gap           float64          `json:"gap"`
	Strategies    []StrategyResult `json:"strategies"`
}

// RecommendationResult is an actionable next step derived from a near-miss.
type RecommendationResult struct {
	Type     string   `json:"type"`
	Priority string   `json:"priority"`
	Action   string   `json:"action"`
	Steps    []string `json:"steps"`
}

// EligibilityResult is the output of EvaluateEligibility.
type EligibilityResult struct {
	Answer          string                 `json:"answer"`
	OverallResult   string                 `json:"overall_result"`
	Confidence      float64                `json:"confidence"`
	Criteria        []CriterionResult      `json:"criteria"`
	NearMisses      []NearMissResult       `json:"near_misses"`
	Recommendations []RecommendationResult `json:"recommendations"`
	Sources         []string               `json:"sources"`
	Diagram         *string                `json:"diagram"`
}

// EvaluateEligibility runs question through the reasoning graph with
// clientValues and topic set, producing a structured verdict against
// topic's decision tree rather than the free-form prose AnswerQuery
// returns.
func (e *Engine) EvaluateEligibility(ctx context.Context, question string, clientValues map[string]float64, topic string, opts Options) (*EligibilityResult, error) {
	merged := e.merge(opts)

	state := workflow.NewState(question, clientValues, topic)
	state.TopK = merged.TopK
	state.MaxToolIterations = merged.MaxIterations
	if merged.SymbolicEnabled != nil && !*merged.SymbolicEnabled {
		state.SymbolicDisabled = true
	}

	finalState, err := e.run(ctx, state, merged)
	e.saveAudit(ctx, finalState)

	var result *EligibilityResult
	if finalState.TreeResult != nil {
		result = convertTreeResult(finalState.TreeResult, finalState.Answer, finalState.Sources)
		if merged.IncludeDiagram {
			diagram := renderDiagram(finalState.TreeResult)
			result.Diagram = &diagram
		}
	} else {
		result = &EligibilityResult{
			Answer:  finalState.Answer,
			Sources: finalState.Sources,
		}
	}

	if err != nil {
		return result, err
	}

	if finalState.Cancelled {
		return result, ErrCancelled
	}

	if finalState.TreeResult == nil {
		return result, &classifiedError{sentinel: ErrTreeBuild, cause: fmt.Errorf("no tree result for topic %q", topic)}
	}

	return result, nil
}

func convertTreeResult(tree *decisiontree.Result, answer string, sources []string) *EligibilityResult {
	criteria := make([]CriterionResult, 0, len(tree.Criteria))
	for _, c := range tree.Criteria {
		criteria = append(criteria, CriterionResult{
			Criterion:      c.Criterion,
			ThresholdName:  c.ThresholdName,
			ThresholdValue: c.ThresholdValue,
			ClientValue:    c.ClientValue,
			Status:         c.Status,
			Gap:            c.Gap,
			Operator:       c.Operator,
			Explanation:    c.Explanation,
		})
	}

	nearMisses := make([]NearMissResult, 0, len(tree.NearMisses))
	for _, nm := range tree.NearMisses {
		strategies := make([]StrategyResult, 0, len(nm.Strategies))
		for _, s := range nm.Strategies {
			strategies = append(strategies, StrategyResult{
				Description: s.Description,
				Actions:     s.Actions,
				Likelihood:  string(s.Likelihood),
			})
		}
		nearMisses = append(nearMisses, NearMissResult{
			ThresholdName: nm.ThresholdName,
			Tolerance:     nm.Tolerance,
			Gap:           nm.Gap,
			Strategies:    strategies,
		})
	}

	recommendations := make([]RecommendationResult, 0, len(tree.Recommendations))
	for _, r := range tree.Recommendations {
		recommendations = append(recommendations, RecommendationResult{
			Type:     r.Type,
			Priority: string(r.Priority),
			Action:   r.Action,
			Steps:    r.Steps,
		})
	}

	return &EligibilityResult{
		Answer:          answer,
		OverallResult:   string(tree.Verdict),
		Confidence:      tree.Confidence,
		Criteria:        criteria,
		NearMisses:      nearMisses,
		Recommendations: recommendations,
		Sources:         sources,
	}
}

// renderDiagram draws the evaluation path the tree walked as a plain
// arrow-joined trace. The pack carries no graph-rendering library, and
// a text trace is enough for a client to follow which branch decided
// their outcome without pulling in an image format.
func renderDiagram(tree *decisiontree.Result) string {
	if len(tree.Path) == 0 {
		return string(tree.Verdict)
	}
	return strings.Join(tree.Path, " -> ") + " -> " + string(tree.Verdict)
}
