// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package agent implements the workflow.Node wrappers for each stage of
// the reasoning graph: analysis, retrieval, symbolic reasoning,
// synthesis, and tree evaluation.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/workflow"
)

// Analyzer classifies a question's complexity and proposes search queries.
type Analyzer struct {
	llm         llm.Provider
	temperature float32
	maxTokens   int
}

// AnalyzerConfig configures an Analyzer's LLM call.
type AnalyzerConfig struct {
	Temperature float32
	MaxTokens   int
}

// NewAnalyzer creates an Analyzer over provider.
func NewAnalyzer(provider llm.Provider, config *AnalyzerConfig) *Analyzer {
	if config == nil {
		config = &AnalyzerConfig{Temperature: 0.3, MaxTokens: 500}
	}
	return &Analyzer{llm: provider, temperature: config.Temperature, maxTokens: config.MaxTokens}
}

type analysisResponse struct {
	Complexity        string   `json:"complexity"`
	Reasoning         string   `json:"reasoning"`
	SuggestedSearches []string `json:"suggested_searches"`
	RequiresSymbolic  bool     `json:"requires_symbolic"`
}

// Execute classifies state.Question and records the result on a clone
// of state. Analysis failures are recovered locally per the documented
// failure semantics: they never propagate as a node error.
func (a *Analyzer) Execute(ctx context.Context, state *workflow.State) (*workflow.State, error) {
	next := state.Clone()

	complexity, reasoning, searches, requiresSymbolic, err := a.analyze(ctx, state.Question)
	if err != nil {
		log.Printf("WARN: analyze node falling back to moderate complexity: %v", err)
		complexity = workflow.ComplexityModerate
		reasoning = "analysis failed; defaulting to moderate complexity"
		searches = []string{state.Question}
		requiresSymbolic = false
	}

	next.Complexity = complexity
	next.AnalysisReasoning = reasoning
	next.SuggestedSearches = searches
	next.RequiresSymbolic = requiresSymbolic
	return next, nil
}

// Name identifies this node in the reasoning graph.
func (a *Analyzer) Name() string { return "analyze" }

func (a *Analyzer) analyze(ctx context.Context, question string) (workflow.Complexity, string, []string, bool, error) {
	resp, err := a.llm.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPromptAnalyzer},
			{Role: "user", Content: a.buildPrompt(question)},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return "", "", nil, false, fmt.Errorf("LLM analysis failed: %w", err)
	}

	parsed, err := parseAnalysisResponse(resp.Content)
	if err != nil {
		return "", "", nil, false, err
	}

	complexity := workflow.Complexity(strings.ToLower(parsed.Complexity))
	switch complexity {
	case workflow.ComplexitySimple, workflow.ComplexityModerate, workflow.ComplexityComplex:
	default:
		complexity = workflow.ComplexityModerate
	}

	searches := parsed.SuggestedSearches
	if len(searches) == 0 {
		searches = []string{question}
	}
	if len(searches) > 3 {
		searches = searches[:3]
	}

	return complexity, parsed.Reasoning, searches, parsed.RequiresSymbolic, nil
}

func (a *Analyzer) buildPrompt(question string) string {
	return fmt.Sprintf(`Classify the following debt-advice question and propose up to 3 search queries.

Question: %s

Complexity rubric:
- simple: a single definition or lookup
- moderate: a procedure or a synthesis of two concepts
- complex: a multi-criterion comparison, scenario, or numerical eligibility question

Respond with ONLY valid JSON in this exact format:
{
  "complexity": "simple|moderate|complex",
  "reasoning": "one sentence explaining the classification",
  "suggested_searches": ["query 1", "query 2"],
  "requires_symbolic": false
}`, question)
}

func parseAnalysisResponse(response string) (*analysisResponse, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in analysis response")
	}

	var parsed analysisResponse
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	return &parsed, nil
}

const systemPromptAnalyzer = `You are a question-triage specialist for a UK debt-advice system.

Classify each question's complexity and propose targeted search queries against the debt-advice manual.

Always respond with valid JSON matching the requested format.`
