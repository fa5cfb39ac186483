// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package engine wires the agent graph, threshold cache, decision
// trees, and audit store into the two public entry points the
// surrounding HTTP layer calls: AnswerQuery and EvaluateEligibility.
package engine

const defaultBootstrapQuery = "List all numerical limits, maximums, minimums, thresholds, and fees for debt solutions."

// Options holds the configuration recognized by AnswerQuery and
// EvaluateEligibility. Zero values fall back to documented defaults,
// applied by applyDefaults — except SymbolicEnabled, which is a
// pointer specifically so "not set" (nil, defaulting true) is
// distinguishable from an explicit "disable symbolic reasoning"
// (&false); a plain bool's zero value would silently disable it for
// every caller who didn't think to set it.
type Options struct {
	// Model optionally overrides the LLM model identifier. Empty uses
	// the provider's configured default.
	Model string

	// TopK is the number of chunks retrieved per search query.
	TopK int

	// MaxIterations bounds the synthesis tool-calling loop.
	MaxIterations int

	// ShowReasoning includes ReasoningSteps in a QueryResult.
	ShowReasoning bool

	// IncludeDiagram renders a tree-path diagram on an EligibilityResult.
	IncludeDiagram bool

	// QueryTimeoutMS bounds the whole graph run.
	QueryTimeoutMS int

	// LLMTimeoutMS is defaulted and merged like the other fields, but
	// the engine does not apply it to any LLM call: QueryTimeoutMS,
	// bounding the whole graph run, is the only deadline it sets.
	LLMTimeoutMS int

	// SymbolicEnabled routes complex/numeric queries through symbolic
	// reasoning (§4.4) when true or nil. Pass a pointer to false to
	// force every query straight to synthesis.
	SymbolicEnabled *bool

	// CacheBootstrapQuery overrides the threshold-extraction query
	// issued by Bootstrap.
	CacheBootstrapQuery string

	// ToleranceOverrides maps a criterion role ("debt", "income",
	// "assets") to the fraction of its threshold used as near-miss
	// tolerance, overriding decisiontree's defaults.
	ToleranceOverrides map[string]float64
}

func applyDefaults(o Options) Options {
	if o.TopK <= 0 {
		o.TopK = 4
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 3
	}
	if o.QueryTimeoutMS <= 0 {
		o.QueryTimeoutMS = 60000
	}
	if o.LLMTimeoutMS <= 0 {
		o.LLMTimeoutMS = 20000
	}
	if o.CacheBootstrapQuery == "" {
		o.CacheBootstrapQuery = defaultBootstrapQuery
	}
	if o.SymbolicEnabled == nil {
		enabled := true
		o.SymbolicEnabled = &enabled
	}
	return o
}
