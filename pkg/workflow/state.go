// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package workflow

import "debt-advice-engine/pkg/decisiontree"

// Complexity classifies how involved a question is, as assigned by the
// analyze node and consumed by route_by_complexity.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityUnknown  Complexity = "unknown"
)

// ContextChunk is a retrieved passage of manual text, annotated by the
// retrieval node with a numeric rule hint when it mentions a cached
// threshold.
type ContextChunk struct {
	Text            string
	Source          string
	ChunkID         string
	Metadata        map[string]interface{}
	NumericRuleHint string
}

// SymbolicVariable is a currency or numeric literal lifted out of question
// or context text and replaced by a placeholder symbol, so the LLM never
// sees, and never computes over, the raw number.
type SymbolicVariable struct {
	Symbol  string // e.g. "[AMOUNT_3]"
	Surface string // original text, e.g. "£51,000"
	Value   float64
	Unit    string // "GBP", "" for unitless
	Role    string // assigned post-hoc by the LLM, e.g. "client_debt"
}

// SymbolicComparison is a single comparison between two symbolic
// operands, computed locally in float64 arithmetic (not a decimal type)
// rather than by the LLM.
type SymbolicComparison struct {
	LHSRole     string
	Op          string
	RHSRole     string
	LHSSymbol   string
	RHSSymbol   string
	LHSValue    float64
	RHSValue    float64
	Result      bool
	NeedsLookup bool
	Verdict     string // prose clause substituted back into the answer
}

// ToolCallRecord is one entry in the synthesis node's audit trail.
type ToolCallRecord struct {
	Name   string
	Args   map[string]interface{}
	Result interface{}
}

// Message is a single turn in the conversation log passed to the LLM.
type Message struct {
	Role    string
	Content string
}

// State is the single mutable record threaded through the agent graph.
// By convention nodes do not mutate a shared instance: each node clones
// its input state and returns the derived copy.
type State struct {
	Question     string
	ClientValues map[string]float64
	Topic        string

	Complexity        Complexity
	SuggestedSearches []string
	RequiresSymbolic  bool
	// SymbolicDisabled is an operator override (Options.SymbolicEnabled
	// = false) that route_by_complexity must honor regardless of what
	// the analyze node concludes. Set once on the initial state and
	// left untouched by every node's Clone, since analyze only ever
	// writes RequiresSymbolic.
	SymbolicDisabled  bool
	AnalysisReasoning string

	ContextChunks []ContextChunk

	SymbolicVariables   map[string]SymbolicVariable
	SymbolicComparisons []SymbolicComparison

	ToolCalls         []ToolCallRecord
	ToolIteration     int
	MaxToolIterations int

	TopK int

	Answer           string
	Confidence       float64
	ConfidenceReason string
	Sources          []string

	TreeResult *decisiontree.Result

	Messages []Message

	Cancelled bool
	Error     error
}

// NewState creates an initial State for a fresh query.
// clientValues may be nil; a non-nil, non-empty map makes tree_eval
// mandatory per the graph's routing contract.
func NewState(question string, clientValues map[string]float64, topic string) *State {
	return &State{
		Question:          question,
		ClientValues:      clientValues,
		Topic:             topic,
		Complexity:        ComplexityUnknown,
		SuggestedSearches: []string{},
		ContextChunks:     []ContextChunk{},
		SymbolicVariables: make(map[string]SymbolicVariable),
		MaxToolIterations: 3,
		TopK:              4,
		Sources:           []string{},
		Messages:          []Message{},
	}
}

// Clone returns a copy of s with its slice and map fields given fresh
// backing storage, so a node can mutate its own copy without disturbing
// a state a caller may still hold a reference to.
func (s *State) Clone() *State {
	clone := *s

	clone.SuggestedSearches = append([]string(nil), s.SuggestedSearches...)
	clone.ContextChunks = append([]ContextChunk(nil), s.ContextChunks...)
	clone.SymbolicComparisons = append([]SymbolicComparison(nil), s.SymbolicComparisons...)
	clone.ToolCalls = append([]ToolCallRecord(nil), s.ToolCalls...)
	clone.Sources = append([]string(nil), s.Sources...)
	clone.Messages = append([]Message(nil), s.Messages...)

	clone.SymbolicVariables = make(map[string]SymbolicVariable, len(s.SymbolicVariables))
	for k, v := range s.SymbolicVariables {
		clone.SymbolicVariables[k] = v
	}

	if s.ClientValues != nil {
		clone.ClientValues = make(map[string]float64, len(s.ClientValues))
		for k, v := range s.ClientValues {
			clone.ClientValues[k] = v
		}
	}

	return &clone
}

// HasClientValues reports whether the state carries client financial
// values, which per the graph contract mandates a tree_eval pass.
func (s *State) HasClientValues() bool {
	return len(s.ClientValues) > 0
}

// AddToolCall appends a tool invocation to the audit trail.
func (s *State) AddToolCall(name string, args map[string]interface{}, result interface{}) {
	s.ToolCalls = append(s.ToolCalls, ToolCallRecord{Name: name, Args: args, Result: result})
}
