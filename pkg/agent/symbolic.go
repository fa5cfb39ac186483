// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"log"

	"debt-advice-engine/pkg/symbolic"
	"debt-advice-engine/pkg/workflow"
)

// SymbolicNode lifts currency literals out of the question and
// retrieved context into placeholder symbols, then asks a
// symbolic.SymbolicReasoner to identify and exactly compute the
// comparisons between them. It keeps pkg/symbolic itself unaware of
// the agent graph's state shape.
type SymbolicNode struct {
	reasoner *symbolic.SymbolicReasoner
}

// NewSymbolicNode creates a SymbolicNode over reasoner.
func NewSymbolicNode(reasoner *symbolic.SymbolicReasoner) *SymbolicNode {
	return &SymbolicNode{reasoner: reasoner}
}

// Execute symbolizes state.Question and each retrieved chunk, unifies
// the resulting symbols, and resolves comparisons between them. A
// reasoning failure is logged and leaves the state's symbolic fields
// empty rather than halting the graph — synthesis still proceeds on
// the unsymbolized text. route_by_complexity already keeps a
// SymbolicDisabled state from ever reaching this node; the same check
// is repeated here so a direct call bypassing the graph can't turn
// symbolic reasoning back on.
func (n *SymbolicNode) Execute(ctx context.Context, state *workflow.State) (*workflow.State, error) {
	next := state.Clone()

	if state.SymbolicDisabled {
		return next, nil
	}

	symbolizer := symbolic.NewSymbolizer(1)
	symbolizedQuestion, questionSymbols := symbolizer.Symbolize(state.Question)

	allSymbols := questionSymbols
	symbolizedContext := make([]string, 0, len(state.ContextChunks))
	for _, chunk := range state.ContextChunks {
		symbolizedText, chunkSymbols := symbolizer.Symbolize(chunk.Text)
		symbolizedContext = append(symbolizedContext, symbolizedText)
		allSymbols = symbolic.Unify(allSymbols, chunkSymbols)
	}

	next.SymbolicVariables = make(map[string]workflow.SymbolicVariable, len(allSymbols))
	for _, s := range allSymbols {
		next.SymbolicVariables[s.Name] = workflow.SymbolicVariable{
			Symbol:  s.Name,
			Surface: s.Surface,
			Value:   s.Value,
			Unit:    s.Unit,
		}
	}

	if len(allSymbols) == 0 {
		return next, nil
	}

	comparisons, err := n.reasoner.Reason(ctx, symbolizedQuestion, symbolizedContext, allSymbols)
	if err != nil {
		log.Printf("WARN: symbolic reasoning failed: %v", err)
		return next, nil
	}

	next.SymbolicComparisons = make([]workflow.SymbolicComparison, 0, len(comparisons))
	for _, c := range comparisons {
		next.SymbolicComparisons = append(next.SymbolicComparisons, workflow.SymbolicComparison{
			LHSRole:     c.LHSRole,
			Op:          c.Op,
			RHSRole:     c.RHSRole,
			LHSSymbol:   c.LHSSymbol,
			RHSSymbol:   c.RHSSymbol,
			LHSValue:    c.LHSValue,
			RHSValue:    c.RHSValue,
			Result:      c.Result,
			NeedsLookup: c.NeedsLookup,
			Verdict:     c.Verdict,
		})

		assignRole(next.SymbolicVariables, c.LHSSymbol, c.LHSRole)
		assignRole(next.SymbolicVariables, c.RHSSymbol, c.RHSRole)
	}

	return next, nil
}

// Name identifies this node in the reasoning graph.
func (n *SymbolicNode) Name() string { return "symbolic" }

func assignRole(vars map[string]workflow.SymbolicVariable, symbol, role string) {
	v, ok := vars[symbol]
	if !ok || role == "" {
		return
	}
	v.Role = role
	vars[symbol] = v
}
