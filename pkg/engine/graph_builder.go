// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package engine

import (
	"fmt"

	"debt-advice-engine/pkg/agent"
	"debt-advice-engine/pkg/decisiontree"
	"debt-advice-engine/pkg/knowledge"
	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/symbolic"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/tools"
	"debt-advice-engine/pkg/workflow"
)

// buildGraph assembles the five agent nodes around the shared
// dependencies an Engine carries and wires them into the reasoning
// graph workflow.BuildReasoningGraph expects.
func buildGraph(reasoningLLM llm.Provider, store knowledge.Store, cache *threshold.Cache, registry *tools.Registry, trees map[string]*decisiontree.Tree) (*workflow.Graph, error) {
	nodes := map[string]workflow.Node{
		"analyze":    agent.NewAnalyzer(reasoningLLM, nil),
		"retrieve":   agent.NewRetriever(store, cache),
		"symbolic":   agent.NewSymbolicNode(symbolic.NewSymbolicReasoner(reasoningLLM, nil)),
		"synthesize": agent.NewSynthesizer(reasoningLLM, registry, nil),
		"tree_eval":  agent.NewTreeEvalNode(trees),
	}

	graph, err := workflow.BuildReasoningGraph(nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build reasoning graph: %w", err)
	}
	return graph, nil
}

// buildTrees evaluates decisiontree.BuildTree for every topic the
// threshold cache currently supports, skipping (rather than failing)
// any topic whose required thresholds aren't cached yet — bootstrap may
// not have covered every manual.
func buildTrees(cache *threshold.Cache, toleranceOverrides map[string]float64) map[string]*decisiontree.Tree {
	trees := make(map[string]*decisiontree.Tree)
	for _, topic := range decisiontree.RegisteredTopics() {
		tree, err := decisiontree.BuildTree(topic, cache, toleranceOverrides)
		if err != nil {
			continue
		}
		trees[topic] = tree
	}
	return trees
}
