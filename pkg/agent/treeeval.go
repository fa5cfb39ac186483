// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"log"

	"debt-advice-engine/pkg/decisiontree"
	"debt-advice-engine/pkg/workflow"
)

// TreeEvalNode evaluates a client's eligibility against the decision
// tree registered for the state's topic.
type TreeEvalNode struct {
	trees map[string]*decisiontree.Tree
}

// NewTreeEvalNode creates a TreeEvalNode over a topic-keyed set of
// pre-built trees (see decisiontree.BuildTree).
func NewTreeEvalNode(trees map[string]*decisiontree.Tree) *TreeEvalNode {
	return &TreeEvalNode{trees: trees}
}

// Execute evaluates state.ClientValues against the tree for state.Topic.
// An unregistered topic yields incomplete_information rather than a
// node error, since the graph has already committed to this path by
// the time route_by_eligibility selects tree_eval.
func (n *TreeEvalNode) Execute(ctx context.Context, state *workflow.State) (*workflow.State, error) {
	next := state.Clone()

	tree, ok := n.trees[state.Topic]
	if !ok {
		log.Printf("WARN: no decision tree registered for topic %q", state.Topic)
		next.TreeResult = &decisiontree.Result{
			Verdict:    decisiontree.VerdictIncompleteInformation,
			Confidence: 0.3,
		}
		return next, nil
	}

	next.TreeResult = decisiontree.Evaluate(tree, state.ClientValues)
	return next, nil
}

// Name identifies this node in the reasoning graph.
func (n *TreeEvalNode) Name() string { return "tree_eval" }
