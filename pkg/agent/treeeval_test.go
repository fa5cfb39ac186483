// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"testing"

	"debt-advice-engine/pkg/decisiontree"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/workflow"
)

func TestTreeEvalNodeEvaluatesRegisteredTopic(t *testing.T) {
	cache := threshold.NewCache()
	cache.Set("dro_maximum_debt", threshold.Entry{Amount: 50000})
	cache.Set("dro_income_limit", threshold.Entry{Amount: 75})
	cache.Set("dro_asset_limit", threshold.Entry{Amount: 2000})

	tree, err := decisiontree.BuildTree("dro_eligibility", cache, nil)
	if err != nil {
		t.Fatalf("BuildTree() unexpected error: %v", err)
	}

	node := NewTreeEvalNode(map[string]*decisiontree.Tree{"dro_eligibility": tree})
	state := workflow.NewState("Am I eligible for a DRO?", map[string]float64{
		"debt": 45000, "income": 50, "assets": 1000,
	}, "dro_eligibility")

	next, err := node.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.TreeResult == nil {
		t.Fatal("TreeResult is nil")
	}
	if next.TreeResult.Verdict != decisiontree.VerdictEligible {
		t.Errorf("Verdict = %q, want eligible", next.TreeResult.Verdict)
	}
}

func TestTreeEvalNodeUnregisteredTopicIsIncomplete(t *testing.T) {
	node := NewTreeEvalNode(map[string]*decisiontree.Tree{})
	state := workflow.NewState("q", map[string]float64{"debt": 1000}, "unknown_topic")

	next, err := node.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if next.TreeResult.Verdict != decisiontree.VerdictIncompleteInformation {
		t.Errorf("Verdict = %q, want incomplete_information", next.TreeResult.Verdict)
	}
}
