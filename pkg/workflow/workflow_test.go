// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package workflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeNode executes fn against the incoming state, or returns err if set.
type fakeNode struct {
	name string
	fn   func(*State) *State
	err  error
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) Execute(ctx context.Context, state *State) (*State, error) {
	if n.err != nil {
		return nil, n.err
	}
	next := state.Clone()
	if n.fn != nil {
		next = n.fn(next)
	}
	return next, nil
}

func newFiveNodeGraph(t *testing.T, overrides map[string]Node) *Graph {
	t.Helper()

	nodes := map[string]Node{
		"analyze":    &fakeNode{name: "analyze"},
		"retrieve":   &fakeNode{name: "retrieve"},
		"symbolic":   &fakeNode{name: "symbolic"},
		"synthesize": &fakeNode{name: "synthesize"},
		"tree_eval":  &fakeNode{name: "tree_eval"},
	}
	for name, node := range overrides {
		nodes[name] = node
	}

	graph, err := BuildReasoningGraph(nodes)
	if err != nil {
		t.Fatalf("BuildReasoningGraph() unexpected error: %v", err)
	}
	return graph
}

func TestBuildReasoningGraphRequiresAllFiveNodes(t *testing.T) {
	_, err := BuildReasoningGraph(map[string]Node{
		"analyze":  &fakeNode{name: "analyze"},
		"retrieve": &fakeNode{name: "retrieve"},
	})
	if err == nil {
		t.Fatal("expected an error when required nodes are missing")
	}
}

func TestExecuteSimpleQuestionSkipsSymbolicAndTreeEval(t *testing.T) {
	analyze := &fakeNode{name: "analyze", fn: func(s *State) *State {
		s.Complexity = ComplexitySimple
		s.AnalysisReasoning = "a simple definitional question"
		return s
	}}

	visited := map[string]bool{}
	wrap := func(name string) Node {
		return &fakeNode{name: name, fn: func(s *State) *State {
			visited[name] = true
			return s
		}}
	}

	graph := newFiveNodeGraph(t, map[string]Node{
		"analyze":    analyze,
		"retrieve":   wrap("retrieve"),
		"symbolic":   wrap("symbolic"),
		"synthesize": wrap("synthesize"),
		"tree_eval":  wrap("tree_eval"),
	})

	executor := NewExecutor(graph, nil)
	final, err := executor.Execute(context.Background(), NewState("What is a DRO?", nil, ""))
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if !visited["retrieve"] || !visited["synthesize"] {
		t.Error("expected retrieve and synthesize to run")
	}
	if visited["symbolic"] {
		t.Error("simple question should not route through symbolic")
	}
	if visited["tree_eval"] {
		t.Error("question without client values should not route through tree_eval")
	}
	if final.Cancelled {
		t.Error("final state should not be cancelled")
	}
}

func TestExecuteComplexQuestionRoutesThroughSymbolic(t *testing.T) {
	analyze := &fakeNode{name: "analyze", fn: func(s *State) *State {
		s.Complexity = ComplexityComplex
		return s
	}}

	visited := map[string]bool{}
	wrap := func(name string) Node {
		return &fakeNode{name: name, fn: func(s *State) *State {
			visited[name] = true
			return s
		}}
	}

	graph := newFiveNodeGraph(t, map[string]Node{
		"analyze":    analyze,
		"retrieve":   wrap("retrieve"),
		"symbolic":   wrap("symbolic"),
		"synthesize": wrap("synthesize"),
	})

	executor := NewExecutor(graph, nil)
	if _, err := executor.Execute(context.Background(), NewState("Is this client eligible?", nil, "")); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if !visited["symbolic"] {
		t.Error("complex question should route through symbolic")
	}
}

func TestExecuteSymbolicDisabledOverridesComplexRouting(t *testing.T) {
	analyze := &fakeNode{name: "analyze", fn: func(s *State) *State {
		s.Complexity = ComplexityComplex
		return s
	}}

	visited := map[string]bool{}
	wrap := func(name string) Node {
		return &fakeNode{name: name, fn: func(s *State) *State {
			visited[name] = true
			return s
		}}
	}

	graph := newFiveNodeGraph(t, map[string]Node{
		"analyze":    analyze,
		"symbolic":   wrap("symbolic"),
		"synthesize": wrap("synthesize"),
	})

	executor := NewExecutor(graph, nil)
	state := NewState("Is this client eligible?", nil, "")
	state.SymbolicDisabled = true

	if _, err := executor.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if visited["symbolic"] {
		t.Error("SymbolicDisabled should keep even a complex question out of the symbolic node")
	}
	if !visited["synthesize"] {
		t.Error("expected synthesize to still run")
	}
}

func TestExecuteWithClientValuesRoutesThroughTreeEval(t *testing.T) {
	visited := map[string]bool{}
	treeEval := &fakeNode{name: "tree_eval", fn: func(s *State) *State {
		visited["tree_eval"] = true
		return s
	}}

	graph := newFiveNodeGraph(t, map[string]Node{"tree_eval": treeEval})
	executor := NewExecutor(graph, nil)

	state := NewState("Is this client eligible for a DRO?", map[string]float64{"debt": 45000}, "dro_eligibility")
	if _, err := executor.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if !visited["tree_eval"] {
		t.Error("state with client values should route through tree_eval")
	}
}

func TestExecuteNodeFailureReturnsExecutionError(t *testing.T) {
	failing := &fakeNode{name: "retrieve", err: errors.New("store unreachable")}
	graph := newFiveNodeGraph(t, map[string]Node{"retrieve": failing})
	executor := NewExecutor(graph, nil)

	_, err := executor.Execute(context.Background(), NewState("What is a DRO?", nil, ""))
	if err == nil {
		t.Fatal("expected an error from a failing node")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecutionError, got %T", err)
	}
}

func TestExecuteStateErrorReturnsExecutionError(t *testing.T) {
	failing := &fakeNode{name: "synthesize", fn: func(s *State) *State {
		s.Error = errors.New("synthesis blew up")
		return s
	}}
	graph := newFiveNodeGraph(t, map[string]Node{"synthesize": failing})
	executor := NewExecutor(graph, nil)

	_, err := executor.Execute(context.Background(), NewState("What is a DRO?", nil, ""))
	if err == nil {
		t.Fatal("expected an error when a node sets State.Error")
	}
}

func TestExecuteRespectsCancellation(t *testing.T) {
	blocking := &fakeNode{name: "retrieve", fn: func(s *State) *State {
		time.Sleep(50 * time.Millisecond)
		return s
	}}
	graph := newFiveNodeGraph(t, map[string]Node{"retrieve": blocking})
	executor := NewExecutor(graph, &ExecutorConfig{Timeout: 10 * time.Millisecond})

	final, err := executor.Execute(context.Background(), NewState("What is a DRO?", nil, ""))
	if err != nil {
		t.Fatalf("Execute() unexpected error on cancellation: %v", err)
	}
	if !final.Cancelled {
		t.Error("expected Cancelled to be set after timeout")
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	original := NewState("What is a DRO?", map[string]float64{"debt": 100}, "dro_eligibility")
	original.Sources = append(original.Sources, "manual.pdf")

	clone := original.Clone()
	clone.Sources = append(clone.Sources, "second.pdf")
	clone.ClientValues["debt"] = 200

	if len(original.Sources) != 1 {
		t.Errorf("mutating clone's Sources affected original: %v", original.Sources)
	}
	if original.ClientValues["debt"] != 100 {
		t.Errorf("mutating clone's ClientValues affected original: %v", original.ClientValues["debt"])
	}
}

func TestHasClientValues(t *testing.T) {
	withValues := NewState("q", map[string]float64{"debt": 1}, "topic")
	if !withValues.HasClientValues() {
		t.Error("expected HasClientValues true when ClientValues is non-empty")
	}

	without := NewState("q", nil, "")
	if without.HasClientValues() {
		t.Error("expected HasClientValues false when ClientValues is nil")
	}
}
