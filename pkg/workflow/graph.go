// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package workflow

import (
	"context"
	"fmt"
	"strings"
)

// End is the sentinel destination meaning the graph run is complete.
const End = "__end__"

// Node represents a single node in the agent graph.
type Node interface {
	// Execute runs this node against state and returns a derived state.
	Execute(ctx context.Context, state *State) (*State, error)

	// Name returns the node's unique identifier.
	Name() string
}

// Condition is a pure routing function: it inspects state and returns
// the name of the next node, or End.
type Condition func(state *State) string

// Graph is a directed graph of named nodes with plain and conditional
// edges. A conditional edge is evaluated against the state produced by
// the node it leaves and may send execution to different destinations
// on different runs; a plain edge always goes to the same destination.
type Graph struct {
	nodes            map[string]Node
	edges            map[string]string
	conditionalEdges map[string]Condition
	start            string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:            make(map[string]Node),
		edges:            make(map[string]string),
		conditionalEdges: make(map[string]Condition),
	}
}

// AddNode registers a node under its own name.
func (g *Graph) AddNode(node Node) error {
	if node == nil {
		return fmt.Errorf("node is nil")
	}

	name := node.Name()
	if name == "" {
		return fmt.Errorf("node name is empty")
	}

	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %s already exists", name)
	}

	g.nodes[name] = node
	return nil
}

// AddEdge adds an unconditional edge from one node to another, or to End.
func (g *Graph) AddEdge(from, to string) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}
	if to != End {
		if _, exists := g.nodes[to]; !exists {
			return fmt.Errorf("to node %s does not exist", to)
		}
	}
	if _, exists := g.conditionalEdges[from]; exists {
		return fmt.Errorf("node %s already has a conditional edge", from)
	}

	g.edges[from] = to
	return nil
}

// AddConditionalEdge registers a routing function to run after from executes.
func (g *Graph) AddConditionalEdge(from string, condition Condition) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}
	if condition == nil {
		return fmt.Errorf("condition is nil")
	}
	if _, exists := g.edges[from]; exists {
		return fmt.Errorf("node %s already has an unconditional edge", from)
	}

	g.conditionalEdges[from] = condition
	return nil
}

// SetStart designates the entry node for Execute.
func (g *Graph) SetStart(nodeName string) error {
	if _, exists := g.nodes[nodeName]; !exists {
		return fmt.Errorf("start node %s does not exist", nodeName)
	}

	g.start = nodeName
	return nil
}

// GetNode retrieves a node by name.
func (g *Graph) GetNode(name string) (Node, error) {
	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node %s not found", name)
	}
	return node, nil
}

// GetStartNode returns the configured entry node name.
func (g *Graph) GetStartNode() string {
	return g.start
}

// Next returns the destination after executing node `from` against state.
// Conditional edges take priority over plain edges; a node with neither
// terminates the run.
func (g *Graph) Next(from string, state *State) string {
	if condition, exists := g.conditionalEdges[from]; exists {
		return condition(state)
	}
	if to, exists := g.edges[from]; exists {
		return to
	}
	return End
}

var numericKeywords = []string{"debt", "income", "limit", "threshold", "£", "$"}

// RouteByComplexity sends complex (or numerically-flavored) questions
// through symbolic reasoning before synthesis; everything else goes
// straight to synthesis.
func RouteByComplexity(state *State) string {
	if state.SymbolicDisabled {
		return "synthesize"
	}

	if state.Complexity == ComplexityComplex {
		return "symbolic"
	}

	reasoning := strings.ToLower(state.AnalysisReasoning)
	for _, kw := range numericKeywords {
		if strings.Contains(reasoning, kw) {
			return "symbolic"
		}
	}

	return "synthesize"
}

// RouteByEligibility sends queries carrying client values into tree
// evaluation; everything else ends the run after synthesis.
func RouteByEligibility(state *State) string {
	if state.HasClientValues() {
		return "tree_eval"
	}
	return End
}

// BuildReasoningGraph constructs the debt-advice agent graph:
//
//	entry -> analyze -> retrieve -> route_by_complexity
//	route_by_complexity: {simple, moderate} -> synthesize ; {complex, numeric} -> symbolic
//	symbolic -> synthesize
//	synthesize -> route_by_eligibility
//	route_by_eligibility: client_values present -> tree_eval ; else -> END
//	tree_eval -> END
func BuildReasoningGraph(nodes map[string]Node) (*Graph, error) {
	graph := NewGraph()

	required := []string{"analyze", "retrieve", "symbolic", "synthesize", "tree_eval"}
	for _, name := range required {
		node, exists := nodes[name]
		if !exists {
			return nil, fmt.Errorf("required node %s not provided", name)
		}
		if err := graph.AddNode(node); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", name, err)
		}
	}

	if err := graph.AddEdge("analyze", "retrieve"); err != nil {
		return nil, err
	}
	if err := graph.AddConditionalEdge("retrieve", RouteByComplexity); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("symbolic", "synthesize"); err != nil {
		return nil, err
	}
	if err := graph.AddConditionalEdge("synthesize", RouteByEligibility); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("tree_eval", End); err != nil {
		return nil, err
	}

	if err := graph.SetStart("analyze"); err != nil {
		return nil, err
	}

	return graph, nil
}
