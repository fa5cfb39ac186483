// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package workflow

import (
	"context"
	"fmt"
	"time"
)

// ExecutionError wraps a node failure together with the last good state,
// so callers can surface a well-formed partial result instead of a bare
// error.
type ExecutionError struct {
	Err       error
	LastState *State
}

func (e *ExecutionError) Error() string { return e.Err.Error() }
func (e *ExecutionError) Unwrap() error { return e.Err }

// maxGraphSteps bounds a run against a routing bug that would otherwise
// cycle forever; the agent graph itself is acyclic and never needs more
// than a handful of hops.
const maxGraphSteps = 20

// Executor runs an agent graph against a state.
type Executor struct {
	graph   *Graph
	timeout time.Duration
}

// ExecutorConfig contains configuration for the executor.
type ExecutorConfig struct {
	// Timeout bounds the whole run (the per-query wall-clock budget).
	Timeout time.Duration
}

// NewExecutor creates a new agent graph executor.
func NewExecutor(graph *Graph, config *ExecutorConfig) *Executor {
	if config == nil {
		config = &ExecutorConfig{Timeout: 60 * time.Second}
	}

	return &Executor{
		graph:   graph,
		timeout: config.Timeout,
	}
}

// Execute runs the graph from its configured start node to End.
//
// On cancellation the last good state is returned with Cancelled set and
// a nil error; no partial state beyond what already executed is produced.
// On an unrecoverable node error, the last good state is returned
// alongside an *ExecutionError wrapping the failure.
func (e *Executor) Execute(ctx context.Context, initialState *State) (*State, error) {
	if e.graph == nil {
		return nil, fmt.Errorf("graph is nil")
	}
	if initialState == nil {
		return nil, fmt.Errorf("initial state is nil")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	currentNodeName := e.graph.GetStartNode()
	if currentNodeName == "" {
		return nil, fmt.Errorf("no start node defined")
	}

	state := initialState

	for steps := 0; ; steps++ {
		select {
		case <-ctx.Done():
			cancelled := state.Clone()
			cancelled.Cancelled = true
			return cancelled, nil
		default:
		}

		if steps >= maxGraphSteps {
			return state, &ExecutionError{
				Err:       fmt.Errorf("exceeded maximum graph steps (%d)", maxGraphSteps),
				LastState: state,
			}
		}

		node, err := e.graph.GetNode(currentNodeName)
		if err != nil {
			return state, &ExecutionError{Err: err, LastState: state}
		}

		nextState, err := node.Execute(ctx, state)
		if err != nil {
			return state, &ExecutionError{
				Err:       fmt.Errorf("node %s failed: %w", currentNodeName, err),
				LastState: state,
			}
		}
		if nextState == nil {
			return state, &ExecutionError{
				Err:       fmt.Errorf("node %s returned nil state", currentNodeName),
				LastState: state,
			}
		}

		state = nextState
		if state.Error != nil {
			return state, &ExecutionError{
				Err:       fmt.Errorf("node %s reported an error: %w", currentNodeName, state.Error),
				LastState: state,
			}
		}

		next := e.graph.Next(currentNodeName, state)
		if next == End {
			return state, nil
		}
		currentNodeName = next
	}
}
