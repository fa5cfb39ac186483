// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package engine

import (
	"errors"
	"strings"

	"debt-advice-engine/pkg/workflow"
)

// Sentinel errors classifying a failed run by the stage that failed.
// classify maps a *workflow.ExecutionError onto one of these by
// inspecting which node reported the failure; callers that only care
// whether a query succeeded can errors.Is against these instead of
// parsing the underlying message.
var (
	ErrAnalysis       = errors.New("engine: query analysis failed")
	ErrRetrieval      = errors.New("engine: knowledge retrieval failed")
	ErrLLM            = errors.New("engine: LLM call failed")
	ErrTool           = errors.New("engine: tool invocation failed")
	ErrThresholdMiss  = errors.New("engine: required threshold not found in cache")
	ErrTreeBuild      = errors.New("engine: decision tree unavailable for topic")
	ErrCancelled      = errors.New("engine: query cancelled or timed out")
	ErrBudgetExceeded = errors.New("engine: exceeded maximum graph steps")
)

// classifiedError pairs a sentinel with the underlying node failure so
// the original message and %w chain both survive.
type classifiedError struct {
	sentinel error
	cause    error
}

func (e *classifiedError) Error() string { return e.sentinel.Error() + ": " + e.cause.Error() }
func (e *classifiedError) Unwrap() []error { return []error{e.sentinel, e.cause} }

// classify turns a run error into a classifiedError wrapping one of the
// package sentinels, so callers can errors.Is(err, engine.ErrLLM) and
// friends regardless of which node inside the graph actually failed.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var execErr *workflow.ExecutionError
	if !errors.As(err, &execErr) {
		return err
	}

	msg := execErr.Err.Error()
	switch {
	case strings.Contains(msg, "exceeded maximum graph steps"):
		return &classifiedError{sentinel: ErrBudgetExceeded, cause: execErr}
	case strings.Contains(msg, "node analyze"):
		return &classifiedError{sentinel: ErrAnalysis, cause: execErr}
	case strings.Contains(msg, "node retrieve"):
		return &classifiedError{sentinel: ErrRetrieval, cause: execErr}
	case strings.Contains(msg, "node symbolic"):
		return &classifiedError{sentinel: ErrLLM, cause: execErr}
	case strings.Contains(msg, "node synthesize"):
		return &classifiedError{sentinel: ErrLLM, cause: execErr}
	case strings.Contains(msg, "node tree_eval"):
		return &classifiedError{sentinel: ErrTreeBuild, cause: execErr}
	default:
		return execErr
	}
}
