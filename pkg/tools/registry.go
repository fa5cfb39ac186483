// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package tools implements the arithmetic and lookup tools the synthesis
// node binds to the LLM, plus the registry that dispatches named calls
// to them. Tools never return a Go error: failure is reported as
// {"error": message} so the model can see and adapt to it.
package tools

import (
	"encoding/json"
	"fmt"
	"regexp"

	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/threshold"
)

// Registry dispatches named tool calls to their implementations, binding
// check_threshold to a shared threshold.Cache.
type Registry struct {
	cache *threshold.Cache
}

// NewRegistry creates a Registry bound to cache.
func NewRegistry(cache *threshold.Cache) *Registry {
	return &Registry{cache: cache}
}

// Invocation is one parsed tool call, whether it arrived via native
// tool-calling or the regex TOOL_CALL fallback protocol.
type Invocation struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// Call dispatches name with args to its implementation.
func (r *Registry) Call(name string, args map[string]interface{}) map[string]interface{} {
	switch name {
	case "check_threshold":
		return r.callCheckThreshold(args)
	case "calculate":
		expr, ok := stringArg(args, "expression")
		if !ok {
			return errResult("expression is required")
		}
		return Calculate(expr)
	case "compare_numbers":
		a, aok := stringArg(args, "a")
		b, bok := stringArg(args, "b")
		op, opok := stringArg(args, "op")
		if !aok || !bok || !opok {
			return errResult("a, b, and op are required")
		}
		return CompareNumbers(a, b, op)
	case "sum_numbers":
		numbers, ok := numberSliceArg(args, "numbers")
		if !ok {
			return errResult("numbers must be a non-empty array of numbers")
		}
		return SumNumbers(numbers)
	case "find_convenient_sums":
		numbers, ok := numberSliceArg(args, "numbers")
		if !ok {
			return errResult("numbers must be a non-empty array of numbers")
		}
		tolerance, _ := floatArg(args, "target_tolerance")
		return FindConvenientSums(numbers, tolerance)
	case "detect_patterns":
		numbers, ok := numberSliceArg(args, "numbers")
		if !ok {
			return errResult("numbers must be a non-empty array of numbers")
		}
		return DetectPatterns(numbers)
	case "extract_numbers_from_text":
		text, ok := stringArg(args, "text")
		if !ok {
			return errResult("text is required")
		}
		return ExtractNumbersFromText(text)
	default:
		return errResult(fmt.Sprintf("unknown tool %q", name))
	}
}

func (r *Registry) callCheckThreshold(args map[string]interface{}) map[string]interface{} {
	amount, ok := floatArg(args, "amount")
	if !ok {
		return errResult("amount is required")
	}
	name, ok := stringArg(args, "threshold_name")
	if !ok {
		return errResult("threshold_name is required")
	}

	var thresholdValue *float64
	if v, ok := floatArg(args, "threshold_value"); ok {
		thresholdValue = &v
	}

	return CheckThreshold(r.cache, amount, name, thresholdValue)
}

func errResult(message string) map[string]interface{} {
	return map[string]interface{}{"error": message}
}

func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func floatArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func numberSliceArg(args map[string]interface{}, key string) ([]float64, bool) {
	raw, ok := args[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, false
	}
	numbers := make([]float64, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			numbers = append(numbers, n)
		case int:
			numbers = append(numbers, float64(n))
		default:
			return nil, false
		}
	}
	return numbers, true
}

// Definitions returns the tool schema handed to providers with native
// tool-calling support.
func (r *Registry) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        "check_threshold",
			Description: "Check whether an amount qualifies against a named eligibility threshold from the cache.",
			Parameters: map[string]llm.ToolParameter{
				"amount":          {Type: "number", Description: "the client figure to check"},
				"threshold_name":  {Type: "string", Description: "e.g. dro_maximum_debt"},
				"threshold_value": {Type: "number", Description: "override the cached value; omit to use the cache"},
			},
			Required: []string{"amount", "threshold_name"},
		},
		{
			Name:        "calculate",
			Description: "Evaluate a safe arithmetic expression over + - * / and parentheses.",
			Parameters: map[string]llm.ToolParameter{
				"expression": {Type: "string"},
			},
			Required: []string{"expression"},
		},
		{
			Name:        "compare_numbers",
			Description: "Compare two currency or numeric strings with an operator.",
			Parameters: map[string]llm.ToolParameter{
				"a":  {Type: "string"},
				"b":  {Type: "string"},
				"op": {Type: "string", Enum: []string{">", "<", ">=", "<=", "==", "!="}},
			},
			Required: []string{"a", "b", "op"},
		},
		{
			Name:        "sum_numbers",
			Description: "Sum a list of numbers and report summary statistics.",
			Parameters: map[string]llm.ToolParameter{
				"numbers": {Type: "array", Description: "array of numbers"},
			},
			Required: []string{"numbers"},
		},
		{
			Name:        "find_convenient_sums",
			Description: "Find subsets of numbers whose sum lands suspiciously close to a round figure.",
			Parameters: map[string]llm.ToolParameter{
				"numbers":          {Type: "array"},
				"target_tolerance": {Type: "number", Description: "default 50"},
			},
			Required: []string{"numbers"},
		},
		{
			Name:        "detect_patterns",
			Description: "Find duplicate, near-equal, and integer-multiple values in a list of numbers.",
			Parameters: map[string]llm.ToolParameter{
				"numbers": {Type: "array"},
			},
			Required: []string{"numbers"},
		},
		{
			Name:        "extract_numbers_from_text",
			Description: "Extract currency and numeric literals from free text.",
			Parameters: map[string]llm.ToolParameter{
				"text": {Type: "string"},
			},
			Required: []string{"text"},
		},
	}
}

var toolCallPattern = regexp.MustCompile(`TOOL_CALL:\s*(\{.*\})`)

// ParseDirectives extracts TOOL_CALL: {json} directives from assistant
// text for providers without native tool-calling support. This is the
// legacy transport; structured tool I/O is the canonical path.
func ParseDirectives(content string) []Invocation {
	matches := toolCallPattern.FindAllStringSubmatch(content, -1)
	invocations := make([]Invocation, 0, len(matches))

	for i, match := range matches {
		var parsed struct {
			Name string                 `json:"name"`
			Args map[string]interface{} `json:"args"`
		}
		if err := json.Unmarshal([]byte(match[1]), &parsed); err != nil {
			continue
		}
		invocations = append(invocations, Invocation{
			ID:   fmt.Sprintf("fallback-%d", i),
			Name: parsed.Name,
			Args: parsed.Args,
		})
	}

	return invocations
}
