// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import (
	"testing"

	"debt-advice-engine/pkg/threshold"
)

func TestRegistryCallDispatchesByName(t *testing.T) {
	cache := threshold.NewCache()
	cache.Set("DRO Maximum Debt", threshold.Entry{Amount: 50000, Formatted: "£50,000.00", Source: "dro-manual.pdf"})
	registry := NewRegistry(cache)

	result := registry.Call("check_threshold", map[string]interface{}{
		"amount":         45000.0,
		"threshold_name": "dro_maximum_debt",
	})
	if result["qualifies"] != true {
		t.Errorf("Call(check_threshold) = %v, want qualifies=true", result)
	}

	result = registry.Call("calculate", map[string]interface{}{"expression": "2 + 2"})
	if result["result"] != 4.0 {
		t.Errorf("Call(calculate) = %v, want result=4", result)
	}

	result = registry.Call("unknown_tool", map[string]interface{}{})
	if _, isErr := result["error"]; !isErr {
		t.Errorf("Call(unknown_tool) = %v, want an error result", result)
	}
}

func TestRegistryCallMissingArgsReturnsError(t *testing.T) {
	registry := NewRegistry(threshold.NewCache())

	result := registry.Call("check_threshold", map[string]interface{}{"amount": 100.0})
	if _, isErr := result["error"]; !isErr {
		t.Errorf("Call(check_threshold) without threshold_name = %v, want an error result", result)
	}
}

func TestRegistryDefinitionsCoverAllTools(t *testing.T) {
	registry := NewRegistry(threshold.NewCache())
	defs := registry.Definitions()

	want := map[string]bool{
		"check_threshold": true, "calculate": true, "compare_numbers": true,
		"sum_numbers": true, "find_convenient_sums": true, "detect_patterns": true,
		"extract_numbers_from_text": true,
	}
	if len(defs) != len(want) {
		t.Fatalf("Definitions() returned %d tools, want %d", len(defs), len(want))
	}
	for _, d := range defs {
		if !want[d.Name] {
			t.Errorf("Definitions() included unexpected tool %q", d.Name)
		}
	}
}

func TestParseDirectivesExtractsToolCalls(t *testing.T) {
	content := `Let me check that threshold.
TOOL_CALL: {"name": "check_threshold", "args": {"amount": 45000, "threshold_name": "dro_maximum_debt"}}
`
	invocations := ParseDirectives(content)
	if len(invocations) != 1 {
		t.Fatalf("ParseDirectives() returned %d invocations, want 1", len(invocations))
	}
	if invocations[0].Name != "check_threshold" {
		t.Errorf("ParseDirectives() name = %q, want check_threshold", invocations[0].Name)
	}
	if invocations[0].Args["threshold_name"] != "dro_maximum_debt" {
		t.Errorf("ParseDirectives() args = %v, want threshold_name=dro_maximum_debt", invocations[0].Args)
	}
}

func TestParseDirectivesNoMatchReturnsEmpty(t *testing.T) {
	if got := ParseDirectives("just a plain answer, no tool calls here"); len(got) != 0 {
		t.Errorf("ParseDirectives() = %v, want empty", got)
	}
}
