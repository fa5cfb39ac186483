// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package symbolic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"debt-advice-engine/pkg/llm"
)

// Comparison is one role-labeled relationship between two symbols,
// computed in Go with float64 arithmetic on the parsed values once the
// LLM has assigned roles — the model never performs the arithmetic
// itself. No decimal type is used: values and differences are binary
// floating-point.
type Comparison struct {
	LHSRole     string
	Op          string
	RHSRole     string
	LHSSymbol   string
	RHSSymbol   string
	LHSValue    float64
	RHSValue    float64
	Result      bool
	NeedsLookup bool
	Verdict     string
}

// SymbolicReasoner asks the LLM to assign roles and operators over
// symbolized text, then computes and substitutes the results itself.
type SymbolicReasoner struct {
	llm         llm.Provider
	temperature float32
	maxTokens   int
}

// ReasonerConfig configures a SymbolicReasoner's LLM call.
type ReasonerConfig struct {
	Temperature float32
	MaxTokens   int
}

// NewSymbolicReasoner creates a SymbolicReasoner over provider.
func NewSymbolicReasoner(provider llm.Provider, config *ReasonerConfig) *SymbolicReasoner {
	if config == nil {
		config = &ReasonerConfig{Temperature: 0.2, MaxTokens: 800}
	}
	return &SymbolicReasoner{llm: provider, temperature: config.Temperature, maxTokens: config.MaxTokens}
}

type rawComparison struct {
	LHSRole   string `json:"lhs_role"`
	Op        string `json:"op"`
	RHSRole   string `json:"rhs_role"`
	LHSSymbol string `json:"lhs_symbol"`
	RHSSymbol string `json:"rhs_symbol"`
}

// Reason prompts the LLM to identify role-labeled comparisons between
// symbols appearing in symbolizedQuestion and symbolizedContext, then
// resolves each comparison's operands from symbols and computes its
// result exactly. Comparisons whose symbols are not found are marked
// NeedsLookup rather than guessed.
func (r *SymbolicReasoner) Reason(ctx context.Context, symbolizedQuestion string, symbolizedContext []string, symbols []Symbol) ([]Comparison, error) {
	bySymbol := make(map[string]Symbol, len(symbols))
	for _, s := range symbols {
		bySymbol[s.Name] = s
	}

	prompt := buildReasoningPrompt(symbolizedQuestion, symbolizedContext, symbols)

	resp, err := r.llm.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPromptSymbolicReasoner},
			{Role: "user", Content: prompt},
		},
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("symbolic reasoning LLM call failed: %w", err)
	}

	raw, err := parseComparisons(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse symbolic comparisons: %w", err)
	}

	comparisons := make([]Comparison, 0, len(raw))
	for _, rc := range raw {
		comparisons = append(comparisons, resolve(rc, bySymbol))
	}
	return comparisons, nil
}

func resolve(rc rawComparison, bySymbol map[string]Symbol) Comparison {
	lhs, lhsOK := bySymbol[rc.LHSSymbol]
	rhs, rhsOK := bySymbol[rc.RHSSymbol]

	comparison := Comparison{
		LHSRole:   rc.LHSRole,
		Op:        rc.Op,
		RHSRole:   rc.RHSRole,
		LHSSymbol: rc.LHSSymbol,
		RHSSymbol: rc.RHSSymbol,
	}

	if !lhsOK || !rhsOK {
		comparison.NeedsLookup = true
		comparison.Verdict = fmt.Sprintf("%s %s %s: one or both amounts could not be located", rc.LHSRole, rc.Op, rc.RHSRole)
		return comparison
	}

	comparison.LHSValue = lhs.Value
	comparison.RHSValue = rhs.Value
	comparison.Result = applyOp(lhs.Value, rc.Op, rhs.Value)
	comparison.Verdict = buildVerdict(lhs, rhs, rc.Op, comparison.Result)
	return comparison
}

func applyOp(lhs float64, op string, rhs float64) bool {
	switch op {
	case ">":
		return lhs > rhs
	case "<":
		return lhs < rhs
	case ">=", "≥":
		return lhs >= rhs
	case "<=", "≤":
		return lhs <= rhs
	case "=", "==":
		return lhs == rhs
	case "!=", "≠":
		return lhs != rhs
	default:
		return false
	}
}

func buildVerdict(lhs, rhs Symbol, op string, result bool) string {
	diff := math.Abs(lhs.Value - rhs.Value)
	clause := "differs"
	switch op {
	case ">", ">=", "≥":
		if result {
			clause = fmt.Sprintf("exceeds limit by %s", formatDiff(diff, lhs.Unit))
		} else {
			clause = fmt.Sprintf("is within limit, margin %s", formatDiff(diff, lhs.Unit))
		}
	case "<", "<=", "≤":
		if result {
			clause = fmt.Sprintf("is within limit, margin %s", formatDiff(diff, lhs.Unit))
		} else {
			clause = fmt.Sprintf("exceeds limit by %s", formatDiff(diff, lhs.Unit))
		}
	case "=", "==":
		clause = "matches exactly"
	case "!=", "≠":
		clause = fmt.Sprintf("differs by %s", formatDiff(diff, lhs.Unit))
	}

	return fmt.Sprintf("%s %s %s ⇒ %s", lhs.Surface, op, rhs.Surface, clause)
}

func formatDiff(diff float64, unit string) string {
	if unit == "GBP" {
		return fmt.Sprintf("£%.2f", diff)
	}
	return fmt.Sprintf("%.2f", diff)
}

func buildReasoningPrompt(question string, context []string, symbols []Symbol) string {
	var b strings.Builder

	b.WriteString("Symbolized question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")

	if len(context) > 0 {
		b.WriteString("Symbolized context:\n")
		for i, c := range context {
			fmt.Fprintf(&b, "--- Context %d ---\n%s\n", i+1, c)
		}
		b.WriteString("\n")
	}

	b.WriteString("Symbols present (you may reference these by name only, never by value):\n")
	for _, s := range symbols {
		fmt.Fprintf(&b, "- %s\n", s.Name)
	}

	b.WriteString("\nIdentify every meaningful comparison between two symbols (e.g. a client figure against a limit). ")
	b.WriteString("Assign each operand a semantic role such as \"client_debt\" or \"dro_limit\". Do not compute or state any numeric result yourself.\n\n")
	b.WriteString(`Respond with ONLY valid JSON in this exact format:
{
  "comparisons": [
    {"lhs_role": "client_debt", "op": "<=", "rhs_role": "dro_limit", "lhs_symbol": "[AMOUNT_1]", "rhs_symbol": "[AMOUNT_2]"}
  ]
}`)

	return b.String()
}

func parseComparisons(response string) ([]rawComparison, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var parsed struct {
		Comparisons []rawComparison `json:"comparisons"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return nil, err
	}
	return parsed.Comparisons, nil
}

const systemPromptSymbolicReasoner = `You are a symbolic reasoning assistant for a debt-advice system.

Amounts in the text have been replaced with placeholder symbols like [AMOUNT_1]. You must NEVER attempt arithmetic or state what a symbol's value is — you only identify which symbols are being compared and assign them semantic roles.

Respond with valid JSON matching the requested format and nothing else.`
