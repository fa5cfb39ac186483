// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/tools"
	"debt-advice-engine/pkg/workflow"
)

// Synthesizer builds the final answer from retrieved context and any
// symbolic comparisons, binding a tool registry the model can call for
// arithmetic rather than computing it itself.
type Synthesizer struct {
	llm         llm.Provider
	tools       *tools.Registry
	temperature float32
	maxTokens   int
}

// SynthesizerConfig configures a Synthesizer's LLM call.
type SynthesizerConfig struct {
	Temperature float32
	MaxTokens   int
}

// NewSynthesizer creates a Synthesizer over provider, binding registry
// as its tool set.
func NewSynthesizer(provider llm.Provider, registry *tools.Registry, config *SynthesizerConfig) *Synthesizer {
	if config == nil {
		config = &SynthesizerConfig{Temperature: 0.3, MaxTokens: 1200}
	}
	return &Synthesizer{llm: provider, tools: registry, temperature: config.Temperature, maxTokens: config.MaxTokens}
}

// Execute runs the bounded tool-calling loop and extracts a final
// answer and confidence. An LLM failure is recorded on state.Error so
// the executor halts the graph with a well-formed partial result
// rather than panicking or silently producing an empty answer.
func (s *Synthesizer) Execute(ctx context.Context, state *workflow.State) (*workflow.State, error) {
	next := state.Clone()

	messages := []llm.Message{
		{Role: "system", Content: systemPromptSynthesizer},
		{Role: "user", Content: s.buildPrompt(next)},
	}

	toolDefs := s.tools.Definitions()
	native := s.llm.SupportsNativeToolCalling()

	var finalContent string
	maxIterations := next.MaxToolIterations
	if maxIterations <= 0 {
		maxIterations = 3
	}

	settled := false
	for next.ToolIteration < maxIterations {
		resp, err := s.llm.Complete(ctx, &llm.CompletionRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		})
		if err != nil {
			next.Error = fmt.Errorf("synthesis LLM call failed: %w", err)
			next.Answer = "I was unable to generate an answer due to a model error."
			next.Confidence = 0.0
			next.ConfidenceReason = "LLM call failed"
			return next, nil
		}

		invocations := toInvocations(resp, native)
		messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls})
		finalContent = resp.Content

		if len(invocations) == 0 {
			settled = true
			break
		}

		results := s.runTools(invocations)
		for i, inv := range invocations {
			next.AddToolCall(inv.Name, inv.Args, results[i])
			resultJSON, err := json.Marshal(results[i])
			if err != nil {
				resultJSON = []byte(`{"error":"failed to encode tool result"}`)
			}
			messages = append(messages, llm.Message{Role: "tool", ToolCallID: inv.ID, Content: string(resultJSON)})
		}

		next.ToolIteration++
	}

	// The budget ran out on a turn that still wanted another tool call.
	// finalContent currently holds a tool-call directive, not an answer;
	// ask once more, tools withheld, so the model folds the tool results
	// already in messages into a real answer instead of leaving the
	// directive text as the final output.
	if !settled {
		resp, err := s.llm.Complete(ctx, &llm.CompletionRequest{
			Messages:    append(messages, llm.Message{Role: "user", Content: "You have reached the tool-call limit. Give your final answer now, using only the tool results above, without requesting any further tool calls."}),
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		})
		if err != nil {
			next.Error = fmt.Errorf("synthesis LLM call failed: %w", err)
			next.Answer = "I was unable to generate an answer due to a model error."
			next.Confidence = 0.0
			next.ConfidenceReason = "LLM call failed"
			return next, nil
		}
		finalContent = resp.Content
	}

	answer, confidence, reason := extractConfidence(finalContent)
	next.Answer = injectSymbolicVerdicts(answer, next.SymbolicComparisons)
	next.Confidence = confidence
	next.ConfidenceReason = reason

	if len(next.ContextChunks) == 0 && next.Confidence > 0.4 {
		next.Confidence = 0.4
		next.ConfidenceReason = "no context retrieved; confidence capped"
	}

	return next, nil
}

// Name identifies this node in the reasoning graph.
func (s *Synthesizer) Name() string { return "synthesize" }

func (s *Synthesizer) runTools(invocations []tools.Invocation) []map[string]interface{} {
	results := make([]map[string]interface{}, len(invocations))

	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(i int, inv tools.Invocation) {
			defer wg.Done()
			results[i] = s.tools.Call(inv.Name, inv.Args)
		}(i, inv)
	}
	wg.Wait()

	return results
}

func toInvocations(resp *llm.CompletionResponse, native bool) []tools.Invocation {
	if native && len(resp.ToolCalls) > 0 {
		invocations := make([]tools.Invocation, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			var args map[string]interface{}
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				args = map[string]interface{}{}
			}
			invocations = append(invocations, tools.Invocation{ID: tc.ID, Name: tc.Name, Args: args})
		}
		return invocations
	}
	return tools.ParseDirectives(resp.Content)
}

func (s *Synthesizer) buildPrompt(state *workflow.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", state.Question)

	for i, chunk := range state.ContextChunks {
		fmt.Fprintf(&b, "[Source %d: %s]\n%s\n", i+1, chunk.Source, chunk.Text)
		if chunk.NumericRuleHint != "" {
			fmt.Fprintf(&b, "(this passage bears on the cached threshold %q)\n", chunk.NumericRuleHint)
		}
		b.WriteString("\n")
	}

	if len(state.SymbolicComparisons) > 0 {
		b.WriteString("Pre-computed comparisons — already verified exactly, cite these, never recompute:\n")
		for _, c := range state.SymbolicComparisons {
			if !c.NeedsLookup {
				fmt.Fprintf(&b, "- %s\n", c.Verdict)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Answer the question using only the sources above, citing them by number. Use a tool for any arithmetic rather than computing it yourself. If a needed limit is not in the sources, call check_threshold rather than guessing it.\n\n")
	b.WriteString("End your answer with a line in the form:\nCONFIDENCE: <HIGH|MEDIUM|LOW or 0..1> — <one-sentence reason>")

	return b.String()
}

var confidencePattern = regexp.MustCompile(`(?i)CONFIDENCE(?:_LEVEL)?:\s*(HIGH|MEDIUM|LOW|[0-9.]+)`)

func extractConfidence(content string) (answer string, confidence float64, reason string) {
	loc := confidencePattern.FindStringSubmatchIndex(content)
	if loc != nil {
		answer = strings.TrimSpace(content[:loc[0]])
		token := content[loc[2]:loc[3]]
		confidence = mapConfidenceToken(token)

		reason = strings.TrimSpace(content[loc[1]:])
		reason = strings.TrimLeft(reason, "—-: ")
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = "extracted from structured confidence marker"
		}
		return answer, confidence, reason
	}

	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "insufficient") || strings.Contains(lower, "unclear"):
		return content, 0.3, "hedging language indicates low confidence"
	case strings.Contains(lower, "may") || strings.Contains(lower, "possibly"):
		return content, 0.5, "hedging language indicates moderate confidence"
	default:
		return content, 0.6, "no explicit confidence marker found"
	}
}

func mapConfidenceToken(token string) float64 {
	switch strings.ToUpper(token) {
	case "HIGH":
		return 0.9
	case "MEDIUM":
		return 0.6
	case "LOW":
		return 0.3
	default:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0.6
		}
		return v
	}
}

func injectSymbolicVerdicts(answer string, comparisons []workflow.SymbolicComparison) string {
	var verdicts []string
	for _, c := range comparisons {
		if !c.NeedsLookup && c.Verdict != "" {
			verdicts = append(verdicts, c.Verdict)
		}
	}
	if len(verdicts) == 0 {
		return answer
	}
	return answer + "\n\n" + strings.Join(verdicts, "\n")
}

const systemPromptSynthesizer = `You are a UK debt-advice assistant answering questions strictly from the supplied manual excerpts.

Never state a numeric eligibility limit you did not read from a source or compute via a tool. If a figure is missing, say so and call check_threshold rather than estimating.

Always end your answer with a CONFIDENCE line as instructed.`
