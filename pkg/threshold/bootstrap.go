// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package threshold

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"debt-advice-engine/pkg/knowledge"
	"debt-advice-engine/pkg/llm"
)

const (
	defaultBootstrapQuery = "List all numerical limits, maximums, minimums, thresholds, and fees for debt solutions."
	defaultMinEntries     = 3
	defaultBootstrapTopK  = 10
)

// BootstrapConfig controls the threshold extraction pass.
type BootstrapConfig struct {
	// Query overrides the fixed extraction query sent to the knowledge store.
	Query string

	// MinEntries is the configurable minimum below which Bootstrap still
	// populates the cache but logs a WARN.
	MinEntries int

	// TopK is how many chunks are fed to the LLM for extraction.
	TopK int

	// Snapshot, if set, is restored into cache before extraction runs
	// and saved back after a successful extraction, so a restarting
	// process can serve cached answers immediately instead of reporting
	// needs_lookup until the corpus has been re-queried.
	Snapshot *RedisSnapshotStore
}

type extractedThreshold struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Source string  `json:"source"`
}

// Bootstrap populates cache once at startup by querying the knowledge
// store and asking the LLM to extract a JSON array of named limits.
// Callers are responsible for ensuring Bootstrap runs exactly once per
// process; it performs no idempotence guarding of its own.
func Bootstrap(ctx context.Context, store knowledge.Store, provider llm.Provider, cache *Cache, config *BootstrapConfig) error {
	if config == nil {
		config = &BootstrapConfig{}
	}

	query := config.Query
	if query == "" {
		query = defaultBootstrapQuery
	}
	minEntries := config.MinEntries
	if minEntries <= 0 {
		minEntries = defaultMinEntries
	}
	topK := config.TopK
	if topK <= 0 {
		topK = defaultBootstrapTopK
	}

	if config.Snapshot != nil {
		if err := config.Snapshot.Load(ctx, cache); err != nil {
			log.Printf("WARN: threshold bootstrap: snapshot restore failed: %v", err)
		} else if cache.Len() > 0 {
			log.Printf("engine: restored %d cached thresholds from snapshot", cache.Len())
		}
	}

	chunks, err := store.SimilaritySearch(ctx, query, topK)
	if err != nil {
		return fmt.Errorf("threshold bootstrap: similarity search failed: %w", err)
	}
	if len(chunks) == 0 {
		log.Printf("WARN: threshold bootstrap: no chunks returned for query %q", query)
		return nil
	}

	resp, err := provider.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: bootstrapSystemPrompt},
			{Role: "user", Content: buildBootstrapPrompt(chunks)},
		},
		Temperature: 0,
		MaxTokens:   2000,
	})
	if err != nil {
		return fmt.Errorf("threshold bootstrap: LLM extraction failed: %w", err)
	}

	extracted, err := parseExtractedThresholds(resp.Content)
	if err != nil {
		return fmt.Errorf("threshold bootstrap: failed to parse LLM response: %w", err)
	}

	inserted := 0
	for _, e := range extracted {
		if !isValidAmount(e.Amount) {
			continue
		}
		name := Normalize(e.Name)
		if name == "" {
			continue
		}

		entry := Entry{
			Amount:    e.Amount,
			Formatted: formatAmount(e.Amount, e.Unit),
			Source:    e.Source,
		}

		if existing, ok := cache.Lookup(name); ok && !preferNewEntry(name, existing, entry) {
			continue
		}

		cache.Set(name, entry)
		inserted++
	}

	if inserted < minEntries {
		log.Printf("WARN: threshold bootstrap: extracted %d threshold(s), below minimum %d; missing names will report needs_lookup", inserted, minEntries)
	}

	if config.Snapshot != nil {
		if err := config.Snapshot.Save(ctx, cache); err != nil {
			log.Printf("WARN: threshold bootstrap: snapshot save failed: %v", err)
		}
	}

	return nil
}

func isValidAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

// preferNewEntry implements the tie-break rule for duplicate normalized
// names: a source filename containing the keyword implied by the name
// beats one that doesn't; absent a match on either side, the first-seen
// entry is kept.
func preferNewEntry(name string, existing, candidate Entry) bool {
	keyword := solutionKeyword(name)
	if keyword == "" {
		return false
	}

	existingMatches := strings.Contains(strings.ToLower(existing.Source), keyword)
	candidateMatches := strings.Contains(strings.ToLower(candidate.Source), keyword)
	return candidateMatches && !existingMatches
}

func solutionKeyword(normalizedName string) string {
	for _, kw := range []string{"dro", "iva", "bankruptcy", "dmp"} {
		if strings.Contains(normalizedName, kw) {
			return kw
		}
	}
	return ""
}

func formatAmount(amount float64, unit string) string {
	if strings.EqualFold(unit, "GBP") || unit == "£" {
		return formatGBP(amount)
	}
	return fmt.Sprintf("%.2f", amount)
}

// formatGBP is a minimal local formatter; pkg/tools owns the canonical
// currency formatting used in tool output, kept separate to avoid a
// threshold -> tools import (tools already depends on threshold).
func formatGBP(amount float64) string {
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	return fmt.Sprintf("£%s.%02d", groupThousands(whole), cents)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func buildBootstrapPrompt(chunks []knowledge.Chunk) string {
	var b strings.Builder
	b.WriteString("Extract every numerical limit, maximum, minimum, threshold, or fee mentioned below.\n\n")
	for i, c := range chunks {
		fmt.Fprintf(&b, "[Source %d: %s]\n%s\n\n", i+1, c.Source, c.Text)
	}
	b.WriteString(`Respond with a JSON array only, one object per limit:
[{"name": "DRO maximum debt", "amount": 50000, "unit": "GBP", "source": "dro-manual.pdf"}]`)
	return b.String()
}

const bootstrapSystemPrompt = `You extract numeric eligibility limits from debt-advice manuals. Respond with valid JSON only, no explanation.`

func parseExtractedThresholds(response string) ([]extractedThreshold, error) {
	start := strings.IndexByte(response, '[')
	end := strings.LastIndexByte(response, ']')
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var extracted []extractedThreshold
	if err := json.Unmarshal([]byte(response[start:end+1]), &extracted); err != nil {
		return nil, err
	}
	return extracted, nil
}
