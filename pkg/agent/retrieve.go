// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package agent

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/cespare/xxhash/v2"

	"debt-advice-engine/pkg/knowledge"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/tools"
	"debt-advice-engine/pkg/workflow"
)

const maxRetrievalQueries = 3

// Retriever runs the suggested search queries against the knowledge
// store and assembles a deduplicated context for synthesis.
type Retriever struct {
	store      knowledge.Store
	thresholds *threshold.Cache
}

// NewRetriever creates a Retriever over store, annotating retrieved
// chunks with hints from thresholds when the chunk mentions a cached
// numeric limit. thresholds may be nil to skip annotation.
func NewRetriever(store knowledge.Store, thresholds *threshold.Cache) *Retriever {
	return &Retriever{store: store, thresholds: thresholds}
}

// Execute runs each of state.SuggestedSearches against the store,
// skipping failed queries and deduplicating results by chunk ID (or,
// absent one, by a content hash). A query failure is logged and
// skipped; a total failure leaves ContextChunks empty so the caller's
// confidence cap applies downstream.
func (r *Retriever) Execute(ctx context.Context, state *workflow.State) (*workflow.State, error) {
	next := state.Clone()

	queries := state.SuggestedSearches
	if len(queries) == 0 {
		queries = []string{state.Question}
	}
	if len(queries) > maxRetrievalQueries {
		queries = queries[:maxRetrievalQueries]
	}

	seen := make(map[string]bool)
	var chunks []workflow.ContextChunk
	var sources []string
	sourceSeen := make(map[string]bool)
	failures := 0

	for _, q := range queries {
		results, err := r.store.SimilaritySearch(ctx, q, state.TopK)
		if err != nil {
			log.Printf("WARN: retrieval query %q failed: %v", q, err)
			failures++
			continue
		}

		for _, c := range results {
			id := c.ChunkID
			if id == "" {
				id = fmt.Sprintf("%x", xxhash.Sum64String(c.Text))
			}
			if seen[id] {
				continue
			}
			seen[id] = true

			chunks = append(chunks, workflow.ContextChunk{
				Text:            c.Text,
				Source:          c.Source,
				ChunkID:         id,
				Metadata:        c.Metadata,
				NumericRuleHint: r.numericRuleHint(c.Text),
			})

			if c.Source != "" && !sourceSeen[c.Source] {
				sourceSeen[c.Source] = true
				sources = append(sources, c.Source)
			}
		}
	}

	if failures == len(queries) {
		log.Printf("WARN: all %d retrieval queries failed; proceeding with empty context", len(queries))
	}

	next.ContextChunks = chunks
	next.Sources = sources
	return next, nil
}

// Name identifies this node in the reasoning graph.
func (r *Retriever) Name() string { return "retrieve" }

// numericRuleHint tags a chunk with the name of any cached threshold
// whose amount appears in the chunk's text, so synthesis knows a
// retrieved passage bears on a numeric eligibility rule.
func (r *Retriever) numericRuleHint(text string) string {
	if r.thresholds == nil {
		return ""
	}

	extracted := tools.ExtractNumbersFromText(text)
	numbers, ok := extracted["numbers"].([]float64)
	if !ok || len(numbers) == 0 {
		return ""
	}

	for name, entry := range r.thresholds.Snapshot() {
		for _, n := range numbers {
			if math.Abs(n-entry.Amount) <= 0.01 {
				return name
			}
		}
	}
	return ""
}
