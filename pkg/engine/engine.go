// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"debt-advice-engine/pkg/audit"
	"debt-advice-engine/pkg/decisiontree"
	"debt-advice-engine/pkg/knowledge"
	"debt-advice-engine/pkg/llm"
	"debt-advice-engine/pkg/threshold"
	"debt-advice-engine/pkg/tools"
	"debt-advice-engine/pkg/workflow"
)

// Engine owns the shared dependencies of the agent graph and exposes
// the two operations the surrounding application calls: AnswerQuery
// and EvaluateEligibility.
type Engine struct {
	reasoningLLM llm.Provider
	fastLLM      llm.Provider
	store        knowledge.Store
	cache        *threshold.Cache
	registry     *tools.Registry
	trees        map[string]*decisiontree.Tree
	graph        *workflow.Graph
	auditStore   *audit.Store
	snapshot     *threshold.RedisSnapshotStore
	defaults     Options
}

// Dependencies collects the wired components an Engine needs.
// ReasoningLLM is required; FastLLM, AuditStore, Snapshot may be left nil.
type Dependencies struct {
	ReasoningLLM llm.Provider
	FastLLM      llm.Provider
	Store        knowledge.Store
	Cache        *threshold.Cache
	AuditStore   *audit.Store

	// Snapshot, when set, restores the threshold cache from Redis
	// before the initial decision trees are built, and is handed to
	// Bootstrap so a later extraction pass persists its results.
	Snapshot *threshold.RedisSnapshotStore
}

// New constructs an Engine from deps and default options, building the
// initial set of decision trees the cache can currently support and
// the reasoning graph those trees and the rest of deps feed into.
func New(deps Dependencies, defaults Options) (*Engine, error) {
	if deps.ReasoningLLM == nil {
		return nil, fmt.Errorf("engine: ReasoningLLM is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("engine: Store is required")
	}
	if deps.Cache == nil {
		deps.Cache = threshold.NewCache()
	}

	// A restored snapshot lets the freshly built decision trees serve
	// answers immediately, rather than reporting needs_lookup until
	// Bootstrap's extraction pass completes. New has no ctx parameter,
	// so this one-shot startup round trip uses a background context,
	// same as NewCache's unconditional zero-value construction above.
	if deps.Snapshot != nil {
		if err := deps.Snapshot.Load(context.Background(), deps.Cache); err != nil {
			log.Printf("WARN: engine: threshold snapshot restore failed: %v", err)
		}
	}

	defaults = applyDefaults(defaults)
	registry := tools.NewRegistry(deps.Cache)
	trees := buildTrees(deps.Cache, defaults.ToleranceOverrides)

	graph, err := buildGraph(deps.ReasoningLLM, deps.Store, deps.Cache, registry, trees)
	if err != nil {
		return nil, err
	}

	return &Engine{
		reasoningLLM: deps.ReasoningLLM,
		fastLLM:      deps.FastLLM,
		store:        deps.Store,
		cache:        deps.Cache,
		registry:     registry,
		trees:        trees,
		graph:        graph,
		auditStore:   deps.AuditStore,
		snapshot:     deps.Snapshot,
		defaults:     defaults,
	}, nil
}

// RefreshTrees rebuilds every registered topic's decision tree against
// the engine's current threshold cache, in place, so a running tree_eval
// node picks up a newer cache without the graph being rebuilt. Call
// this after Bootstrap populates or updates the cache.
func (e *Engine) RefreshTrees() {
	fresh := buildTrees(e.cache, e.defaults.ToleranceOverrides)
	for topic := range e.trees {
		delete(e.trees, topic)
	}
	for topic, tree := range fresh {
		e.trees[topic] = tree
	}
}

// Bootstrap runs the cache-bootstrap query against the knowledge store
// and fast LLM to (re)populate the threshold cache from the manual
// corpus, then refreshes the decision trees built from it. extractorLLM
// is typically the engine's fast, cheap LLM rather than its reasoning
// LLM, since extraction is a simple structured-output task.
func (e *Engine) Bootstrap(ctx context.Context, extractorLLM llm.Provider) error {
	if extractorLLM == nil {
		extractorLLM = e.fastLLM
	}
	if extractorLLM == nil {
		return fmt.Errorf("engine: bootstrap requires a fast or reasoning LLM provider")
	}

	query := e.defaults.CacheBootstrapQuery
	if query == "" {
		query = defaultBootstrapQuery
	}

	err := threshold.Bootstrap(ctx, e.store, extractorLLM, e.cache, &threshold.BootstrapConfig{
		Query:    query,
		TopK:     e.defaults.TopK,
		Snapshot: e.snapshot,
	})
	if err != nil {
		return fmt.Errorf("engine: bootstrap failed: %w", err)
	}

	log.Printf("engine: bootstrap populated %d cached thresholds", e.cache.Len())
	e.RefreshTrees()
	return nil
}

func (e *Engine) merge(opts Options) Options {
	merged := e.defaults
	if opts.Model != "" {
		merged.Model = opts.Model
	}
	if opts.TopK > 0 {
		merged.TopK = opts.TopK
	}
	if opts.MaxIterations > 0 {
		merged.MaxIterations = opts.MaxIterations
	}
	merged.ShowReasoning = opts.ShowReasoning
	merged.IncludeDiagram = opts.IncludeDiagram
	if opts.QueryTimeoutMS > 0 {
		merged.QueryTimeoutMS = opts.QueryTimeoutMS
	}
	if opts.LLMTimeoutMS > 0 {
		merged.LLMTimeoutMS = opts.LLMTimeoutMS
	}
	if opts.SymbolicEnabled != nil {
		merged.SymbolicEnabled = opts.SymbolicEnabled
	}
	if opts.CacheBootstrapQuery != "" {
		merged.CacheBootstrapQuery = opts.CacheBootstrapQuery
	}
	if opts.ToleranceOverrides != nil {
		merged.ToleranceOverrides = opts.ToleranceOverrides
	}
	return merged
}

func (e *Engine) run(ctx context.Context, state *workflow.State, opts Options) (*workflow.State, error) {
	executor := workflow.NewExecutor(e.graph, &workflow.ExecutorConfig{
		Timeout: time.Duration(opts.QueryTimeoutMS) * time.Millisecond,
	})

	finalState, err := executor.Execute(ctx, state)
	if err != nil {
		return finalState, classify(err)
	}
	return finalState, nil
}

func (e *Engine) saveAudit(ctx context.Context, state *workflow.State) {
	if e.auditStore == nil || state == nil {
		return
	}
	if err := e.auditStore.Save(ctx, audit.FromState(state)); err != nil {
		log.Printf("WARN: failed to save audit record: %v", err)
	}
}
