// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package decisiontree

import (
	"errors"
	"fmt"

	"debt-advice-engine/pkg/threshold"
)

// ErrIncompleteInformation is returned by BuildTree when a topic's
// threshold set is registered but the cache has not yet populated one
// of the thresholds it needs (e.g. bootstrap has not completed, or the
// manual corpus never stated the limit). Callers should surface this as
// an incomplete_information result rather than treat it as a 0 limit.
var ErrIncompleteInformation = errors.New("decisiontree: required threshold missing from cache")

// topicPrefixes maps a registered topic to the threshold-name prefix used
// to look up its limits in the cache. This mapping is fixed, per spec:
// rebuilding the set of topics requires a code change and restart, not
// a cache update.
var topicPrefixes = map[string]string{
	"dro_eligibility":        "dro",
	"bankruptcy_eligibility": "bankruptcy",
	"iva_eligibility":        "iva",
}

// defaultTolerances gives the fraction-of-threshold tolerance used for
// near-miss detection, keyed by client-value role.
var defaultTolerances = map[string]float64{
	"debt":   0.04,
	"income": 0.10,
	"assets": 0.10,
}

type conditionSpec struct {
	variable      string
	thresholdName string
	toleranceRole string
}

// BuildTree constructs the fixed eligibility tree for topic from the
// current threshold cache contents. Trees are built once at process
// startup; a later cache update does not retroactively change an
// already-built tree.
func BuildTree(topic string, cache *threshold.Cache, toleranceOverrides map[string]float64) (*Tree, error) {
	prefix, ok := topicPrefixes[topic]
	if !ok {
		return nil, fmt.Errorf("unknown eligibility topic %q", topic)
	}

	tolerances := mergeTolerances(toleranceOverrides)

	specs := []conditionSpec{
		{variable: "debt", thresholdName: prefix + "_maximum_debt", toleranceRole: "debt"},
		{variable: "income", thresholdName: prefix + "_income_limit", toleranceRole: "income"},
		{variable: "assets", thresholdName: prefix + "_asset_limit", toleranceRole: "assets"},
	}

	children := make([]*Node, 0, len(specs))
	for _, spec := range specs {
		entry, ok := cache.Lookup(spec.thresholdName)
		if !ok {
			return nil, fmt.Errorf("%w: threshold %q not found in cache for topic %q", ErrIncompleteInformation, spec.thresholdName, topic)
		}
		children = append(children, &Node{
			Kind:          KindCondition,
			Variable:      spec.variable,
			ThresholdName: spec.thresholdName,
			Threshold:     entry.Amount,
			Operator:      OpLessOrEqual,
			Tolerance:     entry.Amount * tolerances[spec.toleranceRole],
		})
	}

	return &Tree{
		Topic: topic,
		Root: &Node{
			Kind:     KindRuleAnd,
			Children: children,
		},
	}, nil
}

// RegisteredTopics returns the fixed topic->tree names this builder supports.
func RegisteredTopics() []string {
	topics := make([]string, 0, len(topicPrefixes))
	for topic := range topicPrefixes {
		topics = append(topics, topic)
	}
	return topics
}

func mergeTolerances(overrides map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(defaultTolerances))
	for role, fraction := range defaultTolerances {
		merged[role] = fraction
	}
	for role, fraction := range overrides {
		merged[role] = fraction
	}
	return merged
}
