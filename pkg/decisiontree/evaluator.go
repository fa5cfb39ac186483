// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package decisiontree

import (
	"fmt"
	"math"
)

// Evaluate walks tree against clientValues and produces a full Result:
// per-criterion verdicts, near-misses with remediation strategies, an
// overall Verdict, and a confidence score.
func Evaluate(tree *Tree, clientValues map[string]float64) *Result {
	status, criteria, nearMisses, path := evaluateNode(tree.Root, clientValues, "root")

	verdict := mapVerdict(status, criteria)
	recommendations := buildRecommendations(nearMisses, verdict)

	return &Result{
		Verdict:         verdict,
		Criteria:        criteria,
		NearMisses:      nearMisses,
		Recommendations: recommendations,
		Confidence:      computeConfidence(criteria),
		Path:            path,
	}
}

func evaluateNode(node *Node, clientValues map[string]float64, label string) (status string, criteria []Criterion, nearMisses []NearMiss, path []string) {
	switch node.Kind {
	case KindCondition:
		return evaluateCondition(node, clientValues, label)
	case KindRuleAnd:
		return evaluateRule(node, clientValues, label, combineAnd)
	case KindRuleOr:
		return evaluateRule(node, clientValues, label, combineOr)
	case KindOutcome:
		return node.OutcomeLabel, nil, nil, []string{label, node.OutcomeLabel}
	default:
		return string(StatusUnknown), nil, nil, []string{label}
	}
}

func evaluateCondition(node *Node, clientValues map[string]float64, label string) (string, []Criterion, []NearMiss, []string) {
	path := []string{label}

	value, has := clientValues[node.Variable]
	if !has {
		criterion := Criterion{
			Criterion:      node.Variable,
			ThresholdName:  node.ThresholdName,
			ThresholdValue: node.Threshold,
			HasClientValue: false,
			Status:         StatusUnknown,
			Operator:       node.Operator,
			Explanation:    fmt.Sprintf("no client value supplied for %s", node.Variable),
		}
		return string(StatusUnknown), []Criterion{criterion}, nil, path
	}

	gap := math.Abs(node.Threshold - value)
	var status Status
	switch {
	case apply(value, node.Operator, node.Threshold):
		status = StatusEligible
	case gap <= node.Tolerance:
		status = StatusNearMiss
	default:
		status = StatusNotEligible
	}

	criterion := Criterion{
		Criterion:      node.Variable,
		ThresholdName:  node.ThresholdName,
		ThresholdValue: node.Threshold,
		ClientValue:    value,
		HasClientValue: true,
		Status:         status,
		Gap:            gap,
		Operator:       node.Operator,
		Explanation:    explain(node, value, status, gap),
	}

	var nearMisses []NearMiss
	if status == StatusNearMiss {
		nearMisses = []NearMiss{{
			ThresholdName: node.ThresholdName,
			Tolerance:     node.Tolerance,
			Gap:           gap,
			Strategies:    buildStrategies(node, gap),
		}}
	}

	return string(status), []Criterion{criterion}, nearMisses, path
}

func evaluateRule(node *Node, clientValues map[string]float64, label string, combine func([]string) string) (string, []Criterion, []NearMiss, []string) {
	var criteria []Criterion
	var nearMisses []NearMiss
	var path []string
	statuses := make([]string, 0, len(node.Children))

	for i, child := range node.Children {
		childLabel := fmt.Sprintf("%s[%d]", label, i)
		status, childCriteria, childNearMisses, childPath := evaluateNode(child, clientValues, childLabel)
		statuses = append(statuses, status)
		criteria = append(criteria, childCriteria...)
		nearMisses = append(nearMisses, childNearMisses...)
		path = append(path, childPath...)
	}

	return combine(statuses), criteria, nearMisses, append([]string{label}, path...)
}

func apply(value float64, op Operator, threshold float64) bool {
	switch op {
	case OpLessOrEqual:
		return value <= threshold
	case OpLess:
		return value < threshold
	case OpGreaterOrEqual:
		return value >= threshold
	case OpGreater:
		return value > threshold
	case OpEqual:
		return value == threshold
	case OpNotEqual:
		return value != threshold
	default:
		return false
	}
}

// combineAnd implements RULE_AND: eligible iff every child is eligible,
// not_eligible iff any child is not_eligible, otherwise requires_review.
func combineAnd(statuses []string) string {
	allEligible := true
	anyNotEligible := false
	for _, status := range statuses {
		if status != string(StatusEligible) {
			allEligible = false
		}
		if status == string(StatusNotEligible) {
			anyNotEligible = true
		}
	}
	switch {
	case allEligible:
		return string(StatusEligible)
	case anyNotEligible:
		return string(StatusNotEligible)
	default:
		return "requires_review"
	}
}

// combineOr implements RULE_OR: eligible if any child is eligible,
// near_miss if none are eligible but one is close, otherwise not_eligible.
func combineOr(statuses []string) string {
	anyEligible := false
	anyNearMiss := false
	for _, status := range statuses {
		if status == string(StatusEligible) {
			anyEligible = true
		}
		if status == string(StatusNearMiss) {
			anyNearMiss = true
		}
	}
	switch {
	case anyEligible:
		return string(StatusEligible)
	case anyNearMiss:
		return string(StatusNearMiss)
	default:
		return string(StatusNotEligible)
	}
}

// mapVerdict derives the overall Verdict from the root rule's combined
// status. A tree where every criterion was unknown (no client values
// supplied at all) is reported as incomplete_information rather than
// requires_review, since nothing was actually evaluated.
func mapVerdict(rootStatus string, criteria []Criterion) Verdict {
	if len(criteria) > 0 {
		allUnknown := true
		for _, c := range criteria {
			if c.Status != StatusUnknown {
				allUnknown = false
				break
			}
		}
		if allUnknown {
			return VerdictIncompleteInformation
		}
	}

	switch rootStatus {
	case string(StatusEligible):
		return VerdictEligible
	case string(StatusNotEligible):
		return VerdictNotEligible
	default:
		return VerdictRequiresReview
	}
}

// computeConfidence starts at 1.0 and loses 0.1 for every criterion that
// could not be evaluated, floored at 0.3.
func computeConfidence(criteria []Criterion) float64 {
	unknown := 0
	for _, c := range criteria {
		if c.Status == StatusUnknown {
			unknown++
		}
	}
	// Counting in tenths keeps 0.9, 0.8, 0.7, ... exact; subtracting 0.1
	// repeatedly would accumulate float64 rounding error.
	confidence := float64(10-unknown) / 10
	if confidence < 0.3 {
		confidence = 0.3
	}
	return confidence
}

func buildStrategies(node *Node, gap float64) []Strategy {
	action := fmt.Sprintf("reduce %s by %s", node.Variable, formatGBP(gap))
	return []Strategy{{
		Description: fmt.Sprintf("Reduce %s by %s to bring it within the %s limit", node.Variable, formatGBP(gap), node.ThresholdName),
		Actions:     []string{action},
		Likelihood:  LikelihoodHigh,
	}}
}

func buildRecommendations(nearMisses []NearMiss, verdict Verdict) []Recommendation {
	var recommendations []Recommendation

	for _, nearMiss := range nearMisses {
		for _, strategy := range nearMiss.Strategies {
			priority := PriorityMedium
			if strategy.Likelihood == LikelihoodHigh {
				priority = PriorityHigh
			}
			recommendations = append(recommendations, Recommendation{
				Type:     "near_miss_remediation",
				Priority: priority,
				Action:   strategy.Description,
				Steps:    strategy.Actions,
			})
		}
	}

	if verdict == VerdictNotEligible {
		recommendations = append(recommendations, Recommendation{
			Type:     "alternative_route",
			Priority: PriorityMedium,
			Action:   "review eligibility for an alternative debt solution given current figures exceed this route's limits",
			Steps: []string{
				"compare eligibility criteria for bankruptcy and an IVA",
				"speak to a debt adviser about which alternative route fits",
			},
		})
	}

	return recommendations
}

func explain(node *Node, value float64, status Status, gap float64) string {
	switch status {
	case StatusEligible:
		return fmt.Sprintf("%s of %s is within the %s limit of %s (margin %s)",
			node.Variable, formatGBP(value), node.ThresholdName, formatGBP(node.Threshold), formatGBP(gap))
	case StatusNearMiss:
		return fmt.Sprintf("%s of %s exceeds the %s limit of %s by %s, within the %s tolerance",
			node.Variable, formatGBP(value), node.ThresholdName, formatGBP(node.Threshold), formatGBP(gap), formatGBP(node.Tolerance))
	case StatusNotEligible:
		return fmt.Sprintf("%s of %s exceeds the %s limit of %s by %s",
			node.Variable, formatGBP(value), node.ThresholdName, formatGBP(node.Threshold), formatGBP(gap))
	default:
		return fmt.Sprintf("no client value supplied for %s", node.Variable)
	}
}
