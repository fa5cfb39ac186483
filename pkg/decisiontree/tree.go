// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package decisiontree evaluates criterion trees (DRO/IVA/bankruptcy)
// against client financial values, producing a per-criterion verdict,
// near-miss detection, and remediation recommendations.
package decisiontree

// Kind identifies the role a Node plays in a Tree.
type Kind string

const (
	KindCondition Kind = "CONDITION"
	KindRuleAnd   Kind = "RULE_AND"
	KindRuleOr    Kind = "RULE_OR"
	KindOutcome   Kind = "OUTCOME"
)

// Operator is a comparison operator used by a CONDITION node.
type Operator string

const (
	OpLessOrEqual    Operator = "<="
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpGreater        Operator = ">"
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
)

// Node is one element of a DecisionTree: a CONDITION leaf comparing a
// client value against a threshold, a RULE_AND/RULE_OR combinator over
// children, or an OUTCOME leaf carrying a terminal verdict label.
type Node struct {
	Kind Kind

	// CONDITION fields.
	Variable      string // key into client values, e.g. "debt"
	ThresholdName string // normalized name looked up in the threshold cache
	Threshold     float64
	Operator      Operator
	Tolerance     float64

	// RULE_AND / RULE_OR fields.
	Children []*Node

	// OUTCOME fields.
	OutcomeLabel string
}

// Tree is a rooted decision tree for one eligibility topic.
type Tree struct {
	Topic string
	Root  *Node
}

// Status is the per-criterion (or per-rule) evaluation outcome.
type Status string

const (
	StatusEligible    Status = "eligible"
	StatusNotEligible Status = "not_eligible"
	StatusNearMiss    Status = "near_miss"
	StatusUnknown     Status = "unknown"
)

// Verdict is the overall tree-evaluation outcome.
type Verdict string

const (
	VerdictEligible              Verdict = "eligible"
	VerdictNotEligible           Verdict = "not_eligible"
	VerdictRequiresReview        Verdict = "requires_review"
	VerdictIncompleteInformation Verdict = "incomplete_information"
)

// Likelihood qualifies how promising a remediation Strategy is.
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "high"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodLow    Likelihood = "low"
)

// Priority qualifies a Recommendation's urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Criterion reports one CONDITION node's evaluation.
type Criterion struct {
	Criterion      string
	ThresholdName  string
	ThresholdValue float64
	ClientValue    float64
	HasClientValue bool
	Status         Status
	Gap            float64
	Operator       Operator
	Explanation    string
}

// Strategy is one way a client could close a near-miss gap.
type Strategy struct {
	Description string
	Actions     []string
	Likelihood  Likelihood
}

// NearMiss reports a criterion that failed strictly but within tolerance.
type NearMiss struct {
	ThresholdName string
	Tolerance     float64
	Gap           float64
	Strategies    []Strategy
}

// Recommendation is an actionable next step derived from a near-miss.
type Recommendation struct {
	Type     string
	Priority Priority
	Action   string
	Steps    []string
}

// Result is the full output of evaluating a Tree against client values.
type Result struct {
	Verdict         Verdict
	Criteria        []Criterion
	NearMisses      []NearMiss
	Recommendations []Recommendation
	Confidence      float64
	Path            []string
}
