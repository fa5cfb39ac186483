// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import (
	"fmt"
	"strings"

	"debt-advice-engine/pkg/threshold"
)

// CheckThreshold is the critical tool: it never fabricates a limit.
// When thresholdValue is nil, the cached value for thresholdName is
// used; if the cache has no entry, it reports needs_lookup rather than
// guessing.
func CheckThreshold(cache *threshold.Cache, amount float64, thresholdName string, thresholdValue *float64) map[string]interface{} {
	var value float64
	var source string

	if thresholdValue != nil {
		value = *thresholdValue
	} else {
		entry, ok := cache.Lookup(threshold.Normalize(thresholdName))
		if !ok {
			return map[string]interface{}{
				"status":  "needs_lookup",
				"message": fmt.Sprintf("no cached threshold for %q", thresholdName),
			}
		}
		value = entry.Amount
		source = entry.Source
	}

	isLowerBound := strings.Contains(strings.ToLower(thresholdName), "min")

	var qualifies bool
	var difference float64
	if isLowerBound {
		qualifies = amount >= value
		difference = amount - value
	} else {
		qualifies = amount <= value
		difference = value - amount
	}

	headroom := difference
	if headroom < 0 {
		headroom = 0
	}

	percentage := 0.0
	if value != 0 {
		percentage = (amount / value) * 100
	}

	result := map[string]interface{}{
		"qualifies":  qualifies,
		"amount":     amount,
		"threshold":  value,
		"difference": difference,
		"percentage": percentage,
		"headroom":   headroom,
		"advice":     buildThresholdAdvice(qualifies, isLowerBound, amount, value, difference),
	}
	if source != "" {
		result["source"] = source
	}
	return result
}

func buildThresholdAdvice(qualifies, isLowerBound bool, amount, value, difference float64) string {
	switch {
	case qualifies && isLowerBound:
		return fmt.Sprintf("%s meets the minimum of %s, with %s to spare", formatGBP(amount), formatGBP(value), formatGBP(difference))
	case qualifies:
		return fmt.Sprintf("%s is within the limit of %s, with %s of headroom", formatGBP(amount), formatGBP(value), formatGBP(difference))
	case isLowerBound:
		return fmt.Sprintf("%s falls short of the minimum of %s by %s", formatGBP(amount), formatGBP(value), formatGBP(absFloat(difference)))
	default:
		return fmt.Sprintf("%s exceeds the limit of %s by %s", formatGBP(amount), formatGBP(value), formatGBP(absFloat(difference)))
	}
}
