// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import (
	"math"
	"sort"
)

// minConvenientSumAmount excludes amounts below this from find_convenient_sums
// subsets. Very small figures land near a round target by chance too
// often to be an interesting pattern.
const minConvenientSumAmount = 10.0

// roundSteps are the granularities a sum is checked against: is this
// amount close to *some* multiple of 100, 500, 1k, 5k, or 10k, not just
// to one of those numbers literally.
var roundSteps = []float64{100, 500, 1000, 5000, 10000}

// FindConvenientSums enumerates pairs, triples, and the grand total of
// numbers and reports any subset whose sum lands within targetTolerance
// of a round figure — a heuristic for spotting suspiciously tidy debts.
func FindConvenientSums(numbers []float64, targetTolerance float64) map[string]interface{} {
	if targetTolerance <= 0 {
		targetTolerance = 50
	}

	filtered := make([]float64, 0, len(numbers))
	for _, n := range numbers {
		if n >= minConvenientSumAmount {
			filtered = append(filtered, n)
		}
	}

	var matches []map[string]interface{}
	matches = append(matches, matchRoundTargets(filtered, targetTolerance, sumAll(filtered))...)

	for i := 0; i < len(filtered); i++ {
		for j := i + 1; j < len(filtered); j++ {
			pairSum := filtered[i] + filtered[j]
			matches = append(matches, matchRoundTargets([]float64{filtered[i], filtered[j]}, targetTolerance, pairSum)...)

			for k := j + 1; k < len(filtered); k++ {
				tripleSum := pairSum + filtered[k]
				matches = append(matches, matchRoundTargets([]float64{filtered[i], filtered[j], filtered[k]}, targetTolerance, tripleSum)...)
			}
		}
	}

	return map[string]interface{}{
		"patterns": matches,
		"count":    len(matches),
	}
}

func sumAll(numbers []float64) float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return total
}

func matchRoundTargets(subset []float64, tolerance, sum float64) []map[string]interface{} {
	seen := map[float64]bool{}
	var matches []map[string]interface{}
	for _, step := range roundSteps {
		nearest := math.Round(sum/step) * step
		if nearest == 0 || seen[nearest] {
			continue
		}
		diff := math.Abs(sum - nearest)
		if diff <= tolerance {
			seen[nearest] = true
			matches = append(matches, map[string]interface{}{
				"subset":     append([]float64(nil), subset...),
				"sum":        sum,
				"target":     nearest,
				"difference": diff,
			})
		}
	}
	return matches
}

// DetectPatterns finds duplicate values, near-equal values (within 5%),
// and integer-multiple relations among numbers.
func DetectPatterns(numbers []float64) map[string]interface{} {
	seen := map[float64]int{}
	for _, n := range numbers {
		seen[n]++
	}

	duplicates := make([]float64, 0)
	for n, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, n)
		}
	}
	sort.Float64s(duplicates)

	var closeValues [][]float64
	var multiples [][]float64

	for i := 0; i < len(numbers); i++ {
		for j := i + 1; j < len(numbers); j++ {
			a, b := numbers[i], numbers[j]
			if a == 0 || b == 0 {
				continue
			}
			ratio := a / b
			if ratio > 0.95 && ratio < 1.05 {
				closeValues = append(closeValues, []float64{a, b})
			}

			for _, pair := range [][2]float64{{a, b}, {b, a}} {
				r := pair[0] / pair[1]
				if r >= 2 && math.Abs(r-math.Round(r)) < 0.01 {
					multiples = append(multiples, []float64{pair[0], pair[1]})
				}
			}
		}
	}

	return map[string]interface{}{
		"duplicates":   duplicates,
		"close_values": closeValues,
		"multiples":    multiples,
	}
}
