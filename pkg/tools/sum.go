// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

// SumNumbers totals numbers and reports basic summary statistics.
func SumNumbers(numbers []float64) map[string]interface{} {
	if len(numbers) == 0 {
		return errResult("no numbers supplied")
	}

	sum := 0.0
	min := numbers[0]
	max := numbers[0]
	for _, n := range numbers {
		sum += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	average := sum / float64(len(numbers))

	return map[string]interface{}{
		"sum":               sum,
		"average":           average,
		"count":             len(numbers),
		"min":               min,
		"max":               max,
		"formatted_sum":     formatGBP(sum),
		"formatted_average": formatGBP(average),
	}
}
