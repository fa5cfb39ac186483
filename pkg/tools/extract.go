// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`[£$]?\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?`)

// ExtractNumbersFromText regex-extracts currency and plain numeric
// literals from free text and summarizes them.
func ExtractNumbersFromText(text string) map[string]interface{} {
	matches := numberPattern.FindAllString(text, -1)

	numbers := make([]float64, 0, len(matches))
	for _, m := range matches {
		cleaned := strings.TrimPrefix(strings.TrimPrefix(m, "£"), "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, value)
	}

	if len(numbers) == 0 {
		return map[string]interface{}{"numbers": numbers, "count": 0}
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

	return map[string]interface{}{
		"numbers": numbers,
		"count":   len(numbers),
		"sum":     sum,
		"average": sum / float64(len(numbers)),
		"min":     min,
		"max":     max,
	}
}
