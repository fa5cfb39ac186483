// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package decisiontree

import (
	"fmt"
	"strconv"
	"strings"
)

// formatGBP renders amount as a grouped sterling figure for explanations
// and recommendation text. Kept local rather than imported from
// pkg/threshold, which already carries its own copy for the same reason
// (pkg/tools sits between the two and must not create an import cycle).
func formatGBP(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	grouped := groupThousands(strconv.FormatInt(whole, 10))
	formatted := fmt.Sprintf("£%s.%02d", grouped, cents)
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}
