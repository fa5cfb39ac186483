// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import "testing"

func TestFindConvenientSums(t *testing.T) {
	// £2,450 + £1,550 = £4,000; all four sum to £10,000.
	numbers := []float64{2450, 1550, 1000, 5000}

	result := FindConvenientSums(numbers, 50)
	patterns, ok := result["patterns"].([]map[string]interface{})
	if !ok {
		t.Fatalf("FindConvenientSums() patterns type = %T, want []map[string]interface{}", result["patterns"])
	}

	var sawPairOf4000, sawTotalOf10000 bool
	for _, p := range patterns {
		target := p["target"].(float64)
		sum := p["sum"].(float64)
		subset := p["subset"].([]float64)
		if target == 4000 && sum == 4000 && len(subset) == 2 {
			sawPairOf4000 = true
		}
		if target == 10000 && sum == 10000 && len(subset) == 4 {
			sawTotalOf10000 = true
		}
	}

	if !sawPairOf4000 {
		t.Error("FindConvenientSums() missed the £4,000 pair")
	}
	if !sawTotalOf10000 {
		t.Error("FindConvenientSums() missed the £10,000 total")
	}
}

func TestFindConvenientSumsExcludesSmallAmounts(t *testing.T) {
	result := FindConvenientSums([]float64{5, 95}, 10)
	patterns := result["patterns"].([]map[string]interface{})

	for _, p := range patterns {
		subset := p["subset"].([]float64)
		for _, v := range subset {
			if v < minConvenientSumAmount {
				t.Errorf("FindConvenientSums() included amount %v below the %v floor", v, minConvenientSumAmount)
			}
		}
	}
}

func TestDetectPatternsDuplicatesAndMultiples(t *testing.T) {
	result := DetectPatterns([]float64{100, 100, 200, 50})

	duplicates := result["duplicates"].([]float64)
	if len(duplicates) != 1 || duplicates[0] != 100 {
		t.Errorf("DetectPatterns() duplicates = %v, want [100]", duplicates)
	}

	multiples := result["multiples"].([][]float64)
	if len(multiples) == 0 {
		t.Error("DetectPatterns() expected to find a multiple relation (200 = 4x50 or 2x100)")
	}
}
