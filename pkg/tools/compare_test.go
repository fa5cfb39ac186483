// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package tools

import "testing"

func TestCompareNumbers(t *testing.T) {
	result := CompareNumbers("£51,000", "£50,000", ">")
	if result["result"] != true {
		t.Errorf("CompareNumbers() result = %v, want true", result["result"])
	}
	if result["difference"] != 1000.0 {
		t.Errorf("CompareNumbers() difference = %v, want 1000", result["difference"])
	}
}

func TestCompareNumbersInvalidOperand(t *testing.T) {
	result := CompareNumbers("not-a-number", "£50,000", ">")
	if _, isErr := result["error"]; !isErr {
		t.Errorf("CompareNumbers() = %v, want an error result", result)
	}
}

func TestSumNumbers(t *testing.T) {
	result := SumNumbers([]float64{10, 20, 30})
	if result["sum"] != 60.0 {
		t.Errorf("SumNumbers() sum = %v, want 60", result["sum"])
	}
	if result["average"] != 20.0 {
		t.Errorf("SumNumbers() average = %v, want 20", result["average"])
	}
	if result["count"] != 3 {
		t.Errorf("SumNumbers() count = %v, want 3", result["count"])
	}
}

func TestSumNumbersEmptyIsError(t *testing.T) {
	result := SumNumbers(nil)
	if _, isErr := result["error"]; !isErr {
		t.Errorf("SumNumbers(nil) = %v, want an error result", result)
	}
}

func TestExtractNumbersFromText(t *testing.T) {
	result := ExtractNumbersFromText("debts: £2,450 to Bank A, £1,550 to Card B")
	numbers := result["numbers"].([]float64)
	if len(numbers) != 2 {
		t.Fatalf("ExtractNumbersFromText() found %d numbers, want 2", len(numbers))
	}
	if numbers[0] != 2450 || numbers[1] != 1550 {
		t.Errorf("ExtractNumbersFromText() numbers = %v, want [2450 1550]", numbers)
	}
}
