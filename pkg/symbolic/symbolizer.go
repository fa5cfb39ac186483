// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package symbolic implements the four-stage symbolic reasoning
// algorithm: currency and number literals are lifted out of text into
// placeholder symbols before the LLM ever sees them, so eligibility
// arithmetic is always computed exactly in Go rather than guessed by
// the model.
package symbolic

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var literalPattern = regexp.MustCompile(`[£$]\s?\d{1,3}(?:,\d{3})*(?:\.\d+)?|\b\d{1,3}(?:,\d{3})*(?:\.\d+)?\b`)

// Symbol is one currency or numeric literal lifted out of text.
type Symbol struct {
	Name    string // e.g. "[AMOUNT_3]"
	Surface string // original text, e.g. "£51,000"
	Value   float64
	Unit    string // "GBP" or "" for unitless
}

// Symbolizer replaces numeric literals in text with placeholder symbols.
type Symbolizer struct {
	next int
}

// NewSymbolizer creates a Symbolizer whose symbol numbering starts at startIndex.
func NewSymbolizer(startIndex int) *Symbolizer {
	return &Symbolizer{next: startIndex}
}

// Symbolize scans text for currency/number literals and returns the
// text with each replaced by a fresh [AMOUNT_N] placeholder, plus the
// extracted symbols in order of first occurrence.
func (s *Symbolizer) Symbolize(text string) (string, []Symbol) {
	var symbols []Symbol

	replaced := literalPattern.ReplaceAllStringFunc(text, func(match string) string {
		value, unit, ok := parseLiteral(match)
		if !ok {
			return match
		}

		name := fmt.Sprintf("[AMOUNT_%d]", s.next)
		s.next++
		symbols = append(symbols, Symbol{Name: name, Surface: strings.TrimSpace(match), Value: value, Unit: unit})
		return name
	})

	return replaced, symbols
}

func parseLiteral(match string) (value float64, unit string, ok bool) {
	trimmed := strings.TrimSpace(match)

	switch {
	case strings.HasPrefix(trimmed, "£"):
		unit = "GBP"
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "£"))
	case strings.HasPrefix(trimmed, "$"):
		unit = "USD"
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "$"))
	}

	cleaned := strings.ReplaceAll(trimmed, ",", "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, "", false
	}
	return parsed, unit, true
}

// Unify merges context symbols into question symbols: a context symbol
// whose value matches a question symbol within 0.01 absolute reuses
// that symbol's name rather than introducing a duplicate.
func Unify(questionSymbols []Symbol, contextSymbols []Symbol) []Symbol {
	unified := append([]Symbol(nil), questionSymbols...)

	for _, cs := range contextSymbols {
		matched := false
		for _, qs := range questionSymbols {
			if math.Abs(cs.Value-qs.Value) <= 0.01 && cs.Unit == qs.Unit {
				matched = true
				break
			}
		}
		if !matched {
			unified = append(unified, cs)
		}
	}

	return unified
}
