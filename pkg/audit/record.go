// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package audit

import (
	"encoding/json"

	"gorm.io/datatypes"

	"debt-advice-engine/pkg/workflow"
)

// FromState builds a Record from a completed query's final state.
// Marshaling failures degrade to a null JSON column rather than
// aborting the audit write — a malformed audit trail is preferable to
// a silently unaudited query.
func FromState(state *workflow.State) *Record {
	record := &Record{
		Question:         state.Question,
		Topic:            state.Topic,
		Complexity:       string(state.Complexity),
		Answer:           state.Answer,
		Confidence:       state.Confidence,
		ConfidenceReason: state.ConfidenceReason,
		Cancelled:        state.Cancelled,
	}

	if state.Error != nil {
		record.ErrorMessage = state.Error.Error()
	}

	record.Sources = marshalOrNull(state.Sources)
	record.ToolCalls = marshalOrNull(state.ToolCalls)
	record.SymbolicComparisons = marshalOrNull(state.SymbolicComparisons)
	if state.TreeResult != nil {
		record.TreeResult = marshalOrNull(state.TreeResult)
	}

	return record
}

func marshalOrNull(v interface{}) datatypes.JSON {
	encoded, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(encoded)
}
