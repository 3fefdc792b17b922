package verify

import "github.com/sigil-ledger/sigil/internal/state"

// preamble builds the canonical three-fact asset preamble with the
// given precision. Ticker and name payloads are placeholders; the
// checkers only look at tags and the precision value.
func preamble(precision uint64) []state.Value {
	return []state.Value{
		state.Scalar(state.TagTicker, 0),
		state.Scalar(state.TagName, 0),
		state.Scalar(state.TagPrecision, precision),
	}
}

// amounts builds plain fungible cells, one per value.
func amounts(vals ...uint64) []state.Value {
	cells := make([]state.Value, len(vals))
	for i, v := range vals {
		cells[i] = state.Scalar(state.TagAmount, v)
	}
	return cells
}

// tokenSpec builds a declared token fact.
func tokenSpec(id uint64) state.Value {
	return state.Scalar(state.TagTokenSpec, id)
}

// alloc builds a token allocation cell.
func alloc(amount, tokenID uint64) state.Value {
	return state.Allocation(amount, tokenID)
}

// fungibleGenesis builds a well-formed fungible genesis which tests
// then perturb.
func fungibleGenesis(precision, supply uint64, outs ...uint64) *state.Operation {
	return &state.Operation{
		GlobalOut:       append(preamble(precision), state.Scalar(state.TagSupply, supply)),
		DestructibleOut: amounts(outs...),
	}
}

// transferOp builds a fungible transfer.
func transferOp(ins, outs []uint64) *state.Operation {
	return &state.Operation{
		DestructibleIn:  amounts(ins...),
		DestructibleOut: amounts(outs...),
	}
}
