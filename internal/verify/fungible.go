package verify

import "github.com/sigil-ledger/sigil/internal/state"

// fungiblePrecisionWidth bounds the declared decimal precision of a
// fungible asset: it must fit a single byte.
const fungiblePrecisionWidth = 8

type fungible struct {
	// sumWidth is the balance bit width: 64 in production, 8 in the
	// legacy narrow variant.
	sumWidth uint
}

// Fungible returns the verifier for plain fungible assets. sumWidth is
// the balance bit width; use DefaultSumWidth unless the asset descends
// from the legacy narrow lineage.
func Fungible(sumWidth uint) *Verifier {
	f := fungible{sumWidth: sumWidth}
	return wire(KindFungible, f.genesis, f.transfer)
}

// genesis enforces supply-matches-outputs issuance: the three-fact
// preamble, a well-formed circulating-supply fact, outputs summing to
// exactly the declared supply, and nothing else in the global sequence.
func (f fungible) genesis(op *state.Operation) error {
	g := op.Globals()
	precision, err := assetSpec(op, g)
	if err != nil {
		return err
	}
	if !state.E(precision).Fits(fungiblePrecisionWidth) {
		return reject(CodePrecisionOverflow, "precision %d exceeds %d bits", precision, fungiblePrecisionWidth)
	}

	supply, ok := g.Next()
	if !ok || supply.Tag != state.TagSupply {
		return reject(CodeNoIssued, "fourth global fact must be the circulating supply")
	}
	if !supply.V1.IsSet() || supply.V2.IsSet() || supply.V3.IsSet() {
		return reject(CodeNoIssued, "circulating supply fact is malformed")
	}

	issued, err := sumCells(op.Outputs(), state.TagAmount, state.None, f.sumWidth, sideOut)
	if err != nil {
		return err
	}
	if issued != supply.V1.Val() {
		return reject(CodeSumIssueMismatch, "outputs sum to %d, declared supply is %d", issued, supply.V1.Val())
	}

	if !g.Exhausted() {
		return reject(CodeUnexpectedGlobal, "trailing global facts after the supply")
	}
	return nil
}

// transfer enforces aggregate conservation: no global state on either
// side, and the consumed and created amounts balancing exactly.
func (f fungible) transfer(op *state.Operation) error {
	if err := globalAbsent(op); err != nil {
		return err
	}
	in, err := sumCells(op.Inputs(), state.TagAmount, state.None, f.sumWidth, sideIn)
	if err != nil {
		return err
	}
	out, err := sumCells(op.Outputs(), state.TagAmount, state.None, f.sumWidth, sideOut)
	if err != nil {
		return err
	}
	if in != out {
		return reject(CodeSumMismatch, "inputs sum to %d, outputs to %d", in, out)
	}
	return nil
}
