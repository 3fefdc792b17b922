package verify

import "github.com/sigil-ledger/sigil/internal/state"

type unique struct{}

// Unique returns the verifier for single non-fractional tokens: one
// token, one unit, identity preserved across transfers.
func Unique() *Verifier {
	u := unique{}
	return wire(KindUnique, u.genesis, u.transfer)
}

// genesis enforces single-token issuance: fractions cap of exactly 1,
// exactly one declared token spec, and exactly one created cell
// allocating one unit of that token.
func (unique) genesis(op *state.Operation) error {
	g := op.Globals()
	fractions, err := assetSpec(op, g)
	if err != nil {
		return err
	}
	if fractions != 1 {
		return reject(CodeFractionality, "unique token requires fractions cap 1, declared %d", fractions)
	}

	spec, ok := g.Next()
	if !ok {
		return reject(CodeNoTokenID, "missing token spec fact")
	}
	tokenID, err := globalTokenSpec(spec)
	if err != nil {
		return err
	}
	if !g.Exhausted() {
		return reject(CodeTokenExcess, "more than one declared token")
	}

	out := op.Outputs()
	cell, ok := out.Next()
	if !ok {
		return reject(CodeNoOutput, "no token allocation created")
	}
	amount, id, err := ownedToken(cell, sideOut)
	if err != nil {
		return err
	}
	if amount != 1 {
		return reject(CodeFractionality, "allocation of %d units, want exactly 1", amount)
	}
	if id != tokenID {
		return reject(CodeInvalidTokenID, "allocation references token %d, declared token is %d", id, tokenID)
	}
	if !out.Exhausted() {
		return reject(CodeTokenExcessOut, "more than one allocation created")
	}
	return nil
}

// transfer enforces one-in/one-out identity preservation: ownership
// moves, the token id and fractional unity do not.
func (unique) transfer(op *state.Operation) error {
	if err := globalAbsent(op); err != nil {
		return err
	}

	in := op.Inputs()
	cell, ok := in.Next()
	if !ok {
		return reject(CodeNoInput, "no token consumed")
	}
	inAmount, inID, err := ownedToken(cell, sideIn)
	if err != nil {
		return err
	}
	if !in.Exhausted() {
		return reject(CodeTokenExcessIn, "more than one token consumed")
	}
	if inAmount != 1 {
		return reject(CodeFractionality, "consumed %d units, want exactly 1", inAmount)
	}

	out := op.Outputs()
	cell, ok = out.Next()
	if !ok {
		return reject(CodeNoOutput, "no token created")
	}
	outAmount, outID, err := ownedToken(cell, sideOut)
	if err != nil {
		return err
	}
	if !out.Exhausted() {
		return reject(CodeTokenExcessOut, "more than one token created")
	}
	if outAmount != 1 {
		return reject(CodeFractionality, "created %d units, want exactly 1", outAmount)
	}

	if inID != outID {
		return reject(CodeInvalidTokenID, "input token %d, output token %d", inID, outID)
	}
	return nil
}
