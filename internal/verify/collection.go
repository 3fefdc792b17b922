package verify

import "github.com/sigil-ledger/sigil/internal/state"

type collection struct{}

// Collection returns the verifier for bundles of unique tokens:
// several declared tokens, exactly one indivisible unit of each.
func Collection() *Verifier {
	c := collection{}
	return wire(KindCollection, c.genesis, c.transfer)
}

// genesis enforces bidirectional set equality between the declared
// token list and the created allocations: every declared token is
// allocated exactly once with amount 1, and every allocation refers to
// a token declared exactly once. This catches missing allocations,
// duplicate allocations, duplicate declarations and orphans alike.
func (collection) genesis(op *state.Operation) error {
	g := op.Globals()
	fractions, err := assetSpec(op, g)
	if err != nil {
		return err
	}
	if fractions != 1 {
		return reject(CodeFractionality, "collection requires fractions cap 1, declared %d", fractions)
	}

	declared := make(map[uint64]bool)
	var order []uint64
	for {
		spec, ok := g.Next()
		if !ok {
			break
		}
		tokenID, err := globalTokenSpec(spec)
		if err != nil {
			return err
		}
		if declared[tokenID] {
			return reject(CodeTokenExcess, "token %d declared twice", tokenID)
		}
		declared[tokenID] = true
		order = append(order, tokenID)
	}

	allocated := make(map[uint64]int)
	out := op.Outputs()
	for {
		cell, ok := out.Next()
		if !ok {
			break
		}
		amount, id, err := ownedToken(cell, sideOut)
		if err != nil {
			return err
		}
		if amount != 1 {
			return reject(CodeFractionality, "token %d allocated %d units, want exactly 1", id, amount)
		}
		if !declared[id] {
			return reject(CodeOrphanAllocation, "allocation references undeclared token %d", id)
		}
		allocated[id]++
	}

	for _, id := range order {
		switch n := allocated[id]; {
		case n == 0:
			return reject(CodeNoOutput, "declared token %d has no allocation", id)
		case n > 1:
			return reject(CodeTokenExcessOut, "declared token %d allocated %d times", id, n)
		}
	}
	return nil
}

// transfer only rejects newly declared global facts. Per-item
// conservation across a bundle move is not defined yet; until it is,
// any transition that declares no globals passes this routine.
// TODO: per-item conservation for cross-collection moves.
func (collection) transfer(op *state.Operation) error {
	if len(op.GlobalOut) != 0 {
		return reject(CodeUnexpectedGlobalOut, "transfer must not declare global facts")
	}
	return nil
}
