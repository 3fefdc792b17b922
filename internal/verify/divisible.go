package verify

import "github.com/sigil-ledger/sigil/internal/state"

// divisibleSumWidth is fixed: fractionable tokens always use 64-bit
// balance arithmetic.
const divisibleSumWidth = 64

type divisible struct{}

// Divisible returns the verifier for fractionable non-fungible tokens:
// multiple declared tokens, each subdividable up to the shared
// fractions cap from the asset preamble.
func Divisible() *Verifier {
	d := divisible{}
	return wire(KindDivisible, d.genesis, d.transfer)
}

// genesis enforces per-token issuance against the fractions cap: every
// declared token's allocations must sum to exactly the cap, and every
// allocation must reference a declared token.
func (divisible) genesis(op *state.Operation) error {
	g := op.Globals()
	cap, err := assetSpec(op, g)
	if err != nil {
		return err
	}

	declared := make(map[uint64]bool)
	for {
		spec, ok := g.Next()
		if !ok {
			break
		}
		tokenID, err := globalTokenSpec(spec)
		if err != nil {
			return err
		}
		issued, err := sumCells(op.Outputs(), state.TagAmount, state.E(tokenID), divisibleSumWidth, sideOut)
		if err != nil {
			return err
		}
		if issued != cap {
			return reject(CodeSumIssueMismatch, "token %d issues %d fractions, cap is %d", tokenID, issued, cap)
		}
		declared[tokenID] = true
	}

	// Orphan check: allocations must reference declared tokens. The
	// filtered sums above skipped anything outside their token id, so
	// this is the pass that catches strays.
	out := op.Outputs()
	for {
		cell, ok := out.Next()
		if !ok {
			return nil
		}
		_, id, err := ownedToken(cell, sideOut)
		if err != nil {
			return err
		}
		if !declared[id] {
			return reject(CodeOrphanAllocation, "allocation references undeclared token %d", id)
		}
	}
}

// transfer enforces conservation per token id, not merely in aggregate:
// moving fractions from one token into another is rejected even when
// the grand totals match.
//
// Rather than rescanning cursors per filter value, both sides are
// grouped by token id in one pass each and the two group maps compared
// bidirectionally.
func (divisible) transfer(op *state.Operation) error {
	if err := globalAbsent(op); err != nil {
		return err
	}
	in, err := groupByToken(op.Inputs(), sideIn)
	if err != nil {
		return err
	}
	out, err := groupByToken(op.Outputs(), sideOut)
	if err != nil {
		return err
	}
	for id, sum := range in {
		if out[id] != sum {
			return reject(CodeSumMismatch, "token %d: inputs sum to %d, outputs to %d", id, sum, out[id])
		}
	}
	for id, sum := range out {
		if in[id] != sum {
			return reject(CodeSumMismatch, "token %d: inputs sum to %d, outputs to %d", id, in[id], sum)
		}
	}
	return nil
}

// groupByToken sums allocations per token id with the same shape and
// overflow rules as the filtered conservation checker, in a single
// pass.
func groupByToken(cur *state.Cursor, s side) (map[uint64]uint64, error) {
	sums := make(map[uint64]uint64)
	for {
		cell, ok := cur.Next()
		if !ok {
			return sums, nil
		}
		amount, id, err := ownedToken(cell, s)
		if err != nil {
			return nil, err
		}
		if !state.E(amount).Fits(divisibleSumWidth) {
			return nil, reject(s.balanceCode(), "%s amount %d exceeds %d bits", s, amount, divisibleSumWidth)
		}
		next := sums[id] + amount
		if next < sums[id] {
			return nil, reject(s.balanceCode(), "%s sum for token %d overflows %d bits", s, id, divisibleSumWidth)
		}
		sums[id] = next
	}
}
