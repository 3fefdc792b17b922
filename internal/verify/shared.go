package verify

import "github.com/sigil-ledger/sigil/internal/state"

// assetSpec validates the common three-fact asset preamble every
// genesis declares, reading from g in order: ticker (or details, same
// tag), name, precision. The first failing check wins and no further
// facts are read after a failure.
//
// It also enforces that the operation is origin-only: genesis consumes
// no destructible cells and sees no pre-existing global state.
//
// On success the cursor is left positioned after the precision fact, so
// kind-specific facts (supply, token specs) can be read next, and the
// precision's primary payload is returned for the caller to use, e.g.
// as a fractions cap.
func assetSpec(op *state.Operation, g *state.Cursor) (uint64, error) {
	if len(op.GlobalIn) != 0 {
		return 0, reject(CodeUnexpectedGlobalIn, "genesis must not see prior global state")
	}
	if len(op.DestructibleIn) != 0 {
		return 0, reject(CodeUnexpectedOwnedIn, "genesis must not consume cells")
	}

	v, ok := g.Next()
	if !ok || v.Tag != state.TagTicker {
		return 0, reject(CodeNoTicker, "first global fact must be the ticker or details")
	}
	v, ok = g.Next()
	if !ok || v.Tag != state.TagName {
		return 0, reject(CodeNoName, "second global fact must be the asset name")
	}
	v, ok = g.Next()
	if !ok || v.Tag != state.TagPrecision {
		return 0, reject(CodeNoPrecision, "third global fact must be the precision")
	}
	if !v.V1.IsSet() {
		return 0, reject(CodeInvalidPrecision, "precision has no value")
	}
	if v.V2.IsSet() || v.V3.IsSet() {
		return 0, reject(CodeInvalidPrecision, "precision carries populated extra slots")
	}
	return v.V1.Val(), nil
}

// globalAbsent enforces that a transfer touches no global state: none
// pre-existing on the input side and none declared on the output side.
func globalAbsent(op *state.Operation) error {
	if len(op.GlobalIn) != 0 {
		return reject(CodeUnexpectedGlobalIn, "transfer must not reference global input state")
	}
	if len(op.GlobalOut) != 0 {
		return reject(CodeUnexpectedGlobalOut, "transfer must not declare global facts")
	}
	return nil
}

// globalTokenSpec validates a declared token fact: correct tag, token
// id present in the primary slot, remaining slots empty. Returns the
// token id.
func globalTokenSpec(v state.Value) (uint64, error) {
	if v.Tag != state.TagTokenSpec {
		return 0, reject(CodeUnexpectedGlobal, "global fact tagged %d, want token spec", v.Tag)
	}
	if !v.V1.IsSet() {
		return 0, reject(CodeNoTokenID, "token spec has no token id")
	}
	if v.V2.IsSet() || v.V3.IsSet() {
		return 0, reject(CodeInvalidTokenID, "token spec carries populated extra slots")
	}
	return v.V1.Val(), nil
}

// ownedToken validates a token allocation cell: owned-amount tag,
// amount in the primary slot, token id in the secondary, tertiary
// empty. Returns (amount, token id).
func ownedToken(v state.Value, s side) (uint64, uint64, error) {
	if v.Tag != state.TagAmount {
		return 0, 0, reject(s.typeCode(), "%s cell tagged %d, want owned amount", s, v.Tag)
	}
	if !v.V2.IsSet() {
		return 0, 0, reject(CodeNoTokenID, "%s allocation has no token id", s)
	}
	if v.V3.IsSet() {
		return 0, 0, reject(CodeInvalidTokenID, "%s allocation carries a populated tertiary slot", s)
	}
	if !v.V1.IsSet() {
		return 0, 0, reject(s.balanceCode(), "%s allocation has no amount", s)
	}
	return v.V1.Val(), v.V2.Val(), nil
}
