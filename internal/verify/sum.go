package verify

import "github.com/sigil-ledger/sigil/internal/state"

// side distinguishes the consumed and created cell sequences so the
// conservation checker reports side-specific codes.
type side uint8

const (
	sideIn side = iota
	sideOut
)

func (s side) typeCode() Code {
	if s == sideIn {
		return CodeUnexpectedOwnedTypeIn
	}
	return CodeUnexpectedOwnedTypeOut
}

func (s side) balanceCode() Code {
	if s == sideIn {
		return CodeInvalidBalanceIn
	}
	return CodeInvalidBalanceOut
}

func (s side) String() string {
	if s == sideIn {
		return "input"
	}
	return "output"
}

// sumCells sums the primary payload of typed cells across a cursor,
// optionally restricted to cells whose secondary payload equals filter.
//
// Rules, applied per cell in sequence order:
//   - The tag must equal tag, else UNEXPECTED_OWNED_TYPE_*.
//   - With a filter: cells whose secondary slot differs are skipped
//     without touching the accumulator; matching cells must leave the
//     tertiary slot empty.
//   - Without a filter: both the secondary and tertiary slots must be
//     empty, else INVALID_BALANCE_*.
//   - The primary payload must be present and fit widthBits, and the
//     running sum must never exceed the widthBits ceiling. Overflow is
//     a hard INVALID_BALANCE_* rejection, never wraparound.
//
// The cursor is always driven to exhaustion before a successful return:
// a transition is well-formed only if every cell has been visited.
func sumCells(cur *state.Cursor, tag state.Tag, filter state.Elem, widthBits uint, s side) (uint64, error) {
	var sum uint64
	for {
		v, ok := cur.Next()
		if !ok {
			return sum, nil
		}
		if v.Tag != tag {
			return 0, reject(s.typeCode(), "%s cell tagged %d, want %d", s, v.Tag, tag)
		}
		if filter.IsSet() {
			if !v.V2.Eq(filter) {
				continue
			}
			if v.V3.IsSet() {
				return 0, reject(s.balanceCode(), "%s cell carries a populated tertiary slot", s)
			}
		} else {
			if v.V2.IsSet() || v.V3.IsSet() {
				return 0, reject(s.balanceCode(), "%s cell carries populated extra slots", s)
			}
		}
		if !v.V1.IsSet() {
			return 0, reject(s.balanceCode(), "%s cell has no amount", s)
		}
		if !v.V1.Fits(widthBits) {
			return 0, reject(s.balanceCode(), "%s amount %d exceeds %d bits", s, v.V1.Val(), widthBits)
		}
		next := sum + v.V1.Val()
		if next < sum || !state.E(next).Fits(widthBits) {
			return 0, reject(s.balanceCode(), "%s sum overflows %d bits", s, widthBits)
		}
		sum = next
	}
}
