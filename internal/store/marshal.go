package store

import (
	"database/sql"

	"github.com/sigil-ledger/sigil/internal/state"
)

// Payload slots map to nullable integer columns: SQL NULL is the absent
// state, preserving the absent-versus-zero distinction across a round
// trip. Values are stored in int64 columns; the unsigned reading is
// recovered by bit-pattern conversion.

func nullable(e state.Elem) sql.NullInt64 {
	if !e.IsSet() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(e.Val()), Valid: true}
}

func elem(n sql.NullInt64) state.Elem {
	if !n.Valid {
		return state.None
	}
	return state.E(uint64(n.Int64))
}

// scanValue rebuilds a typed value from its column form.
func scanValue(tag int64, v1, v2, v3 sql.NullInt64) state.Value {
	return state.Value{
		Tag: state.Tag(uint64(tag)),
		V1:  elem(v1),
		V2:  elem(v2),
		V3:  elem(v3),
	}
}
