package verify

import (
	"fmt"

	"github.com/sigil-ledger/sigil/internal/state"
)

// Entry selects a verification routine within an asset kind. Exactly
// three entry points are conventionally wired per kind.
type Entry uint16

const (
	// EntryGenesis validates the contract-originating operation.
	EntryGenesis Entry = 0x00

	// EntryTransfer validates an ownership transfer.
	EntryTransfer Entry = 0x01

	// EntryBlank validates a blank self-transfer. Always an alias of
	// the transfer routine: a transition with identical aggregate
	// balances is admissible regardless of why it was produced.
	EntryBlank Entry = 0xFF
)

// Routine is a single verification pass over one operation. nil means
// accept; a non-nil error is always an *Error rejection.
type Routine func(op *state.Operation) error

// Verifier dispatches operations to the routines of one asset kind.
// Immutable after construction and safe for concurrent use.
type Verifier struct {
	kind     AssetKind
	routines map[Entry]Routine
}

// Kind returns the asset kind this verifier enforces.
func (v *Verifier) Kind() AssetKind { return v.kind }

// Verify runs the routine wired at the given entry point. Operations
// selecting an unwired entry point are rejected with UNKNOWN_ENTRY.
func (v *Verifier) Verify(entry Entry, op *state.Operation) error {
	r, ok := v.routines[entry]
	if !ok {
		return reject(CodeUnknownEntry, "%s asset wires no entry point %#x", v.kind, uint16(entry))
	}
	return r(op)
}

// AssetKind names a verifier family.
type AssetKind string

const (
	KindFungible   AssetKind = "fungible"
	KindUnique     AssetKind = "unique"
	KindDivisible  AssetKind = "divisible"
	KindCollection AssetKind = "collection"
)

// Valid reports whether k names a known asset kind.
func (k AssetKind) Valid() bool {
	switch k {
	case KindFungible, KindUnique, KindDivisible, KindCollection:
		return true
	}
	return false
}

// DefaultSumWidth is the production balance bit width. The legacy
// narrow variant uses 8 bits; the width is per-asset configuration,
// never hard-coded in checkers.
const DefaultSumWidth = 64

// ForKind returns the verifier for an asset kind. sumWidth configures
// the fungible balance width (64 production, 8 legacy narrow) and is
// ignored by the token kinds, which are fixed at 64 bits.
func ForKind(k AssetKind, sumWidth uint) (*Verifier, error) {
	switch k {
	case KindFungible:
		return Fungible(sumWidth), nil
	case KindUnique:
		return Unique(), nil
	case KindDivisible:
		return Divisible(), nil
	case KindCollection:
		return Collection(), nil
	}
	return nil, fmt.Errorf("unknown asset kind %q", k)
}

// wire builds the conventional three-entry table for an asset kind.
func wire(kind AssetKind, genesis, transfer Routine) *Verifier {
	return &Verifier{
		kind: kind,
		routines: map[Entry]Routine{
			EntryGenesis:  genesis,
			EntryTransfer: transfer,
			EntryBlank:    transfer,
		},
	}
}
