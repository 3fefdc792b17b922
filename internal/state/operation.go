package state

// Kind names the lifecycle stage of an operation. It is declared by the
// transition, not inferred: the entry-point selector maps onto it.
type Kind uint8

const (
	// KindGenesis originates a contract. No inputs of any category.
	KindGenesis Kind = iota

	// KindTransfer consumes existing cells and creates new ones without
	// declaring new global facts.
	KindTransfer

	// KindBlank is a self-transfer produced mechanically (e.g. when an
	// unrelated contract spends the same seal). Validated exactly as a
	// transfer.
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindGenesis:
		return "genesis"
	case KindTransfer:
		return "transfer"
	case KindBlank:
		return "blank"
	}
	return "unknown"
}

// Operation is the unit of validation: one proposed state transition,
// viewed as four ordered sequences. The slices are never mutated after
// construction; verifiers observe them through cursors.
type Operation struct {
	// GlobalIn is the contract's existing global fact sequence as
	// visible to this operation (empty at genesis).
	GlobalIn []Value

	// GlobalOut is the global facts this operation declares. Only
	// genesis declares any; order is semantically significant.
	GlobalOut []Value

	// DestructibleIn is the owned cells this operation consumes.
	DestructibleIn []Value

	// DestructibleOut is the owned cells this operation creates.
	DestructibleOut []Value
}

// Globals returns a fresh cursor over the declared global facts.
func (op *Operation) Globals() *Cursor { return NewCursor(op.GlobalOut) }

// GlobalInputs returns a fresh cursor over the pre-existing global facts.
func (op *Operation) GlobalInputs() *Cursor { return NewCursor(op.GlobalIn) }

// Inputs returns a fresh cursor over the consumed cells.
func (op *Operation) Inputs() *Cursor { return NewCursor(op.DestructibleIn) }

// Outputs returns a fresh cursor over the created cells.
func (op *Operation) Outputs() *Cursor { return NewCursor(op.DestructibleOut) }
