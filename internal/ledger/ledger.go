// Package ledger coordinates verification and storage.
//
// The store records and the verifiers judge; the ledger is the layer
// that insists on the order between the two. Nothing reaches the store
// through the ledger without passing the contract's verifier first, and
// the operation the verifier saw is exactly the operation the store
// records.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sigil-ledger/sigil/internal/issuer"
	"github.com/sigil-ledger/sigil/internal/opfile"
	"github.com/sigil-ledger/sigil/internal/state"
	"github.com/sigil-ledger/sigil/internal/store"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// Ledger applies verified operations to a store.
type Ledger struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a ledger over the given store. A nil logger disables
// logging.
func New(st *store.Store, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ledger{store: st, logger: logger}
}

// Issue verifies a bundle's genesis and records the contract.
func (l *Ledger) Issue(ctx context.Context, b *issuer.Bundle) error {
	v, err := b.Verifier()
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}

	genesis := b.Genesis.Operation()
	if err := v.Verify(verify.EntryGenesis, genesis); err != nil {
		return fmt.Errorf("issue: genesis rejected: %w", err)
	}

	contract := store.Contract{
		ID:        b.ContractID,
		Kind:      b.Kind,
		SumWidth:  b.SumWidth,
		Name:      b.Meta.Name,
		Ticker:    b.Meta.Ticker,
		Details:   b.Meta.Details,
		Precision: b.Meta.Precision,
	}
	if err := l.store.CreateContract(ctx, contract, genesis); err != nil {
		return fmt.Errorf("issue: %w", err)
	}

	l.logger.Info("contract issued",
		"contract_id", b.ContractID,
		"kind", string(b.Kind),
		"outputs", len(genesis.DestructibleOut))
	return nil
}

// Apply verifies an operation document against a contract's current
// state and records it. The consumed values come from the store, not
// the document: inputs name cells by id, and what those cells actually
// hold is what the verifier judges. Any input values spelled out in the
// document must agree with the stored cells.
func (l *Ledger) Apply(ctx context.Context, contractID string, doc *opfile.Doc) (int64, error) {
	entry, op, contract, err := l.resolve(ctx, contractID, doc)
	if err != nil {
		return 0, fmt.Errorf("apply: %w", err)
	}

	v, err := verify.ForKind(contract.Kind, contract.SumWidth)
	if err != nil {
		return 0, fmt.Errorf("apply: %w", err)
	}
	if err := v.Verify(entry, op); err != nil {
		l.logger.Info("operation rejected",
			"contract_id", contractID,
			"entry", doc.Entry,
			"code", string(verify.CodeOf(err)))
		return 0, fmt.Errorf("apply: %w", err)
	}

	opID, err := l.store.ApplyOperation(ctx, contractID, entry, op, doc.SpentCells())
	if err != nil {
		return 0, fmt.Errorf("apply: %w", err)
	}

	l.logger.Info("operation applied",
		"contract_id", contractID,
		"operation_id", opID,
		"entry", doc.Entry,
		"inputs", len(op.DestructibleIn),
		"outputs", len(op.DestructibleOut))
	return opID, nil
}

// Check runs an operation document through verification without
// touching the contract. Same resolution as Apply; no recording.
func (l *Ledger) Check(ctx context.Context, contractID string, doc *opfile.Doc) error {
	entry, op, contract, err := l.resolve(ctx, contractID, doc)
	if err != nil {
		return err
	}
	v, err := verify.ForKind(contract.Kind, contract.SumWidth)
	if err != nil {
		return err
	}
	return v.Verify(entry, op)
}

// resolve turns a document into the operation the verifier will see:
// entry selector plus stored cell values as DestructibleIn.
func (l *Ledger) resolve(ctx context.Context, contractID string, doc *opfile.Doc) (verify.Entry, *state.Operation, *store.Contract, error) {
	entry, err := doc.EntryPoint()
	if err != nil {
		return 0, nil, nil, err
	}
	if entry == verify.EntryGenesis {
		return 0, nil, nil, fmt.Errorf("genesis is applied through Issue, not Apply")
	}

	contract, err := l.store.Contract(ctx, contractID)
	if err != nil {
		return 0, nil, nil, err
	}

	// Transfers neither read nor declare global state; the stored fact
	// sequence stays out of the operation and the verifier enforces
	// that the document did not smuggle any in.
	operation := doc.Operation()

	consumed, err := l.store.CellValues(ctx, contractID, doc.SpentCells())
	if err != nil {
		return 0, nil, nil, err
	}
	// Documents may elide input values and name cells alone; when a
	// value is spelled out it must agree with the stored cell.
	for i, declared := range operation.DestructibleIn {
		if !declared.V1.IsSet() && !declared.V2.IsSet() && !declared.V3.IsSet() {
			continue
		}
		if declared != consumed[i] {
			return 0, nil, nil, fmt.Errorf("input %d declares %s but cell %d holds %s",
				i, declared, doc.SpentCells()[i], consumed[i])
		}
	}
	operation.DestructibleIn = consumed

	return entry, operation, contract, nil
}
