package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sigil-ledger/sigil/internal/state"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// Contract is the stored identity and configuration of one contract.
type Contract struct {
	ID        string
	Kind      verify.AssetKind
	SumWidth  uint
	Name      string
	Ticker    string
	Details   string
	Precision uint64
}

// Cell is one stored owned cell.
type Cell struct {
	ID    int64
	Value state.Value
}

// ErrCellSpent is returned when an operation names an input cell that
// has already been destroyed (or never existed for the contract).
var ErrCellSpent = errors.New("input cell is spent or unknown")

// ErrContractExists is returned when issuing a contract whose id is
// already recorded.
var ErrContractExists = errors.New("contract already exists")

// CreateContract records a contract and its genesis operation in one
// transaction: the contract row, operation 0, the declared global facts
// and the initial cells.
func (s *Store) CreateContract(ctx context.Context, c Contract, genesis *state.Operation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create contract: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO contracts (id, kind, sum_width, name, ticker, details, precision)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, c.ID, string(c.Kind), c.SumWidth, c.Name, c.Ticker, c.Details, int64(c.Precision))
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("create contract: %w", err)
	} else if n == 0 {
		return fmt.Errorf("create contract %s: %w", c.ID, ErrContractExists)
	}

	opID, err := insertOperation(ctx, tx, c.ID, verify.EntryGenesis, 0)
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}

	for pos, fact := range genesis.GlobalOut {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO globals (contract_id, pos, operation_id, tag, v1, v2, v3)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.ID, pos, opID, int64(uint64(fact.Tag)), nullable(fact.V1), nullable(fact.V2), nullable(fact.V3))
		if err != nil {
			return fmt.Errorf("create contract: global %d: %w", pos, err)
		}
	}

	if err := insertCells(ctx, tx, c.ID, opID, genesis.DestructibleOut); err != nil {
		return fmt.Errorf("create contract: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create contract: commit: %w", err)
	}
	return nil
}

// ApplyOperation records a verified non-genesis operation: it destroys
// the named input cells and creates the output cells, atomically. Each
// input cell must be live, belong to the contract, and hold exactly the
// value the operation claims to consume; a mismatch on any of these
// aborts the transaction.
func (s *Store) ApplyOperation(ctx context.Context, contractID string, entry verify.Entry, op *state.Operation, inputs []int64) (int64, error) {
	if len(inputs) != len(op.DestructibleIn) {
		return 0, fmt.Errorf("apply operation: %d inputs named for %d consumed cells", len(inputs), len(op.DestructibleIn))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("apply operation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), -1) + 1 FROM operations WHERE contract_id = ?
	`, contractID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("apply operation: next seq: %w", err)
	}
	if seq == 0 {
		return 0, fmt.Errorf("apply operation: contract %s has no genesis", contractID)
	}

	opID, err := insertOperation(ctx, tx, contractID, entry, seq)
	if err != nil {
		return 0, fmt.Errorf("apply operation: %w", err)
	}

	for i, cellID := range inputs {
		var tag int64
		var v1, v2, v3 sql.NullInt64
		err := tx.QueryRowContext(ctx, `
			SELECT tag, v1, v2, v3 FROM cells
			WHERE id = ? AND contract_id = ? AND spent_by IS NULL
		`, cellID, contractID).Scan(&tag, &v1, &v2, &v3)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("apply operation: cell %d: %w", cellID, ErrCellSpent)
		}
		if err != nil {
			return 0, fmt.Errorf("apply operation: cell %d: %w", cellID, err)
		}

		stored := scanValue(tag, v1, v2, v3)
		if stored != op.DestructibleIn[i] {
			return 0, fmt.Errorf("apply operation: cell %d holds %s, operation consumes %s", cellID, stored, op.DestructibleIn[i])
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE cells SET spent_by = ? WHERE id = ?
		`, opID, cellID); err != nil {
			return 0, fmt.Errorf("apply operation: spend cell %d: %w", cellID, err)
		}
	}

	if err := insertCells(ctx, tx, contractID, opID, op.DestructibleOut); err != nil {
		return 0, fmt.Errorf("apply operation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("apply operation: commit: %w", err)
	}
	return opID, nil
}

func insertOperation(ctx context.Context, tx *sql.Tx, contractID string, entry verify.Entry, seq int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO operations (contract_id, entry, seq) VALUES (?, ?, ?)
	`, contractID, int64(entry), seq)
	if err != nil {
		return 0, fmt.Errorf("insert operation: %w", err)
	}
	return res.LastInsertId()
}

func insertCells(ctx context.Context, tx *sql.Tx, contractID string, opID int64, outs []state.Value) error {
	for pos, cell := range outs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cells (contract_id, operation_id, pos, tag, v1, v2, v3)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, contractID, opID, pos, int64(uint64(cell.Tag)), nullable(cell.V1), nullable(cell.V2), nullable(cell.V3))
		if err != nil {
			return fmt.Errorf("insert cell %d: %w", pos, err)
		}
	}
	return nil
}
