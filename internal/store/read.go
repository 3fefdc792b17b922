package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sigil-ledger/sigil/internal/state"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// ErrNotFound is returned when a requested contract does not exist.
var ErrNotFound = errors.New("contract not found")

// Contract returns a contract's stored identity and configuration.
func (s *Store) Contract(ctx context.Context, id string) (*Contract, error) {
	var c Contract
	var kind string
	var precision int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, sum_width, name, ticker, details, precision
		FROM contracts WHERE id = ?
	`, id).Scan(&c.ID, &kind, &c.SumWidth, &c.Name, &c.Ticker, &c.Details, &precision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read contract: %w", err)
	}
	c.Kind = verify.AssetKind(kind)
	c.Precision = uint64(precision)
	return &c, nil
}

// Contracts lists all recorded contracts in issuance order.
func (s *Store) Contracts(ctx context.Context) ([]Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, sum_width, name, ticker, details, precision
		FROM contracts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		var kind string
		var precision int64
		if err := rows.Scan(&c.ID, &kind, &c.SumWidth, &c.Name, &c.Ticker, &c.Details, &precision); err != nil {
			return nil, fmt.Errorf("list contracts: %w", err)
		}
		c.Kind = verify.AssetKind(kind)
		c.Precision = uint64(precision)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GlobalFacts returns a contract's global fact sequence in declaration
// order. This is the GlobalIn view a transfer operation sees.
func (s *Store) GlobalFacts(ctx context.Context, contractID string) ([]state.Value, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, v1, v2, v3 FROM globals
		WHERE contract_id = ? ORDER BY pos
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("read globals: %w", err)
	}
	defer rows.Close()

	var out []state.Value
	for rows.Next() {
		var tag int64
		var v1, v2, v3 sql.NullInt64
		if err := rows.Scan(&tag, &v1, &v2, &v3); err != nil {
			return nil, fmt.Errorf("read globals: %w", err)
		}
		out = append(out, scanValue(tag, v1, v2, v3))
	}
	return out, rows.Err()
}

// UnspentCells returns a contract's live cells in creation order.
func (s *Store) UnspentCells(ctx context.Context, contractID string) ([]Cell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tag, v1, v2, v3 FROM cells
		WHERE contract_id = ? AND spent_by IS NULL
		ORDER BY id
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("read cells: %w", err)
	}
	defer rows.Close()

	var out []Cell
	for rows.Next() {
		var cell Cell
		var tag int64
		var v1, v2, v3 sql.NullInt64
		if err := rows.Scan(&cell.ID, &tag, &v1, &v2, &v3); err != nil {
			return nil, fmt.Errorf("read cells: %w", err)
		}
		cell.Value = scanValue(tag, v1, v2, v3)
		out = append(out, cell)
	}
	return out, rows.Err()
}

// CellValues returns the values of the named cells, in the given order.
// Every cell must be live and belong to the contract.
func (s *Store) CellValues(ctx context.Context, contractID string, ids []int64) ([]state.Value, error) {
	out := make([]state.Value, 0, len(ids))
	for _, id := range ids {
		var tag int64
		var v1, v2, v3 sql.NullInt64
		err := s.db.QueryRowContext(ctx, `
			SELECT tag, v1, v2, v3 FROM cells
			WHERE id = ? AND contract_id = ? AND spent_by IS NULL
		`, id, contractID).Scan(&tag, &v1, &v2, &v3)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cell %d: %w", id, ErrCellSpent)
		}
		if err != nil {
			return nil, fmt.Errorf("read cell %d: %w", id, err)
		}
		out = append(out, scanValue(tag, v1, v2, v3))
	}
	return out, nil
}

// OperationCount returns the number of operations applied to a
// contract, genesis included.
func (s *Store) OperationCount(ctx context.Context, contractID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM operations WHERE contract_id = ?
	`, contractID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return n, nil
}
