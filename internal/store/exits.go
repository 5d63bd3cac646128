package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/repuestos/internal/ledger"
	"github.com/erazemk/repuestos/internal/model"
)

// ExitRepository persists the exit ledger.
type ExitRepository interface {
	Get(ctx context.Context, id int64) (*model.Exit, error)
	List(ctx context.Context) ([]model.Exit, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Exit, error)
	Append(ctx context.Context, e model.Exit) (*model.Exit, error)
	Withdraw(ctx context.Context, req model.ExitRequest, now time.Time) (*model.Exit, error)
	Delete(ctx context.Context, id int64) error
}

// Exits is the SQLite ExitRepository.
type Exits struct {
	DB *sql.DB
}

// NewExits returns an exit repository backed by db.
func NewExits(db *sql.DB) *Exits {
	return &Exits{DB: db}
}

var _ ExitRepository = (*Exits)(nil)

const exitColumns = `id, material_id, material_name, material_code, material_location, material_type,
	quantity, remaining_stock, person_name, person_last_name, area, cost_center, sap_code,
	work_order, exit_date, exit_time, created_at`

func scanExit(s scanner) (*model.Exit, error) {
	e := &model.Exit{}
	err := s.Scan(&e.ID, &e.MaterialID, &e.MaterialName, &e.MaterialCode, &e.MaterialLocation,
		&e.MaterialType, &e.Quantity, &e.RemainingStock, &e.PersonName, &e.PersonLastName,
		&e.Area, &e.CostCenter, &e.SAPCode, &e.WorkOrder, &e.ExitDate, &e.ExitTime, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func getExit(ctx context.Context, q queryer, id int64) (*model.Exit, error) {
	e, err := scanExit(q.QueryRowContext(ctx,
		`SELECT `+exitColumns+` FROM exits WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting exit: %w", err)
	}
	return e, nil
}

// Get returns an exit by ID.
func (s *Exits) Get(ctx context.Context, id int64) (*model.Exit, error) {
	return getExit(ctx, s.DB, id)
}

// List returns the whole ledger, newest first.
func (s *Exits) List(ctx context.Context) ([]model.Exit, error) {
	return s.list(ctx, `SELECT `+exitColumns+` FROM exits ORDER BY id DESC`)
}

// ListByItem returns the exits of one item, newest first.
func (s *Exits) ListByItem(ctx context.Context, itemID int64) ([]model.Exit, error) {
	return s.list(ctx, `SELECT `+exitColumns+` FROM exits WHERE material_id = ? ORDER BY id DESC`, itemID)
}

func (s *Exits) list(ctx context.Context, query string, args ...any) ([]model.Exit, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing exits: %w", err)
	}
	defer rows.Close()

	exits := []model.Exit{}
	for rows.Next() {
		e, err := scanExit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exit: %w", err)
		}
		exits = append(exits, *e)
	}
	return exits, rows.Err()
}

func appendExit(ctx context.Context, q queryer, e model.Exit) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	result, err := q.ExecContext(ctx,
		`INSERT INTO exits (material_id, material_name, material_code, material_location, material_type,
		                    quantity, remaining_stock, person_name, person_last_name, area, cost_center,
		                    sap_code, work_order, exit_date, exit_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MaterialID, e.MaterialName, e.MaterialCode, e.MaterialLocation, e.MaterialType,
		e.Quantity, e.RemainingStock, e.PersonName, e.PersonLastName, e.Area, e.CostCenter,
		e.SAPCode, e.WorkOrder, e.ExitDate, e.ExitTime, e.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording exit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting exit id: %w", err)
	}
	return id, nil
}

// Append stores a ledger entry as is. The item's stock is not touched.
func (s *Exits) Append(ctx context.Context, e model.Exit) (*model.Exit, error) {
	id, err := appendExit(ctx, s.DB, e)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Withdraw validates req against the current item, records the exit and
// decrements the item's stock in one transaction.
//
// It returns ErrNotFound for an unknown item and a ledger.ValidationErrors
// for an invalid request; asking for more than the item holds additionally
// matches ErrInsufficientStock.
func (s *Exits) Withdraw(ctx context.Context, req model.ExitRequest, now time.Time) (*model.Exit, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItem(ctx, tx, req.MaterialID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	if err := ledger.Validate(req, item); err != nil {
		var verrs ledger.ValidationErrors
		if errors.As(err, &verrs) && verrs["quantity"] == ledger.MsgExceedsStock {
			return nil, fmt.Errorf("%w: %w", ErrInsufficientStock, err)
		}
		return nil, err
	}

	exit := ledger.NewExit(req, item, now)
	id, err := appendExit(ctx, tx, exit)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		req.Quantity, item.ID, req.Quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	if err := expectOne(result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	recorded, err := getExit(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return recorded, nil
}

// Delete removes a ledger entry. The withdrawn stock is not restored.
func (s *Exits) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM exits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting exit: %w", err)
	}
	return expectOne(result)
}
