package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/repuestos/internal/model"
)

// Sentinel errors returned by the repositories.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ItemRepository persists inventory items.
//
// Get returns nil, nil when the item does not exist. Writes addressed at a
// missing id return ErrNotFound.
type ItemRepository interface {
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
	Insert(ctx context.Context, n model.NewItem) (*model.Item, error)
	InsertBulk(ctx context.Context, batch []model.NewItem) ([]model.Item, error)
	Update(ctx context.Context, id int64, n model.NewItem) (*model.Item, error)
	SetStock(ctx context.Context, id int64, stock int) error
	SetCategory(ctx context.Context, id int64, category string) error
	SetPhoto(ctx context.Context, id int64, photo string) error
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) (int64, error)
}

// Items is the SQLite ItemRepository.
type Items struct {
	DB *sql.DB
}

// NewItems returns an item repository backed by db.
func NewItems(db *sql.DB) *Items {
	return &Items{DB: db}
}

var _ ItemRepository = (*Items)(nil)

const itemColumns = `id, type, name, code, location, stock, unit, reorder_point, max_point, photo, category`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var reorderPoint, maxPoint sql.NullInt64
	err := s.Scan(&item.ID, &item.Type, &item.Name, &item.Code, &item.Location, &item.Stock,
		&item.Unit, &reorderPoint, &maxPoint, &item.Photo, &item.Category)
	if err != nil {
		return nil, err
	}
	if reorderPoint.Valid {
		item.ReorderPoint = model.IntPtr(int(reorderPoint.Int64))
	}
	if maxPoint.Valid {
		item.MaxPoint = model.IntPtr(int(maxPoint.Int64))
	}
	return item, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func getItem(ctx context.Context, q queryer, id int64) (*model.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// Get returns an item by ID.
func (s *Items) Get(ctx context.Context, id int64) (*model.Item, error) {
	return getItem(ctx, s.DB, id)
}

// List returns all items in insertion (id) order.
func (s *Items) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func insertItem(ctx context.Context, q queryer, n model.NewItem) (int64, error) {
	n = n.WithDefaults()
	result, err := q.ExecContext(ctx,
		`INSERT INTO items (type, name, code, location, stock, unit, reorder_point, max_point, photo, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Type, n.Name, n.Code, n.Location, n.Stock, n.Unit,
		nullInt(n.ReorderPoint), nullInt(n.MaxPoint), n.Photo, n.Category,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// Insert creates a new item. Unset unit and thresholds get their defaults.
func (s *Items) Insert(ctx context.Context, n model.NewItem) (*model.Item, error) {
	id, err := insertItem(ctx, s.DB, n)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// InsertBulk creates all items in one transaction: either every item is
// stored or none is. Returned items keep the batch order.
func (s *Items) InsertBulk(ctx context.Context, batch []model.NewItem) ([]model.Item, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	items := make([]model.Item, 0, len(batch))
	for _, n := range batch {
		id, err := insertItem(ctx, tx, n)
		if err != nil {
			return nil, err
		}
		item, err := getItem(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return items, nil
}

// Update replaces every editable field of an item.
func (s *Items) Update(ctx context.Context, id int64, n model.NewItem) (*model.Item, error) {
	n = n.WithDefaults()
	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET type = ?, name = ?, code = ?, location = ?, stock = ?, unit = ?,
		        reorder_point = ?, max_point = ?, photo = ?, category = ?
		 WHERE id = ?`,
		n.Type, n.Name, n.Code, n.Location, n.Stock, n.Unit,
		nullInt(n.ReorderPoint), nullInt(n.MaxPoint), n.Photo, n.Category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetStock overwrites an item's stock.
func (s *Items) SetStock(ctx context.Context, id int64, stock int) error {
	return s.setColumn(ctx, id, "stock", stock)
}

// SetCategory overwrites an item's category. An empty category reverts the
// item to its inferred one.
func (s *Items) SetCategory(ctx context.Context, id int64, category string) error {
	return s.setColumn(ctx, id, "category", category)
}

// SetPhoto overwrites an item's photo (data URI or URL).
func (s *Items) SetPhoto(ctx context.Context, id int64, photo string) error {
	return s.setColumn(ctx, id, "photo", photo)
}

// setColumn updates a single column. column is never user input.
func (s *Items) setColumn(ctx context.Context, id int64, column string, value any) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET `+column+` = ? WHERE id = ?`, value, id,
	)
	if err != nil {
		return fmt.Errorf("setting item %s: %w", column, err)
	}
	return expectOne(result)
}

// Delete removes an item. Its exits are kept.
func (s *Items) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return expectOne(result)
}

// Clear removes every item and returns how many were removed.
func (s *Items) Clear(ctx context.Context) (int64, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("clearing items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared items: %w", err)
	}
	return n, nil
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
