package list

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	conn database.Provider
}

type rowScanner interface {
	Scan(dest ...any) error
}

// storedItem is the jsonb shape of an item; the populated product is not persisted.
type storedItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId,omitempty"`
	Quantity    float64 `json:"quantity"`
	IsPurchased bool    `json:"isPurchased"`
	CustomName  string  `json:"customName,omitempty"`
}

const (
	listColumns = `id, owner_id, name, status, items, created_at`

	listsByOwnerQuery     = `SELECT ` + listColumns + ` FROM lists WHERE owner_id = $1 AND status <> 'archived' ORDER BY created_at DESC`
	listsByOwnerAllQuery  = `SELECT ` + listColumns + ` FROM lists WHERE owner_id = $1 ORDER BY created_at DESC`
	latestActiveListQuery = `SELECT ` + listColumns + ` FROM lists WHERE owner_id = $1 AND status = 'active' ORDER BY created_at DESC LIMIT 1`
	getListQuery          = `SELECT ` + listColumns + ` FROM lists WHERE owner_id = $1 AND id = $2`
	getListForUpdateQuery = getListQuery + ` FOR UPDATE`
	insertListQuery       = `INSERT INTO lists (` + listColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	updateListQuery       = `UPDATE lists SET name = $3, status = $4, items = $5 WHERE owner_id = $1 AND id = $2`
	deleteListQuery       = `DELETE FROM lists WHERE owner_id = $1 AND id = $2`
)

func NewPostgresRepository(conn database.Provider) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]List, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	q := listsByOwnerQuery
	if includeArchived {
		q = listsByOwnerAllQuery
	}
	rows, err := db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, database.Report(r.conn, err)
	}
	defer rows.Close()

	out := make([]List, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Report(r.conn, err)
	}
	return out, nil
}

func (r *PostgresRepository) LatestActive(ctx context.Context, ownerID string) (List, error) {
	return r.getOne(ctx, latestActiveListQuery, ownerID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (List, error) {
	return r.getOne(ctx, getListQuery, ownerID, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (List, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return List{}, err
	}
	l, err := scanList(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return List{}, ErrNotFound
		}
		return List{}, database.Report(r.conn, err)
	}
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l List) (List, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return List{}, err
	}
	items, err := encodeItems(l.Items)
	if err != nil {
		return List{}, err
	}
	if _, err := db.ExecContext(ctx, insertListQuery, l.ID, l.OwnerID, l.Name, string(l.Status), string(items), l.CreatedAt); err != nil {
		return List{}, database.Report(r.conn, err)
	}
	return l, nil
}

// Update locks the row for the duration of fn so concurrent item edits
// on the same list serialize instead of overwriting each other.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, fn func(*List) error) (List, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return List{}, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return List{}, database.Report(r.conn, err)
	}
	defer tx.Rollback()

	l, err := scanList(tx.QueryRowContext(ctx, getListForUpdateQuery, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return List{}, ErrNotFound
		}
		return List{}, database.Report(r.conn, err)
	}
	if err := fn(&l); err != nil {
		return List{}, err
	}
	items, err := encodeItems(l.Items)
	if err != nil {
		return List{}, err
	}
	if _, err := tx.ExecContext(ctx, updateListQuery, ownerID, id, l.Name, string(l.Status), string(items)); err != nil {
		return List{}, database.Report(r.conn, err)
	}
	if err := tx.Commit(); err != nil {
		return List{}, database.Report(r.conn, err)
	}
	return l, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, deleteListQuery, ownerID, id)
	if err != nil {
		return database.Report(r.conn, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanList(scanner rowScanner) (List, error) {
	var (
		l      List
		status string
		raw    []byte
	)
	if err := scanner.Scan(&l.ID, &l.OwnerID, &l.Name, &status, &raw, &l.CreatedAt); err != nil {
		return List{}, err
	}
	l.Status = Status(status)
	items, err := decodeItems(raw)
	if err != nil {
		return List{}, fmt.Errorf("decode items of list %s: %w", l.ID, err)
	}
	l.Items = items
	return l, nil
}

func encodeItems(items []Item) ([]byte, error) {
	stored := make([]storedItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, storedItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			IsPurchased: it.IsPurchased,
			CustomName:  it.CustomName,
		})
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return b, nil
}

func decodeItems(raw []byte) ([]Item, error) {
	items := make([]Item, 0)
	if len(raw) == 0 {
		return items, nil
	}
	var stored []storedItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	for _, s := range stored {
		items = append(items, Item{
			ID:          s.ID,
			ProductID:   s.ProductID,
			Quantity:    s.Quantity,
			IsPurchased: s.IsPurchased,
			CustomName:  s.CustomName,
		})
	}
	return items, nil
}
