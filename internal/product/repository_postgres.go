package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	conn database.Provider
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, owner_id, name, description, brand, image_url, alias, notes,
		category, unit, default_quantity, consumption_duration, average_monthly_consumption,
		consumers_count, preferred_store, product_link, last_known_price, best_price,
		best_price_store, best_price_link, created_at`

	listProductsQuery        = `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY name`
	getProductQuery          = `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2`
	getProductForUpdateQuery = getProductQuery + ` FOR UPDATE`
	getManyProductQuery      = `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = ANY($2)`
	insertProductQuery       = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	updateProductQuery = `
		UPDATE products SET
			name = $3, description = $4, brand = $5, image_url = $6, alias = $7, notes = $8,
			category = $9, unit = $10, default_quantity = $11, consumption_duration = $12,
			average_monthly_consumption = $13, consumers_count = $14, preferred_store = $15,
			product_link = $16, last_known_price = $17, best_price = $18,
			best_price_store = $19, best_price_link = $20
		WHERE owner_id = $1 AND id = $2
	`
	deleteProductQuery = `DELETE FROM products WHERE owner_id = $1 AND id = $2`
)

func NewPostgresRepository(conn database.Provider) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]Product, error) {
	return r.query(ctx, listProductsQuery, ownerID)
}

func (r *PostgresRepository) GetMany(ctx context.Context, ownerID string, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return r.query(ctx, getManyProductQuery, ownerID, pq.Array(ids))
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Product, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Report(r.conn, err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Report(r.conn, err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (Product, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return Product{}, err
	}
	p, err := scanProduct(db.QueryRowContext(ctx, getProductQuery, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, database.Report(r.conn, err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return Product{}, err
	}
	_, err = db.ExecContext(ctx, insertProductQuery,
		p.ID, p.OwnerID, p.Name, p.Description, p.Brand, p.ImageURL, p.Alias, p.Notes,
		string(p.Category), string(p.Unit), p.DefaultQuantity, p.ConsumptionDuration,
		p.AverageMonthlyConsumption, p.ConsumersCount, p.PreferredStore, p.ProductLink,
		nullFloat(p.LastKnownPrice), nullFloat(p.BestPrice), p.BestPriceStore, p.BestPriceLink,
		p.CreatedAt,
	)
	if err != nil {
		return Product{}, database.Report(r.conn, err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, fn func(*Product) error) (Product, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return Product{}, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Product{}, database.Report(r.conn, err)
	}
	defer tx.Rollback()

	p, err := scanProduct(tx.QueryRowContext(ctx, getProductForUpdateQuery, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, database.Report(r.conn, err)
	}
	if err := fn(&p); err != nil {
		return Product{}, err
	}
	_, err = tx.ExecContext(ctx, updateProductQuery,
		p.OwnerID, p.ID, p.Name, p.Description, p.Brand, p.ImageURL, p.Alias, p.Notes,
		string(p.Category), string(p.Unit), p.DefaultQuantity, p.ConsumptionDuration,
		p.AverageMonthlyConsumption, p.ConsumersCount, p.PreferredStore, p.ProductLink,
		nullFloat(p.LastKnownPrice), nullFloat(p.BestPrice), p.BestPriceStore, p.BestPriceLink,
	)
	if err != nil {
		return Product{}, database.Report(r.conn, err)
	}
	if err := tx.Commit(); err != nil {
		return Product{}, database.Report(r.conn, err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, deleteProductQuery, ownerID, id)
	if err != nil {
		return database.Report(r.conn, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p         Product
		category  string
		unit      string
		lastPrice sql.NullFloat64
		bestPrice sql.NullFloat64
	)
	if err := scanner.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Brand, &p.ImageURL, &p.Alias, &p.Notes,
		&category, &unit, &p.DefaultQuantity, &p.ConsumptionDuration, &p.AverageMonthlyConsumption,
		&p.ConsumersCount, &p.PreferredStore, &p.ProductLink, &lastPrice, &bestPrice,
		&p.BestPriceStore, &p.BestPriceLink, &p.CreatedAt,
	); err != nil {
		return Product{}, err
	}
	p.Category = Category(category)
	p.Unit = Unit(unit)
	if lastPrice.Valid {
		p.LastKnownPrice = &lastPrice.Float64
	}
	if bestPrice.Valid {
		p.BestPrice = &bestPrice.Float64
	}
	return p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
