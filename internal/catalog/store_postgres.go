package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

const (
	productColumns = `id, name, description, price, category, image_url, sku, stock_level, sales_count, created_at, updated_at`

	upsertProductQuery = `
		INSERT INTO products (id, name, description, price, category, image_url, sku, stock_level, sales_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			sku = EXCLUDED.sku,
			stock_level = EXCLUDED.stock_level,
			sales_count = EXCLUDED.sales_count,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`
	getAllProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY updated_at DESC, id
	`
	getByCategoryQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY updated_at DESC, id
	`
	searchProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY updated_at DESC, id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	getProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::text[])
	`
	distinctCategoriesQuery = `
		SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category
	`
	countProductsQuery = `SELECT COUNT(*) FROM products`
	clearProductsQuery = `DELETE FROM products`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpsertAll applies the whole batch inside one transaction so readers never
// observe a half-applied sync.
func (s *PostgresStore) UpsertAll(ctx context.Context, products []Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, upsertProductQuery)
	if err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			p.Name,
			p.Description,
			p.Price,
			p.Category,
			p.ImageURL,
			p.SKU,
			p.StockLevel,
			p.SalesCount,
			p.CreatedAt,
			p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, getAllProductsQuery)
}

func (s *PostgresStore) GetByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.queryProducts(ctx, getByCategoryQuery, category)
}

func (s *PostgresStore) Search(ctx context.Context, query string) ([]Product, error) {
	return s.queryProducts(ctx, searchProductsQuery, "%"+query+"%")
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Product, error) {
	row := s.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) GetByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}
	products, err := s.queryProducts(ctx, getProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[string]Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *PostgresStore) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, distinctCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countProductsQuery).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, clearProductsQuery)
	return err
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	var p Product
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.ImageURL,
		&p.SKU,
		&p.StockLevel,
		&p.SalesCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	return p, nil
}
