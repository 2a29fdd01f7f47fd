package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cozyberries/opsbot/internal/models"
)

// ProductRepo persists catalog items.
type ProductRepo struct {
	db *sqlx.DB
}

const productColumns = `id, name, slug, description, price, stock_quantity, category, created_at, updated_at`

// Insert stores a new product and returns the stored row.
func (r *ProductRepo) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	var out models.Product
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO products (id, name, slug, description, price, stock_quantity, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.Category,
	)
	return out, err
}

// GetByID fetches one product.
func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return p, noRow(err)
}

// List returns one page ordered by name, plus the total count.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	total, err := countQuery(ctx, r.db, `SELECT COUNT(*) FROM products`)
	if err != nil {
		return nil, 0, err
	}
	var items []models.Product
	err = r.db.SelectContext(ctx, &items, `
		SELECT `+productColumns+` FROM products
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	return items, total, err
}

// Update rewrites the mutable fields of one product.
func (r *ProductRepo) Update(ctx context.Context, p models.Product) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5,
		    stock_quantity = $6, category = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.Category,
	))
}

// UpdateStock sets the absolute stock quantity.
func (r *ProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, qty int) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		id, qty,
	))
}

// Delete removes one product.
func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id))
}

// LowStock lists products at or below threshold, lowest first.
func (r *ProductRepo) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var items []models.Product
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+productColumns+` FROM products
		WHERE stock_quantity <= $1
		ORDER BY stock_quantity ASC, name ASC`,
		threshold,
	)
	return items, err
}

// Count returns the catalog size.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM products`)
}
