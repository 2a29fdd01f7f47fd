package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/schema"
)

// ProductStore is the storage surface the product service needs.
type ProductStore interface {
	Insert(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, int, error)
	Update(ctx context.Context, p models.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, qty int) error
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
	Count(ctx context.Context) (int, error)
}

// Products implements catalog operations.
type Products struct {
	store ProductStore
}

// NewProducts builds the product service.
func NewProducts(store ProductStore) *Products {
	return &Products{store: store}
}

// Create validates and persists a new product. The slug derives from
// the name.
func (s *Products) Create(ctx context.Context, in schema.ProductInput) (models.Product, error) {
	valid, err := schema.ValidateProduct(in)
	if err != nil {
		return models.Product{}, err
	}
	p := models.Product{
		Name:        valid.Name,
		Slug:        schema.Slug(valid.Name),
		Description: valid.Description,
		Price:       valid.Price,
		Stock:       valid.Stock,
		Category:    valid.Category,
	}
	out, err := s.store.Insert(ctx, p)
	if err != nil {
		return models.Product{}, storeErr(ctx, logger.SVCProducts, "product.create", err)
	}
	logger.Info(ctx, logger.SVCProducts, "product.created",
		"id", out.ID,
		"slug", out.Slug,
	)
	return out, nil
}

// Get fetches one product by its string identifier.
func (s *Products) Get(ctx context.Context, rawID string) (models.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Product{}, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, storeErr(ctx, logger.SVCProducts, "product.get", err, "id", rawID)
	}
	return p, nil
}

// List returns one page of products plus pagination metadata.
func (s *Products) List(ctx context.Context, limit, offset int) ([]models.Product, models.ListMeta, error) {
	limit, offset = clampPage(limit, offset)
	items, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, models.ListMeta{}, storeErr(ctx, logger.SVCProducts, "product.list", err)
	}
	return items, models.NewListMeta(total, limit, offset), nil
}

// Update validates and rewrites an existing product.
func (s *Products) Update(ctx context.Context, rawID string, in schema.ProductInput) (models.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Product{}, err
	}
	valid, err := schema.ValidateProduct(in)
	if err != nil {
		return models.Product{}, err
	}
	p := models.Product{
		ID:          id,
		Name:        valid.Name,
		Slug:        schema.Slug(valid.Name),
		Description: valid.Description,
		Price:       valid.Price,
		Stock:       valid.Stock,
		Category:    valid.Category,
	}
	if err := s.store.Update(ctx, p); err != nil {
		return models.Product{}, storeErr(ctx, logger.SVCProducts, "product.update", err, "id", rawID)
	}
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, storeErr(ctx, logger.SVCProducts, "product.update.readback", err, "id", rawID)
	}
	return out, nil
}

// UpdateStock sets the absolute stock quantity after bounds checks.
func (s *Products) UpdateStock(ctx context.Context, rawID string, qty int) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := schema.ValidateQuantity(qty); err != nil {
		return &schema.ValidationError{Fields: []schema.FieldError{{Field: "quantity", Reason: err.Error()}}}
	}
	if err := s.store.UpdateStock(ctx, id, qty); err != nil {
		return storeErr(ctx, logger.SVCStock, "stock.update", err, "id", rawID, "qty", qty)
	}
	logger.Info(ctx, logger.SVCStock, "stock.updated",
		"id", rawID,
		"qty", qty,
	)
	return nil
}

// Delete removes one product.
func (s *Products) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(ctx, logger.SVCProducts, "product.delete", err, "id", rawID)
	}
	logger.Info(ctx, logger.SVCProducts, "product.deleted", "id", rawID)
	return nil
}

// LowStock lists products at or below the given threshold; a non
// positive threshold uses the default.
func (s *Products) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = LowStockThreshold
	}
	items, err := s.store.LowStock(ctx, threshold)
	if err != nil {
		return nil, storeErr(ctx, logger.SVCStock, "stock.low", err, "threshold", threshold)
	}
	return items, nil
}

// Count returns the catalog size.
func (s *Products) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, storeErr(ctx, logger.SVCProducts, "product.count", err)
	}
	return n, nil
}
