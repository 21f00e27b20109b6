package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/models"
	"catalog-service/internal/util"
)

// ProductQuery narrows the snapshot listing the way the upstream filter does
type ProductQuery struct {
	Keyword    string
	CategoryID *int64
	Limit      int
	Offset     int
}

// ProductPage is one page of decoded snapshots
type ProductPage struct {
	Products []models.Product
	Total    int
	// Skipped counts rows whose payload could not be decoded
	Skipped int
}

func buildWhere(q ProductQuery) (string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		args = append(args, "%"+kw+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR stock_code ILIKE $%d OR brand_name ILIKE $%d)", n, n, n))
	}
	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func observe(query string, start time.Time) {
	util.StoreQueryLatency.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// ListProducts returns a page of product snapshots ordered by id
func (s *Store) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	defer observe("list_products", time.Now())

	where, args := buildWhere(q)

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products WHERE "+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 12
	}
	pageArgs := append(append([]interface{}{}, args...), limit, q.Offset)
	query := fmt.Sprintf("SELECT * FROM products WHERE %s ORDER BY id LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)

	var records []models.ProductRecord
	if err := s.db.SelectContext(ctx, &records, query, pageArgs...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	page := &ProductPage{Products: make([]models.Product, 0, len(records)), Total: total}
	for _, record := range records {
		product, err := decodeRecord(record)
		if err != nil {
			page.Skipped++
			continue
		}
		page.Products = append(page.Products, product)
	}
	return page, nil
}

// GetProductByID retrieves a product snapshot by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	defer observe("get_product", time.Now())

	var record models.ProductRecord
	err := s.db.GetContext(ctx, &record, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	product, err := decodeRecord(record)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertProduct stores the upstream product as a snapshot row
func (s *Store) UpsertProduct(ctx context.Context, product models.Product) error {
	defer observe("upsert_product", time.Now())

	record, err := encodeRecord(product)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO products (id, category_id, name, stock_code, brand_name, payload, updated_at)
		VALUES (:id, :category_id, :name, :stock_code, :brand_name, :payload, NOW())
		ON CONFLICT (id) DO UPDATE SET
			category_id = EXCLUDED.category_id,
			name = EXCLUDED.name,
			stock_code = EXCLUDED.stock_code,
			brand_name = EXCLUDED.brand_name,
			payload = EXCLUDED.payload,
			updated_at = NOW()`, record)
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", product.ID, err)
	}
	return nil
}

// DeleteProduct removes a snapshot
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func encodeRecord(product models.Product) (models.ProductRecord, error) {
	payload, err := json.Marshal(product)
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("failed to encode product %d: %w", product.ID, err)
	}

	record := models.ProductRecord{
		ID:        product.ID,
		Name:      product.Name,
		StockCode: product.StockCode,
		Payload:   string(payload),
	}
	if product.Category != nil {
		id := product.Category.ID
		record.CategoryID = &id
	}
	if product.Brand != nil && product.Brand.Name != "" {
		name := product.Brand.Name
		record.BrandName = &name
	}
	return record, nil
}

func decodeRecord(record models.ProductRecord) (models.Product, error) {
	var product models.Product
	if err := json.Unmarshal([]byte(record.Payload), &product); err != nil {
		return models.Product{}, fmt.Errorf("failed to decode product %d: %w", record.ID, err)
	}
	product.ID = record.ID
	return product, nil
}
