package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	GetRelated(ctx context.Context, productID uuid.UUID, category string, limit int) ([]models.Product, error)
	List(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

var productColumnNames = []string{
	"id", "name", "brand", "category", "price", "original_price",
	"description", "short_description", "image", "images", "stock", "status",
	"variants", "average_rating", "total_reviews", "tags", "is_new", "sku",
	"created_at", "updated_at",
}

var productColumns = strings.Join(productColumnNames, ", ")

func productColumnsPrefixed(alias string) string {
	prefixed := make([]string, len(productColumnNames))
	for i, col := range productColumnNames {
		prefixed[i] = alias + "." + col
	}

	return strings.Join(prefixed, ", ")
}

// productRow holds the raw column values; nullable and JSONB columns go
// through intermediates before landing in the model.
type productRow struct {
	product       models.Product
	originalPrice sql.NullFloat64
	shortDesc     sql.NullString
	imagesJSON    []byte
	variantsJSON  []byte
	tags          pq.StringArray
}

func (r *productRow) scanDest() []any {
	p := &r.product

	return []any{
		&p.ID, &p.Name, &p.Brand, &p.Category, &p.Price, &r.originalPrice,
		&p.Description, &r.shortDesc, &p.Image, &r.imagesJSON, &p.Stock, &p.Status,
		&r.variantsJSON, &p.AverageRating, &p.TotalReviews, &r.tags, &p.IsNew, &p.SKU,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func (r *productRow) toModel() (*models.Product, error) {
	p := r.product

	if r.originalPrice.Valid {
		price := r.originalPrice.Float64
		p.OriginalPrice = &price
	}

	p.ShortDescription = r.shortDesc.String
	p.Tags = []string(r.tags)

	if len(r.imagesJSON) > 0 {
		if err := json.Unmarshal(r.imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product images: %w", err)
		}
	}

	if len(r.variantsJSON) > 0 {
		if err := json.Unmarshal(r.variantsJSON, &p.Variants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product variants: %w", err)
		}
	}

	return &p, nil
}

func marshalProductJSON(product *models.Product) (imagesJSON, variantsJSON []byte, err error) {
	if len(product.Images) > 0 {
		imagesJSON, err = json.Marshal(product.Images)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal product images: %w", err)
		}
	}

	if product.Variants != nil {
		variantsJSON, err = json.Marshal(product.Variants)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal product variants: %w", err)
		}
	}

	return imagesJSON, variantsJSON, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	imagesJSON, variantsJSON, err := marshalProductJSON(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (name, brand, category, price, original_price, description,
			short_description, image, images, stock, status, variants, tags, is_new, sku,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Brand, product.Category, product.Price, product.OriginalPrice,
		product.Description, nullableString(product.ShortDescription), product.Image, imagesJSON,
		product.Stock, product.Status, variantsJSON, pq.Array(product.Tags), product.IsNew,
		product.SKU).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var row productRow

	if err := r.DB.QueryRowContext(dbCtx, query, id).Scan(row.scanDest()...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return row.toModel()
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(strIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepository) GetRelated(ctx context.Context, productID uuid.UUID, category string, limit int) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id != $1 AND category = $2 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query related products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// sortColumns whitelists what ORDER BY may reference; anything else falls
// back to newest-first.
var sortColumns = map[string]string{
	"name":          "name",
	"brand":         "brand",
	"category":      "category",
	"price":         "price",
	"stock":         "stock",
	"averageRating": "average_rating",
	"createdAt":     "created_at",
}

func (r *productRepository) List(ctx context.Context, filter *models.ProductFilter) ([]models.Product, int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := []string{}
	args := []any{}

	addArg := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Brand != "" {
		addArg("brand = $%d", filter.Brand)
	}

	if filter.Category != "" {
		addArg("category = $%d", filter.Category)
	}

	if filter.MinPrice != nil {
		addArg("price >= $%d", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		addArg("price <= $%d", *filter.MaxPrice)
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR brand ILIKE $%d)", n, n, n))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderClause := " ORDER BY created_at DESC"

	if col, ok := sortColumns[filter.Sort]; ok {
		direction := "ASC"
		if strings.EqualFold(filter.Order, "desc") {
			direction = "DESC"
		}

		orderClause = fmt.Sprintf(" ORDER BY %s %s", col, direction)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	pageClause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	query := `SELECT ` + productColumns + ` FROM products` + whereClause + orderClause + pageClause

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	imagesJSON, variantsJSON, err := marshalProductJSON(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, brand = $2, category = $3, price = $4, original_price = $5,
			description = $6, short_description = $7, image = $8, images = $9, stock = $10,
			status = $11, variants = $12, tags = $13, is_new = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Brand, product.Category, product.Price, product.OriginalPrice,
		product.Description, nullableString(product.ShortDescription), product.Image, imagesJSON,
		product.Stock, product.Status, variantsJSON, pq.Array(product.Tags), product.IsNew,
		product.ID).
		Scan(&product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}

		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}

	for rows.Next() {
		var row productRow
		if err := rows.Scan(row.scanDest()...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		product, err := row.toModel()
		if err != nil {
			return nil, err
		}

		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
