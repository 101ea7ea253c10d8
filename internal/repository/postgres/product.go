package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	productColumns = "id, title, content, price"

	// upsertBatchSize keeps each statement well under the 65535 parameter limit.
	upsertBatchSize = 500
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns every product ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id).
		Scan(&p.ID, &p.Title, &p.Content, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return &p, nil
}

// Upsert inserts products or updates existing rows with the same id, in
// batches. It returns the number of rows written.
func (r *ProductRepository) Upsert(ctx context.Context, products []domain.Product) (int, error) {
	written := 0
	for start := 0; start < len(products); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(products))
		batch := products[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO products (" + productColumns + ") VALUES ")
		args := make([]any, 0, len(batch)*4)
		for i, p := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			n := i * 4
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
			args = append(args, p.ID, p.Title, p.Content, p.Price)
		}
		sb.WriteString(" ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, price = EXCLUDED.price")

		tag, err := r.db.Exec(ctx, sb.String(), args...)
		if err != nil {
			return written, fmt.Errorf("upsert products %d-%d: %w", start, end-1, err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}
