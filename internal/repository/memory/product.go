package memory

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// ProductRepository is a read-only catalog held in memory.
type ProductRepository struct {
	products []domain.Product
	byID     map[int64]int
}

// NewProductRepository builds a catalog from the given products, sorted by id.
// Duplicate ids are rejected.
func NewProductRepository(products []domain.Product) (*ProductRepository, error) {
	sorted := append([]domain.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int64]int, len(sorted))
	for i, p := range sorted {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d in catalog", p.ID)
		}
		byID[p.ID] = i
	}
	return &ProductRepository{products: sorted, byID: byID}, nil
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(data []byte) (*ProductRepository, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewProductRepository(f.Products)
}

// LoadCatalogFile reads the catalog from path, or the embedded default
// catalog when path is empty.
func LoadCatalogFile(path string) (*ProductRepository, error) {
	if path == "" {
		return LoadCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return LoadCatalog(data)
}

// List returns all products ordered by id.
func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), r.products...), nil
}

// GetByID returns the product with the given id.
func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	p := r.products[i]
	return &p, nil
}
