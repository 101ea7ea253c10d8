package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
)

// LocalReviewsKey is the single key holding every locally submitted review.
const LocalReviewsKey = "reviews_v1"

// ReviewRepository persists the full list of locally submitted reviews.
type ReviewRepository interface {
	// ReadAll returns the stored list. A missing key or unparsable content
	// yields an empty list; only failures of the backing store are errors.
	ReadAll(ctx context.Context) ([]domain.Review, error)

	// WriteAll replaces the stored list.
	WriteAll(ctx context.Context, reviews []domain.Review) error

	// Append adds one review to the end of the stored list. The read and
	// the write happen atomically, so concurrent appends never drop each
	// other. Unparsable stored content is replaced by a one-element list.
	Append(ctx context.Context, review domain.Review) error

	// ReadForProduct returns ReadAll filtered by product.
	ReadForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}

// ProductRepository provides read access to the product catalog.
type ProductRepository interface {
	// List returns every product ordered by id.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID returns the product or an apperrors NotFound error.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// ErrAppendConflict is returned when an append keeps losing the race
// against concurrent writers.
var ErrAppendConflict = errors.New("local reviews changed concurrently")

// EncodeReviews serializes a review list. An empty or nil list encodes as [].
func EncodeReviews(reviews []domain.Review) ([]byte, error) {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		return nil, fmt.Errorf("marshal reviews: %w", err)
	}
	return data, nil
}

// DecodeReviews parses a stored review list. Empty input decodes to an empty
// list; malformed input returns an empty list together with the parse error
// so callers can log it.
func DecodeReviews(data []byte) ([]domain.Review, error) {
	if len(data) == 0 {
		return []domain.Review{}, nil
	}
	var reviews []domain.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return []domain.Review{}, fmt.Errorf("unmarshal reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
