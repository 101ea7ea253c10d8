package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

// ReviewRepository keeps the serialized local review list in memory, the
// same way the Redis store keeps it under its key.
type ReviewRepository struct {
	mu     sync.RWMutex
	raw    []byte
	logger *slog.Logger
}

// NewReviewRepository creates an empty in-memory local review store.
func NewReviewRepository(logger *slog.Logger) *ReviewRepository {
	return &ReviewRepository{logger: logger}
}

// SetRaw replaces the stored bytes as they would appear in the backing store.
func (r *ReviewRepository) SetRaw(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = append([]byte(nil), data...)
}

// Raw returns a copy of the stored bytes, nil when nothing was written.
func (r *ReviewRepository) Raw() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.raw == nil {
		return nil
	}
	return append([]byte(nil), r.raw...)
}

// ReadAll decodes the stored list; unparsable content reads as empty.
func (r *ReviewRepository) ReadAll(ctx context.Context) ([]domain.Review, error) {
	reviews, err := repository.DecodeReviews(r.Raw())
	if err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable local reviews", slog.String("error", err.Error()))
	}
	return reviews, nil
}

// WriteAll replaces the stored list.
func (r *ReviewRepository) WriteAll(_ context.Context, reviews []domain.Review) error {
	data, err := repository.EncodeReviews(reviews)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.raw = data
	r.mu.Unlock()
	return nil
}

// Append adds review to the stored list under the write lock.
func (r *ReviewRepository) Append(ctx context.Context, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviews, err := repository.DecodeReviews(r.raw)
	if err != nil {
		r.logger.WarnContext(ctx, "replacing unreadable local reviews", slog.String("error", err.Error()))
	}

	data, err := repository.EncodeReviews(append(reviews, review))
	if err != nil {
		return err
	}
	r.raw = data
	return nil
}

// ReadForProduct returns the stored reviews for one product.
func (r *ReviewRepository) ReadForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	all, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterByProduct(all, productID), nil
}
