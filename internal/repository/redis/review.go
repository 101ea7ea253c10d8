package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

// ReviewRepository implements repository.ReviewRepository on a single Redis
// string key without expiry.
type ReviewRepository struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewReviewRepository creates a Redis-backed local review store.
func NewReviewRepository(client *redis.Client, logger *slog.Logger) *ReviewRepository {
	return &ReviewRepository{
		client: client,
		key:    repository.LocalReviewsKey,
		logger: logger,
	}
}

// ReadAll loads the stored list. Unparsable content is logged and read as
// an empty list.
func (r *ReviewRepository) ReadAll(ctx context.Context) ([]domain.Review, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Review{}, nil
		}
		return nil, fmt.Errorf("redis get reviews: %w", err)
	}

	reviews, err := repository.DecodeReviews(data)
	if err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable local reviews",
			slog.String("key", r.key),
			slog.String("error", err.Error()),
		)
	}
	return reviews, nil
}

// WriteAll replaces the stored list.
func (r *ReviewRepository) WriteAll(ctx context.Context, reviews []domain.Review) error {
	data, err := repository.EncodeReviews(reviews)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set reviews: %w", err)
	}
	return nil
}

// maxAppendAttempts bounds the optimistic retries of Append.
const maxAppendAttempts = 50

// Append adds review to the stored list inside a WATCH/MULTI transaction,
// retrying when another writer changed the key in between.
func (r *ReviewRepository) Append(ctx context.Context, review domain.Review) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, r.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis get reviews: %w", err)
		}

		reviews, err := repository.DecodeReviews(data)
		if err != nil {
			r.logger.WarnContext(ctx, "replacing unreadable local reviews",
				slog.String("key", r.key),
				slog.String("error", err.Error()),
			)
		}

		updated, err := repository.EncodeReviews(append(reviews, review))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, updated, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, r.key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("redis append review: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("redis append review: %w", err)
		}
	}

	return fmt.Errorf("redis append review after %d attempts: %w", maxAppendAttempts, repository.ErrAppendConflict)
}

// ReadForProduct returns the stored reviews for one product.
func (r *ReviewRepository) ReadForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	all, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterByProduct(all, productID), nil
}
