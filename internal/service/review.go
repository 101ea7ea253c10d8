package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/validator"
)

// DefaultPoint is the rating preselected on the review form.
const DefaultPoint = 5

var reviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "local_reviews_submitted_total",
	Help: "Reviews accepted into the local review store.",
})

// SubmitInput holds the fields of the review form. Point must be within
// 1..5: the form only offers those values and the star display clamps to
// that range, so anything else can only come from a hand-built request and
// is rejected rather than stored as sent.
type SubmitInput struct {
	ProductID int64  `json:"-"`
	Title     string `json:"title" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
	Point     int    `json:"point" validate:"min=1,max=5"`
}

// LocalReviews is one read of the local store: every local review and
// those for the current product.
type LocalReviews struct {
	All  []domain.Review
	Mine []domain.Review
}

// ReviewService implements review submission against the local store.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// LocalReviews reads the local store once and splits out productID's reviews.
func (s *ReviewService) LocalReviews(ctx context.Context, productID int64) (LocalReviews, error) {
	all, err := s.reviews.ReadAll(ctx)
	if err != nil {
		return LocalReviews{}, storeUnavailable("read local reviews", err)
	}
	return LocalReviews{All: all, Mine: domain.FilterByProduct(all, productID)}, nil
}

// storeUnavailable reports a failure of the local review store as a 503.
func storeUnavailable(op string, err error) error {
	return apperrors.Unavailable("local review store unavailable", fmt.Errorf("%s: %w", op, err))
}

// Submit validates the form and appends a new review to the local store.
// Title and content are trimmed and must not be blank; a zero point takes
// the form default. A rejected submission writes nothing.
func (s *ReviewService) Submit(ctx context.Context, input SubmitInput) (*domain.Review, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Point == 0 {
		input.Point = DefaultPoint
	}

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	review := domain.Review{
		ReviewID:   s.now().UnixMilli(),
		ProductID:  input.ProductID,
		Point:      input.Point,
		Title:      input.Title,
		ReviewText: input.Content,
	}

	if err := s.reviews.Append(ctx, review); err != nil {
		return nil, storeUnavailable("append local review", err)
	}

	reviewsSubmitted.Inc()
	s.logger.InfoContext(ctx, "review submitted",
		slog.Int64("review_id", review.ReviewID),
		slog.Int64("product_id", review.ProductID),
		slog.Int("point", review.Point),
	)

	return &review, nil
}
