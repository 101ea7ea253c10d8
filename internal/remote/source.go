package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

// DefaultURL is the published remote review document.
const DefaultURL = "https://zzzmini.github.io/js/shoesReview.json"

const maxPayloadBytes = 8 << 20

var fetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_review_fetches_total",
		Help: "Remote review fetches by outcome.",
	},
	[]string{"outcome"},
)

// Fetcher loads the complete remote review list.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.Review, error)
}

// Doer executes an HTTP request. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// FetchError reports a failed remote fetch. Message is what the review
// panel shows to the user.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source fetches reviews from a static JSON document.
type Source struct {
	url    string
	client Doer
	logger *slog.Logger
}

// NewSource creates a Source for url.
func NewSource(url string, client Doer, logger *slog.Logger) *Source {
	return &Source{url: url, client: client, logger: logger}
}

// FetchAll issues one GET with caching disabled and decodes the payload.
// A JSON value that is not an array yields an empty list.
func (s *Source) FetchAll(ctx context.Context) ([]domain.Review, error) {
	ctx, span := tracing.Tracer("github.com/utafrali/storefront/internal/remote").Start(ctx, "remote.FetchAll")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", s.url))

	reviews, err := s.fetch(ctx)
	if err != nil {
		fetchTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "remote review fetch failed",
			slog.String("url", s.url),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	fetchTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("reviews.count", len(reviews)))
	return reviews, nil
}

func (s *Source) fetch(ctx context.Context) ([]domain.Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{Message: "invalid review URL", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		var statusErr *httpclient.StatusError
		switch {
		case errors.As(err, &statusErr):
			return nil, &FetchError{Message: fmt.Sprintf("HTTP %d", statusErr.StatusCode), Err: err}
		case httpclient.IsRejected(err):
			return nil, &FetchError{Message: "review source temporarily unavailable", Err: err}
		default:
			return nil, &FetchError{Message: "fetch error", Err: err}
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if !httpclient.IsSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, &FetchError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, &FetchError{Message: "fetch error", Err: err}
	}

	return s.decode(ctx, body)
}

// decode parses the payload leniently: numeric fields may be numbers or
// numeric strings, and elements that cannot be coerced are skipped.
func (s *Source) decode(ctx context.Context, body []byte) ([]domain.Review, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, &FetchError{Message: "invalid review payload", Err: err}
	}

	items, ok := payload.([]any)
	if !ok {
		return []domain.Review{}, nil
	}

	reviews := make([]domain.Review, 0, len(items))
	for i, item := range items {
		r, err := coerceReview(item)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping remote review",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func coerceReview(item any) (domain.Review, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return domain.Review{}, fmt.Errorf("element is %T, not an object", item)
	}

	id, err := requiredInt(obj, "reviewId")
	if err != nil {
		return domain.Review{}, err
	}
	productID, err := requiredInt(obj, "productId")
	if err != nil {
		return domain.Review{}, err
	}

	var point int64
	if v, present := obj["point"]; present && v != nil {
		point, err = toInt(v, true)
		if err != nil {
			return domain.Review{}, fmt.Errorf("point: %w", err)
		}
	}

	title, err := optionalString(obj, "title")
	if err != nil {
		return domain.Review{}, err
	}
	text, err := optionalString(obj, "review")
	if err != nil {
		return domain.Review{}, err
	}

	return domain.Review{
		ReviewID:   id,
		ProductID:  productID,
		Point:      int(point),
		Title:      title,
		ReviewText: text,
	}, nil
}

func requiredInt(obj map[string]any, key string) (int64, error) {
	v, present := obj[key]
	if !present || v == nil {
		return 0, fmt.Errorf("%s is missing", key)
	}
	n, err := toInt(v, false)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// toInt accepts a JSON number or a numeric string. Fractional values are
// rejected unless round is set.
func toInt(v any, round bool) (int64, error) {
	var raw string
	switch t := v.(type) {
	case json.Number:
		raw = t.String()
	case string:
		raw = strings.TrimSpace(t)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not numeric", raw)
	}
	if f != math.Trunc(f) && !round {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if math.Abs(f) > math.MaxInt64/2 {
		return 0, fmt.Errorf("%q is out of range", raw)
	}
	return int64(math.Round(f)), nil
}

func optionalString(obj map[string]any, key string) (string, error) {
	v, present := obj[key]
	if !present || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%s: unexpected type %T", key, v)
	}
}
