package service

import (
	"math"
	"sort"

	"github.com/utafrali/storefront/internal/domain"
)

// MergeInput holds everything the merged review view depends on.
type MergeInput struct {
	Remote    []domain.Review
	LocalMine []domain.Review
	LocalAll  []domain.Review
	Scope     domain.Scope
	ProductID int64
}

// MergeResult is the merged review list and its average rating.
type MergeResult struct {
	Merged  []domain.Review `json:"merged"`
	Average float64         `json:"average"`
}

// MergeReviews concatenates remote and local reviews for the requested scope
// and sorts them by review id, newest first. In product scope remote reviews
// are filtered by product and LocalMine is used; in all scope nothing is
// filtered and LocalAll is used. Inputs are never modified.
func MergeReviews(in MergeInput) MergeResult {
	var remote, local []domain.Review
	if in.Scope == domain.ScopeAll {
		remote = in.Remote
		local = in.LocalAll
	} else {
		remote = domain.FilterByProduct(in.Remote, in.ProductID)
		local = in.LocalMine
	}

	merged := make([]domain.Review, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	merged = append(merged, local...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ReviewID > merged[j].ReviewID
	})

	return MergeResult{Merged: merged, Average: Average(merged)}
}

// Average returns the mean point rounded to one decimal place, or 0 for an
// empty list.
func Average(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += float64(r.Point)
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}
