package domain

// Review is a single product review. Remote reviews carry their own ids;
// locally submitted reviews use their creation time in milliseconds.
type Review struct {
	ReviewID   int64  `json:"reviewId"`
	ProductID  int64  `json:"productId"`
	Point      int    `json:"point"`
	Title      string `json:"title"`
	ReviewText string `json:"review"`
}

// FilterByProduct returns the reviews belonging to productID in their
// original order. The input slice is not modified.
func FilterByProduct(reviews []Review, productID int64) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}
