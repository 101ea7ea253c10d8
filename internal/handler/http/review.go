package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// ReviewHandler handles the JSON review endpoints.
type ReviewHandler struct {
	products *service.ProductService
	reviews  *service.ReviewService
	panels   *PanelLoader
	logger   *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(products *service.ProductService, reviews *service.ReviewService, panels *PanelLoader, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		products: products,
		reviews:  reviews,
		panels:   panels,
		logger:   logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for submitting a review.
// Blank fields and the point range are checked by the review service after
// trimming; here only the sizes are bounded.
type CreateReviewRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"max=5000"`
	Point   int    `json:"point"`
}

// --- Handlers ---

// GetReviews handles GET /api/v1/products/{id}/reviews?scope=&expand=
// It returns the review panel as rendered on the product page.
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if _, err := h.products.GetProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	p, err := h.panels.Load(r.Context(), id, ParsePanelQuery(r.URL.Query()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p.View()})
}

// CreateReview handles POST /api/v1/products/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	review, err := h.reviews.Submit(r.Context(), service.SubmitInput{
		ProductID: id,
		Title:     req.Title,
		Content:   req.Content,
		Point:     req.Point,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}
