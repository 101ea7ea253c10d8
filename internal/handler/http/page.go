package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/panel"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/view"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// User-facing notices.
const (
	NoticeProductNotFound  = "The product you are looking for does not exist."
	NoticeReviewIncomplete = "Please enter both a title and a review."
	NoticeReviewPoint      = "Please choose a rating from 1 to 5."
)

// PageHandler serves the server-rendered storefront pages.
type PageHandler struct {
	products *service.ProductService
	reviews  *service.ReviewService
	panels   *PanelLoader
	renderer *view.Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(products *service.ProductService, reviews *service.ReviewService, panels *PanelLoader, renderer *view.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		products: products,
		reviews:  reviews,
		panels:   panels,
		renderer: renderer,
		logger:   logger,
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Index(w, view.IndexPage{Products: products, Notice: r.URL.Query().Get("notice")}); err != nil {
		h.serverError(w, r, err)
	}
}

// Detail handles GET /products/{id}?tab=&scope=&expand=&form=
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tab := view.ParseTab(q.Get("tab"))

	var pv *panel.View
	if tab == view.TabReviews {
		p, err := h.panels.Load(r.Context(), product.ID, ParsePanelQuery(q))
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		v := p.View()
		pv = &v
	}

	h.renderDetail(w, r, http.StatusOK, view.NewDetailPage(*product, tab, pv, q.Get("notice")))
}

// SubmitReview handles POST /products/{id}/reviews from the review form.
// A valid review is stored and answered with a redirect; the remote source
// is only consulted when the form has to be shown again.
func (h *PageHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	scope := domain.ParseScope(r.PostForm.Get("scope"))
	// An unparsable point falls back to the form default.
	point, _ := strconv.Atoi(r.PostForm.Get("point"))
	form := panel.Form{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
		Point:   point,
	}

	_, err := h.reviews.Submit(r.Context(), service.SubmitInput{
		ProductID: product.ID,
		Title:     form.Title,
		Content:   form.Content,
		Point:     form.Point,
	})
	if err == nil {
		target := view.ReviewURL(product.ID, view.ReviewQuery{Scope: scope, ShowAll: true})
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	var valErr *validator.ValidationError
	switch {
	case errors.As(err, &valErr):
		p, loadErr := h.panels.Load(r.Context(), product.ID, PanelQuery{Scope: scope, FormOpen: true})
		if loadErr != nil {
			h.serverError(w, r, loadErr)
			return
		}
		p.SetForm(form)
		v := p.View()
		h.renderDetail(w, r, http.StatusBadRequest, view.NewDetailPage(*product, view.TabReviews, &v, reviewNotice(valErr)))
	case errors.Is(err, apperrors.ErrNotFound):
		redirectBack(w, r, NoticeProductNotFound)
	default:
		h.serverError(w, r, err)
	}
}

// reviewNotice turns the rejected form fields into the blocking message.
func reviewNotice(valErr *validator.ValidationError) string {
	fields := valErr.Fields()
	var notices []string
	_, title := fields["title"]
	_, content := fields["content"]
	if title || content {
		notices = append(notices, NoticeReviewIncomplete)
	}
	if _, ok := fields["point"]; ok {
		notices = append(notices, NoticeReviewPoint)
	}
	if len(notices) == 0 {
		return NoticeReviewIncomplete
	}
	return strings.Join(notices, " ")
}

func (h *PageHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectBack(w, r, NoticeProductNotFound)
		return nil, false
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			redirectBack(w, r, NoticeProductNotFound)
			return nil, false
		}
		h.serverError(w, r, err)
		return nil, false
	}
	return product, true
}

func (h *PageHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, page view.DetailPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Detail(w, page); err != nil {
		logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "render detail page failed",
			slog.String("error", err.Error()),
		)
	}
}

func (h *PageHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "page request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// redirectBack sends the client to the referring page of this site, or the
// home page, with notice attached.
func redirectBack(w http.ResponseWriter, r *http.Request, notice string) {
	target := &url.URL{Path: "/"}
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && strings.HasPrefix(ref.Path, "/") &&
		(ref.Host == "" || ref.Host == r.Host) && ref.Path != r.URL.Path {
		target = &url.URL{Path: ref.Path, RawQuery: ref.RawQuery}
	}

	q := target.Query()
	q.Set("notice", notice)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}
