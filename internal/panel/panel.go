// Package panel models the review tab of a product page: the merged review
// list, the scope and show-all toggles, and the review form.
package panel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/remote"
	"github.com/utafrali/storefront/internal/service"
)

// CollapsedCount is how many reviews are listed before "show all".
const CollapsedCount = 3

// ReviewStore is the review service surface the panel needs.
type ReviewStore interface {
	LocalReviews(ctx context.Context, productID int64) (service.LocalReviews, error)
	Submit(ctx context.Context, input service.SubmitInput) (*domain.Review, error)
}

// Form holds the review form fields.
type Form struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Point   int    `json:"point"`
}

// DefaultForm returns an empty form with the default rating.
func DefaultForm() Form {
	return Form{Point: service.DefaultPoint}
}

// Panel is the state of one review tab.
type Panel struct {
	productID int64
	store     ReviewStore
	logger    *slog.Logger

	remote    remote.Snapshot
	localMine []domain.Review
	localAll  []domain.Review
	version   int

	scope    domain.Scope
	showAll  bool
	formOpen bool
	form     Form

	result service.MergeResult
}

// New loads the local reviews and builds a panel in its initial state:
// product scope, collapsed list, closed form.
func New(ctx context.Context, productID int64, snap remote.Snapshot, store ReviewStore, logger *slog.Logger) (*Panel, error) {
	local, err := store.LocalReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load local reviews: %w", err)
	}

	p := &Panel{
		productID: productID,
		store:     store,
		logger:    logger,
		remote:    snap,
		localMine: local.Mine,
		localAll:  local.All,
		scope:     domain.ScopeProduct,
		form:      DefaultForm(),
	}
	p.recompute()
	return p, nil
}

func (p *Panel) recompute() {
	var remoteReviews []domain.Review
	if p.remote.State == remote.StateReady {
		remoteReviews = p.remote.Reviews
	}
	p.result = service.MergeReviews(service.MergeInput{
		Remote:    remoteReviews,
		LocalMine: p.localMine,
		LocalAll:  p.localAll,
		Scope:     p.scope,
		ProductID: p.productID,
	})
}

// SetRemote applies a new remote snapshot.
func (p *Panel) SetRemote(snap remote.Snapshot) {
	p.remote = snap
	p.recompute()
}

// SetScope switches between product and all-products aggregation.
func (p *Panel) SetScope(scope domain.Scope) {
	if scope != domain.ScopeAll {
		scope = domain.ScopeProduct
	}
	if scope == p.scope {
		return
	}
	p.scope = scope
	p.recompute()
}

// ToggleShowAll expands or collapses the list.
func (p *Panel) ToggleShowAll() {
	p.showAll = !p.showAll
}

// ToggleForm opens a closed form or closes an open one.
func (p *Panel) ToggleForm() {
	p.formOpen = !p.formOpen
}

// CloseForm closes the form, keeping typed values.
func (p *Panel) CloseForm() {
	p.formOpen = false
}

// SetForm replaces the form field values.
func (p *Panel) SetForm(f Form) {
	p.form = f
}

// Submit sends the form to the store. On success the new review is shown
// at once: it joins the product's local reviews, the merge is recomputed,
// the form is reset and closed and the list is expanded. On failure the
// panel is unchanged and the error is returned.
func (p *Panel) Submit(ctx context.Context) (*domain.Review, error) {
	review, err := p.store.Submit(ctx, service.SubmitInput{
		ProductID: p.productID,
		Title:     p.form.Title,
		Content:   p.form.Content,
		Point:     p.form.Point,
	})
	if err != nil {
		return nil, err
	}

	mine := make([]domain.Review, 0, len(p.localMine)+1)
	mine = append(mine, *review)
	p.localMine = append(mine, p.localMine...)
	p.version++

	if local, err := p.store.LocalReviews(ctx, p.productID); err != nil {
		p.logger.WarnContext(ctx, "reload local reviews after submit failed", slog.String("error", err.Error()))
		all := make([]domain.Review, 0, len(p.localAll)+1)
		p.localAll = append(append(all, p.localAll...), *review)
	} else {
		p.localAll = local.All
	}

	p.recompute()
	p.form = DefaultForm()
	p.formOpen = false
	p.showAll = true
	return review, nil
}

// Version counts local changes made through this panel.
func (p *Panel) Version() int {
	return p.version
}
