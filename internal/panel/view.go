package panel

import (
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/remote"
)

// View is the render model of the review tab.
type View struct {
	ProductID int64           `json:"productId"`
	State     remote.State    `json:"state"`
	Error     string          `json:"error,omitempty"`
	Count     int             `json:"count"`
	Average   float64         `json:"average"`
	Reviews   []domain.Review `json:"reviews"`
	CanExpand bool            `json:"canExpand"`
	ShowAll   bool            `json:"showAll"`
	Scope     domain.Scope    `json:"scope"`
	FormOpen  bool            `json:"formOpen"`
	Form      Form            `json:"form"`
}

// View returns the current render model. Reviews holds the visible part of
// the merged list: the first CollapsedCount entries unless expanded.
func (p *Panel) View() View {
	merged := p.result.Merged
	visible := merged
	if !p.showAll && len(visible) > CollapsedCount {
		visible = visible[:CollapsedCount]
	}

	reviews := make([]domain.Review, len(visible))
	copy(reviews, visible)

	return View{
		ProductID: p.productID,
		State:     p.remote.State,
		Error:     p.remote.Err,
		Count:     len(merged),
		Average:   p.result.Average,
		Reviews:   reviews,
		CanExpand: len(merged) > CollapsedCount,
		ShowAll:   p.showAll,
		Scope:     p.scope,
		FormOpen:  p.formOpen,
		Form:      p.form,
	}
}
