package view

import (
	"fmt"
	"net/url"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/panel"
)

// ProductPath returns the detail page path of a product.
func ProductPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

// ReviewQuery is the review tab state carried in detail page URLs.
type ReviewQuery struct {
	Scope    domain.Scope
	ShowAll  bool
	FormOpen bool
}

// Values encodes the query with the review tab selected.
func (q ReviewQuery) Values() url.Values {
	v := url.Values{}
	v.Set("tab", fmt.Sprint(int(TabReviews)))
	if q.Scope == domain.ScopeAll {
		v.Set("scope", string(domain.ScopeAll))
	}
	if q.ShowAll {
		v.Set("expand", "1")
	}
	if q.FormOpen {
		v.Set("form", "open")
	}
	return v
}

// ReviewURL returns the detail page URL for productID with the given state.
func ReviewURL(productID int64, q ReviewQuery) string {
	return ProductPath(productID) + "?" + q.Values().Encode()
}

// ReviewLinks are the toggle links of the review tab.
type ReviewLinks struct {
	ToggleScope  string
	ToggleExpand string
	ToggleForm   string
	Submit       string
}

// LinksFor builds the toggle links from the current panel view.
func LinksFor(v panel.View) ReviewLinks {
	cur := ReviewQuery{Scope: v.Scope, ShowAll: v.ShowAll, FormOpen: v.FormOpen}

	scope := cur
	scope.Scope = cur.Scope.Toggle()
	expand := cur
	expand.ShowAll = !cur.ShowAll
	form := cur
	form.FormOpen = !cur.FormOpen

	return ReviewLinks{
		ToggleScope:  ReviewURL(v.ProductID, scope),
		ToggleExpand: ReviewURL(v.ProductID, expand),
		ToggleForm:   ReviewURL(v.ProductID, form),
		Submit:       ProductPath(v.ProductID) + "/reviews",
	}
}
