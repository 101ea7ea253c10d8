package view

import (
	"bytes"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/panel"
	"github.com/utafrali/storefront/internal/remote"
)

func TestStars(t *testing.T) {
	tests := []struct {
		point float64
		want  string
	}{
		{point: 0, want: "☆☆☆☆☆"},
		{point: 3, want: "★★★☆☆"},
		{point: 4.3, want: "★★★★☆"},
		{point: 4.5, want: "★★★★★"},
		{point: 5, want: "★★★★★"},
		{point: 9, want: "★★★★★"},
		{point: -2, want: "☆☆☆☆☆"},
		{point: math.NaN(), want: "☆☆☆☆☆"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Stars(tt.point), "point %v", tt.point)
	}
}

func TestStarsOf(t *testing.T) {
	assert.Equal(t, "★★☆☆☆", starsOf(2))
	assert.Equal(t, "★★☆☆☆", starsOf(int64(2)))
	assert.Equal(t, "★★★★☆", starsOf(3.7))
	assert.Equal(t, "☆☆☆☆☆", starsOf("x"))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabFeatures, ParseTab(""))
	assert.Equal(t, TabSizeGuide, ParseTab("1"))
	assert.Equal(t, TabShipping, ParseTab("2"))
	assert.Equal(t, TabReviews, ParseTab("3"))
	assert.Equal(t, TabFeatures, ParseTab("4"))
	assert.Equal(t, TabFeatures, ParseTab("-1"))
	assert.Equal(t, TabFeatures, ParseTab("reviews"))
}

func TestAllTabs(t *testing.T) {
	tabs := AllTabs(TabShipping)

	require.Len(t, tabs, 4)
	assert.Equal(t, "Reviews", tabs[3].Label)
	for _, tab := range tabs {
		assert.Equal(t, tab.Index == TabShipping, tab.Active)
	}
	assert.Equal(t, "Features", Tab(12).Label())
}

func TestLinksFor(t *testing.T) {
	links := LinksFor(panel.View{ProductID: 2, Scope: domain.ScopeAll, ShowAll: true})

	scope := parseQuery(t, links.ToggleScope)
	assert.Equal(t, "3", scope.Get("tab"))
	assert.Empty(t, scope.Get("scope"))
	assert.Equal(t, "1", scope.Get("expand"))

	expand := parseQuery(t, links.ToggleExpand)
	assert.Equal(t, "all", expand.Get("scope"))
	assert.Empty(t, expand.Get("expand"))

	form := parseQuery(t, links.ToggleForm)
	assert.Equal(t, "open", form.Get("form"))

	assert.Equal(t, "/products/2/reviews", links.Submit)
}

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/products/2", u.Path)
	return u.Query()
}

func renderDetail(t *testing.T, page DetailPage) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Detail(&buf, page))
	return buf.String()
}

var shoe = domain.Product{ID: 1, Title: "Red Knit", Content: "Born in Seoul", Price: 110000}

func TestRenderer_DetailFeatures(t *testing.T) {
	out := renderDetail(t, NewDetailPage(shoe, TabFeatures, nil, ""))

	assert.Contains(t, out, `src="/images/shoes2.jpg"`)
	assert.Contains(t, out, "Red Knit")
	assert.Contains(t, out, "110000")
	assert.Contains(t, out, `href="/products/1?tab=3"`)
	assert.NotContains(t, out, "Reviews (")
}

func TestRenderer_DetailReviewsReady(t *testing.T) {
	pv := panel.View{
		ProductID: 1,
		State:     remote.StateReady,
		Count:     4,
		Average:   4.3,
		Reviews:   []domain.Review{{ReviewID: 9, ProductID: 1, Point: 4, Title: "<b>Nice</b>", ReviewText: "Fits"}},
		CanExpand: true,
		Scope:     domain.ScopeProduct,
		Form:      panel.DefaultForm(),
	}

	out := renderDetail(t, NewDetailPage(shoe, TabReviews, &pv, ""))

	assert.Contains(t, out, "Reviews (4)")
	assert.Contains(t, out, "★★★★☆ <small>Average 4.3</small>")
	assert.Contains(t, out, "&lt;b&gt;Nice&lt;/b&gt;")
	assert.Contains(t, out, "Review ID: 9")
	assert.Contains(t, out, "Show more")
	assert.NotContains(t, out, "<form")
}

func TestRenderer_DetailReviewsFormOpen(t *testing.T) {
	pv := panel.View{
		ProductID: 1,
		State:     remote.StateReady,
		Reviews:   []domain.Review{},
		Scope:     domain.ScopeAll,
		FormOpen:  true,
		Form:      panel.Form{Title: "draft", Point: 3},
	}

	out := renderDetail(t, NewDetailPage(shoe, TabReviews, &pv, "Please enter both a title and a review."))

	assert.Contains(t, out, `<form method="post" action="/products/1/reviews">`)
	assert.Contains(t, out, `value="3" checked`)
	assert.Contains(t, out, `value="draft"`)
	assert.Contains(t, out, `name="scope" value="all"`)
	assert.Contains(t, out, "No reviews yet.")
	assert.Contains(t, out, "Please enter both a title and a review.")
}

func TestRenderer_DetailReviewsLoadingAndError(t *testing.T) {
	loading := panel.View{ProductID: 1, State: remote.StateLoading, Reviews: []domain.Review{}}
	assert.Contains(t, renderDetail(t, NewDetailPage(shoe, TabReviews, &loading, "")), "Loading reviews")

	failed := panel.View{ProductID: 1, State: remote.StateError, Error: "HTTP 404", Reviews: []domain.Review{}}
	out := renderDetail(t, NewDetailPage(shoe, TabReviews, &failed, ""))
	assert.Contains(t, out, "Failed to load reviews: HTTP 404")
	assert.False(t, strings.Contains(out, "Reviews ("))
}

func TestRenderer_Index(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Index(&buf, IndexPage{Products: []domain.Product{shoe}, Notice: "Product not found."}))

	out := buf.String()
	assert.Contains(t, out, `href="/products/1"`)
	assert.Contains(t, out, "Product not found.")
}
