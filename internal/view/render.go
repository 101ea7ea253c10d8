package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/panel"
	"github.com/utafrali/storefront/internal/remote"
)

//go:embed templates/*.html
var templateFiles embed.FS

// IndexPage is the data of the product list page.
type IndexPage struct {
	Products []domain.Product
	Notice   string
}

// DetailPage is the data of the product detail page.
type DetailPage struct {
	Product domain.Product
	Tab     Tab
	Tabs    []TabInfo
	Notice  string

	// Panel is set only when the review tab is active.
	Panel *panel.View
	Links ReviewLinks
}

// NewDetailPage assembles the detail page data. pv may be nil.
func NewDetailPage(p domain.Product, tab Tab, pv *panel.View, notice string) DetailPage {
	page := DetailPage{
		Product: p,
		Tab:     tab.normalize(),
		Tabs:    AllTabs(tab),
		Notice:  notice,
		Panel:   pv,
	}
	if pv != nil {
		page.Links = LinksFor(*pv)
	}
	return page
}

// Renderer executes the embedded page templates.
type Renderer struct {
	index  *template.Template
	detail *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"stars":       starsOf,
		"productPath": ProductPath,
		"tabURL": func(productID int64, t Tab) string {
			return fmt.Sprintf("%s?tab=%d", ProductPath(productID), int(t))
		},
		"points":     func() []int { return []int{1, 2, 3, 4, 5} },
		"isLoading":  func(s remote.State) bool { return s == remote.StateLoading },
		"isError":    func(s remote.State) bool { return s == remote.StateError },
		"isAllScope": func(s domain.Scope) bool { return s == domain.ScopeAll },
	}

	index, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	detail, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/detail.html", "templates/reviews.html")
	if err != nil {
		return nil, fmt.Errorf("parse detail template: %w", err)
	}

	return &Renderer{index: index, detail: detail}, nil
}

// Index renders the product list page.
func (r *Renderer) Index(w io.Writer, page IndexPage) error {
	return execute(w, r.index, page)
}

// Detail renders the product detail page.
func (r *Renderer) Detail(w io.Writer, page DetailPage) error {
	return execute(w, r.detail, page)
}

// execute renders into a buffer first so a template error never leaves a
// half-written page.
func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
