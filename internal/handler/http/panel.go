package http

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/panel"
	"github.com/utafrali/storefront/internal/remote"
	"github.com/utafrali/storefront/internal/service"
)

// PanelLoader mounts a review panel for one request: it starts a remote
// fetch, waits at most renderWait for it, and reads the local store.
type PanelLoader struct {
	fetcher    remote.Fetcher
	reviews    *service.ReviewService
	renderWait time.Duration
	logger     *slog.Logger
}

// NewPanelLoader creates a PanelLoader.
func NewPanelLoader(fetcher remote.Fetcher, reviews *service.ReviewService, renderWait time.Duration, logger *slog.Logger) *PanelLoader {
	return &PanelLoader{
		fetcher:    fetcher,
		reviews:    reviews,
		renderWait: renderWait,
		logger:     logger,
	}
}

// Load builds the panel for productID. If the fetch is still running when
// the wait ends the panel shows the loading state and the late result is
// dropped.
func (l *PanelLoader) Load(ctx context.Context, productID int64, q PanelQuery) (*panel.Panel, error) {
	loader := remote.NewLoader(l.fetcher, l.logger)
	loader.Start(ctx)
	snap := loader.Wait(ctx, l.renderWait)
	loader.Dispose()

	p, err := panel.New(ctx, productID, snap, l.reviews, l.logger)
	if err != nil {
		return nil, err
	}
	p.SetScope(q.Scope)
	if q.ShowAll {
		p.ToggleShowAll()
	}
	if q.FormOpen {
		p.ToggleForm()
	}
	return p, nil
}

// PanelQuery is the review tab state requested by the client.
type PanelQuery struct {
	Scope    domain.Scope
	ShowAll  bool
	FormOpen bool
}

// ParsePanelQuery reads scope, expand and form from query values.
func ParsePanelQuery(v url.Values) PanelQuery {
	return PanelQuery{
		Scope:    domain.ParseScope(v.Get("scope")),
		ShowAll:  isTruthy(v.Get("expand")),
		FormOpen: v.Get("form") == "open",
	}
}

func isTruthy(s string) bool {
	switch s {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
