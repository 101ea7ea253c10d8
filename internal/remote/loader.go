package remote

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// State is the progress of a remote review load.
type State string

// Load states.
const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

// Snapshot is the observable result of a Loader.
type Snapshot struct {
	State   State
	Err     string
	Reviews []domain.Review
}

// Loader runs a single remote fetch on behalf of one page render. A result
// that arrives after Dispose is dropped; the request itself keeps running
// until the HTTP client gives up.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger

	once sync.Once
	done chan struct{}

	mu    sync.Mutex
	alive bool
	snap  Snapshot
}

// NewLoader creates a loader in the loading state.
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		done:    make(chan struct{}),
		alive:   true,
		snap:    Snapshot{State: StateLoading},
	}
}

// Start launches the fetch. Only the first call has an effect. The fetch
// keeps ctx values but not its cancellation.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(context.WithoutCancel(ctx))
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	reviews, err := l.fetcher.FetchAll(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.alive {
		l.logger.DebugContext(ctx, "discarding remote reviews for disposed view")
		return
	}

	if err != nil {
		l.snap = Snapshot{State: StateError, Err: errorMessage(err)}
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	l.snap = Snapshot{State: StateReady, Reviews: reviews}
}

func errorMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "fetch error"
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Done is closed once the fetch has finished, whether or not its result
// was applied.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the fetch finishes, timeout elapses or ctx is done, and
// returns the snapshot at that point.
func (l *Loader) Wait(ctx context.Context, timeout time.Duration) Snapshot {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.done:
	case <-timer.C:
	case <-ctx.Done():
	}
	return l.Snapshot()
}

// Dispose marks the consuming view as gone. Later results are discarded.
func (l *Loader) Dispose() {
	l.mu.Lock()
	l.alive = false
	l.mu.Unlock()
}
