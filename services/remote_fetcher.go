package services

import (
	"context"
	"sync"
	"time"

	"storefront/libs"
	"storefront/models"

	"go.uber.org/zap"
)

// RemoteFetcher runs user-triggered remote catalog fetches for one session.
//
// Each dispatch bumps the fetch epoch. A completion is applied only when its
// epoch is still the latest one dispatched, so an older response resolving
// after a newer one is dropped instead of overwriting the result set.
// In-flight fetches cannot be cancelled by the user; they end on completion,
// on timeout, or when the fetcher is closed.
type RemoteFetcher struct {
	source  libs.CatalogSource
	log     *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   models.FetchState
	epoch   uint64
	query   string
	results []models.Item
	lastErr error
	closed  bool
}

func NewRemoteFetcher(source libs.CatalogSource, timeout time.Duration, log *zap.Logger) *RemoteFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RemoteFetcher{
		source:  source,
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		state:   models.FetchIdle,
	}
}

// Trigger starts a fetch in the background and returns its epoch. A trigger
// while another fetch is loading starts a second, overlapping fetch.
func (f *RemoteFetcher) Trigger(query string) uint64 {
	epoch, _ := f.dispatch(query)
	return epoch
}

// Fetch starts a fetch and waits until it completes or ctx is done. The
// returned status may already reflect a newer fetch.
func (f *RemoteFetcher) Fetch(ctx context.Context, query string) models.FetchStatus {
	_, done := f.dispatch(query)
	select {
	case <-done:
	case <-ctx.Done():
	}
	return f.Status()
}

func (f *RemoteFetcher) dispatch(query string) (uint64, <-chan struct{}) {
	done := make(chan struct{})

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(done)
		return 0, done
	}
	f.epoch++
	epoch := f.epoch
	f.state = models.FetchLoading
	f.query = query
	f.wg.Add(1)
	f.mu.Unlock()

	f.log.Debug("remote fetch dispatched", zap.Uint64("epoch", epoch), zap.String("query", query))

	go func() {
		defer f.wg.Done()
		defer close(done)
		f.run(epoch, query)
	}()
	return epoch, done
}

func (f *RemoteFetcher) run(epoch uint64, query string) {
	ctx := f.ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	items, err := f.source.FetchPage(ctx, query)
	outcome := "ok"
	if err != nil {
		kind := libs.KindOf(err)
		if kind == "" {
			kind = libs.FetchErrTransport
		}
		outcome = string(kind)
		f.log.Error("remote catalog fetch failed",
			zap.Uint64("epoch", epoch),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		items = nil
	}
	if items == nil {
		items = []models.Item{}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if epoch != f.epoch {
		remoteFetches.WithLabelValues("stale").Inc()
		f.log.Debug("stale remote fetch dropped", zap.Uint64("epoch", epoch), zap.Uint64("latest", f.epoch))
		return
	}
	remoteFetches.WithLabelValues(outcome).Inc()

	f.results = items
	f.lastErr = err
	f.state = models.FetchLoaded
}

func (f *RemoteFetcher) Status() models.FetchStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	var results []models.Item
	if f.results != nil {
		results = copyItems(f.results)
	}
	return models.FetchStatus{
		State:   f.state,
		Loading: f.state == models.FetchLoading,
		Epoch:   f.epoch,
		Query:   f.query,
		Results: results,
	}
}

// Results is nil until a fetch has been applied.
func (f *RemoteFetcher) Results() []models.Item {
	return f.Status().Results
}

// FindResult looks id up in the current result set.
func (f *RemoteFetcher) FindResult(id int) (*models.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.results {
		if item.ID == id {
			found := item
			return &found, true
		}
	}
	return nil, false
}

// LastError is the failure behind the current result set, nil on success.
func (f *RemoteFetcher) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Wait blocks until every dispatched fetch has finished.
func (f *RemoteFetcher) Wait() {
	f.wg.Wait()
}

// Close aborts in-flight fetches and waits for them. Later triggers are no-ops.
func (f *RemoteFetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}
