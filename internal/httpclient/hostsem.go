package httpclient

import (
	"context"
	"net/url"
	"sync"
)

// HostSemaphore caps in-flight requests per upstream host. The stream
// resolver and the playlist generators fan out hundreds of fetches at once;
// sharing one semaphore per host keeps any single upstream from absorbing
// the whole batch simultaneously.
//
// Usage: acquire before sending a request, release when the response arrives.
//
//	release, err := GlobalHostSem.Acquire(ctx, url)
//	if err != nil {
//		return err
//	}
//	defer release()
type HostSemaphore struct {
	mu    sync.Mutex
	sems  map[string]chan struct{}
	limit int
}

// GlobalHostSem is the shared per-host limiter. The default cap suits the
// guide mirrors; SetLimit retunes it before the pipeline starts.
var GlobalHostSem = NewHostSemaphore(8)

func NewHostSemaphore(limit int) *HostSemaphore {
	if limit < 1 {
		limit = 1
	}
	return &HostSemaphore{
		sems:  make(map[string]chan struct{}),
		limit: limit,
	}
}

// SetLimit changes the cap applied to hosts seen from now on. Hosts that
// already have a semaphore keep the cap they were created with.
func (h *HostSemaphore) SetLimit(n int) {
	if n < 1 {
		n = 1
	}
	h.mu.Lock()
	h.limit = n
	h.mu.Unlock()
}

// Acquire blocks until a slot is free for rawURL's host, or ctx is done.
// The release func must be called exactly once.
func (h *HostSemaphore) Acquire(ctx context.Context, rawURL string) (func(), error) {
	sem := h.semFor(rawURL)
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *HostSemaphore) semFor(rawURL string) chan struct{} {
	// Normalise: strip path/query, keep scheme+host.
	key := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		key = u.Scheme + "://" + u.Host
	}
	h.mu.Lock()
	s, ok := h.sems[key]
	if !ok {
		s = make(chan struct{}, h.limit)
		h.sems[key] = s
	}
	h.mu.Unlock()
	return s
}
