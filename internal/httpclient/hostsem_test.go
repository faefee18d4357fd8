package httpclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func mustAcquire(t *testing.T, sem *HostSemaphore, url string) func() {
	t.Helper()
	release, err := sem.Acquire(context.Background(), url)
	if err != nil {
		t.Fatalf("Acquire(%s): %v", url, err)
	}
	return release
}

func TestHostSemaphoreLimits(t *testing.T) {
	sem := NewHostSemaphore(2)
	r1 := mustAcquire(t, sem, "https://example.com/a")
	r2 := mustAcquire(t, sem, "https://example.com/b")

	acquired := make(chan struct{})
	go func() {
		r3 := mustAcquire(t, sem, "https://example.com/c")
		close(acquired)
		r3()
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire should have blocked")
	case <-time.After(20 * time.Millisecond):
	}

	r1()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third acquire never proceeded after release")
	}
	r2()
}

func TestHostSemaphoreSeparateHosts(t *testing.T) {
	sem := NewHostSemaphore(1)
	r1 := mustAcquire(t, sem, "https://a.example.com")
	done := make(chan struct{})
	go func() {
		r2 := mustAcquire(t, sem, "https://b.example.com")
		r2()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("different host should not contend")
	}
	r1()
}

func TestHostSemaphoreCancelledContext(t *testing.T) {
	sem := NewHostSemaphore(1)
	r1 := mustAcquire(t, sem, "https://example.com")
	defer r1()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := sem.Acquire(ctx, "https://example.com"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire on saturated host: err = %v, want deadline exceeded", err)
	}
}

func TestHostSemaphoreSetLimit(t *testing.T) {
	sem := NewHostSemaphore(1)
	sem.SetLimit(2)

	r1 := mustAcquire(t, sem, "https://example.com/a")
	// The second slot exists only because SetLimit took effect before the
	// host's semaphore was created.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r2, err := sem.Acquire(ctx, "https://example.com/b")
	if err != nil {
		t.Fatalf("second acquire after SetLimit(2): %v", err)
	}
	r1()
	r2()
}
