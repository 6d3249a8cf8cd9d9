package postgres

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueryObserverFunc(t *testing.T) {
	t.Parallel()

	var gotMethod, gotRoute, gotOutcome string
	f := QueryObserverFunc(func(_ context.Context, method, route, outcome string, _ time.Duration) {
		gotMethod, gotRoute, gotOutcome = method, route, outcome
	})

	f.ObserveQuery(context.Background(), "GET", "/api/v1/signals", "ok", time.Millisecond)

	if gotMethod != "GET" || gotRoute != "/api/v1/signals" || gotOutcome != "ok" {
		t.Errorf("observed (%q, %q, %q)", gotMethod, gotRoute, gotOutcome)
	}
}

func TestSetQueryObserver_NilClears(t *testing.T) {
	// Not parallel: mutates the package-level observer.
	var mu sync.Mutex
	calls := 0

	SetQueryObserver(QueryObserverFunc(func(context.Context, string, string, string, time.Duration) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))
	if obs := getQueryObserver(); obs == nil {
		t.Fatal("observer not set")
	}

	SetQueryObserver(nil)
	if obs := getQueryObserver(); obs != nil {
		t.Fatal("observer not cleared")
	}
	_ = calls
}

func TestWithHTTPMethod(t *testing.T) {
	t.Parallel()

	ctx := WithHTTPMethod(context.Background(), "PUT")
	if got := httpMethodFromContext(ctx); got != "PUT" {
		t.Errorf("method = %q, want PUT", got)
	}

	// empty method leaves the context untouched
	ctx = WithHTTPMethod(context.Background(), "")
	if got := httpMethodFromContext(ctx); got != "" {
		t.Errorf("method = %q, want empty", got)
	}
}

func TestRoutePatternFromContext_NoChi(t *testing.T) {
	t.Parallel()

	if got := routePatternFromContext(context.Background()); got != "" {
		t.Errorf("route = %q, want empty without chi context", got)
	}
}
