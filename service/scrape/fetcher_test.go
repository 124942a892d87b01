package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// pagedStore serves three pages of one product each, then empty pages.
func pagedStore(t *testing.T, requests *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, r.URL.String())
		page := r.URL.Query().Get("page")
		switch page {
		case "1", "2", "3":
			fmt.Fprintf(w, `{"products": [{"id": %s00, "title": "p%s"}]}`, page, page)
		default:
			fmt.Fprint(w, `{"products": []}`)
		}
	}))
}

func TestCursor_StopsOnEmptyPage(t *testing.T) {
	var requests []string
	srv := pagedStore(t, &requests)
	defer srv.Close()

	f := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1}, NoopNotifier{}, 250)
	cur := f.NewCursor(srv.URL + "/")

	pages := 0
	for cur.Next(context.Background()) {
		pages++
		if len(cur.Batch()) != 1 {
			t.Errorf("page %d: batch size %d, want 1", cur.Page(), len(cur.Batch()))
		}
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}
	if pages != 3 {
		t.Errorf("yielded %d pages, want 3", pages)
	}
	// the empty probe page counts
	if cur.Page() != 4 {
		t.Errorf("final page = %d, want 4", cur.Page())
	}
	if len(requests) != 4 {
		t.Errorf("requests = %d, want 4", len(requests))
	}
	if !strings.Contains(requests[0], "limit=250") || !strings.Contains(requests[0], "page=1") {
		t.Errorf("first request = %q", requests[0])
	}
}

func TestCursor_RestartsAtPageOne(t *testing.T) {
	var requests []string
	srv := pagedStore(t, &requests)
	defer srv.Close()

	f := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1}, NoopNotifier{}, 250)
	for i := 0; i < 2; i++ {
		cur := f.NewCursor(srv.URL + "/")
		for cur.Next(context.Background()) {
		}
		if err := cur.Err(); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(requests[4], "page=1") {
		t.Errorf("second store run must restart at page 1, got %q", requests[4])
	}
}

// flakyTransport fails the first n attempts, then serves the canned body.
type flakyTransport struct {
	failures int
	calls    int
	body     string
}

func (ft *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ft.calls++
	if ft.calls <= ft.failures {
		return nil, errors.New("connection reset")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(ft.body)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

type countingNotifier struct{ alerts int }

func (n *countingNotifier) Alert() { n.alerts++ }

func TestFetchPage_RetriesWithFreshSession(t *testing.T) {
	ft := &flakyTransport{failures: 2, body: `{"products": [{"id": 1}]}`}
	notifier := &countingNotifier{}

	f := NewFetcher(RetryPolicy{Delay: time.Millisecond}, notifier, 250)
	f.newClient = func() *http.Client { return &http.Client{Transport: ft} }
	f.client = f.newClient()

	batch, err := f.FetchPage(context.Background(), "https://acme.com/", 1)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(batch) != 1 {
		t.Errorf("batch size = %d, want 1", len(batch))
	}
	if notifier.alerts != 2 {
		t.Errorf("alerts = %d, want 2", notifier.alerts)
	}
	if ft.calls != 3 {
		t.Errorf("attempts = %d, want 3", ft.calls)
	}
}

func TestFetchPage_MaxAttempts(t *testing.T) {
	ft := &flakyTransport{failures: 100}
	f := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 3}, NoopNotifier{}, 250)
	f.newClient = func() *http.Client { return &http.Client{Transport: ft} }
	f.client = f.newClient()

	if _, err := f.FetchPage(context.Background(), "https://acme.com/", 1); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if ft.calls != 3 {
		t.Errorf("attempts = %d, want 3", ft.calls)
	}
}

func TestFetchPage_CancelDuringRetry(t *testing.T) {
	ft := &flakyTransport{failures: 100}
	f := NewFetcher(RetryPolicy{Delay: time.Hour}, NoopNotifier{}, 250)
	f.newClient = func() *http.Client { return &http.Client{Transport: ft} }
	f.client = f.newClient()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := f.FetchPage(ctx, "https://acme.com/", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFetchPage_MissingProductsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "not a storefront"}`)
	}))
	defer srv.Close()

	f := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1}, NoopNotifier{}, 250)
	if _, err := f.FetchPage(context.Background(), srv.URL+"/", 1); err == nil {
		t.Fatal("expected error for response without products array")
	}
}
