package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// RetryPolicy controls how the fetcher reacts to transport failures.
// MaxAttempts 0 means retry forever.
type RetryPolicy struct {
	Delay       time.Duration
	MaxAttempts int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Delay: 30 * time.Second}
}

// Fetcher walks a storefront's products.json pages. One long-lived fetcher
// serves all stores; it owns its HTTP client and replaces it with a fresh one
// after a transport failure.
type Fetcher struct {
	client    *http.Client
	policy    RetryPolicy
	notifier  Notifier
	pageLimit int
	newClient func() *http.Client
}

func NewFetcher(policy RetryPolicy, notifier Notifier, pageLimit int) *Fetcher {
	if pageLimit <= 0 {
		pageLimit = 250
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	factory := func() *http.Client {
		return &http.Client{Timeout: 60 * time.Second}
	}
	return &Fetcher{
		client:    factory(),
		policy:    policy,
		notifier:  notifier,
		pageLimit: pageLimit,
		newClient: factory,
	}
}

func (f *Fetcher) pageURL(baseURL string, page int) string {
	return fmt.Sprintf("%sproducts.json?limit=%d&page=%d", baseURL, f.pageLimit, page)
}

// FetchPage GETs one page and returns its raw products array. Transport
// failures (DNS, reset, timeout) trigger the retry loop: drop the session,
// alert, wait out the policy delay, open a fresh session, request the same
// page again. HTTP error statuses are not special-cased; the body is decoded
// like any other response. A missing top-level "products" key is terminal.
func (f *Fetcher) FetchPage(ctx context.Context, baseURL string, page int) ([]map[string]interface{}, error) {
	url := f.pageURL(baseURL, page)

	attempts := 0
	var resp *http.Response
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err = f.client.Do(req)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		attempts++
		if f.policy.MaxAttempts > 0 && attempts >= f.policy.MaxAttempts {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		f.client.CloseIdleConnections()
		f.notifier.Alert()
		log.Printf("transport failure on %s, retrying in %s: %v", url, f.policy.Delay, err)
		select {
		case <-time.After(f.policy.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		f.client = f.newClient()
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	raw, ok := body["products"]
	if !ok {
		return nil, fmt.Errorf("%s: response has no products array", url)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: products is not an array", url)
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: products entry is not an object", url)
		}
		out = append(out, m)
	}
	return out, nil
}

// Cursor is a lazy, forward-only walk over one store's pages, exhausted the
// first time a page comes back empty. Create a fresh cursor per store; the
// page counter always restarts at 1.
type Cursor struct {
	f       *Fetcher
	baseURL string
	page    int
	batch   []map[string]interface{}
	err     error
	done    bool
}

func (f *Fetcher) NewCursor(baseURL string) *Cursor {
	return &Cursor{f: f, baseURL: baseURL}
}

// Next fetches the following page. It returns false once a page yields zero
// products or a fetch failed; check Err afterwards.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.done {
		return false
	}
	c.page++
	batch, err := c.f.FetchPage(ctx, c.baseURL, c.page)
	if err != nil {
		c.err = err
		c.done = true
		return false
	}
	if len(batch) == 0 {
		c.done = true
		return false
	}
	c.batch = batch
	return true
}

// Batch returns the products of the page the last Next call fetched.
func (c *Cursor) Batch() []map[string]interface{} { return c.batch }

// Page returns the number of the most recently requested page.
func (c *Cursor) Page() int { return c.page }

func (c *Cursor) Err() error { return c.err }
