package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopcrawl.GO/model/entity"
)

func TestScrapeStore_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"products": []}`)
			return
		}
		fmt.Fprint(w, `{"products": [
			{"id": 101, "title": "Cool Shirt", "handle": "cool-shirt", "vendor": "acme",
			 "published_at": "2023-04-01T10:30:00Z", "body_html": "<p>Nice</p>",
			 "tags": [], "options": [],
			 "variants": [{"id": 1001, "product_id": 101, "sku": "CS", "price": "10.00"}],
			 "images": [{"id": 501, "src": "x.jpg", "variant_ids": [1001]}]},
			{"id": 102, "title": "broken, no variants", "handle": "x", "vendor": "acme"}
		]}`)
	}))
	defer srv.Close()

	sink, _ := testSink(t)
	fetcher := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1}, NoopNotifier{}, 250)
	svc := NewService(fetcher, sink, nil, Options{})

	state := RunState{Running: true}
	sum, err := svc.scrapeStore(context.Background(), &state, srv.URL+"/", "acme")
	if err != nil {
		t.Fatalf("scrapeStore: %v", err)
	}

	if sum.Products != 1 || sum.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 product 1 skipped", sum)
	}
	// one content page plus the empty probe
	if sum.Pages != 2 {
		t.Errorf("pages = %d, want 2", sum.Pages)
	}

	var products, variants, images int64
	sink.db.Model(&entity.Product{}).Count(&products)
	sink.db.Model(&entity.Variant{}).Count(&variants)
	sink.db.Model(&entity.Image{}).Count(&images)
	if products != 1 || variants != 1 || images != 1 {
		t.Errorf("rows = %d/%d/%d, want 1/1/1", products, variants, images)
	}

	st, ok := CurrentState()
	if !ok || st.TotalProducts != 1 {
		t.Errorf("published state = %+v", st)
	}
}

func TestRun_SkipsUnresolvableStore(t *testing.T) {
	sink, _ := testSink(t)
	fetcher := NewFetcher(RetryPolicy{Delay: time.Millisecond, MaxAttempts: 1}, NoopNotifier{}, 250)
	svc := NewService(fetcher, sink, nil, Options{})

	sums, err := svc.Run(context.Background(), []string{"not-a-store"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("summaries = %+v, want none", sums)
	}
}
