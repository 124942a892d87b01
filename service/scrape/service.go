package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"shopcrawl.GO/config"
	"shopcrawl.GO/service/search"
)

// Options configures one scrape run.
type Options struct {
	Strict bool // abort on the first malformed record instead of skipping it
}

// Service drives the full pipeline: resolve store, walk pages, normalize,
// persist, report. Strictly sequential; one store, one page, one entity batch
// at a time.
type Service struct {
	fetcher *Fetcher
	sink    *Sink
	indexer *search.Indexer // nil disables search indexing
	opts    Options
}

func NewService(fetcher *Fetcher, sink *Sink, indexer *search.Indexer, opts Options) *Service {
	return &Service{fetcher: fetcher, sink: sink, indexer: indexer, opts: opts}
}

// Run scrapes every store in order. A store that fails to resolve is reported
// and skipped; fetch and sink errors are fatal for the run. Cancellation is
// advisory and checked between pages, so an in-flight page always finishes.
func (s *Service) Run(ctx context.Context, stores []string) ([]StoreSummary, error) {
	state := RunState{Running: true, StartedAt: time.Now(), StoreCount: len(stores)}
	publishState(state)
	defer func() {
		state.Running = false
		publishState(state)
	}()

	summaries := make([]StoreSummary, 0, len(stores))
	for i, store := range stores {
		if ctx.Err() != nil {
			return summaries, ctx.Err()
		}
		baseURL, name, err := ResolveStore(store)
		if err != nil {
			log.Printf("skipping store %q: %v", store, err)
			continue
		}
		log.Printf("stores index: <<%d: %d>>", i+1, len(stores))
		log.Printf("store: %s\nurl: %s", name, baseURL)

		state.StoreIndex, state.Store, state.Page = i+1, name, 0
		publishState(state)

		sum, err := s.scrapeStore(ctx, &state, baseURL, name)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, sum)
		state.Summaries = summaries
		publishState(state)
		s.publishSummary(sum)
	}

	logSummary(summaries)
	return summaries, nil
}

func (s *Service) scrapeStore(ctx context.Context, state *RunState, baseURL, name string) (StoreSummary, error) {
	sum := StoreSummary{Store: name, URL: baseURL}

	// Batch inserts run outside the cancellable context so an interrupt never
	// cuts a page's transactions in half.
	insCtx := context.WithoutCancel(ctx)

	cur := s.fetcher.NewCursor(baseURL)
	for cur.Next(ctx) {
		batch, err := NormalizePage(cur.Batch(), s.opts.Strict)
		if err != nil {
			return sum, fmt.Errorf("store %s page %d: %w", name, cur.Page(), err)
		}
		if err := s.sink.InsertProducts(insCtx, batch.Products); err != nil {
			return sum, err
		}
		if err := s.sink.InsertVariants(insCtx, batch.Variants); err != nil {
			return sum, err
		}
		if err := s.sink.InsertImages(insCtx, batch.Images); err != nil {
			return sum, err
		}
		if s.indexer != nil {
			if err := s.indexer.IndexProducts(insCtx, name, batch.Products); err != nil {
				log.Printf("search indexing failed for %s page %d: %v", name, cur.Page(), err)
			}
		}

		sum.Products += len(batch.Products)
		sum.Skipped += batch.Skipped
		state.Page = cur.Page()
		state.TotalProducts += len(batch.Products)
		state.Skipped += batch.Skipped
		publishState(*state)
		log.Printf("current page: %d", cur.Page())
	}
	if err := cur.Err(); err != nil {
		return sum, fmt.Errorf("store %s: %w", name, err)
	}
	sum.Pages = cur.Page()
	return sum, nil
}

// publishSummary mirrors the per-store summary into Redis when configured.
func (s *Service) publishSummary(sum StoreSummary) {
	if config.RedisClient == nil {
		return
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return
	}
	key := "scrape:summary:" + sum.Store
	if err := config.RedisClient.Set(config.RedisCtx(), key, data, 24*time.Hour).Err(); err != nil {
		log.Printf("redis publish %s: %v", key, err)
	}
}

func logSummary(summaries []StoreSummary) {
	var b strings.Builder
	b.WriteString("scraping is concluded successfully.\nscraping summary:\n")
	for _, s := range summaries {
		b.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&b, "%s\npages scraped: %d\nproducts scraped: %d\n", s.URL, s.Pages, s.Products)
		if s.Skipped > 0 {
			fmt.Fprintf(&b, "skipped records: %d\n", s.Skipped)
		}
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	b.WriteString("please empty the .jsonl failure logs before the next run.")
	log.Print(b.String())
}
