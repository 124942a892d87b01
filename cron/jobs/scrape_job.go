package jobs

import (
	"context"
	"log"

	"shopcrawl.GO/config"
	"shopcrawl.GO/service/scrape"
	"shopcrawl.GO/service/search"
)

// CatalogScrapeJob runs one full scrape over the configured store list.
// Registered under the SCRAPE_CRON schedule by the cron:start command.
func CatalogScrapeJob(args ...string) {
	config.LoadAppConfig()
	cfg := config.AppConfig

	storesFile := cfg.StoresFile
	if len(args) > 0 && args[0] != "" {
		storesFile = args[0]
	}
	stores, err := config.LoadStores(storesFile)
	if err != nil {
		log.Printf("scrape job: load stores: %v", err)
		return
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("scrape job: database: %v", err)
		return
	}
	sink, err := scrape.NewSink(db, cfg.FailedDir)
	if err != nil {
		log.Printf("scrape job: sink: %v", err)
		return
	}
	defer sink.Close()

	fetcher := scrape.NewFetcher(scrape.RetryPolicy{
		Delay:       cfg.RetryDelay,
		MaxAttempts: cfg.MaxRetries,
	}, scrape.ActiveNotifier(), cfg.PageLimit)

	svc := scrape.NewService(fetcher, sink, search.NewIndexerFromEnv(), scrape.Options{})
	if _, err := svc.Run(context.Background(), stores); err != nil {
		log.Printf("scrape job: %v", err)
	}
}
