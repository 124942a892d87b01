package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopcrawl.GO/api"
	"shopcrawl.GO/config"
	"shopcrawl.GO/service/scrape"
	"shopcrawl.GO/service/search"
	_ "shopcrawl.GO/api/status"
)

var (
	scrapeStoresFile string
	scrapeStrict     bool
	scrapePageLimit  int
	scrapeFailedDir  string
)

var scrapeCmd = &cobra.Command{
	Use:   "catalog:scrape",
	Short: "Scrape product catalogs from the configured Shopify storefronts",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		cfg := config.AppConfig
		if scrapeStoresFile != "" {
			cfg.StoresFile = scrapeStoresFile
		}
		if scrapePageLimit > 0 {
			cfg.PageLimit = scrapePageLimit
		}
		if scrapeFailedDir != "" {
			cfg.FailedDir = scrapeFailedDir
		}

		stores, err := config.LoadStores(cfg.StoresFile)
		if err != nil {
			fmt.Printf("Failed to load store list: %v\n", err)
			os.Exit(1)
		}

		config.InitRedis()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		sink, err := scrape.NewSink(db, cfg.FailedDir)
		if err != nil {
			fmt.Printf("Sink init failed: %v\n", err)
			os.Exit(1)
		}
		defer sink.Close()

		if cfg.StatusAddr != "" {
			api.StartStatusServer(cfg.StatusAddr)
		}

		// Ctrl+C finishes the in-flight page before exiting.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fetcher := scrape.NewFetcher(scrape.RetryPolicy{
			Delay:       cfg.RetryDelay,
			MaxAttempts: cfg.MaxRetries,
		}, scrape.ActiveNotifier(), cfg.PageLimit)

		svc := scrape.NewService(fetcher, sink, search.NewIndexerFromEnv(), scrape.Options{
			Strict: scrapeStrict,
		})
		if _, err := svc.Run(ctx, stores); err != nil {
			fmt.Printf("Scrape failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeStoresFile, "stores", "s", "", "Path to the stores JSON file (default from STORES_FILE)")
	scrapeCmd.Flags().BoolVar(&scrapeStrict, "strict", false, "Abort a store on the first malformed record instead of skipping it")
	scrapeCmd.Flags().IntVar(&scrapePageLimit, "page-limit", 0, "Products requested per page (default from PAGE_LIMIT)")
	scrapeCmd.Flags().StringVar(&scrapeFailedDir, "failed-dir", "", "Directory for .jsonl failure logs (default from FAILED_DIR)")
	rootCmd.AddCommand(scrapeCmd)
}
