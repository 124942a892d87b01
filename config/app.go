package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName    string
	Env        string
	Debug      bool
	StoresFile string        // JSON array of store identifiers to scrape
	PageLimit  int           // products requested per storefront page
	RetryDelay time.Duration // wait between fetch retries on transport failure
	MaxRetries int           // 0 = retry forever
	FailedDir  string        // directory for per-table .jsonl failure logs
	StatusAddr string        // optional address for the /status endpoint
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName:    getEnv("APP_NAME", "shopcrawl"),
			Env:        os.Getenv("APP_ENV"),
			Debug:      os.Getenv("DEBUG") == "true",
			StoresFile: getEnv("STORES_FILE", "stores_to_scrape.json"),
			PageLimit:  getEnvInt("PAGE_LIMIT", 250),
			RetryDelay: time.Duration(getEnvInt("RETRY_DELAY_SEC", 30)) * time.Second,
			MaxRetries: getEnvInt("MAX_RETRIES", 0),
			FailedDir:  getEnv("FAILED_DIR", "failed-items"),
			StatusAddr: os.Getenv("STATUS_ADDR"),
		}
	})
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
