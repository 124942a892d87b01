package scrape

import (
	"time"

	"shopcrawl.GO/core/cache"
)

const stateKey = "scrape:state"

// RunState is a point-in-time snapshot of the crawl, kept in the process
// cache for the status API.
type RunState struct {
	Running       bool           `json:"running"`
	StartedAt     time.Time      `json:"started_at,omitempty"`
	StoreIndex    int            `json:"store_index"`
	StoreCount    int            `json:"store_count"`
	Store         string         `json:"store,omitempty"`
	Page          int            `json:"page"`
	TotalProducts int            `json:"total_products"`
	Skipped       int            `json:"skipped"`
	Summaries     []StoreSummary `json:"summaries,omitempty"`
}

// StoreSummary is the per-store result reported at the end of a run. Pages
// counts probed pages, including the final empty one.
type StoreSummary struct {
	Store    string `json:"store"`
	URL      string `json:"url"`
	Pages    int    `json:"pages_scraped"`
	Products int    `json:"products_scraped"`
	Skipped  int    `json:"skipped_records,omitempty"`
}

func publishState(st RunState) {
	cache.GetInstance().Set(stateKey, st, 0)
}

// CurrentState returns the latest published run state.
func CurrentState() (RunState, bool) {
	v, ok := cache.GetInstance().Get(stateKey)
	if !ok {
		return RunState{}, false
	}
	st, ok := v.(RunState)
	return st, ok
}
