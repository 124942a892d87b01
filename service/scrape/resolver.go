package scrape

import (
	"fmt"
	"strings"
)

// ResolveStore turns a raw store identifier (bare domain or full URL, with or
// without surrounding slashes) into the canonical base URL and the short
// store name. Resolution is a fixed point: resolving an already-resolved base
// URL yields the same result.
func ResolveStore(store string) (baseURL, name string, err error) {
	store = strings.Trim(store, "/")
	if strings.Contains(store, "http") {
		baseURL = store + "/"
	} else {
		baseURL = "https://" + store + "/"
	}
	name, err = storeName(baseURL)
	if err != nil {
		return "", "", err
	}
	return baseURL, name, nil
}

// storeName extracts the segment between "://" and the first ".com" after it.
func storeName(baseURL string) (string, error) {
	_, rest, ok := strings.Cut(baseURL, "://")
	if !ok {
		return "", fmt.Errorf("%w: %q has no scheme", ErrMalformedStore, baseURL)
	}
	idx := strings.Index(rest, ".com")
	if idx <= 0 {
		return "", fmt.Errorf("%w: no .com segment in %q", ErrMalformedStore, baseURL)
	}
	return rest[:idx], nil
}
