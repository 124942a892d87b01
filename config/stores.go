package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadStores reads the ordered store list from a JSON file: a plain array of
// store identifiers, either bare domains ("example.com") or full URLs.
func LoadStores(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stores file: %w", err)
	}
	var stores []string
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("parse stores file %s: %w", path, err)
	}
	return stores, nil
}
