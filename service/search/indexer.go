package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"

	"shopcrawl.GO/model/entity"
)

// Indexer pushes normalized products into Elasticsearch so scraped catalogs
// become searchable. Optional: stays nil unless ELASTICSEARCH_HOST is set.
type Indexer struct {
	client *elasticsearch.Client
	prefix string
}

// NewIndexerFromEnv returns nil when no host is configured or the client
// cannot be built; the scrape pipeline then runs without indexing.
func NewIndexerFromEnv() *Indexer {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return nil
	}
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "shopcrawl"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil
	}

	return &Indexer{client: client, prefix: prefix}
}

// IndexProducts bulk-indexes one page of products into {prefix}_products,
// tagging every document with its store name.
func (ix *Indexer) IndexProducts(ctx context.Context, store string, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, p := range products {
		fmt.Fprintf(&buf, `{"index":{"_id":"%d"}}`, p.ID)
		buf.WriteByte('\n')
		doc := struct {
			entity.Product
			Store string `json:"store"`
		}{Product: p, Store: store}
		line, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	res, err := ix.client.Bulk(bytes.NewReader(buf.Bytes()),
		ix.client.Bulk.WithContext(ctx),
		ix.client.Bulk.WithIndex(ix.prefix+"_products"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.String())
	}
	return nil
}
