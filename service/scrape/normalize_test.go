package scrape

import (
	"encoding/json"
	"errors"
	"testing"
)

func rawFromJSON(t *testing.T, blob string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return m
}

const fullProductJSON = `{
	"id": 101,
	"title": "Cool Shirt",
	"handle": "cool shirt",
	"vendor": "acme",
	"product_type": "shirts",
	"published_at": "2023-04-01T10:30:00Z",
	"body_html": "<p>Hello <b>world</b></p>",
	"tags": ["summer", "sale"],
	"options": [{"name": "Size", "position": 1, "values": ["S", "M"]}],
	"variants": [
		{"id": 1001, "product_id": 101, "title": "S", "sku": "CS-S",
		 "price": "19.99", "compare_at_price": null, "available": true,
		 "created_at": "2023-03-01T00:00:00Z", "updated_at": "2023-03-02T00:00:00Z"},
		{"id": 1002, "product_id": 101, "title": "M", "sku": "CS-M",
		 "price": 24.5, "available": false}
	],
	"images": [
		{"id": 501, "src": "https://cdn.example/x.jpg", "width": 800, "height": 600,
		 "variant_ids": [1001, 1002]},
		{"id": 502, "src": "https://cdn.example/y.jpg", "variant_ids": []}
	]
}`

func TestNormalizeProduct_Full(t *testing.T) {
	p, vs, ims, err := NormalizeProduct(rawFromJSON(t, fullProductJSON))
	if err != nil {
		t.Fatalf("NormalizeProduct: %v", err)
	}

	if p.ID != 101 {
		t.Errorf("ID = %d, want 101", p.ID)
	}
	if p.Page != "https://acme.com/products/coolshirt" {
		t.Errorf("Page = %q", p.Page)
	}
	if p.PublishDate == nil || p.PublishDate.Year() != 2023 {
		t.Errorf("PublishDate = %v", p.PublishDate)
	}
	if p.Description == nil || *p.Description != "Hello world" {
		t.Errorf("Description = %v", p.Description)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "summer" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if len(p.Options) != 1 || p.Options[0].Name != "Size" || len(p.Options[0].Values) != 2 {
		t.Errorf("Options = %+v", p.Options)
	}
	if len(p.ImagesIDs) != 2 || p.ImagesIDs[0] != 501 || p.ImagesIDs[1] != 502 {
		t.Errorf("ImagesIDs = %v", p.ImagesIDs)
	}

	if len(vs) != 2 {
		t.Fatalf("variants = %d, want 2", len(vs))
	}
	if vs[0].Price == nil || *vs[0].Price != 19.99 {
		t.Errorf("variant price = %v", vs[0].Price)
	}
	if vs[0].CompareAtPrice != nil {
		t.Errorf("null compare_at_price should stay nil, got %v", *vs[0].CompareAtPrice)
	}
	// numeric feed value coerced through the string path
	if vs[1].Price == nil || *vs[1].Price != 24.5 {
		t.Errorf("numeric variant price = %v", vs[1].Price)
	}
	if vs[1].Available == nil || *vs[1].Available {
		t.Errorf("Available = %v", vs[1].Available)
	}

	if len(ims) != 2 {
		t.Fatalf("images = %d, want 2", len(ims))
	}
	if len(ims[0].VariantIDs) != 2 || ims[0].VariantIDs[0] != 1001 {
		t.Errorf("VariantIDs = %v", ims[0].VariantIDs)
	}
	if ims[0].Width == nil || *ims[0].Width != 800 {
		t.Errorf("Width = %v", ims[0].Width)
	}
	if len(ims[1].VariantIDs) != 0 || ims[1].VariantIDs == nil {
		t.Errorf("empty variant_ids should stay an empty slice, got %v", ims[1].VariantIDs)
	}
}

func TestNormalizeProduct_MissingImagesKey(t *testing.T) {
	raw := rawFromJSON(t, fullProductJSON)
	delete(raw, "images")
	p, _, ims, err := NormalizeProduct(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(ims) != 0 {
		t.Errorf("images = %d, want 0", len(ims))
	}
	if p.ImagesIDs == nil || len(p.ImagesIDs) != 0 {
		t.Errorf("ImagesIDs = %v, want empty", p.ImagesIDs)
	}
}

func TestNormalizeProduct_MissingRequired(t *testing.T) {
	for _, field := range []string{"id", "vendor", "handle", "variants"} {
		raw := rawFromJSON(t, fullProductJSON)
		delete(raw, field)
		_, _, _, err := NormalizeProduct(raw)
		var mf *MissingFieldError
		if !errors.As(err, &mf) {
			t.Errorf("dropping %q: err = %v, want MissingFieldError", field, err)
			continue
		}
		if mf.Field != field {
			t.Errorf("dropping %q: reported field %q", field, mf.Field)
		}
	}
}

func TestNormalizeProduct_BadPrice(t *testing.T) {
	raw := rawFromJSON(t, fullProductJSON)
	raw["variants"].([]interface{})[0].(map[string]interface{})["price"] = "abc"
	_, _, _, err := NormalizeProduct(raw)
	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CoercionError", err)
	}
	if ce.Field != "price" || ce.Value != "abc" {
		t.Errorf("CoercionError = %+v", ce)
	}
}

func TestNormalizeProduct_BadPublishDate(t *testing.T) {
	raw := rawFromJSON(t, fullProductJSON)
	raw["published_at"] = "yesterday"
	_, _, _, err := NormalizeProduct(raw)
	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CoercionError", err)
	}
}

func TestCleanDescription(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		// a tag with attributes survives; its bare closing tag does not
		{"<p class='x'>Hi</p>", "<p class='x'>Hi"},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		got := cleanDescription(&c.in)
		if got == nil || *got != c.want {
			t.Errorf("cleanDescription(%q) = %v, want %q", c.in, got, c.want)
		}
	}
	if cleanDescription(nil) != nil {
		t.Error("nil body should stay nil")
	}
	empty := ""
	if cleanDescription(&empty) != nil {
		t.Error("empty body should become nil")
	}
}

func TestNormalizePage_SkipAndStrict(t *testing.T) {
	good := rawFromJSON(t, fullProductJSON)
	bad := rawFromJSON(t, fullProductJSON)
	delete(bad, "id")
	page := []map[string]interface{}{good, bad}

	b, err := NormalizePage(page, false)
	if err != nil {
		t.Fatalf("lenient NormalizePage: %v", err)
	}
	if len(b.Products) != 1 || b.Skipped != 1 {
		t.Errorf("products = %d skipped = %d, want 1/1", len(b.Products), b.Skipped)
	}

	if _, err := NormalizePage(page, true); err == nil {
		t.Error("strict NormalizePage should fail on the malformed record")
	}
}
