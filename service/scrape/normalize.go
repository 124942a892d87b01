package scrape

import (
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"

	"shopcrawl.GO/model/entity"
)

// rawProduct is the subset of the storefront product object the pipeline
// consumes. Pointer fields distinguish absent keys from empty values.
type rawProduct struct {
	ID          *int64                 `mapstructure:"id"`
	PublishedAt *string                `mapstructure:"published_at"`
	Vendor      *string                `mapstructure:"vendor"`
	ProductType *string                `mapstructure:"product_type"`
	Tags        []string               `mapstructure:"tags"`
	Options     []entity.ProductOption `mapstructure:"options"`
	Handle      *string                `mapstructure:"handle"`
	BodyHTML    *string                `mapstructure:"body_html"`
	Title       *string                `mapstructure:"title"`
	Images      *[]rawImage            `mapstructure:"images"`
	Variants    *[]rawVariant          `mapstructure:"variants"`
}

type rawVariant struct {
	ID             *int64  `mapstructure:"id"`
	ProductID      *int64  `mapstructure:"product_id"`
	Title          *string `mapstructure:"title"`
	Price          *string `mapstructure:"price"`
	CompareAtPrice *string `mapstructure:"compare_at_price"`
	SKU            *string `mapstructure:"sku"`
	CreatedAt      *string `mapstructure:"created_at"`
	UpdatedAt      *string `mapstructure:"updated_at"`
	Available      *bool   `mapstructure:"available"`
}

type rawImage struct {
	ID         *int64  `mapstructure:"id"`
	CreatedAt  *string `mapstructure:"created_at"`
	UpdatedAt  *string `mapstructure:"updated_at"`
	VariantIDs []int64 `mapstructure:"variant_ids"`
	Src        *string `mapstructure:"src"`
	Width      *int    `mapstructure:"width"`
	Height     *int    `mapstructure:"height"`
}

// Batch is one page's normalized output, grouped per target table.
type Batch struct {
	Products []entity.Product
	Variants []entity.Variant
	Images   []entity.Image
	Skipped  int
}

// NormalizePage maps a page of raw products into per-table batches. With
// strict unset, malformed records are logged and skipped; with strict set the
// first malformed record aborts the page.
func NormalizePage(raws []map[string]interface{}, strict bool) (Batch, error) {
	b := Batch{}
	for _, raw := range raws {
		p, vs, ims, err := NormalizeProduct(raw)
		if err != nil {
			if strict {
				return Batch{}, err
			}
			b.Skipped++
			log.Printf("skipping malformed product: %v", err)
			continue
		}
		b.Products = append(b.Products, p)
		b.Variants = append(b.Variants, vs...)
		b.Images = append(b.Images, ims...)
	}
	return b, nil
}

// NormalizeProduct maps one raw product object into a Product row plus its
// Variant and Image rows. Pure transformation, no shared state between calls.
func NormalizeProduct(raw map[string]interface{}) (entity.Product, []entity.Variant, []entity.Image, error) {
	var r rawProduct
	if err := decodeRaw(raw, &r); err != nil {
		return entity.Product{}, nil, nil, err
	}
	if r.ID == nil {
		return entity.Product{}, nil, nil, &MissingFieldError{Entity: "products", Field: "id"}
	}

	p := entity.Product{
		ID:          *r.ID,
		Vendor:      r.Vendor,
		Type:        r.ProductType,
		Title:       r.Title,
		Description: cleanDescription(r.BodyHTML),
		Tags:        datatypes.JSONSlice[string](emptyIfNil(r.Tags)),
		Options:     datatypes.JSONSlice[entity.ProductOption](emptyIfNil(r.Options)),
		ImagesIDs:   datatypes.JSONSlice[int64]([]int64{}),
	}

	page, err := productPage(r.Vendor, r.Handle)
	if err != nil {
		return entity.Product{}, nil, nil, err
	}
	p.Page = page

	if r.PublishedAt != nil && *r.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, *r.PublishedAt)
		if err != nil {
			return entity.Product{}, nil, nil, &CoercionError{Field: "published_at", Value: *r.PublishedAt, Err: err}
		}
		p.PublishDate = &t
	}

	if r.Variants == nil {
		return entity.Product{}, nil, nil, &MissingFieldError{Entity: "products", Field: "variants"}
	}
	variants := make([]entity.Variant, 0, len(*r.Variants))
	for _, rv := range *r.Variants {
		v, err := normalizeVariant(rv)
		if err != nil {
			return entity.Product{}, nil, nil, err
		}
		variants = append(variants, v)
	}

	// No images key means zero image rows; an empty array does too, but only
	// the former skips the images_ids derivation entirely.
	images := []entity.Image{}
	if r.Images != nil {
		ids := make([]int64, 0, len(*r.Images))
		for _, ri := range *r.Images {
			im, err := normalizeImage(ri)
			if err != nil {
				return entity.Product{}, nil, nil, err
			}
			images = append(images, im)
			ids = append(ids, im.ID)
		}
		p.ImagesIDs = datatypes.JSONSlice[int64](ids)
	}

	return p, variants, images, nil
}

func normalizeVariant(rv rawVariant) (entity.Variant, error) {
	if rv.ID == nil {
		return entity.Variant{}, &MissingFieldError{Entity: "variants", Field: "id"}
	}
	if rv.ProductID == nil {
		return entity.Variant{}, &MissingFieldError{Entity: "variants", Field: "product_id"}
	}
	if rv.SKU == nil {
		return entity.Variant{}, &MissingFieldError{Entity: "variants", Field: "sku"}
	}
	v := entity.Variant{
		ID:        *rv.ID,
		ProductID: *rv.ProductID,
		Title:     rv.Title,
		SKU:       *rv.SKU,
		Created:   rv.CreatedAt,
		Updated:   rv.UpdatedAt,
		Available: rv.Available,
	}
	var err error
	if v.Price, err = parsePrice("price", rv.Price); err != nil {
		return entity.Variant{}, err
	}
	if v.CompareAtPrice, err = parsePrice("compare_at_price", rv.CompareAtPrice); err != nil {
		return entity.Variant{}, err
	}
	return v, nil
}

func normalizeImage(ri rawImage) (entity.Image, error) {
	if ri.ID == nil {
		return entity.Image{}, &MissingFieldError{Entity: "images", Field: "id"}
	}
	return entity.Image{
		ID:         *ri.ID,
		Created:    ri.CreatedAt,
		Updated:    ri.UpdatedAt,
		VariantIDs: datatypes.JSONSlice[int64](emptyIfNil(ri.VariantIDs)),
		Src:        ri.Src,
		Width:      ri.Width,
		Height:     ri.Height,
	}, nil
}

// productPage builds the canonical product URL
// https://{vendor}.com/products/{handle}, with spaces stripped from the handle.
func productPage(vendor, handle *string) (string, error) {
	if vendor == nil {
		return "", &MissingFieldError{Entity: "products", Field: "vendor"}
	}
	if handle == nil {
		return "", &MissingFieldError{Entity: "products", Field: "handle"}
	}
	return "https://" + *vendor + ".com/products/" + strings.ReplaceAll(*handle, " ", ""), nil
}

// Only bare one-word tags are stripped; anything with attributes or odd
// shapes passes through unchanged.
var htmlTagRe = regexp.MustCompile(`<\w+>|</\w+>`)

func cleanDescription(body *string) *string {
	if body == nil || *body == "" {
		return nil
	}
	s := htmlTagRe.ReplaceAllString(*body, "")
	return &s
}

// parsePrice coerces a numeric string; empty or absent stays nil.
func parsePrice(field string, s *string) (*float64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, &CoercionError{Field: field, Value: *s, Err: err}
	}
	return &f, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func decodeRaw(src map[string]interface{}, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: numberToStringHook(),
		Result:     dst,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(src); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}
	return nil
}

// numberToStringHook lets numeric feed values land in string fields (some
// storefronts emit prices as numbers).
func numberToStringHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t.Kind() != reflect.String {
			return data, nil
		}
		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprint(data), nil
		}
		return data, nil
	}
}
