package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ProductOption mirrors one entry of the storefront "options" array.
type ProductOption struct {
	Name     string   `json:"name" mapstructure:"name"`
	Position int      `json:"position,omitempty" mapstructure:"position"`
	Values   []string `json:"values,omitempty" mapstructure:"values"`
}

// Product is one row of the products table. Composite fields stay native
// slices in memory; datatypes.JSONSlice serializes them to JSON at bind time.
type Product struct {
	ID          int64                              `gorm:"column:id;primaryKey" json:"id"`
	PublishDate *time.Time                         `gorm:"column:product_publish_date;type:timestamp" json:"product_publish_date"`
	Vendor      *string                            `gorm:"column:product_vendor" json:"product_vendor"`
	Type        *string                            `gorm:"column:product_type" json:"product_type"`
	Tags        datatypes.JSONSlice[string]        `gorm:"column:product_tags" json:"product_tags"`
	Options     datatypes.JSONSlice[ProductOption] `gorm:"column:product_options" json:"product_options"`
	Page        string                             `gorm:"column:product_page" json:"product_page"`
	Description *string                            `gorm:"column:product_description" json:"product_description"`
	Title       *string                            `gorm:"column:product_title" json:"product_title"`
	ImagesIDs   datatypes.JSONSlice[int64]         `gorm:"column:images_ids" json:"images_ids"`
}

func (Product) TableName() string {
	return "products"
}
