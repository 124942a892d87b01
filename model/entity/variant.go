package entity

// Variant is one row of the variants table. Timestamps are kept as the raw
// feed strings; Postgres casts them into the timestamp columns on insert.
type Variant struct {
	ProductID      int64    `gorm:"column:product_id" json:"product_id"`
	ID             int64    `gorm:"column:id;primaryKey" json:"id"`
	Title          *string  `gorm:"column:variant_title" json:"variant_title"`
	Price          *float64 `gorm:"column:variant_price" json:"variant_price"`
	CompareAtPrice *float64 `gorm:"column:variant_compare_at_price" json:"variant_compare_at_price"`
	SKU            string   `gorm:"column:variant_sku" json:"variant_sku"`
	Created        *string  `gorm:"column:variant_created_at;type:timestamp" json:"variant_created_at"`
	Updated        *string  `gorm:"column:variant_updated_at;type:timestamp" json:"variant_updated_at"`
	Available      *bool    `gorm:"column:variant_available" json:"variant_available"`
}

func (Variant) TableName() string {
	return "variants"
}
