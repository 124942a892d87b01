package entity

import "gorm.io/datatypes"

// Image is one row of the images table. Image ids are catalog-wide on the
// storefront side, so the same id can arrive more than once across pages;
// the sink inserts these with ON CONFLICT DO NOTHING.
type Image struct {
	ID         int64                      `gorm:"column:id;primaryKey" json:"id"`
	Created    *string                    `gorm:"column:created_at;type:timestamp" json:"created_at"`
	Updated    *string                    `gorm:"column:updated_at;type:timestamp" json:"updated_at"`
	VariantIDs datatypes.JSONSlice[int64] `gorm:"column:variant_ids" json:"variant_ids"`
	Src        *string                    `gorm:"column:src" json:"src"`
	Width      *int                       `gorm:"column:width" json:"width"`
	Height     *int                       `gorm:"column:height" json:"height"`
}

func (Image) TableName() string {
	return "images"
}
