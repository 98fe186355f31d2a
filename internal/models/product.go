package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ValidCategories is the fixed set of product categories accepted by the API.
var ValidCategories = []string{"decor", "meditation", "incense", "statues", "ritual", "edibles"}

// IsValidCategory reports whether category belongs to the fixed enum.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	BaseModel
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price"`
	Category        string         `gorm:"index" json:"category"`
	Featured        bool           `gorm:"index" json:"featured"`
	InStock         bool           `json:"in_stock"`
	PopularityScore int            `json:"popularity_score"`
	AvailableSizes  datatypes.JSON `json:"available_sizes,omitempty"`
	AvailableColors datatypes.JSON `json:"available_colors,omitempty"`
	// ImageURL carries the first gallery image on list responses. It is read
	// from a correlated subquery and never written.
	ImageURL string         `gorm:"->;-:migration" json:"image_url,omitempty"`
	Images   []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	DisplayOrder int       `json:"display_order"`
}
