package models

import (
	"encoding/json"
	"time"
)

// Product is a catalogue entry. Images holds the decoded gallery; the column
// itself is a JSON text blob kept in ImagesRaw.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Colors      *string   `gorm:"size:255" json:"colors"`
	Sizes       *string   `gorm:"size:255" json:"sizes"`
	Image       *string   `gorm:"size:512" json:"image"`
	ImagesRaw   *string   `gorm:"column:images;type:text" json:"-"`
	Images      []string  `gorm:"-" json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Product) TableName() string { return "products" }

// ProductRow is a product with its category name left-joined in. The name is
// nil when category_id is unset or points at a deleted category.
type ProductRow struct {
	Product
	CategoryName *string `json:"category_name"`
}

// EncodeImages serialises a gallery for the images column.
func EncodeImages(paths []string) string {
	if paths == nil {
		paths = []string{}
	}
	b, _ := json.Marshal(paths)
	return string(b)
}

// DecodeImages turns the stored blob back into a list. An empty blob falls
// back to the primary image; an unreadable one yields an empty list.
func DecodeImages(raw *string, primary *string) []string {
	if raw == nil || *raw == "" {
		if primary != nil && *primary != "" {
			return []string{*primary}
		}
		return []string{}
	}

	var paths []string
	if err := json.Unmarshal([]byte(*raw), &paths); err != nil || paths == nil {
		return []string{}
	}
	return paths
}

// Expand fills Images from the stored columns.
func (p *Product) Expand() {
	p.Images = DecodeImages(p.ImagesRaw, p.Image)
}
