package models

import (
	"time"

	"gorm.io/gorm"
)

// Article backs the storefront content pages (blog posts and FAQ entries).
type Article struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Body      string         `gorm:"type:text" json:"body"`
	Category  string         `json:"category"` // e.g. "faq", "news", "guide"
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
