package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description"`
	RegularPrice float64        `gorm:"not null" json:"regular_price"`
	MemberPrice  float64        `json:"member_price"` // 0 = no member pricing for this product
	BaseCost     float64        `json:"-"`
	Image        string         `json:"image"`
	Weight       float64        `gorm:"not null" json:"weight"` // kg, used for shipping rates
	Stock        int            `json:"stock"`
	Categories   []Category     `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
