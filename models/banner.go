package models

import "time"

// Banner is a storefront hero image managed from the back office.
type Banner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	LinkURL   string    `json:"link_url"` // optional click-through target
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
