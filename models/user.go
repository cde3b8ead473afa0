package models

import "time"

type User struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Phone       string     `json:"phone"`
	Name        string     `json:"name"`
	Picture     string     `json:"picture"`
	IsMember    bool       `json:"is_member"` // loyalty membership, unlocks member pricing
	MemberSince *time.Time `json:"member_since,omitempty"`
	Address     Address    `gorm:"embedded" json:"address"` // Embeds address fields directly
	Cart        Cart       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders      []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Address model embedded in User
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// GuestUser is a short-lived identity for unauthenticated shoppers.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
