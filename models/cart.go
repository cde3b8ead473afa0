package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CartID              uint      `gorm:"index" json:"cart_id"`
	ProductID           uint      `json:"product_id"`
	ProductName         string    `json:"product_name"`
	ProductImage        string    `json:"product_image"`
	ProductStock        int       `json:"product_stock"`
	ProductRegularPrice float64   `json:"product_regular_price"`
	ProductMemberPrice  float64   `json:"product_member_price"`
	Weight              float64   `json:"weight"`
	Quantity            int       `json:"quantity"`
	AddedAt             time.Time `json:"added_at"`
}

// AppliedUnitPrice resolves the price actually charged for this line: the
// member price when the caller is a member and the product has one, otherwise
// the regular price.
func (ci CartItem) AppliedUnitPrice(isMember bool) float64 {
	if isMember && ci.ProductMemberPrice > 0 {
		return ci.ProductMemberPrice
	}
	return ci.ProductRegularPrice
}
