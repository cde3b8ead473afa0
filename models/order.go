package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending     OrderStatus = "pending"       // Order placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // Confirmed by seller
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // Packed and ready for dispatch
	OrderStatusShipped     OrderStatus = "shipped"       // Out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"     // Customer received the item
	OrderStatusReturned    OrderStatus = "returned"      // Customer returned the item
	OrderStatusCancelled   OrderStatus = "cancelled"     // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"  // Payment not completed yet
	PaymentStatusPaid     PaymentStatus = "paid"     // Payment completed successfully
	PaymentStatusFailed   PaymentStatus = "failed"   // Payment attempt failed
	PaymentStatusRefunded PaymentStatus = "refunded" // Money returned to customer
)

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderRef       string          `gorm:"uniqueIndex" json:"order_ref"`
	UserID         string          `gorm:"not null" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"user"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal       float64         `json:"subtotal"`
	ShippingCost   float64         `json:"shipping_cost"`
	DiscountCodeID *uint           `json:"discount_code_id,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	TotalAmount    float64         `json:"total_amount"`
	Status         OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod  string          `json:"payment_method"` // e.g. "fpx", "card", "cod"

	// Courier tracking, refreshed by the background tracking job
	TrackingNo        string     `json:"tracking_no,omitempty"`
	Courier           string     `json:"courier,omitempty"`
	TrackingStatus    string     `json:"tracking_status,omitempty"`
	TrackingCheckedAt *time.Time `json:"tracking_checked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	RegularPrice float64 `json:"regular_price"`
	AppliedPrice float64 `json:"applied_price"` // price actually charged (member price for members)
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
}
