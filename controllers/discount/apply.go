package discountControllers

import (
	"errors"
	"time"

	"github.com/kedaihq/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrUsageLimitReached is returned when the conditional increment finds the
// code already at its global usage limit.
var ErrUsageLimitReached = errors.New("discount code usage limit reached")

// ApplyToOrder records one redemption: a ledger row plus a counter increment,
// committed together or not at all. This is the only write path for usage
// tracking.
func ApplyToOrder(db *gorm.DB, discountCodeID, orderID uint, userID string, amount decimal.Decimal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return ApplyToOrderTx(tx, discountCodeID, orderID, userID, amount)
	})
}

// ApplyToOrderTx is ApplyToOrder for callers that already hold an open
// transaction (checkout). The increment is conditional on the usage limit so
// that concurrent redemptions cannot push the counter past it.
func ApplyToOrderTx(tx *gorm.DB, discountCodeID, orderID uint, userID string, amount decimal.Decimal) error {
	usage := models.DiscountUsage{
		DiscountCodeID: discountCodeID,
		UserID:         userID,
		OrderID:        orderID,
		Amount:         amount,
		CreatedAt:      time.Now(),
	}
	if err := tx.Create(&usage).Error; err != nil {
		return err
	}

	result := tx.Model(&models.DiscountCode{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", discountCodeID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}
