package orderControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/models"
	"github.com/kedaihq/storefront-api/shipping"
	"github.com/sony/gobreaker"
	"gorm.io/gorm"
)

type shipmentInput struct {
	TrackingNo string `json:"tracking_no" binding:"required"`
	Courier    string `json:"courier" binding:"required"`
}

// PUT /admin/orders/:orderID/shipment
// Attaches courier details once the parcel is handed over; the background
// refresh job picks the order up from there.
func SetShipmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req shipmentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"tracking_no":     req.TrackingNo,
			"courier":         req.Courier,
			"status":          models.OrderStatusShipped,
			"tracking_status": "in_transit",
		}
		result := db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set shipment"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Shipment details saved"})
	}
}

// TrackingSummary aggregates tracking-job statuses across shipped orders.
type TrackingSummary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// AggregateTrackingStatuses counts shipped orders per tracking status.
func AggregateTrackingStatuses(db *gorm.DB) (TrackingSummary, error) {
	summary := TrackingSummary{ByStatus: make(map[string]int64)}

	type row struct {
		TrackingStatus string
		Count          int64
	}
	var rows []row
	err := db.Model(&models.Order{}).
		Select("tracking_status, COUNT(*) as count").
		Where("tracking_no <> ''").
		Group("tracking_status").
		Scan(&rows).Error
	if err != nil {
		return summary, err
	}

	for _, r := range rows {
		status := r.TrackingStatus
		if status == "" {
			status = "unknown"
		}
		summary.ByStatus[status] = r.Count
		summary.Total += r.Count
	}
	return summary, nil
}

// GET /admin/orders/tracking-summary
func TrackingSummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := AggregateTrackingStatuses(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate tracking statuses"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// RefreshTrackingStatuses polls the courier API for every shipped order that
// still has a tracking number and records the latest status. Breaker-open
// errors stop the pass early; individual lookup failures just skip the order.
func RefreshTrackingStatuses(ctx context.Context, db *gorm.DB, client *shipping.TrackingClient) {
	var orders []models.Order
	if err := db.
		Where("tracking_no <> ''").
		Where("status IN ?", []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusReadyToShip}).
		Find(&orders).Error; err != nil {
		log.Printf("❌ Tracking refresh: failed to list orders: %v", err)
		return
	}

	for _, order := range orders {
		status, err := client.Status(ctx, order.Courier, order.TrackingNo)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				log.Printf("⚠️ Tracking refresh: courier API breaker open, stopping pass: %v", err)
				return
			}
			log.Printf("⚠️ Tracking refresh: %s (%s): %v", order.TrackingNo, order.Courier, err)
			continue
		}

		now := time.Now()
		updates := map[string]interface{}{
			"tracking_status":     status,
			"tracking_checked_at": now,
		}
		if status == "delivered" {
			updates["status"] = models.OrderStatusDelivered
		}
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			log.Printf("❌ Tracking refresh: failed to update order %d: %v", order.ID, err)
		}
	}
}

// StartTrackingRefreshLoop runs RefreshTrackingStatuses on a fixed interval.
// Started from main as a background goroutine.
func StartTrackingRefreshLoop(db *gorm.DB, client *shipping.TrackingClient, interval time.Duration) {
	for {
		time.Sleep(interval)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		RefreshTrackingStatuses(ctx, db, client)
		cancel()
	}
}
