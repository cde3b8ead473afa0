package audit

import (
	"encoding/json"
	"log"

	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

// Log records an admin action. Audit writes are best-effort: a failure is
// logged and swallowed so it can never break the action being audited.
func Log(db *gorm.DB, userID, action, resource, resourceID string, details interface{}) {
	detailsJSON := ""
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			detailsJSON = string(data)
		}
	}

	entry := models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Failed to write audit log (%s %s): %v", action, resource, err)
	}
}
