package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kedaihq/storefront-api/models"
	"gorm.io/gorm"
)

// GatewayResponse is the hosted-payment-page create response.
type GatewayResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// getGatewayConfig picks the production endpoint, test mode if needed.
func getGatewayConfig() (storeID int, authKey, apiURL string, testMode int, err error) {
	storeID, _ = strconv.Atoi(os.Getenv("PAYMENT_STORE_ID"))
	authKey = os.Getenv("PAYMENT_AUTH_KEY")
	apiURL = os.Getenv("PAYMENT_API_URL")
	testMode = 0

	mode := os.Getenv("PAYMENT_MODE")
	if mode == "sandbox" || mode == "dev" {
		testMode = 1 // use test mode even on live endpoint
	}

	if storeID == 0 || authKey == "" || apiURL == "" {
		return 0, "", "", 0, fmt.Errorf("payment gateway configuration missing")
	}
	return storeID, authKey, apiURL, testMode, nil
}

// CreateHostedPayment asks the gateway for a hosted payment page and returns
// its URL and gateway reference.
func CreateHostedPayment(order *models.Order, customer *models.User) (string, string, error) {
	storeID, authKey, apiURL, testMode, err := getGatewayConfig()
	if err != nil {
		return "", "", err
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   storeID,
		"authkey": authKey,
		"order": map[string]interface{}{
			"cartid":      order.OrderRef,
			"test":        testMode,
			"amount":      fmt.Sprintf("%.2f", order.TotalAmount),
			"currency":    "MYR",
			"description": fmt.Sprintf("Order %s", order.OrderRef),
		},
		"customer": map[string]interface{}{
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
			"address": map[string]string{
				"line1":    customer.Address.Line1,
				"line2":    customer.Address.Line2,
				"city":     customer.Address.City,
				"region":   customer.Address.State,
				"country":  customer.Address.Country,
				"postcode": customer.Address.PostalCode,
			},
		},
		"return": map[string]string{
			"authorised": os.Getenv("PAYMENT_SUCCESS_URL"),
			"declined":   os.Getenv("PAYMENT_FAILURE_URL"),
			"cancelled":  os.Getenv("PAYMENT_CANCEL_URL"),
		},
	}

	jsonData, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body))
	}

	var gwResp GatewayResponse
	if err := json.Unmarshal(body, &gwResp); err != nil {
		return "", "", fmt.Errorf("failed to parse gateway response: %v", err)
	}

	if gwResp.Error != nil {
		return "", "", fmt.Errorf("gateway error: %s", gwResp.Error.Message)
	}

	if gwResp.Order.URL == "" {
		return "", "", fmt.Errorf("gateway returned empty payment URL")
	}

	return gwResp.Order.URL, gwResp.Order.Ref, nil
}

// PaymentRequestHandler creates a hosted payment page for an existing order.
// POST /payments/request
func PaymentRequestHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			OrderRef string `json:"order_ref" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		var order models.Order
		if err := db.Where("order_ref = ?", input.OrderRef).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if order.PaymentStatus == models.PaymentStatusPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "Order is already paid"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", order.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		paymentURL, gatewayRef, err := CreateHostedPayment(&order, &user)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment_url": paymentURL,
			"gateway_ref": gatewayRef,
		})
	}
}

// WebhookHandler receives the gateway's payment notification and confirms the
// order on an approved transaction. Signature verification happens in
// middleware before this runs.
// POST /payments/webhook
func WebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		orderRef := c.PostForm("tran_cartid")
		tranStatus := c.PostForm("tran_status") // "A" = approved

		if orderRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid"})
			return
		}

		var order models.Order
		if err := db.Where("order_ref = ?", orderRef).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if tranStatus != "A" {
			if err := db.Model(&order).Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment failure"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		updates := map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusConfirmed,
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "order_ref": orderRef})
	}
}
