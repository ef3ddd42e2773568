package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-clinic-billing/billing"
	"go-clinic-billing/config"
	"go-clinic-billing/models"
)

type GatewayOrderInput struct {
	Amount    float64           `json:"amount" binding:"required,gt=0"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"` // e.g. invoice number
	Notes     map[string]string `json:"notes"`
}

type GatewayVerifyInput struct {
	InvoiceID uint   `json:"invoice_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Notes     string `json:"notes"`
}

func gatewayClinic(c *gin.Context) (*models.Clinic, bool) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return nil, false
	}
	var clinic models.Clinic
	if err := config.DB.First(&clinic, clinicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "clinic not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load clinic", "error": err.Error()})
		return nil, false
	}
	if clinic.GatewayKeyID == "" || clinic.GatewayKeySecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "payment gateway is not configured for this clinic"})
		return nil, false
	}
	return &clinic, true
}

// POST /api/gateway/orders
func CreateGatewayOrder(c *gin.Context) {
	clinic, ok := gatewayClinic(c)
	if !ok {
		return
	}

	var in GatewayOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	client := billing.NewGatewayClient(config.App.GatewayBaseURL, clinic.GatewayKeyID, clinic.GatewayKeySecret, config.App.GatewayTimeout)
	order, err := client.CreateOrder(c.Request.Context(), in.Amount, in.Currency, in.Reference, in.Notes)
	if err != nil {
		respondBillingError(c, "failed to create gateway order", err)
		return
	}

	// The order amount must survive until the callback; verification settles
	// this recorded amount, not whatever the callback carries.
	rec := models.GatewayOrder{
		ClinicID: clinic.ID,
		OrderID:  order.ID,
		Amount:   float64(order.Amount) / 100,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   models.GatewayOrderCreated,
	}
	if err := config.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to record gateway order", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"order_id": order.ID,
			"amount":   order.Amount,
			"currency": order.Currency,
			"receipt":  order.Receipt,
			"key_id":   client.KeyID(),
		},
	})
}

// POST /api/gateway/verify
//
// Verification is mandatory: an unverified or client-supplied-only callback
// never produces a payment record, whatever gateway is configured.
func VerifyGatewayPayment(c *gin.Context) {
	clinic, ok := gatewayClinic(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	var in GatewayVerifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	if !billing.VerifySignature(in.OrderID, in.PaymentID, in.Signature, clinic.GatewayKeySecret) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":  "payment verification failed",
			"error":    billing.ErrSignatureMismatch.Error(),
			"verified": false,
		})
		return
	}

	// Verified: settle exactly the amount the order was opened for, through
	// the ledger. The order row is consumed in the same transaction so a
	// replayed callback cannot settle twice.
	var res *billing.PaymentResult
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var order models.GatewayOrder
		if err := tx.Where("order_id = ? AND clinic_id = ?", in.OrderID, clinic.ID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &billing.ValidationError{Field: "order_id", Message: "unknown gateway order"}
			}
			return err
		}

		consumed := tx.Model(&models.GatewayOrder{}).
			Where("id = ? AND status = ?", order.ID, models.GatewayOrderCreated).
			Updates(map[string]interface{}{
				"status":     models.GatewayOrderPaid,
				"payment_id": in.PaymentID,
			})
		if consumed.Error != nil {
			return consumed.Error
		}
		if consumed.RowsAffected == 0 {
			return &billing.ValidationError{Field: "order_id", Message: "gateway order already settled"}
		}

		var inv models.Invoice
		if err := tx.Where("id = ? AND clinic_id = ?", in.InvoiceID, clinic.ID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return billing.ErrInvoiceNotFound
			}
			return err
		}
		var err error
		res, err = billing.ApplyPayment(tx, clinic.ID, inv.ID, billing.PaymentInput{
			Amount:        order.Amount,
			Method:        models.MethodRazorpay,
			TransactionID: in.PaymentID,
			Notes:         in.Notes,
		}, userID)
		return err
	})
	if txErr != nil {
		respondBillingError(c, "failed to record gateway payment", txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment verified", "verified": true, "data": res})
}
