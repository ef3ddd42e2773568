package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-clinic-billing/billing"
	"go-clinic-billing/config"
	"go-clinic-billing/models"
)

// POST /api/invoices/:id/payments
func ApplyPayment(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	userID, _ := currentUserID(c)

	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var in billing.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	var res *billing.PaymentResult
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = billing.ApplyPayment(tx, clinicID, id, in, userID)
		return err
	})
	if txErr != nil {
		respondBillingError(c, "failed to apply payment", txErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "payment recorded", "data": res})
}

// GET /api/invoices/:id/payments
func PaymentHistory(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var cnt int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		Count(&cnt).Error; err != nil || cnt == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
		return
	}

	var rows []models.Payment
	if err := config.DB.
		Where("invoice_id = ? AND clinic_id = ?", id, clinicID).
		Order("paid_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch payments", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// POST /api/payments/:id/refund
func RefundPayment(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	userID, _ := currentUserID(c)

	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var res *billing.PaymentResult
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = billing.RefundPayment(tx, clinicID, id, userID)
		return err
	})
	if txErr != nil {
		respondBillingError(c, "failed to refund payment", txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment refunded", "data": res})
}
