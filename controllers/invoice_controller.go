package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-clinic-billing/billing"
	"go-clinic-billing/config"
	"go-clinic-billing/models"
)

type InvoiceCreateInput struct {
	PatientName    string `json:"patient_name" binding:"required"`
	PatientPhone   string `json:"patient_phone"`
	PatientAddress string `json:"patient_address"`

	InvoiceDate time.Time `json:"invoice_date"`
	DueInDays   int       `json:"due_in_days"`

	Items []billing.LineInput `json:"items" binding:"required,min=1"`

	DiscountType  models.DiscountType `json:"discount_type"`
	DiscountValue float64             `json:"discount_value"`

	Payment *billing.PaymentInput `json:"payment"`
}

// POST /api/invoices
func CreateInvoice(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized", "error": err.Error()})
		return
	}
	userID, _ := currentUserID(c)

	var in InvoiceCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	inv, err := billing.CreateInvoice(config.DB, billing.StockPolicy(config.App.StockPolicy), billing.InvoiceInput{
		ClinicID:       clinicID,
		PatientName:    in.PatientName,
		PatientPhone:   in.PatientPhone,
		PatientAddress: in.PatientAddress,
		InvoiceDate:    in.InvoiceDate,
		DueInDays:      in.DueInDays,
		Items:          in.Items,
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		Payment:        in.Payment,
		CreatedByID:    userID,
	})
	if err != nil {
		respondBillingError(c, "failed to create invoice", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "invoice created", "data": inv})
}

// GET /api/invoices?payment_status=&page=&page_size=
func ListInvoices(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	page := getInt(c, "page", 1)
	size := getInt(c, "page_size", 50)

	q := config.DB.Model(&models.Invoice{}).Where("clinic_id = ?", clinicID)

	if status := strings.TrimSpace(c.Query("payment_status")); status != "" {
		q = q.Where("payment_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list invoices", "error": err.Error()})
		return
	}

	var rows []models.Invoice
	if err := q.Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list invoices", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"pagination": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}

// GET /api/invoices/:id
func InvoiceDetail(c *gin.Context) {
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

	var inv models.Invoice
	if err := config.DB.
		Preload("Items").
		Preload("TaxLines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.id ASC") }).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch invoice", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

// POST /api/invoices/:id/cancel
func CancelInvoice(c *gin.Context) {
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

	var inv *models.Invoice
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = billing.CancelInvoice(tx, clinicID, id)
		return err
	})
	if txErr != nil {
		respondBillingError(c, "failed to cancel invoice", txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invoice cancelled", "data": inv})
}
