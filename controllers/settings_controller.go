package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-clinic-billing/config"
	"go-clinic-billing/models"
	"go-clinic-billing/utils"
)

// maskSecret hides everything but the last four characters; short values are
// fully masked.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// GET /api/settings/payment
func GetPaymentSettings(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var clinic models.Clinic
	if err := config.DB.First(&clinic, clinicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "clinic not found"})
			return
		}
		utils.Error(c, http.StatusInternalServerError, "failed to load settings", err)
		return
	}

	utils.Success(c, "payment settings", gin.H{
		"gateway_key_id":     clinic.GatewayKeyID,
		"gateway_key_secret": maskSecret(clinic.GatewayKeySecret),
		"configured":         clinic.GatewayKeyID != "" && clinic.GatewayKeySecret != "",
	})
}

type PaymentSettingsInput struct {
	GatewayKeyID     string `json:"gateway_key_id" binding:"required"`
	GatewayKeySecret string `json:"gateway_key_secret" binding:"required"`
}

// PUT /api/settings/payment
func UpdatePaymentSettings(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var in PaymentSettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	res := config.DB.Model(&models.Clinic{}).Where("id = ?", clinicID).
		Updates(map[string]interface{}{
			"gateway_key_id":     in.GatewayKeyID,
			"gateway_key_secret": in.GatewayKeySecret,
		})
	if res.Error != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to update settings", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "clinic not found"})
		return
	}

	utils.Success(c, "payment settings updated", gin.H{
		"gateway_key_id":     in.GatewayKeyID,
		"gateway_key_secret": maskSecret(in.GatewayKeySecret),
	})
}

// GET /api/tax-rates
func ListTaxRates(c *gin.Context) {
	var rows []models.TaxRate
	if err := config.DB.Order("rate ASC").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to fetch tax rates", err)
		return
	}
	utils.Success(c, "tax rates", rows)
}
