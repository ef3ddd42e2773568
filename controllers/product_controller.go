package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-clinic-billing/billing"
	"go-clinic-billing/config"
	"go-clinic-billing/models"
)

type ProductCreateInput struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price" binding:"gte=0"`
	TaxRate    float64 `json:"tax_rate" binding:"gte=0,lte=100"`
	TrackStock bool    `json:"track_stock"`
	Stock      int64   `json:"stock" binding:"gte=0"`
	MinStock   int64   `json:"min_stock" binding:"gte=0"`
}

// GET /api/products?q=
func ListProducts(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	page := getInt(c, "page", 1)
	size := getInt(c, "page_size", 100)

	q := config.DB.Model(&models.Product{}).Where("clinic_id = ?", clinicID)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list products", "error": err.Error()})
		return
	}

	var rows []models.Product
	if err := q.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list products", "error": err.Error()})
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

// POST /api/products
func CreateProduct(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	var in ProductCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	p := models.Product{
		ClinicID:   clinicID,
		Code:       in.Code,
		Name:       in.Name,
		Unit:       in.Unit,
		Price:      in.Price,
		TaxRate:    in.TaxRate,
		TrackStock: in.TrackStock,
		Stock:      in.Stock,
		MinStock:   in.MinStock,
	}
	if err := config.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to create product", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "product created", "data": p})
}

type StockAdjustInput struct {
	Quantity int64 `json:"quantity" binding:"required"` // signed delta
}

// POST /api/products/:id/stock-adjust
func AdjustProductStock(c *gin.Context) {
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

	var in StockAdjustInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "error": err.Error()})
		return
	}

	var newStock int64
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		newStock, err = billing.AdjustStock(tx, billing.StockPolicy(config.App.StockPolicy), clinicID, id, in.Quantity, userID)
		return err
	})
	if txErr != nil {
		respondBillingError(c, "failed to adjust stock", txErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "stock adjusted", "data": gin.H{"stock": newStock}})
}

// GET /api/products/:id/movements
func ListStockMovements(c *gin.Context) {
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

	var rows []models.StockMovement
	if err := config.DB.
		Where("product_id = ? AND clinic_id = ?", id, clinicID).
		Order("id DESC").
		Limit(getInt(c, "page_size", 200)).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch movements", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
