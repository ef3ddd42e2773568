package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-clinic-billing/config"
	"go-clinic-billing/service"
	"go-clinic-billing/utils"
)

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GET /api/reports/revenue?from=2026-01-01&to=2026-02-01
func ReportRevenue(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	svc := service.NewService(config.DB)
	report, err := svc.Revenue(c.Request.Context(), clinicID, parseDate(c.Query("from")), parseDate(c.Query("to")))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to build revenue report", err)
		return
	}
	utils.Success(c, "revenue report", report)
}

// GET /api/reports/outstanding
func ReportOutstanding(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	svc := service.NewService(config.DB)
	rows, total, err := svc.Outstanding(c.Request.Context(), clinicID, getInt(c, "page", 1), getInt(c, "page_size", 50))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to build outstanding report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"pagination": gin.H{
			"page":      getInt(c, "page", 1),
			"page_size": getInt(c, "page_size", 50),
			"total":     total,
		},
	})
}

// GET /api/reports/stock
func ReportLowStock(c *gin.Context) {
	clinicID, err := currentClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	svc := service.NewService(config.DB)
	rows, err := svc.LowStock(c.Request.Context(), clinicID)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to build stock report", err)
		return
	}
	utils.Success(c, "low stock report", rows)
}
