package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-clinic-billing/billing"
)

// currentClinicID normalizes the clinic id the auth middleware put in the
// context; JWT claims decode numbers as float64.
func currentClinicID(c *gin.Context) (uint, error) {
	return contextUint(c, "clinic_id")
}

func currentUserID(c *gin.Context) (uint, error) {
	return contextUint(c, "user_id")
}

func contextUint(c *gin.Context, key string) (uint, error) {
	raw, ok := c.Get(key)
	if !ok {
		return 0, errors.New(key + " not set")
	}
	switch v := raw.(type) {
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	case int64:
		return uint(v), nil
	case float64:
		return uint(v), nil
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return uint(n), nil
		}
	}
	return 0, errors.New(key + " is not valid")
}

func getInt(c *gin.Context, key string, def int) int {
	if s := c.Query(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pathID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

// respondBillingError maps the billing error taxonomy onto HTTP statuses.
func respondBillingError(c *gin.Context, msg string, err error) {
	var ve *billing.ValidationError
	var ce *billing.ConflictError
	var ge *billing.GatewayError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": msg, "error": err.Error()})
	case errors.Is(err, billing.ErrInvoiceNotFound),
		errors.Is(err, billing.ErrPaymentNotFound),
		errors.Is(err, billing.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msg, "error": err.Error()})
	case errors.Is(err, billing.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"message": msg, "error": err.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"message": msg, "error": err.Error()})
	case errors.As(err, &ge):
		c.JSON(http.StatusBadGateway, gin.H{"message": msg, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": msg, "error": err.Error()})
	}
}
