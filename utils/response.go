package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes the standard 200 envelope: a human-readable message plus the
// payload under "data", matching the shape the inline gin.H handlers produce.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

// Error writes an error envelope; the underlying error string is included only
// when one exists, so callers can pass nil for plain status responses.
func Error(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"message": message}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(status, resp)
}
