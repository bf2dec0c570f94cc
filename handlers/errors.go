package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotline/models"
	"slotline/utils"
)

// respondError translates a service error into the API error envelope.
// Business errors carry their own status and code; anything else is a 500.
func respondError(c *gin.Context, err error) {
	if se, ok := models.AsServiceError(err); ok {
		c.JSON(se.Status, gin.H{"error": gin.H{"code": se.Code, "message": se.Message}})
		return
	}
	utils.GetLogger().Error("Internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred. Please try again later.",
	}})
}

// respondValidation is the shorthand for request binding failures.
func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
		"code":    models.CodeValidation,
		"message": message,
	}})
}
