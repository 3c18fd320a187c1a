package handlers

import (
	"net/http"

	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health. No authentication required.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "stayflow",
		"deps":    utils.GetHealthStatus(),
	})
}
