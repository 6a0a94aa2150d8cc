package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Recipe Scraper API is running",
	})
}
