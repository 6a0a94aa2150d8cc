package middleware

import (
	"crypto/subtle"
	"net/http"

	"recipe-scraper-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth 共享密鑰驗證中間件
//
// 所有路由（含 /health）都要帶 X-Mobile-Api-Key；
// 缺失或不符一律 401，不進任何路由邏輯。
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Mobile-Api-Key")

		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			common.LogWarn("未授權的請求",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized Access",
			})
			return
		}

		c.Next()
	}
}
