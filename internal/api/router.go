package api

import (
	"net/http"
	"time"

	"recipe-scraper-api/internal/api/handlers/health"
	recipeHandler "recipe-scraper-api/internal/api/handlers/recipe"
	"recipe-scraper-api/internal/api/middleware"
	"recipe-scraper-api/internal/core/scraper"
	"recipe-scraper-api/internal/infrastructure/config"
	"recipe-scraper-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體大小限制 (1MB)：這個 API 只收 {"url": ...}
const maxBodySize = 1 << 20

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, scrapeService *scraper.Service) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Mobile-Api-Key"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 共享密鑰驗證（涵蓋所有路由）
	router.Use(middleware.Auth(cfg.Auth.APIKey))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	handler := recipeHandler.NewHandler(scrapeService)

	// 路由
	router.GET("/health", health.HealthCheck)
	router.POST("/scrape", handler.HandleScrape)
	router.GET("/supported-sites", handler.HandleSupportedSites)

	// 未匹配路由與方法的統一封包
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound,
			common.NewErrorResponse(common.ErrTypeNotFound, "Endpoint not found"))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			common.NewErrorResponse(common.ErrTypeMethodNotAllowed, "Method not allowed"))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
