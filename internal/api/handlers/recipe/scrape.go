package recipe

import (
	"net/http"
	"strings"

	"recipe-scraper-api/internal/core/scraper"
	"recipe-scraper-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScrapeRequest 抓取請求
type ScrapeRequest struct {
	URL string `json:"url"`
}

// Handler 食譜抓取處理程序
type Handler struct {
	scrapeService *scraper.Service
}

// NewHandler 創建食譜抓取處理程序
func NewHandler(scrapeService *scraper.Service) *Handler {
	return &Handler{
		scrapeService: scrapeService,
	}
}

// HandleScrape 抓取食譜
//
// 驗證失敗回 invalid_url（400）、Provider 初始化失敗回
// scraping_failed（400）、其餘未預期錯誤回 server_error（500）。
// 回應永遠是帶 success 布林值的 JSON 封包。
func (h *Handler) HandleScrape(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest,
			common.NewErrorResponse(common.ErrTypeInvalidURL, "Request body must be JSON"))
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest,
			common.NewErrorResponse(common.ErrTypeInvalidURL, "URL is required in the request body"))
		return
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		c.JSON(http.StatusBadRequest,
			common.NewErrorResponse(common.ErrTypeInvalidURL, "URL must start with http:// or https://"))
		return
	}

	common.LogInfo("開始抓取食譜",
		zap.String("url", url),
		zap.String("request_id", requestID),
	)

	recipeData, err := h.scrapeService.Scrape(c.Request.Context(), url)
	if err != nil {
		if apiErr, ok := common.AsAPIError(err); ok {
			common.LogError("食譜抓取失敗",
				zap.String("url", url),
				zap.String("error_type", string(apiErr.Type)),
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(apiErr.Status, common.NewErrorResponse(apiErr.Type, apiErr.Error()))
			return
		}

		common.LogError("未預期的抓取錯誤",
			zap.String("url", url),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError,
			common.NewErrorResponse(common.ErrTypeServerError, "An unexpected error occurred"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recipeData,
	})
}

// HandleSupportedSites 回傳已註冊站點清單
func (h *Handler) HandleSupportedSites(c *gin.Context) {
	sites := h.scrapeService.SupportedSites()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(sites),
		"sites":   sites,
	})
}
