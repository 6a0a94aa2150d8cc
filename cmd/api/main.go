package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-scraper-api/internal/api"
	"recipe-scraper-api/internal/core/ingredient"
	"recipe-scraper-api/internal/core/scraper"
	"recipe-scraper-api/internal/core/scraper/jsonld"
	"recipe-scraper-api/internal/infrastructure/config"
	"recipe-scraper-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定（含啟動驗證：SECRET_API_KEY 缺失會在這裡失敗）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 組裝服務：食材解析器 → 食材服務 → 食譜組裝服務
	var parser ingredient.Parser
	if cfg.Parser.URL != "" {
		parser = ingredient.NewRemoteParser(cfg.Parser.URL, cfg.Parser.Timeout)
		common.LogInfo("使用遠端食材解析器", zap.String("url", cfg.Parser.URL))
	} else {
		parser = ingredient.NewRuleParser()
		common.LogInfo("使用內建規則食材解析器")
	}

	ingredientService := ingredient.NewService(parser)
	providerFactory := jsonld.NewFactory(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)
	scrapeService := scraper.NewService(providerFactory, ingredientService)

	// 設置路由
	router, err := api.SetupRouter(cfg, scrapeService)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
