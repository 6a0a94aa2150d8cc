package scraper

import (
	"context"

	"recipe-scraper-api/internal/core/ingredient"
)

// Provider 單一 URL 的食譜欄位擷取能力
//
// 每個存取器獨立回傳 (值, error)：任何欄位都可能單獨失敗，
// 組裝層負責把失敗折疊成 null，不讓單一欄位拖垮整筆食譜。
// Instructions 的回傳值可能是含換行的字串或字串序列，
// 由正規化層吸收。
type Provider interface {
	Title() (string, error)
	Ingredients() ([]string, error)
	Instructions() (any, error)
	Yields() (string, error)
	PrepTime() (int, error)
	CookTime() (int, error)
	TotalTime() (int, error)
	Image() (string, error)
	Description() (string, error)
	Host() (string, error)
	Ratings() (float64, error)
	Cuisine() (string, error)
}

// Factory 依 URL 建立 Provider
//
// Scrape 是整個流程中唯一致命的失敗點：拿不到 Provider
// 就沒有食譜可言。
type Factory interface {
	Scrape(ctx context.Context, url string) (Provider, error)
	SupportedHosts() []string
}

// Recipe 正規化後的食譜
//
// 每個欄位獨立可為 null；每次請求建立一份，序列化後即丟棄。
type Recipe struct {
	Title        *string                 `json:"title"`
	Ingredients  []ingredient.Ingredient `json:"ingredients"`
	Instructions []string                `json:"instructions"`
	Yields       *int                    `json:"yields"`
	PrepTime     *string                 `json:"prep_time"`
	CookTime     *string                 `json:"cook_time"`
	TotalTime    *string                 `json:"total_time"`
	Image        *string                 `json:"image"`
	Description  *string                 `json:"description"`
	Host         *string                 `json:"host"`
	Ratings      *float64                `json:"ratings"`
	Cuisine      *string                 `json:"cuisine"`
}
