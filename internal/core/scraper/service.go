package scraper

import (
	"context"
	"regexp"
	"strconv"

	"recipe-scraper-api/internal/core/ingredient"
	"recipe-scraper-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜組裝服務
type Service struct {
	factory     Factory
	ingredients *ingredient.Service
}

// NewService 創建食譜組裝服務
func NewService(factory Factory, ingredientSvc *ingredient.Service) *Service {
	return &Service{
		factory:     factory,
		ingredients: ingredientSvc,
	}
}

var digitsPattern = regexp.MustCompile(`\d+`)

// Scrape 抓取 URL 並組出正規化食譜
//
// Provider 取得失敗是唯一致命錯誤（回傳 scraping_failed）。
// 其餘欄位逐一擷取，單一欄位失敗只記 log 並落成 null /
// 空序列，不影響其他欄位。
func (s *Service) Scrape(ctx context.Context, url string) (*Recipe, error) {
	provider, err := s.factory.Scrape(ctx, url)
	if err != nil {
		common.LogError("Provider 初始化失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, common.NewScrapingError(err.Error(), err)
	}

	common.LogInfo("Provider 初始化完成", zap.String("url", url))

	recipe := &Recipe{
		Ingredients:  []ingredient.Ingredient{},
		Instructions: []string{},
	}

	if title, err := provider.Title(); err != nil {
		logFieldError("title", url, err)
	} else {
		recipe.Title = &title
	}

	if raw, err := provider.Ingredients(); err != nil {
		logFieldError("ingredients", url, err)
	} else {
		recipe.Ingredients = s.ingredients.ParseIngredients(ctx, raw)
	}

	if raw, err := provider.Instructions(); err != nil {
		logFieldError("instructions", url, err)
	} else {
		recipe.Instructions = common.ParseInstructions(raw)
	}

	if raw, err := provider.Yields(); err != nil {
		logFieldError("yields", url, err)
	} else {
		recipe.Yields = normalizeYields(raw)
	}

	recipe.PrepTime = fetchTime(provider.PrepTime, "prep_time", url)
	recipe.CookTime = fetchTime(provider.CookTime, "cook_time", url)
	recipe.TotalTime = fetchTime(provider.TotalTime, "total_time", url)

	if image, err := provider.Image(); err != nil {
		logFieldError("image", url, err)
	} else {
		recipe.Image = &image
	}

	if desc, err := provider.Description(); err != nil {
		logFieldError("description", url, err)
	} else {
		recipe.Description = &desc
	}

	if host, err := provider.Host(); err != nil {
		logFieldError("host", url, err)
	} else {
		recipe.Host = &host
	}

	if ratings, err := provider.Ratings(); err != nil {
		logFieldError("ratings", url, err)
	} else {
		recipe.Ratings = &ratings
	}

	if cuisine, err := provider.Cuisine(); err != nil {
		logFieldError("cuisine", url, err)
	} else {
		recipe.Cuisine = &cuisine
	}

	return recipe, nil
}

// SupportedSites 回傳已註冊站點（已排序）
func (s *Service) SupportedSites() []string {
	return s.factory.SupportedHosts()
}

// fetchTime 擷取時間欄位（分鐘）
//
// 零值視為缺失並落成 null —— 沿用參考實作的行為（0 分鐘備料
// 的食譜因此顯示為 null），見 DESIGN.md。
func fetchTime(fetch func() (int, error), field, url string) *string {
	minutes, err := fetch()
	if err != nil {
		logFieldError(field, url, err)
		return nil
	}
	if minutes == 0 {
		return nil
	}
	s := strconv.Itoa(minutes)
	return &s
}

// normalizeYields 從字串中抽出第一段數字作為份量
func normalizeYields(raw string) *int {
	m := digitsPattern.FindString(raw)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

func logFieldError(field, url string, err error) {
	common.LogWarn("欄位擷取失敗",
		zap.String("field", field),
		zap.String("url", url),
		zap.Error(err),
	)
}
