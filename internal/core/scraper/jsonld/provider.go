// Package jsonld 實作以 schema.org Recipe JSON-LD 為資料來源的 Provider。
//
// 抓下頁面後從 script[type="application/ld+json"] 節點中找出
// @type 為 Recipe 的物件（含 @graph 與陣列形式），欄位存取器
// 逐一對映到該物件的屬性。
package jsonld

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipe-scraper-api/internal/core/scraper"
	"recipe-scraper-api/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Factory 以 HTTP 抓取頁面並建立 JSON-LD Provider
type Factory struct {
	client *resty.Client
}

// NewFactory 創建 JSON-LD Provider 工廠
func NewFactory(timeout time.Duration, userAgent string) *Factory {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	return &Factory{client: client}
}

// Scrape 抓取 URL 並定位食譜節點
func (f *Factory) Scrape(ctx context.Context, url string) (scraper.Provider, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), url)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	node := findRecipeInDocument(doc)
	if node == nil {
		return nil, fmt.Errorf("no recipe data found at %s", url)
	}

	host := ""
	if parsed, err := neturl.Parse(url); err == nil {
		host = strings.TrimPrefix(parsed.Hostname(), "www.")
	}

	return &Document{data: node, host: host}, nil
}

// SupportedHosts 回傳已驗證站點清單（已排序）
func (f *Factory) SupportedHosts() []string {
	return SupportedHosts()
}

// findRecipeInDocument 掃描所有 ld+json script，回傳第一個食譜節點
func findRecipeInDocument(doc *goquery.Document) map[string]any {
	var node map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data any
		if err := common.ParseJSONBytes([]byte(sel.Text()), &data); err != nil {
			// 壞掉的 JSON-LD 區塊很常見，跳過找下一個
			return true
		}
		if found := findRecipeNode(data); found != nil {
			node = found
			return false
		}
		return true
	})
	return node
}

// findRecipeNode 在解碼後的 JSON-LD 中遞迴找出 @type Recipe 的物件
func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if found := findRecipeNode(item); found != nil {
					return found
				}
			}
		}
	case []any:
		for _, item := range v {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	}
	return nil
}

// isRecipeType @type 可能是字串或字串陣列
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// Document 單一頁面的食譜節點，實作 scraper.Provider
type Document struct {
	data map[string]any
	host string
}

var _ scraper.Provider = (*Document)(nil)

// Title 食譜名稱
func (d *Document) Title() (string, error) {
	return d.stringField("name")
}

// Ingredients 原始食材字串列表
func (d *Document) Ingredients() ([]string, error) {
	raw, ok := d.data["recipeIngredient"]
	if !ok {
		// 舊版 schema 用 ingredients
		raw, ok = d.data["ingredients"]
	}
	if !ok {
		return nil, fmt.Errorf("recipeIngredient not found")
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("recipeIngredient has unexpected shape")
	}

	ingredients := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			ingredients = append(ingredients, strings.TrimSpace(s))
		}
	}
	return ingredients, nil
}

// Instructions 原始步驟
//
// 可能是整段字串，或 HowToStep 物件陣列（各自帶 text）；
// 回傳值直接交給正規化層。
func (d *Document) Instructions() (any, error) {
	raw, ok := d.data["recipeInstructions"]
	if !ok {
		return nil, fmt.Errorf("recipeInstructions not found")
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case []any:
		steps := make([]string, 0, len(v))
		for _, item := range v {
			switch step := item.(type) {
			case string:
				steps = append(steps, step)
			case map[string]any:
				if text, ok := step["text"].(string); ok {
					steps = append(steps, text)
				}
			}
		}
		return steps, nil
	default:
		return nil, fmt.Errorf("recipeInstructions has unexpected shape")
	}
}

// Yields 份量字串
func (d *Document) Yields() (string, error) {
	raw, ok := d.data["recipeYield"]
	if !ok {
		return "", fmt.Errorf("recipeYield not found")
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) > 0 {
			return fmt.Sprintf("%v", v[0]), nil
		}
		return "", fmt.Errorf("recipeYield is empty")
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// PrepTime 備料時間（分鐘）
func (d *Document) PrepTime() (int, error) {
	return d.minutesField("prepTime")
}

// CookTime 烹調時間（分鐘）
func (d *Document) CookTime() (int, error) {
	return d.minutesField("cookTime")
}

// TotalTime 總時間（分鐘）
func (d *Document) TotalTime() (int, error) {
	return d.minutesField("totalTime")
}

// Image 主圖 URL
func (d *Document) Image() (string, error) {
	raw, ok := d.data["image"]
	if !ok {
		return "", fmt.Errorf("image not found")
	}

	if s := imageURL(raw); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("image has unexpected shape")
}

// imageURL image 欄位可能是字串、ImageObject 或兩者的陣列
func imageURL(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["url"].(string); ok {
			return s
		}
	case []any:
		if len(v) > 0 {
			return imageURL(v[0])
		}
	}
	return ""
}

// Description 描述
func (d *Document) Description() (string, error) {
	return d.stringField("description")
}

// Host 來源站點
func (d *Document) Host() (string, error) {
	if d.host == "" {
		return "", fmt.Errorf("host unavailable")
	}
	return d.host, nil
}

// Ratings 平均評分
func (d *Document) Ratings() (float64, error) {
	agg, ok := d.data["aggregateRating"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("aggregateRating not found")
	}

	raw, ok := agg["ratingValue"]
	if !ok {
		return 0, fmt.Errorf("ratingValue not found")
	}

	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("ratingValue has unexpected shape")
	}
}

// Cuisine 菜系
func (d *Document) Cuisine() (string, error) {
	raw, ok := d.data["recipeCuisine"]
	if !ok {
		return "", fmt.Errorf("recipeCuisine not found")
	}

	switch v := raw.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("recipeCuisine has unexpected shape")
}

// stringField 取非空字串欄位
func (d *Document) stringField(key string) (string, error) {
	raw, ok := d.data[key]
	if !ok {
		return "", fmt.Errorf("%s not found", key)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return strings.TrimSpace(s), nil
}

// isoDurationPattern 匹配 schema.org 常見的 ISO-8601 時長（PT1H30M）
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// minutesField 取時間欄位並換算成分鐘
func (d *Document) minutesField(key string) (int, error) {
	raw, ok := d.data[key]
	if !ok {
		return 0, fmt.Errorf("%s not found", key)
	}

	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%s has unexpected shape", key)
	}

	m := isoDurationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%s is not an ISO-8601 duration: %q", key, s)
	}

	days, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	hours, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[4]))

	total := days*24*60 + hours*60 + minutes + seconds/60
	return total, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
