package ingredient

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipe-scraper-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Parser 單句食材解析能力
//
// 回傳值刻意保持鬆散：遠端服務回傳 JSON 映射（map[string]any），
// 內建規則解析回傳 *ParsedIngredient。正規化層負責吸收兩種形狀。
type Parser interface {
	ParseIngredient(ctx context.Context, sentence string) (any, error)
}

// NamePart 解析出的名稱片段
type NamePart struct {
	Text string
}

// AmountPart 解析出的數量片段
type AmountPart struct {
	Quantity any
	Unit     any
}

// ParsedIngredient 物件形狀的解析結果
//
// Quantity/Unit 為頂層後備欄位，Amount 缺失時使用。
type ParsedIngredient struct {
	Name     []NamePart
	Amount   []AmountPart
	Sentence string
	Quantity any
	Unit     any
}

// quantityPattern 匹配句首的數量：整數、小數、分數與帶分數（"1 1/2"）
var quantityPattern = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?)\s*`)

// unitWords 規則解析認得的常見單位
var unitWords = map[string]string{
	"cup": "cup", "cups": "cup",
	"tablespoon": "tablespoon", "tablespoons": "tablespoon", "tbsp": "tablespoon",
	"teaspoon": "teaspoon", "teaspoons": "teaspoon", "tsp": "teaspoon",
	"gram": "gram", "grams": "gram", "g": "gram",
	"kilogram": "kilogram", "kilograms": "kilogram", "kg": "kilogram",
	"milliliter": "milliliter", "milliliters": "milliliter", "ml": "milliliter",
	"liter": "liter", "liters": "liter", "l": "liter",
	"ounce": "ounce", "ounces": "ounce", "oz": "ounce",
	"pound": "pound", "pounds": "pound", "lb": "pound", "lbs": "pound",
	"pinch": "pinch", "pinches": "pinch",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"can": "can", "cans": "can",
	"package": "package", "packages": "package",
	"bunch": "bunch", "bunches": "bunch",
	"stick": "stick", "sticks": "stick",
}

// RuleParser 內建的規則式食材解析器
type RuleParser struct{}

// NewRuleParser 創建規則解析器
func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

// ParseIngredient 以「數量 單位 名稱」的啟發式切分單句食材
func (p *RuleParser) ParseIngredient(_ context.Context, sentence string) (any, error) {
	s := strings.TrimSpace(sentence)
	if s == "" {
		return nil, fmt.Errorf("empty ingredient sentence")
	}

	parsed := &ParsedIngredient{Sentence: sentence}
	rest := s

	var quantity any
	if m := quantityPattern.FindStringSubmatch(rest); m != nil {
		quantity = parseQuantityToken(m[1])
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	var unit any
	if fields := strings.Fields(rest); len(fields) > 1 {
		if canonical, ok := unitWords[strings.ToLower(fields[0])]; ok {
			unit = canonical
			rest = strings.TrimSpace(rest[len(fields[0]):])
		}
	}

	// "2 cups of flour" → "flour"
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "of "))

	if quantity != nil || unit != nil {
		parsed.Amount = []AmountPart{{Quantity: quantity, Unit: unit}}
	}
	if rest != "" {
		parsed.Name = []NamePart{{Text: rest}}
	}

	return parsed, nil
}

// parseQuantityToken 把數量 token 轉成 float64；轉不動時保留原字串
func parseQuantityToken(tok string) any {
	tok = strings.TrimSpace(tok)

	// 帶分數："1 1/2"
	if fields := strings.Fields(tok); len(fields) == 2 {
		whole, err1 := strconv.ParseFloat(fields[0], 64)
		frac, ok := parseFraction(fields[1])
		if err1 == nil && ok {
			return whole + frac
		}
		return tok
	}

	if frac, ok := parseFraction(tok); ok {
		return frac
	}

	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

func parseFraction(tok string) (float64, bool) {
	num, den, found := strings.Cut(tok, "/")
	if !found {
		return 0, false
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// RemoteParser 遠端食材解析服務客戶端
//
// 服務回傳的 JSON 直接解碼成映射，保持上游欄位形狀不動。
type RemoteParser struct {
	client *resty.Client
}

// NewRemoteParser 創建遠端解析器客戶端
func NewRemoteParser(baseURL string, timeout time.Duration) *RemoteParser {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RemoteParser{client: client}
}

// ParseIngredient 呼叫遠端服務解析單句食材
func (p *RemoteParser) ParseIngredient(ctx context.Context, sentence string) (any, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"sentence": sentence}).
		Post("/parse")
	if err != nil {
		return nil, fmt.Errorf("failed to call ingredient parser: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("ingredient parser returned status %d", resp.StatusCode())
	}

	var parsed map[string]any
	if err := common.ParseJSONBytes(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode parser response: %w", err)
	}

	return parsed, nil
}
