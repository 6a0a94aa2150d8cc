package ingredient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"recipe-scraper-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Ingredient 正規化後的食材
//
// Quantity 持有 float64、string 或 nil，序列化後即為
// number | string | null。Name 永遠是字串；任何欄位缺失都
// 退化成 null / 原始輸入，絕不缺 key。
type Ingredient struct {
	Quantity any     `json:"quantity"`
	Unit     *string `json:"unit"`
	Name     string  `json:"name"`
}

// NormalizeIngredient 將單筆解析結果壓成 (quantity, unit, name) 三元組
//
// 解析結果有兩種形狀：映射（遠端解析服務的 JSON）與物件
// （內建規則解析的 *ParsedIngredient）。映射形狀優先：只要是
// 映射型別一律走映射路徑，物件處理是其餘情況的後備。
func NormalizeIngredient(parsed any, original string) Ingredient {
	switch p := parsed.(type) {
	case map[string]any:
		return normalizeMapping(p, original)
	case *ParsedIngredient:
		if p == nil {
			return Ingredient{Name: original}
		}
		return normalizeObject(p, original)
	case ParsedIngredient:
		return normalizeObject(&p, original)
	default:
		return Ingredient{Name: original}
	}
}

// normalizeMapping 處理映射形狀的解析結果
func normalizeMapping(parsed map[string]any, original string) Ingredient {
	result := Ingredient{Name: original}

	// 數量欄位的候選鍵依序嘗試，第一個非空值勝出
	amt := firstTruthyKey(parsed, "amount", "size", "size_amount")

	var amountRecord map[string]any
	switch v := amt.(type) {
	case []any:
		if len(v) > 0 {
			if rec, ok := v[0].(map[string]any); ok {
				amountRecord = rec
			}
		}
	case []map[string]any:
		if len(v) > 0 {
			amountRecord = v[0]
		}
	case map[string]any:
		amountRecord = v
	}

	if amountRecord != nil {
		if q := firstTruthyKey(amountRecord, "quantity", "value", "amount"); q != nil {
			result.Quantity = coerceQuantity(q)
		}
		if u := amountRecord["unit"]; truthy(u) {
			result.Unit = common.CleanUnitString(u)
		}
	}

	// 名稱欄位同樣接受多個候選鍵
	nm := firstTruthyKey(parsed, "name", "ingredient", "parsed")
	switch v := nm.(type) {
	case []any:
		if len(v) > 0 {
			result.Name = nameFromElement(v[0], original)
		}
	case []map[string]any:
		if len(v) > 0 {
			result.Name = nameFromElement(v[0], original)
		}
	case string:
		result.Name = v
	}

	return result
}

// nameFromElement 從名稱序列的首個元素取文字
func nameFromElement(elem any, original string) string {
	if m, ok := elem.(map[string]any); ok {
		if text, ok := m["text"].(string); ok && text != "" {
			return text
		}
		return original
	}
	return fmt.Sprintf("%v", elem)
}

// normalizeObject 處理物件形狀的解析結果
func normalizeObject(parsed *ParsedIngredient, original string) Ingredient {
	result := Ingredient{Name: original}

	if len(parsed.Name) > 0 {
		if text := parsed.Name[0].Text; text != "" {
			result.Name = text
		}
	}

	if len(parsed.Amount) > 0 {
		first := parsed.Amount[0]
		if first.Quantity != nil {
			result.Quantity = coerceQuantity(first.Quantity)
		}
		if truthy(first.Unit) {
			result.Unit = common.CleanUnitString(first.Unit)
		}
	} else if parsed.Quantity != nil || truthy(parsed.Unit) {
		// 解析器沒給 Amount 序列時退回頂層欄位
		if parsed.Quantity != nil {
			result.Quantity = coerceQuantity(parsed.Quantity)
		}
		if truthy(parsed.Unit) {
			result.Unit = common.CleanUnitString(parsed.Unit)
		}
	}

	// 名稱還原不出來時改用整句
	if result.Name == original && parsed.Sentence != "" {
		result.Name = parsed.Sentence
	}

	return result
}

// coerceQuantity 數值或可轉數值的字串轉 float64，其餘保留原樣
func coerceQuantity(q any) any {
	switch v := q.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}

// firstTruthyKey 依序檢查候選鍵，回傳第一個非空值
func firstTruthyKey(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// truthy 對應參考實作的寬鬆真值語義：nil、空字串、零值、空序列皆為假
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case []map[string]any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Service 食材解析與正規化服務
type Service struct {
	parser Parser
}

// NewService 創建食材服務
func NewService(parser Parser) *Service {
	return &Service{parser: parser}
}

// ParseIngredients 逐筆解析並正規化食材字串
//
// 每筆獨立處理：單筆失敗只影響該位置（退化成
// {quantity:null, unit:null, name:原字串}），其餘照常。
// 輸出長度恆等於輸入長度，順序一對一。
func (s *Service) ParseIngredients(ctx context.Context, raw []string) []Ingredient {
	parsed := make([]Ingredient, 0, len(raw))

	for _, sentence := range raw {
		p, err := s.parser.ParseIngredient(ctx, sentence)
		if err != nil {
			common.LogWarn("食材解析失敗，使用原句",
				zap.String("ingredient", sentence),
				zap.Error(err),
			)
			parsed = append(parsed, Ingredient{Name: sentence})
			continue
		}

		normalized := NormalizeIngredient(p, sentence)
		parsed = append(parsed, sanitize(normalized))
	}

	return parsed
}

// sanitize 保證輸出為 JSON-safe 型別
func sanitize(ing Ingredient) Ingredient {
	switch ing.Quantity.(type) {
	case nil, float64, string:
		// 已是穩定型別
	case float32, int, int32, int64, json.Number:
		ing.Quantity = coerceQuantity(ing.Quantity)
	default:
		// 未知型別：盡力轉 float，不行就取字串形式
		s := fmt.Sprintf("%v", ing.Quantity)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			ing.Quantity = f
		} else {
			ing.Quantity = s
		}
	}
	return ing
}
