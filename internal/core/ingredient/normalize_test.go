package ingredient

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIngredientMappingShape(t *testing.T) {
	parsed := map[string]any{
		"amount": []any{
			map[string]any{"quantity": 2.0, "unit": "Unit('cup')"},
		},
		"name": []any{map[string]any{"text": "flour"}},
	}

	got := NormalizeIngredient(parsed, "2 cup flour")

	assert.Equal(t, 2.0, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "cup", *got.Unit)
	assert.Equal(t, "flour", got.Name)
}

func TestNormalizeIngredientMappingStringName(t *testing.T) {
	parsed := map[string]any{
		"amount": []any{map[string]any{"quantity": 1.0, "unit": "Unit('egg')"}},
		"name":   "eggs",
	}

	got := NormalizeIngredient(parsed, "1 egg")

	assert.Equal(t, 1.0, got.Quantity)
	assert.Equal(t, "eggs", got.Name)
}

func TestNormalizeIngredientMappingNoQuantity(t *testing.T) {
	parsed := map[string]any{
		"name": []any{map[string]any{"text": "salt"}},
	}

	got := NormalizeIngredient(parsed, "salt")

	assert.Nil(t, got.Quantity)
	assert.Nil(t, got.Unit)
	assert.Equal(t, "salt", got.Name)
}

func TestNormalizeIngredientMappingNoUnit(t *testing.T) {
	parsed := map[string]any{
		"amount": []any{map[string]any{"quantity": 1.0}},
		"name":   []any{map[string]any{"text": "apple"}},
	}

	got := NormalizeIngredient(parsed, "1 apple")

	assert.Equal(t, 1.0, got.Quantity)
	assert.Nil(t, got.Unit)
	assert.Equal(t, "apple", got.Name)
}

func TestNormalizeIngredientMappingAlternateKeys(t *testing.T) {
	// 數量欄位：amount → size → size_amount 依序嘗試
	parsed := map[string]any{
		"size":       []any{map[string]any{"value": "3", "unit": "clove"}},
		"ingredient": []any{map[string]any{"text": "garlic"}},
	}

	got := NormalizeIngredient(parsed, "3 cloves garlic")

	assert.Equal(t, 3.0, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "clove", *got.Unit)
	assert.Equal(t, "garlic", got.Name)
}

func TestNormalizeIngredientMappingAmountAsSingleMap(t *testing.T) {
	// amount 值本身就是映射而非序列
	parsed := map[string]any{
		"amount": map[string]any{"quantity": "0.5", "unit": "teaspoon"},
		"name":   "vanilla extract",
	}

	got := NormalizeIngredient(parsed, "1/2 tsp vanilla extract")

	assert.Equal(t, 0.5, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "teaspoon", *got.Unit)
	assert.Equal(t, "vanilla extract", got.Name)
}

func TestNormalizeIngredientMappingNonNumericQuantity(t *testing.T) {
	parsed := map[string]any{
		"amount": []any{map[string]any{"quantity": "a few", "unit": "sprig"}},
		"name":   "thyme",
	}

	got := NormalizeIngredient(parsed, "a few sprigs of thyme")

	// 轉不成 float 的數量保留原字串
	assert.Equal(t, "a few", got.Quantity)
}

func TestNormalizeIngredientMappingJSONNumber(t *testing.T) {
	// 遠端解析服務的 JSON 解碼以 json.Number 保留數字
	parsed := map[string]any{
		"amount": []any{map[string]any{"quantity": json.Number("2.5"), "unit": "cup"}},
		"name":   []any{map[string]any{"text": "milk"}},
	}

	got := NormalizeIngredient(parsed, "2.5 cups milk")

	assert.Equal(t, 2.5, got.Quantity)
}

func TestNormalizeIngredientMappingNameTextMissing(t *testing.T) {
	parsed := map[string]any{
		"name": []any{map[string]any{"confidence": json.Number("0.9")}},
	}

	got := NormalizeIngredient(parsed, "mystery ingredient")

	// text 缺失時退回原輸入
	assert.Equal(t, "mystery ingredient", got.Name)
}

func TestNormalizeIngredientObjectShape(t *testing.T) {
	parsed := &ParsedIngredient{
		Name:     []NamePart{{Text: "sugar"}},
		Amount:   []AmountPart{{Quantity: 1.0, Unit: "Unit('cup')"}},
		Sentence: "1 cup sugar",
	}

	got := NormalizeIngredient(parsed, "1 cup sugar")

	assert.Equal(t, 1.0, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "cup", *got.Unit)
	assert.Equal(t, "sugar", got.Name)
}

func TestNormalizeIngredientObjectSentenceFallback(t *testing.T) {
	parsed := &ParsedIngredient{
		Sentence: "a pinch of love",
	}

	got := NormalizeIngredient(parsed, "a pinch of love")

	assert.Nil(t, got.Quantity)
	assert.Nil(t, got.Unit)
	assert.Equal(t, "a pinch of love", got.Name)
}

func TestNormalizeIngredientObjectTopLevelFallback(t *testing.T) {
	// Amount 序列缺失時退回頂層 Quantity/Unit
	parsed := &ParsedIngredient{
		Name:     []NamePart{{Text: "butter"}},
		Quantity: "100",
		Unit:     "gram",
	}

	got := NormalizeIngredient(parsed, "100 g butter")

	assert.Equal(t, 100.0, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "gram", *got.Unit)
	assert.Equal(t, "butter", got.Name)
}

func TestNormalizeIngredientMappingTakesPrecedence(t *testing.T) {
	// 映射型別一律走映射路徑
	parsed := map[string]any{"name": "onion"}

	got := NormalizeIngredient(parsed, "1 onion")
	assert.Equal(t, "onion", got.Name)
}

func TestNormalizeIngredientUnknownShape(t *testing.T) {
	got := NormalizeIngredient(42, "1 lemon")

	assert.Nil(t, got.Quantity)
	assert.Nil(t, got.Unit)
	assert.Equal(t, "1 lemon", got.Name)
}

func TestNormalizeIngredientNilParse(t *testing.T) {
	got := NormalizeIngredient(nil, "2 carrots")
	assert.Equal(t, Ingredient{Name: "2 carrots"}, got)

	var typed *ParsedIngredient
	got = NormalizeIngredient(typed, "2 carrots")
	assert.Equal(t, Ingredient{Name: "2 carrots"}, got)
}

func TestNormalizeIngredientIdempotent(t *testing.T) {
	parsed := map[string]any{
		"amount": []any{map[string]any{"quantity": 2.0, "unit": "Unit('cup')"}},
		"name":   []any{map[string]any{"text": "flour"}},
	}

	first := NormalizeIngredient(parsed, "2 cup flour")
	second := NormalizeIngredient(parsed, "2 cup flour")
	assert.Equal(t, first, second)
}

// failingParser 模擬解析能力失敗
type failingParser struct{}

func (p *failingParser) ParseIngredient(context.Context, string) (any, error) {
	return nil, fmt.Errorf("parser exploded")
}

// canned 回傳固定結果的解析器
type cannedParser struct {
	results map[string]any
}

func (p *cannedParser) ParseIngredient(_ context.Context, sentence string) (any, error) {
	if parsed, ok := p.results[sentence]; ok {
		return parsed, nil
	}
	return nil, fmt.Errorf("no canned result for %q", sentence)
}

func TestParseIngredientsParserFailure(t *testing.T) {
	svc := NewService(&failingParser{})

	got := svc.ParseIngredients(context.Background(), []string{"bad ingredient"})

	require.Len(t, got, 1)
	assert.Equal(t, Ingredient{Quantity: nil, Unit: nil, Name: "bad ingredient"}, got[0])
}

func TestParseIngredientsLengthAndOrder(t *testing.T) {
	svc := NewService(&cannedParser{results: map[string]any{
		"2 cups flour": map[string]any{
			"amount": []any{map[string]any{"quantity": 2.0, "unit": "cup"}},
			"name":   []any{map[string]any{"text": "flour"}},
		},
		"1 egg": map[string]any{"name": "egg"},
	}})

	raw := []string{"2 cups flour", "unknown thing", "1 egg"}
	got := svc.ParseIngredients(context.Background(), raw)

	// 長度恆等於輸入，單筆失敗只影響該位置
	require.Len(t, got, len(raw))
	assert.Equal(t, "flour", got[0].Name)
	assert.Equal(t, 2.0, got[0].Quantity)
	assert.Equal(t, Ingredient{Name: "unknown thing"}, got[1])
	assert.Equal(t, "egg", got[2].Name)
}

func TestParseIngredientsEmptyInput(t *testing.T) {
	svc := NewService(&failingParser{})

	got := svc.ParseIngredients(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRuleParserQuantityUnitName(t *testing.T) {
	p := NewRuleParser()

	parsed, err := p.ParseIngredient(context.Background(), "2 cups flour")
	require.NoError(t, err)

	got := NormalizeIngredient(parsed, "2 cups flour")
	assert.Equal(t, 2.0, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "cup", *got.Unit)
	assert.Equal(t, "flour", got.Name)
}

func TestRuleParserMixedFraction(t *testing.T) {
	p := NewRuleParser()

	parsed, err := p.ParseIngredient(context.Background(), "1 1/2 tsp salt")
	require.NoError(t, err)

	got := NormalizeIngredient(parsed, "1 1/2 tsp salt")
	assert.Equal(t, 1.5, got.Quantity)
	require.NotNil(t, got.Unit)
	assert.Equal(t, "teaspoon", *got.Unit)
	assert.Equal(t, "salt", got.Name)
}

func TestRuleParserOfPrefix(t *testing.T) {
	p := NewRuleParser()

	parsed, err := p.ParseIngredient(context.Background(), "1/4 cup of olive oil")
	require.NoError(t, err)

	got := NormalizeIngredient(parsed, "1/4 cup of olive oil")
	assert.Equal(t, 0.25, got.Quantity)
	assert.Equal(t, "olive oil", got.Name)
}

func TestRuleParserNameOnly(t *testing.T) {
	p := NewRuleParser()

	parsed, err := p.ParseIngredient(context.Background(), "salt")
	require.NoError(t, err)

	got := NormalizeIngredient(parsed, "salt")
	assert.Nil(t, got.Quantity)
	assert.Nil(t, got.Unit)
	assert.Equal(t, "salt", got.Name)
}

func TestRuleParserEmptySentence(t *testing.T) {
	p := NewRuleParser()

	_, err := p.ParseIngredient(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSanitizeUnknownQuantityType(t *testing.T) {
	type weird struct{ x int }

	got := sanitize(Ingredient{Quantity: weird{x: 1}, Name: "x"})

	// 未知型別退化成字串形式
	_, isString := got.Quantity.(string)
	assert.True(t, isString)
}
