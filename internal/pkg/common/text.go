package common

import (
	"fmt"
	"regexp"
	"strings"
)

// unitLiteralPattern 匹配字串化的單位包裝型別，例如 "Unit('cup')"、`Unit("fluid ounce")`
var unitLiteralPattern = regexp.MustCompile(`Unit\(['"]?([^'")]+)['"]?\)`)

// CleanUnitString 從各種單位表示法中取出乾淨的單位字串
//
// 接受純字串、字串化的 Unit 包裝（"Unit('cup')"），或任何可字串化的值。
// nil 輸入直接回傳 nil（政策決定，見 DESIGN.md）。
func CleanUnitString(u any) *string {
	if u == nil {
		return nil
	}

	s, ok := u.(string)
	if !ok {
		s = fmt.Sprintf("%v", u)
	}

	if m := unitLiteralPattern.FindStringSubmatch(s); m != nil {
		inner := m[1]
		return &inner
	}

	cleaned := strings.Trim(s, `"' `)
	return &cleaned
}

// ParseInstructions 將原始步驟資料整理成逐行的步驟列表
//
// 換行分隔的字串每行各成一個項目；若上游已回傳列表，則逐項
// 修剪並去掉空白項目，順序維持不變。此函式不會 panic：任何
// 無法辨識的輸入都退化成單一元素（其字串形式）。
func ParseInstructions(raw any) []string {
	lines := []string{}

	switch v := raw.(type) {
	case nil:
		return lines
	case string:
		if v == "" {
			return lines
		}
		for _, ln := range strings.Split(v, "\n") {
			if trimmed := strings.TrimSpace(ln); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	case []string:
		for _, l := range v {
			if trimmed := strings.TrimSpace(l); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprintf("%v", item)
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	default:
		// 未知型別：退化成其字串形式再按行切
		s := fmt.Sprintf("%v", raw)
		if strings.TrimSpace(s) == "" {
			return lines
		}
		for _, ln := range strings.Split(s, "\n") {
			if trimmed := strings.TrimSpace(ln); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	}

	return lines
}
