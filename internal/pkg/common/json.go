package common

import (
	"bytes"
	"encoding/json"
	"io"
)

// ParseJSONBytes 解析 JSON 位元組切片到結構體
//
// 數字一律以 json.Number 保留，避免大數或小數在 interface{}
// 解碼時失真；正規化層自行決定要不要轉 float。
func ParseJSONBytes(data []byte, v any) error {
	return DecodeJSON(bytes.NewReader(data), v)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
