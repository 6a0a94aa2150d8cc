package common

import (
	"errors"
	"net/http"
)

// ErrorType API 錯誤分類，與回應中的 error_type 欄位一致
type ErrorType string

const (
	ErrTypeInvalidURL       ErrorType = "invalid_url"
	ErrTypeScrapingFailed   ErrorType = "scraping_failed"
	ErrTypeServerError      ErrorType = "server_error"
	ErrTypeNotFound         ErrorType = "not_found"
	ErrTypeMethodNotAllowed ErrorType = "method_not_allowed"
)

// APIError 定義 API 錯誤
type APIError struct {
	Type    ErrorType // 錯誤分類
	Message string    // 錯誤信息
	Status  int       // HTTP 狀態碼
	Err     error     // 原始錯誤
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewInvalidURLError 創建 URL 驗證錯誤（使用者的錯，HTTP 400）
func NewInvalidURLError(message string) *APIError {
	return &APIError{
		Type:    ErrTypeInvalidURL,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewScrapingError 創建抓取初始化錯誤
//
// Provider 無法為該 URL 初始化時使用；視為不支援/無法連線的網站，回 400。
func NewScrapingError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrTypeScrapingFailed,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NewServerError 創建未預期錯誤（HTTP 500）
func NewServerError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrTypeServerError,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// AsAPIError 檢查錯誤鏈中是否有 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrorResponse API 錯誤響應結構
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// NewErrorResponse 組出統一的錯誤響應
func NewErrorResponse(errType ErrorType, message string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: string(errType),
	}
}
