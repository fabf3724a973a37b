package shortener

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork возвращается при таймауте или ошибке соединения
	ErrNetwork = errors.New("network error")
	// ErrRateLimited возвращается, когда сервис ответил отказом по лимиту запросов
	ErrRateLimited = errors.New("rate limited")
	// ErrAPI возвращается при прочих неуспешных HTTP-статусах
	ErrAPI = errors.New("api error")
	// ErrUnexpectedResponse возвращается, когда ответ 200 не содержит короткой ссылки
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrAttemptsExhausted возвращается, когда исчерпаны все попытки
	ErrAttemptsExhausted = errors.New("attempts exhausted")
)

// APIError описывает неуспешный ответ сервиса сокращения
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is позволяет сравнивать APIError с ErrAPI через errors.Is
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// RateLimitError описывает ответ с отказом по лимиту запросов
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration // Значение заголовка Retry-After, 0 если его нет
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: HTTP %d, retry after %s", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited: HTTP %d", e.StatusCode)
}

// Is позволяет сравнивать RateLimitError с ErrRateLimited через errors.Is
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
