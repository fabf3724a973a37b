package shortener

import (
	"net/http"
	"time"
)

// Значения политики по умолчанию. Совпадают с параметрами,
// на которых сервис is.gd стабильно отвечает при пакетной обработке.
const (
	DefaultAPIURL            = "https://is.gd/create.php"
	DefaultShortPrefix       = "https://is.gd/"
	DefaultRequestDelay      = 200 * time.Millisecond
	DefaultRequestTimeout    = 10 * time.Second
	DefaultMaxAttempts       = 3
	DefaultRateLimitAttempts = 5
	DefaultBackoffBase       = 2 * time.Second
	DefaultBackoffMax        = 30 * time.Second
)

// Config задает адрес сервиса и политику повторов клиента
type Config struct {
	// APIURL - адрес метода создания короткой ссылки
	APIURL string
	// ShortPrefix - префикс, с которого должна начинаться короткая ссылка.
	// Пустая строка отключает проверку префикса.
	ShortPrefix string
	// RequestDelay - минимальный интервал между запросами
	RequestDelay time.Duration
	// RequestTimeout - таймаут одной попытки
	RequestTimeout time.Duration
	// MaxAttempts - предел неудачных попыток (сеть, таймаут, прочие статусы)
	MaxAttempts int
	// RateLimitAttempts - предел ответов с отказом по лимиту
	RateLimitAttempts int
	// BackoffBase и BackoffMax задают экспоненциальную задержку между повторами
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// RateLimitStatuses - HTTP-статусы, которые считаются отказом по лимиту
	RateLimitStatuses []int
}

// DefaultConfig возвращает конфигурацию для публичного is.gd
func DefaultConfig() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		ShortPrefix:       DefaultShortPrefix,
		RequestDelay:      DefaultRequestDelay,
		RequestTimeout:    DefaultRequestTimeout,
		MaxAttempts:       DefaultMaxAttempts,
		RateLimitAttempts: DefaultRateLimitAttempts,
		BackoffBase:       DefaultBackoffBase,
		BackoffMax:        DefaultBackoffMax,
		// is.gd в формате simple сообщает о превышении лимита статусом 502
		RateLimitStatuses: []int{http.StatusTooManyRequests, http.StatusBadGateway},
	}
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RateLimitAttempts <= 0 {
		c.RateLimitAttempts = DefaultRateLimitAttempts
	}
	if c.RequestDelay < 0 {
		c.RequestDelay = 0
	}
	if len(c.RateLimitStatuses) == 0 {
		c.RateLimitStatuses = []int{http.StatusTooManyRequests}
	}
	return c
}

func (c Config) isRateLimitStatus(status int) bool {
	for _, s := range c.RateLimitStatuses {
		if s == status {
			return true
		}
	}
	return false
}
