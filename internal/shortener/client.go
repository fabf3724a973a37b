// Package shortener реализует клиент is.gd-совместимого сервиса сокращения ссылок
// с паузой между запросами, повторами и экспоненциальной задержкой
// при отказах по лимиту запросов.
package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	userAgent = "url-batch-shortener/1.0"
	// maxBodySize ограничивает чтение тела ответа
	maxBodySize = 64 * 1024
	// maxMessageLen ограничивает длину тела ответа в текстах ошибок
	maxMessageLen = 200
	// maxRetryAfter ограничивает Retry-After, когда BackoffMax не задан
	maxRetryAfter = 5 * time.Minute
)

// Client сокращает URL через внешний HTTP API.
// Клиент не предназначен для конкурентного использования: запросы идут строго последовательно.
type Client struct {
	cfg      Config
	endpoint *url.URL
	http     *http.Client
	limiter  *rate.Limiter
	sleep    SleepFunc
	logger   *zap.Logger
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient задает HTTP-клиент вместо созданного по умолчанию
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithSleep задает функцию ожидания между повторами
func WithSleep(sleep SleepFunc) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// New создает клиент сервиса сокращения ссылок
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()

	endpoint, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", cfg.APIURL, err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: unsupported scheme", cfg.APIURL)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	c := &Client{
		cfg:      cfg,
		endpoint: endpoint,
		limiter:  rate.NewLimiter(limit, 1),
		sleep:    Sleep,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(cfg.RequestTimeout)
	}

	return c, nil
}

// Shorten возвращает короткую ссылку для longURL.
//
// Отказы по лимиту повторяются с экспоненциальной задержкой до RateLimitAttempts раз,
// прочие ошибки - до MaxAttempts раз. Когда попытки исчерпаны, возвращается ошибка,
// оборачивающая ErrAttemptsExhausted и последнюю причину.
// ErrUnexpectedResponse не повторяется.
func (c *Client) Shorten(ctx context.Context, longURL string) (string, error) {
	var (
		failures    int
		rateLimited int
	)

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		short, err := c.request(ctx, longURL)
		c.markDone(time.Now())
		if err == nil {
			c.logger.Debug("URL shortened",
				zap.String("url", longURL),
				zap.String("short_url", short),
				zap.Int("attempt", attempt))
			return short, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		var delay time.Duration
		switch {
		case errors.Is(err, ErrUnexpectedResponse):
			return "", err

		case errors.Is(err, ErrRateLimited):
			rateLimited++
			if rateLimited >= c.cfg.RateLimitAttempts {
				return "", fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
			}
			delay = Backoff(c.cfg.BackoffBase, c.cfg.BackoffMax, rateLimited-1)
			var rle *RateLimitError
			if errors.As(err, &rle) && rle.RetryAfter > delay {
				delay = min(rle.RetryAfter, c.retryAfterCap())
			}

		default:
			failures++
			if failures >= c.cfg.MaxAttempts {
				return "", fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
			}
			delay = Backoff(c.cfg.BackoffBase, c.cfg.BackoffMax, failures-1)
		}

		c.logger.Debug("Shorten attempt failed, retrying",
			zap.String("url", longURL),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}
}

// markDone отсчитывает паузу до следующего запроса от момента завершения текущего.
// После вызова в лимитере не остается накопленных токенов.
func (c *Client) markDone(now time.Time) {
	c.limiter.SetBurstAt(now, 0)
	c.limiter.SetBurstAt(now, 1)
}

func (c *Client) retryAfterCap() time.Duration {
	if c.cfg.BackoffMax > 0 {
		return c.cfg.BackoffMax
	}
	return maxRetryAfter
}

// Close освобождает простаивающие соединения пула
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// request выполняет одну попытку сокращения
func (c *Client) request(ctx context.Context, longURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(longURL), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %w", ErrNetwork, err)
	}
	text := strings.TrimSpace(string(body))

	if c.cfg.isRateLimitStatus(resp.StatusCode) {
		return "", &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: truncate(text)}
	}
	if !c.isShortURL(text) {
		return "", fmt.Errorf("%w: %q", ErrUnexpectedResponse, truncate(text))
	}

	return text, nil
}

func (c *Client) buildURL(longURL string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("format", "simple")
	q.Set("url", longURL)
	u.RawQuery = q.Encode()
	return u.String()
}

// isShortURL проверяет, что тело ответа - абсолютная http(s)-ссылка
// с ожидаемым префиксом
func (c *Client) isShortURL(s string) bool {
	if s == "" {
		return false
	}
	if c.cfg.ShortPrefix != "" && !strings.HasPrefix(s, c.cfg.ShortPrefix) {
		return false
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// parseRetryAfter понимает только форму с количеством секунд
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// truncate обрезает строку до maxMessageLen байт по границе руны
func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
