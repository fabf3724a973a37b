// Package isgdtest предоставляет поддельный сервер is.gd для тестов.
// Сервер отвечает по сценарию из очереди ответов, а когда очередь пуста -
// выдаёт детерминированную короткую ссылку, как это делает настоящий сервис.
package isgdtest

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Path - путь метода создания короткой ссылки
const Path = "/create.php"

// Response описывает один ответ из сценария
type Response struct {
	Status int
	Body   string
	Header http.Header
	Delay  time.Duration // Задержка перед ответом, для проверки таймаутов
}

// OK возвращает успешный ответ с короткой ссылкой для запрошенного URL
func OK() Response {
	return Response{Status: http.StatusOK}
}

// RateLimited возвращает ответ 429
func RateLimited() Response {
	return Response{Status: http.StatusTooManyRequests, Body: "Error, rate limit exceeded"}
}

// Failure возвращает ответ с заданным статусом
func Failure(status int) Response {
	return Response{Status: status, Body: http.StatusText(status)}
}

// Server - поддельный is.gd
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	queue    []Response
	failing  map[string]Response
	requests []string
	times    []time.Time
}

// ServerOption настраивает Server
type ServerOption func(*serverOptions)

type serverOptions struct {
	gzip bool
}

// WithGzip включает сжатие ответов
func WithGzip() ServerOption {
	return func(o *serverOptions) {
		o.gzip = true
	}
}

// NewServer запускает поддельный сервер. Закрывается через Close.
func NewServer(logger *zap.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		failing: make(map[string]Response),
	}

	r := chi.NewRouter()
	r.Use(LoggerMiddleware(logger))
	if o.gzip {
		r.Use(GzipMiddleware)
	}
	r.Get(Path, s.handleCreate)

	s.Server = httptest.NewServer(r)
	return s
}

// Endpoint возвращает адрес метода создания ссылки
func (s *Server) Endpoint() string {
	return s.URL + Path
}

// ShortPrefix возвращает префикс, с которого начинаются выданные ссылки
func (s *Server) ShortPrefix() string {
	return s.URL + "/"
}

// ShortURL возвращает ссылку, которую сервер выдаст для longURL
func (s *Server) ShortURL(longURL string) string {
	hash := sha256.Sum256([]byte(longURL))
	return s.ShortPrefix() + base64.RawURLEncoding.EncodeToString(hash[:])[:6]
}

// Enqueue добавляет ответы в сценарий. Каждый запрос забирает один ответ.
func (s *Server) Enqueue(responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, responses...)
}

// FailAlways заставляет сервер всегда отвечать resp на запросы для longURL
func (s *Server) FailAlways(longURL string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[longURL] = resp
}

// Requests возвращает значения параметра url всех полученных запросов
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestTimes возвращает время получения каждого запроса
func (s *Server) RequestTimes() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.times...)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	longURL := r.URL.Query().Get("url")
	format := r.URL.Query().Get("format")

	s.mu.Lock()
	s.requests = append(s.requests, longURL)
	s.times = append(s.times, time.Now())
	resp, scripted := s.next(longURL)
	s.mu.Unlock()

	if !scripted {
		resp = s.defaultResponse(format, longURL)
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.Status)
	fmt.Fprint(w, resp.Body)
}

// next должен вызываться под s.mu
func (s *Server) next(longURL string) (Response, bool) {
	if resp, ok := s.failing[longURL]; ok {
		return resp, true
	}
	if len(s.queue) == 0 {
		return Response{}, false
	}
	resp := s.queue[0]
	s.queue = s.queue[1:]
	if resp.Status == http.StatusOK && resp.Body == "" {
		resp.Body = s.ShortURL(longURL)
	}
	return resp, true
}

func (s *Server) defaultResponse(format, longURL string) Response {
	if format != "simple" {
		return Response{Status: http.StatusBadRequest, Body: "Error: unsupported format"}
	}
	u, err := url.ParseRequestURI(longURL)
	if err != nil || u.Host == "" {
		return Response{Status: http.StatusBadRequest, Body: "Error: Please enter a valid URL to shorten"}
	}
	return Response{Status: http.StatusOK, Body: s.ShortURL(longURL)}
}
