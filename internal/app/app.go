// Package app содержит основную структуру приложения и логику инициализации.
// App создает логгер, клиент сервиса сокращения и пакетный сервис по конфигурации
// и владеет пулом HTTP-соединений на время одного запуска.
package app

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/InQaaaaGit/url_batch.git/internal/buildinfo"
	"github.com/InQaaaaGit/url_batch.git/internal/config"
	"github.com/InQaaaaGit/url_batch.git/internal/output"
	"github.com/InQaaaaGit/url_batch.git/internal/service"
	"github.com/InQaaaaGit/url_batch.git/internal/shortener"
)

// maxLoggedURLLen ограничивает длину URL в сообщениях о прогрессе
const maxLoggedURLLen = 60

// App представляет один пакетный запуск.
type App struct {
	config  *config.Config        // Конфигурация запуска
	info    *buildinfo.Info       // Информация о сборке
	logger  *zap.Logger           // Логгер, пишет в stderr
	client  *shortener.Client     // Клиент API, владеет пулом соединений
	service *service.BatchService // Пакетная обработка
	stdout  io.Writer             // Вывод результатов, если файл не задан
}

// Option настраивает App
type Option func(*App)

// WithLogger задает логгер вместо созданного по конфигурации
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithBuildInfo задает информацию о сборке для логов
func WithBuildInfo(info *buildinfo.Info) Option {
	return func(a *App) {
		a.info = info
	}
}

// NewApp создает и инициализирует новый экземпляр приложения.
// Результаты пишутся в stdout, если в конфигурации не задан файл вывода.
// После использования необходимо вызвать Close.
func NewApp(cfg *config.Config, stdout io.Writer, opts ...Option) (*App, error) {
	a := &App{
		config: cfg,
		stdout: stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.info == nil {
		a.info = buildinfo.NewInfo("", "", "")
	}
	if a.logger == nil {
		logger, err := NewLogger(cfg)
		if err != nil {
			return nil, fmt.Errorf("error creating logger: %w", err)
		}
		a.logger = logger
	}
	a.logger = a.logger.With(zap.String("run_id", uuid.NewString()))

	client, err := shortener.New(ShortenerConfig(cfg), a.logger.Named("shortener"))
	if err != nil {
		return nil, fmt.Errorf("error creating shortener client: %w", err)
	}
	a.client = client

	a.service = service.New(client, a.logger, service.WithProgress(a.logProgress))

	return a, nil
}

// Run выполняет пакетную обработку.
// Возвращает ошибку только для фатальных ситуаций: нет входного файла,
// ошибка чтения или записи, отмена контекста.
func (a *App) Run(ctx context.Context) error {
	fields := append(a.info.Fields(),
		zap.String("input", a.config.InputFile),
		zap.String("api_url", a.config.APIURL))
	a.logger.Info("Starting batch", fields...)

	dest := output.Create(a.config.OutputFile, a.stdout)
	summary, err := a.service.Run(ctx, a.config.InputFile, dest)
	if closeErr := dest.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		a.logger.Error("Batch failed", zap.Error(err))
		return err
	}

	a.logger.Info("Batch finished",
		zap.Int("total", summary.Total),
		zap.Int("unique", summary.Unique),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("shortened", summary.Shortened),
		zap.Int("fallbacks", summary.Fallbacks),
		zap.Duration("elapsed", summary.Elapsed))
	return nil
}

// Close освобождает соединения HTTP-клиента и сбрасывает буфер логгера
func (a *App) Close() error {
	a.client.Close()
	// Sync для stderr на части платформ возвращает EINVAL, это не ошибка запуска
	_ = a.logger.Sync()
	return nil
}

func (a *App) logProgress(p service.Progress) {
	a.logger.Info("Processed URL",
		zap.Int("index", p.Index),
		zap.Int("total", p.Total),
		zap.String("percent", fmt.Sprintf("%.0f%%", p.Percent)),
		zap.String("url", truncateURL(p.Record.Original, maxLoggedURLLen)),
		zap.String("status", string(p.Record.Status)),
		zap.Int("occurrences", p.Record.Occurrences()))
}

// ShortenerConfig переводит конфигурацию запуска в политику клиента
func ShortenerConfig(cfg *config.Config) shortener.Config {
	sc := shortener.DefaultConfig()
	sc.APIURL = cfg.APIURL
	sc.ShortPrefix = cfg.ShortPrefix
	sc.RequestDelay = cfg.RequestDelay
	sc.RequestTimeout = cfg.RequestTimeout
	sc.MaxAttempts = cfg.MaxAttempts
	sc.RateLimitAttempts = cfg.RateLimitAttempts
	sc.BackoffBase = cfg.BackoffBase
	sc.BackoffMax = cfg.BackoffMax
	return sc
}

// NewLogger создает логгер по конфигурации.
// В подробном режиме используется консольный формат и уровень не выше debug.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Verbose {
		zcfg = zap.NewDevelopmentConfig()
		if level > zapcore.DebugLevel {
			level = zapcore.DebugLevel
		}
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Sampling = nil
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// truncateURL обрезает s до n байт, не разрывая многобайтовые руны
func truncateURL(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
