// Package config собирает конфигурацию запуска из флагов командной строки,
// JSON-файла, файла .env и переменных окружения.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidConfig возвращается, когда итоговая конфигурация некорректна
var ErrInvalidConfig = errors.New("invalid config")

// Значения по умолчанию
const (
	DefaultInputFile         = "urls.txt"
	DefaultAPIURL            = "https://is.gd/create.php"
	DefaultShortPrefix       = "https://is.gd/"
	DefaultRequestDelay      = 200 * time.Millisecond
	DefaultRequestTimeout    = 10 * time.Second
	DefaultMaxAttempts       = 3
	DefaultRateLimitAttempts = 5
	DefaultBackoffBase       = 2 * time.Second
	DefaultBackoffMax        = 30 * time.Second
	DefaultLogLevel          = "info"
)

// Config хранит конфигурацию запуска.
//
// Приоритет (от высшего к низшему):
//  1. Переменные окружения (в том числе загруженные из .env)
//  2. Флаги командной строки и позиционный аргумент
//  3. JSON-файл конфигурации (-c или CONFIG)
//  4. Значения по умолчанию
type Config struct {
	InputFile         string        // Файл со списком URL
	OutputFile        string        `env:"OUTPUT_FILE"`         // Файл результатов, пусто - stdout
	APIURL            string        `env:"SHORTENER_API_URL"`   // Адрес метода создания короткой ссылки
	ShortPrefix       string        `env:"SHORT_URL_PREFIX"`    // Ожидаемый префикс короткой ссылки
	RequestDelay      time.Duration `env:"REQUEST_DELAY"`       // Минимальный интервал между запросами
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`     // Таймаут одной попытки
	MaxAttempts       int           `env:"MAX_ATTEMPTS"`        // Попытки при сетевых ошибках и ошибках API
	RateLimitAttempts int           `env:"RATE_LIMIT_ATTEMPTS"` // Попытки при отказе по лимиту
	BackoffBase       time.Duration `env:"BACKOFF_BASE"`        // Начальная задержка между повторами
	BackoffMax        time.Duration `env:"BACKOFF_MAX"`         // Максимальная задержка между повторами
	LogLevel          string        `env:"LOG_LEVEL"`           // Уровень логирования
	Verbose           bool          `env:"VERBOSE"`             // Подробный вывод в консольном формате
	ConfigFile        string        `env:"CONFIG"`              // Путь к JSON-файлу конфигурации
	ShowVersion       bool          // Вывести информацию о сборке и выйти
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		InputFile:         DefaultInputFile,
		APIURL:            DefaultAPIURL,
		ShortPrefix:       DefaultShortPrefix,
		RequestDelay:      DefaultRequestDelay,
		RequestTimeout:    DefaultRequestTimeout,
		MaxAttempts:       DefaultMaxAttempts,
		RateLimitAttempts: DefaultRateLimitAttempts,
		BackoffBase:       DefaultBackoffBase,
		BackoffMax:        DefaultBackoffMax,
		LogLevel:          DefaultLogLevel,
	}
}

// NewConfig разбирает аргументы командной строки (без имени программы)
// и накладывает JSON-файл и переменные окружения.
// Для -h возвращает flag.ErrHelp.
func NewConfig(args []string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()

	fset := flag.NewFlagSet("shortener", flag.ContinueOnError)
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "Usage: shortener [flags] [input-file]\n\n")
		fset.PrintDefaults()
	}

	fset.StringVar(&cfg.InputFile, "f", cfg.InputFile, "Файл со списком URL, по одному на строку")
	fset.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Файл результатов, по умолчанию stdout (env: OUTPUT_FILE)")
	fset.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Адрес API сокращения ссылок (env: SHORTENER_API_URL)")
	fset.StringVar(&cfg.ShortPrefix, "prefix", cfg.ShortPrefix, "Ожидаемый префикс короткой ссылки, пусто - без проверки (env: SHORT_URL_PREFIX)")
	fset.DurationVar(&cfg.RequestDelay, "delay", cfg.RequestDelay, "Минимальный интервал между запросами (env: REQUEST_DELAY)")
	fset.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Таймаут одного запроса (env: REQUEST_TIMEOUT)")
	fset.IntVar(&cfg.MaxAttempts, "attempts", cfg.MaxAttempts, "Попыток на URL при ошибках сети и API (env: MAX_ATTEMPTS)")
	fset.IntVar(&cfg.RateLimitAttempts, "rate-attempts", cfg.RateLimitAttempts, "Попыток на URL при отказе по лимиту (env: RATE_LIMIT_ATTEMPTS)")
	fset.DurationVar(&cfg.BackoffBase, "backoff", cfg.BackoffBase, "Начальная задержка повтора (env: BACKOFF_BASE)")
	fset.DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "Максимальная задержка повтора (env: BACKOFF_MAX)")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Уровень логирования (env: LOG_LEVEL)")
	fset.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Подробное логирование (env: VERBOSE)")
	fset.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "JSON-файл конфигурации (env: CONFIG)")
	fset.BoolVar(&cfg.ShowVersion, "version", false, "Показать информацию о сборке")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 1 {
		return nil, fmt.Errorf("%w: expected at most one input file, got %d", ErrInvalidConfig, fset.NArg())
	}

	explicit := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	if fset.NArg() == 1 {
		cfg.InputFile = fset.Arg(0)
		explicit["f"] = true
	}

	// Первый проход нужен, чтобы узнать путь к файлу из CONFIG
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	if cfg.ConfigFile != "" {
		jsonCfg, err := LoadJSONConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		if err := jsonCfg.apply(cfg, explicit); err != nil {
			return nil, err
		}
		// Переменные окружения имеют наивысший приоритет
		if err := env.Parse(cfg); err != nil {
			return nil, fmt.Errorf("error parsing environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("%w: input file must be provided", ErrInvalidConfig)
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api url %q must be an absolute http(s) URL", ErrInvalidConfig, c.APIURL)
	}

	switch {
	case c.MaxAttempts < 1:
		return fmt.Errorf("%w: attempts must be at least 1", ErrInvalidConfig)
	case c.RateLimitAttempts < 1:
		return fmt.Errorf("%w: rate limit attempts must be at least 1", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	case c.RequestDelay < 0:
		return fmt.Errorf("%w: request delay must not be negative", ErrInvalidConfig)
	case c.BackoffBase < 0:
		return fmt.Errorf("%w: backoff must not be negative", ErrInvalidConfig)
	case c.BackoffMax <= 0:
		return fmt.Errorf("%w: backoff max must be positive", ErrInvalidConfig)
	case c.BackoffMax < c.BackoffBase:
		return fmt.Errorf("%w: backoff max %s is less than backoff %s", ErrInvalidConfig, c.BackoffMax, c.BackoffBase)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// loadDotEnv загружает переменные из файла .env, если он существует.
// Уже заданные переменные окружения не перезаписываются.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}
