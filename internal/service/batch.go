// Package service связывает загрузку, дедупликацию, сокращение и запись результатов
// в один последовательный пакетный прогон.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/url_batch.git/internal/loader"
	"github.com/InQaaaaGit/url_batch.git/internal/models"
	"github.com/InQaaaaGit/url_batch.git/internal/output"
	"github.com/InQaaaaGit/url_batch.git/internal/storage"
)

// Shortener сокращает один URL
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Progress описывает состояние прогона после обработки очередного URL
type Progress struct {
	Index   int // Номер обработанного URL, начиная с 1
	Total   int // Количество уникальных URL
	Percent float64
	Record  *models.URLRecord
}

// ProgressFunc получает уведомление после каждого обработанного URL
type ProgressFunc func(Progress)

// BatchService выполняет пакетное сокращение URL
type BatchService struct {
	shortener Shortener
	logger    *zap.Logger
	progress  ProgressFunc
}

// Option настраивает BatchService
type Option func(*BatchService)

// WithProgress задает обработчик прогресса
func WithProgress(fn ProgressFunc) Option {
	return func(s *BatchService) {
		s.progress = fn
	}
}

// New создает BatchService
func New(shortener Shortener, logger *zap.Logger, opts ...Option) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &BatchService{
		shortener: shortener,
		logger:    logger,
		progress:  func(Progress) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run читает URL из inputPath, сокращает уникальные и пишет результат в w.
// Ошибки чтения и записи фатальны, ошибки сокращения превращаются в fallback.
func (s *BatchService) Run(ctx context.Context, inputPath string, w io.Writer) (models.Summary, error) {
	urls, err := loader.Load(inputPath)
	if err != nil {
		return models.Summary{}, err
	}
	s.logger.Info("Read URLs from file",
		zap.String("file", inputPath),
		zap.Int("count", len(urls)))

	if len(urls) == 0 {
		return models.Summary{}, fmt.Errorf("%w: %s", ErrNoURLs, inputPath)
	}

	set, summary, err := s.Process(ctx, urls)
	if err != nil {
		return summary, err
	}

	if err := output.NewWriter(w).WriteRecords(set.Records()); err != nil {
		return summary, err
	}

	return summary, nil
}

// Process дедуплицирует urls и последовательно сокращает каждый уникальный URL.
// Следующий URL начинается только после завершения всех попыток для предыдущего.
// Возвращает ошибку только при отмене ctx.
func (s *BatchService) Process(ctx context.Context, urls []string) (*storage.RecordSet, models.Summary, error) {
	start := time.Now()

	set := storage.FromURLs(urls)
	records := set.Records()
	summary := models.Summary{
		Total:      len(urls),
		Unique:     set.Len(),
		Duplicates: len(urls) - set.Len(),
	}

	s.logger.Info("Found unique URLs",
		zap.Int("unique", summary.Unique),
		zap.Int("total", summary.Total))
	for _, record := range records {
		if record.Occurrences() > 1 {
			s.logger.Debug("Duplicate URL",
				zap.String("url", record.Original),
				zap.Int("occurrences", record.Occurrences()),
				zap.Ints("positions", record.Positions))
		}
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return set, summary, err
		}

		short, err := s.shortener.Shorten(ctx, record.Normalized)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				summary.Elapsed = time.Since(start)
				return set, summary, ctxErr
			}
			record.Status = models.StatusFallback
			record.Err = err
			summary.Fallbacks++
			s.logger.Warn("Failed to shorten URL, keeping original",
				zap.String("url", record.Original),
				zap.Error(err))
		} else {
			record.Shortened = short
			record.Status = models.StatusOK
			summary.Shortened++
		}

		s.progress(Progress{
			Index:   i + 1,
			Total:   len(records),
			Percent: float64(i+1) * 100 / float64(len(records)),
			Record:  record,
		})
	}

	summary.Elapsed = time.Since(start)
	return set, summary, nil
}
