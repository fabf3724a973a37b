// Package models содержит типы данных, общие для всех слоёв приложения.
package models

import "time"

// Status описывает терминальное состояние обработки URL
type Status string

const (
	// StatusPending - URL ещё не обработан
	StatusPending Status = "pending"
	// StatusOK - сервис вернул короткую ссылку
	StatusOK Status = "ok"
	// StatusFallback - попытки исчерпаны, в выводе остаётся исходный URL
	StatusFallback Status = "failed-fallback"
)

// URLRecord представляет один уникальный URL и результат его сокращения
type URLRecord struct {
	Original   string // URL в том виде, в каком он встретился впервые
	Normalized string // Ключ дедупликации (обрезанные пробелы)
	Shortened  string // Короткая ссылка, пустая если сокращение не удалось
	Status     Status
	Positions  []int // Позиции во входной последовательности, первая - первое вхождение
	Err        error // Последняя ошибка, nil при успехе
}

// Result возвращает короткую ссылку либо исходный URL (fallback)
func (r *URLRecord) Result() string {
	if r.Status == StatusOK && r.Shortened != "" {
		return r.Shortened
	}
	return r.Original
}

// Occurrences возвращает, сколько раз URL встретился во входных данных
func (r *URLRecord) Occurrences() int {
	return len(r.Positions)
}

// Summary содержит итоги одного запуска
type Summary struct {
	Total      int           `json:"total"`
	Unique     int           `json:"unique"`
	Duplicates int           `json:"duplicates"`
	Shortened  int           `json:"shortened"`
	Fallbacks  int           `json:"fallbacks"`
	Elapsed    time.Duration `json:"elapsed"`
}
