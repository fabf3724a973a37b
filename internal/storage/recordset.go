// Package storage хранит записи URL одного запуска в памяти.
// RecordSet сохраняет порядок первого вхождения и гарантирует,
// что каждый нормализованный URL встречается ровно один раз.
package storage

import (
	"strings"

	"github.com/InQaaaaGit/url_batch.git/internal/models"
)

// RecordSet - упорядоченное по вставке отображение URL -> запись
type RecordSet struct {
	index   map[string]*models.URLRecord
	records []*models.URLRecord
}

// NewRecordSet создает пустой RecordSet
func NewRecordSet() *RecordSet {
	return &RecordSet{
		index: make(map[string]*models.URLRecord),
	}
}

// FromURLs строит RecordSet из загруженной последовательности URL
func FromURLs(urls []string) *RecordSet {
	set := NewRecordSet()
	for pos, url := range urls {
		set.Add(url, pos)
	}
	return set
}

// Normalize возвращает ключ дедупликации для URL
func Normalize(url string) string {
	return strings.TrimSpace(url)
}

// Add добавляет URL, встреченный на позиции pos.
// Возвращает запись и true, если URL встретился впервые.
// Для повторов позиция дописывается в уже существующую запись.
func (s *RecordSet) Add(url string, pos int) (*models.URLRecord, bool) {
	key := Normalize(url)
	if record, exists := s.index[key]; exists {
		record.Positions = append(record.Positions, pos)
		return record, false
	}

	record := &models.URLRecord{
		Original:   key,
		Normalized: key,
		Status:     models.StatusPending,
		Positions:  []int{pos},
	}
	s.index[key] = record
	s.records = append(s.records, record)
	return record, true
}

// Get возвращает запись по URL
func (s *RecordSet) Get(url string) (*models.URLRecord, bool) {
	record, exists := s.index[Normalize(url)]
	return record, exists
}

// Records возвращает записи в порядке первого вхождения
func (s *RecordSet) Records() []*models.URLRecord {
	return s.records
}

// Len возвращает количество уникальных URL
func (s *RecordSet) Len() int {
	return len(s.records)
}
