// Package output записывает результаты в виде строк "короткая, исходная".
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/InQaaaaGit/url_batch.git/internal/models"
)

// Writer пишет записи в буферизованный поток
type Writer struct {
	w *bufio.Writer
}

// NewWriter создает Writer поверх w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// FormatRecord возвращает строку вывода для записи без перевода строки
func FormatRecord(record *models.URLRecord) string {
	return record.Result() + ", " + record.Original
}

// WriteRecords пишет записи в переданном порядке и сбрасывает буфер.
// Любая ошибка оборачивается в ErrWrite.
func (w *Writer) WriteRecords(records []*models.URLRecord) error {
	for _, record := range records {
		if _, err := fmt.Fprintln(w.w, FormatRecord(record)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Destination - место назначения вывода.
// Файл создаётся при первой записи, поэтому фатальная ошибка до записи
// не оставляет после себя пустой файл результатов.
type Destination struct {
	path   string
	writer io.Writer
	file   *os.File
}

// Create возвращает место назначения для файла path.
// Пустой путь означает stdout, который не закрывается.
func Create(path string, stdout io.Writer) *Destination {
	if path == "" {
		return &Destination{writer: stdout}
	}
	return &Destination{path: path}
}

// Write реализует io.Writer
func (d *Destination) Write(p []byte) (int, error) {
	if d.writer == nil {
		file, err := os.Create(d.path)
		if err != nil {
			return 0, err
		}
		d.file = file
		d.writer = file
	}
	return d.writer.Write(p)
}

// Close закрывает файл назначения, если он был создан
func (d *Destination) Close() error {
	if d.file == nil {
		return nil
	}
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	d.file = nil
	return nil
}
