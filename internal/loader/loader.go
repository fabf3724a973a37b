// Package loader читает список URL из файла: по одному на строку,
// с обрезкой пробелов и пропуском пустых строк.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// maxLineSize ограничивает длину одной строки входного файла
const maxLineSize = 1024 * 1024

const utf8BOM = "\uFEFF"

// Load читает URL из файла по пути path.
// Возвращает ErrFileNotFound, если файла нет, и ErrRead при прочих ошибках ввода-вывода.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer file.Close()

	return Read(file)
}

// Read читает URL из произвольного источника.
// Порядок строк сохраняется, пустые строки отбрасываются.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var urls []string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return urls, nil
}
