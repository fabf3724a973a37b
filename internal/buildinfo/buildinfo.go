// Package buildinfo хранит версию, дату сборки и commit, заданные через -ldflags.
package buildinfo

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

const notAvailable = "N/A"

// Info содержит информацию о сборке приложения
type Info struct {
	Version string
	Date    string
	Commit  string
}

// NewInfo создает информацию о сборке. Пустые значения заменяются на "N/A".
func NewInfo(version, date, commit string) *Info {
	return &Info{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

// Print выводит информацию о сборке в w
func (info *Info) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		info.Version, info.Date, info.Commit)
	return err
}

// String возвращает строковое представление информации о сборке
func (info *Info) String() string {
	return fmt.Sprintf("Version: %s, Date: %s, Commit: %s", info.Version, info.Date, info.Commit)
}

// Fields возвращает поля для структурного лога
func (info *Info) Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", info.Version),
		zap.String("build_date", info.Date),
		zap.String("commit", info.Commit),
	}
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
