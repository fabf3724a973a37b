package buildinfo_test

import (
	"fmt"
	"os"

	"github.com/InQaaaaGit/url_batch.git/internal/buildinfo"
)

// ExampleNewInfo демонстрирует значения по умолчанию для сборки без -ldflags
func ExampleNewInfo() {
	info := buildinfo.NewInfo("", "", "")
	fmt.Println(info.String())

	// Output:
	// Version: N/A, Date: N/A, Commit: N/A
}

// ExampleInfo_Print демонстрирует вывод, который печатает флаг -version
func ExampleInfo_Print() {
	info := buildinfo.NewInfo("v1.0.0", "2024-01-01", "abc123")
	_ = info.Print(os.Stdout)

	// Output:
	// Build version: v1.0.0
	// Build date: 2024-01-01
	// Build commit: abc123
}
