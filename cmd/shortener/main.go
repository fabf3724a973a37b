// Command shortener читает URL из файла, сокращает уникальные через is.gd
// и печатает пары "короткая, исходная" в порядке первого вхождения.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/InQaaaaGit/url_batch.git/internal/app"
	"github.com/InQaaaaGit/url_batch.git/internal/buildinfo"
	"github.com/InQaaaaGit/url_batch.git/internal/config"
)

// Задаются при сборке через -ldflags "-X main.buildVersion=..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	if err != nil {
		log.Fatalf("shortener: %v", err)
	}
}

// run выполняет один запуск с аргументами args (без имени программы)
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.NewConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	info := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	if cfg.ShowVersion {
		return info.Print(stdout)
	}

	application, err := app.NewApp(cfg, stdout, app.WithBuildInfo(info))
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("shortener: close: %v", err)
		}
	}()

	return application.Run(ctx)
}
