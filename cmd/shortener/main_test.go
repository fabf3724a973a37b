package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InQaaaaGit/url_batch.git/internal/config"
	"github.com/InQaaaaGit/url_batch.git/internal/isgdtest"
	"github.com/InQaaaaGit/url_batch.git/internal/loader"
	"github.com/InQaaaaGit/url_batch.git/internal/service"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"OUTPUT_FILE", "SHORTENER_API_URL", "SHORT_URL_PREFIX", "REQUEST_DELAY",
		"REQUEST_TIMEOUT", "MAX_ATTEMPTS", "RATE_LIMIT_ATTEMPTS", "BACKOFF_BASE",
		"BACKOFF_MAX", "LOG_LEVEL", "VERBOSE", "CONFIG",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func writeInput(t *testing.T, lines ...string) string {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func serverArgs(server *isgdtest.Server) []string {
	return []string{
		"-api", server.Endpoint(),
		"-prefix", server.ShortPrefix(),
		"-delay", "0s",
		"-backoff", "1ms",
		"-backoff-max", "5ms",
	}
}

func TestRun(t *testing.T) {
	clearEnv(t)
	server := isgdtest.NewServer(nil)
	defer server.Close()
	server.FailAlways("https://example.com/down", isgdtest.Failure(500))

	input := writeInput(t,
		"https://example.com/a",
		"  https://example.com/a",
		"",
		"https://example.com/down",
		"https://example.com/b",
	)

	var stdout bytes.Buffer
	err := run(context.Background(), append(serverArgs(server), input), &stdout)
	require.NoError(t, err)

	assert.Equal(t,
		server.ShortURL("https://example.com/a")+", https://example.com/a\n"+
			"https://example.com/down, https://example.com/down\n"+
			server.ShortURL("https://example.com/b")+", https://example.com/b\n",
		stdout.String())
}

func TestRun_MissingInput(t *testing.T) {
	clearEnv(t)
	server := isgdtest.NewServer(nil)
	defer server.Close()

	var stdout bytes.Buffer
	err := run(context.Background(),
		append(serverArgs(server), filepath.Join(t.TempDir(), "missing.txt")), &stdout)

	assert.ErrorIs(t, err, loader.ErrFileNotFound)
	assert.Empty(t, server.Requests())
	assert.Empty(t, stdout.String())
}

func TestRun_EmptyInput(t *testing.T) {
	clearEnv(t)
	server := isgdtest.NewServer(nil)
	defer server.Close()

	err := run(context.Background(), append(serverArgs(server), writeInput(t, "", " ")), &bytes.Buffer{})
	assert.ErrorIs(t, err, service.ErrNoURLs)
}

func TestRun_Version(t *testing.T) {
	clearEnv(t)

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &stdout))
	assert.Contains(t, stdout.String(), "Build version: N/A")
}

func TestRun_Help(t *testing.T) {
	clearEnv(t)
	assert.NoError(t, run(context.Background(), []string{"-h"}, &bytes.Buffer{}))
}

func TestRun_InvalidConfig(t *testing.T) {
	clearEnv(t)

	err := run(context.Background(), []string{"-attempts", "0"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
