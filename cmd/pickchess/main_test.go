package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"pickchess/internal/obslog"
)

func logToFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pickchess.log")
	t.Setenv("PICKCHESS_LOG_FILE", path)
	t.Setenv("PICKCHESS_LOG_FORMAT", "json")
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(raw)
}

func TestRunPlaysAndFlushesLog(t *testing.T) {
	path := logToFile(t)
	var out bytes.Buffer

	err := run([]string{"-color", "off"}, strings.NewReader("start\ne2\ne4\nquit\n"), &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Game started. White to move.") {
		t.Errorf("output missing start message:\n%s", out.String())
	}
	if !strings.Contains(readLog(t, path), `"msg":"game_create"`) {
		t.Error("game_create not flushed to the log file")
	}
	if obslog.L().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger left open after run")
	}
}

func TestRunBadThemeClosesLogger(t *testing.T) {
	path := logToFile(t)

	err := run([]string{"-color", "purple"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "invalid theme") {
		t.Fatalf("run = %v, want invalid theme error", err)
	}
	if !strings.Contains(readLog(t, path), `"msg":"invalid_theme"`) {
		t.Error("error exit did not flush the log file")
	}
	if obslog.L().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger left open after an error exit")
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	if err := run([]string{"-nope"}, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("expected a flag error")
	}
}
