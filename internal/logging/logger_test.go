package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reel/internal/config"
	"reel/internal/logging"
)

func TestConsoleLoggerFoldsPlacementIntoSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := logging.New(logging.Options{Level: "info", Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	ctx := logging.WithPlacement(context.Background(), "NIGHT", "SQ01", "SH010")
	ctx = logging.WithCorrelationID(ctx, "abc-123")
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "version"))
	log.Info("version created", logging.Int("version", 4), logging.String(logging.FieldEventType, "version_created"))

	line := buf.String()
	if !strings.Contains(line, "INFO  version: NIGHT/SQ01/SH010 version created version=4") {
		t.Fatalf("unexpected console line %q", line)
	}
	if strings.Contains(line, "abc-123") || strings.Contains(line, "event_type") {
		t.Fatalf("expected bookkeeping fields hidden at info, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no color codes, got %q", line)
	}
}

func TestConsoleLoggerDebugShowsEverything(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "debug", Console: &buf, Color: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithCorrelationID(context.Background(), "abc-123")
	logging.WithContext(ctx, logger).Debug("scanning", logging.String("dir", "/tmp/a b"))

	line := buf.String()
	for _, want := range []string{"correlation_id=abc-123", `dir="/tmp/a b"`, "logger_test.go:", "\x1b[90mDEBUG"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "info", Format: "json", Console: &buf, RunID: "run-1"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "version number taken", "version_duplicate", logging.Int("version", 3))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	checks := map[string]any{
		"level":                "warn",
		"msg":                  "version number taken",
		logging.FieldEventType: "version_duplicate",
		logging.FieldErrorHint: "check logs for details",
		logging.FieldImpact:    "operation completed with warnings",
		logging.FieldRunID:     "run-1",
		"version":              float64(3),
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Fatalf("%s = %v, want %v (entry %v)", key, entry[key], want, entry)
		}
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestFileMirrorsDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "reel.log")
	logger, closer, err := logging.New(logging.Options{Level: "warn", Console: &buf, FilePath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("quiet detail")
	logger.Error("loud failure", logging.Error(errors.New("boom")))
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if strings.Contains(buf.String(), "quiet detail") {
		t.Fatalf("console should filter debug, got %q", buf.String())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "quiet detail") || !strings.Contains(lines[1], `"error":"boom"`) {
		t.Fatalf("unexpected file content %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	var buf bytes.Buffer
	logger, closer, err := logging.NewFromConfig(&cfg, &buf, false)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")
	_ = closer.Close()

	content, err := os.ReadFile(logging.DailyLogPath(cfg.Paths.LogDir, time.Now()))
	if err != nil {
		t.Fatalf("read daily log: %v", err)
	}
	if !strings.Contains(string(content), logging.FieldRunID) {
		t.Fatalf("expected run id in file, got %q", content)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "reel-2020-01-01.log")
	fresh := filepath.Join(dir, "reel-2026-01-01.log")
	other := filepath.Join(dir, "notes.txt")
	current := filepath.Join(dir, "reel-2019-01-01.log")
	stale := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{old, fresh, other, current} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	for _, path := range []string{old, other, current} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	removed := logging.CleanupOldLogs(logging.NewNop(), 30, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "reel-*.log",
		Exclude: []string{current},
	})
	if removed != 1 {
		t.Fatalf("expected one removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", old)
	}
	for _, path := range []string{fresh, other, current} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
	if logging.CleanupOldLogs(nil, 0, logging.RetentionTarget{Dir: dir}) != 0 {
		t.Fatal("zero retention must not prune")
	}
}

func TestFormatSubject(t *testing.T) {
	cases := map[[3]string]string{
		{"NIGHT", "", ""}:          "NIGHT",
		{"NIGHT", "SQ01", "SH010"}: "NIGHT/SQ01/SH010",
		{"", "", ""}:               "",
		{" NIGHT ", "", "SH010"}:   "NIGHT/SH010",
	}
	for in, want := range cases {
		if got := logging.FormatSubject(in[0], in[1], in[2]); got != want {
			t.Fatalf("FormatSubject(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := logging.WithCorrelationID(context.Background(), "")
	if _, ok := logging.CorrelationIDFromContext(ctx); ok {
		t.Fatal("empty id should not be stored")
	}
	ctx = logging.WithCorrelationID(ctx, "id-1")
	if id, ok := logging.CorrelationIDFromContext(ctx); !ok || id != "id-1" {
		t.Fatalf("got %q, %v", id, ok)
	}
}
