package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_InfoWritesJSON(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	log.Info(context.Background(), "hello", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Fatalf("msg mismatch: got %v", entry["msg"])
	}
	if entry["k"] != "v" {
		t.Fatalf("attribute missing: got %v", entry["k"])
	}
}

func TestSlogLogger_WithAddsAttrs(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	child := log.With("module", "httpapi")
	child.Warn(context.Background(), "careful")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["module"] != "httpapi" {
		t.Fatalf("With attribute missing: got %v", entry["module"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level mismatch: got %v", entry["level"])
	}
}
