package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("not emitted")
	logger.Info("not emitted either")
	logger.Warn("warned")
	logger.Error("failed", Error(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry.Level != "ERROR" || entry.Message != "failed" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["error"] != "boom" {
		t.Errorf("error field missing: %v", entry.Fields)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("executor"), Transform("dns_resolve"))
	child.Info("expanding", NodeID("n1"))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["component"] != "executor" {
		t.Errorf("pre-set field lost: %v", entry.Fields)
	}
	if entry.Fields["transform"] != "dns_resolve" || entry.Fields["node_id"] != "n1" {
		t.Errorf("fields missing: %v", entry.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel {
		t.Error("debug not parsed")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("unknown level should default to info")
	}
}
