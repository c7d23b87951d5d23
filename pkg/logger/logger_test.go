package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "posflow", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "checkout", "sale_id", "s-1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "checkout" {
		t.Fatalf("unexpected msg: %v", rec["msg"])
	}
	if rec["service"] != "posflow" {
		t.Fatalf("unexpected service: %v", rec["service"])
	}
	if rec["trace_id"] != "abc123" {
		t.Fatalf("unexpected trace_id: %v", rec["trace_id"])
	}
	if rec["sale_id"] != "s-1" {
		t.Fatalf("unexpected sale_id: %v", rec["sale_id"])
	}
}

func TestLoggerMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "posflow", nil)

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	log.Error(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Fatal("expected error record")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
