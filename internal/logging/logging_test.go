package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, true},
		{"unknown falls back to text", Format("xml"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Options{Level: slog.LevelInfo, Format: tt.format, Output: &buf})
			logger.Info("preset applied", "preset", "esports", "changed", 3)

			var parsed map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &parsed) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %q", isJSON, tt.wantJSON, buf.String())
			}
			if tt.wantJSON {
				if parsed["msg"] != "preset applied" || parsed["preset"] != "esports" {
					t.Errorf("record = %v", parsed)
				}
				return
			}
			for _, want := range []string{"INFO", "preset applied", "preset=esports", "changed=3"} {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("text output missing %q: %q", want, buf.String())
				}
			}
		})
	}
}

func TestNew_File(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Options{Level: slog.LevelDebug, Format: FormatText, Output: &console, File: &file})

	logger.With("tx", "abc").Debug("state", "to", "backed_up")

	if !strings.Contains(console.String(), "to=backed_up") {
		t.Errorf("console = %q", console.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(file.Bytes(), &rec); err != nil {
		t.Fatalf("file output is not JSON: %v: %q", err, file.String())
	}
	if rec["tx"] != "abc" || rec["to"] != "backed_up" {
		t.Errorf("file record = %v", rec)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		logAt  slog.Level
		logged bool
	}{
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"debug at info", slog.LevelInfo, slog.LevelDebug, false},
		{"error at warn", slog.LevelWarn, slog.LevelError, true},
		{"info at warn", slog.LevelWarn, slog.LevelInfo, false},
		{"trace at trace", LevelTrace, LevelTrace, true},
		{"trace at debug", slog.LevelDebug, LevelTrace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf, file bytes.Buffer
			logger := New(Options{Level: tt.level, Output: &buf, File: &file})
			logger.Log(t.Context(), tt.logAt, "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("console logged = %v, want %v", got, tt.logged)
			}
			if got := file.Len() > 0; got != tt.logged {
				t.Errorf("file logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{"", FormatText, true},
		{"text", FormatText, true},
		{"JSON", FormatJSON, true},
		{"logfmt", FormatText, false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest logger should be enabled at trace")
	}
	logger.Log(t.Context(), LevelTrace, "transition", "from", "idle", "to", "diff_computed")

	tw := &testWriter{t: t}
	if n, err := tw.Write([]byte("line\n")); err != nil || n != 5 {
		t.Errorf("Write() = %d, %v", n, err)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"trace", LevelTrace, true},
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelWarn, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(t.Context(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext() did not return the stored logger")
	}
	if got := FromContext(t.Context()); got != slog.Default() {
		t.Error("FromContext() without logger should return slog.Default()")
	}
}
