package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo}, // Defaults to info
		{"", slog.LevelInfo},        // Defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	log := New("debug")
	if log == nil {
		t.Fatal("expected non-nil logger")
	}
	if !log.Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug level to be enabled")
	}

	log = New("error")
	if log.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected info level to be disabled")
	}
}
