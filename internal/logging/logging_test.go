package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWithLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l := NewWithLevel(tt.level)
		if got := l.Level(); got != tt.want {
			t.Errorf("NewWithLevel(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}
