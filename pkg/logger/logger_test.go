package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log := NewLogger()
	require.NotNil(t, log)

	// Should not panic
	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestNewLoggerWithLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"unknown level falls back to info", "verbose"},
		{"empty level falls back to info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLoggerWithLevel(tt.level)
			require.NotNil(t, log)
			log.Info("message")
		})
	}
}

func TestWithField(t *testing.T) {
	log := NewLogger()
	derived := log.WithField("channel", "sms")
	require.NotNil(t, derived)
	assert.NotSame(t, log, derived)
	derived.Info("message with field")
}

func TestWithFields(t *testing.T) {
	log := NewLogger()
	derived := log.WithFields(map[string]interface{}{
		"channel":    "email",
		"recipients": 3,
	})
	require.NotNil(t, derived)
	assert.NotSame(t, log, derived)
	derived.Info("message with fields")
}

func TestTestLogger(t *testing.T) {
	log := NewTestLogger(t)
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	assert.Equal(t, log, log.WithField("k", "v"))
	assert.Equal(t, log, log.WithFields(map[string]interface{}{"k": "v"}))
}
