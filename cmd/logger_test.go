package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	defer func() { logLevel, logFormat = "info", "text" }()

	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantInfo  bool
		wantJSON  bool
	}{
		{"debug text", "debug", "text", true, true, false},
		{"info json", "info", "json", false, true, true},
		{"warn", "warn", "text", false, false, false},
		{"error", "error", "text", false, false, false},
		{"unknown level defaults to info", "loud", "text", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLevel, logFormat = tt.level, tt.format

			var buf bytes.Buffer
			logger := setupLogger(&buf)

			logger.Debug("debug message")
			logger.Info("info message")

			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			if tt.wantInfo {
				assert.Equal(t, tt.wantJSON, bytes.HasPrefix(buf.Bytes(), []byte("{")))
			}
		})
	}
}
