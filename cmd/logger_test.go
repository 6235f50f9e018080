package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		env      string
		enabled  slog.Level
		disabled slog.Level
	}{
		{env: envLocal, enabled: slog.LevelDebug, disabled: slog.LevelDebug - 1},
		{env: envDev, enabled: slog.LevelInfo, disabled: slog.LevelDebug},
		{env: envProd, enabled: slog.LevelWarn, disabled: slog.LevelInfo},
		{env: "unknown", enabled: slog.LevelError, disabled: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var out bytes.Buffer

			log := setupLogger(tt.env, &out)

			assert.True(t, log.Enabled(t.Context(), tt.enabled))
			assert.False(t, log.Enabled(t.Context(), tt.disabled))
		})
	}
}

func TestSetupLogger_Production(t *testing.T) {
	var out bytes.Buffer

	log := setupLogger(envProd, &out)
	log.Warn("provider failed", "provider", "osm")

	assert.Contains(t, out.String(), `"msg":"provider failed"`)
	assert.NotContains(t, out.String(), `"time"`)
}

func TestSetupLogger_UnknownEnvWarns(t *testing.T) {
	var out bytes.Buffer

	setupLogger("", &out)

	assert.Contains(t, out.String(), "available_envs")
}
