package logger

import (
	"testing"

	"homeschool_hub_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{"debug mode", "debug", "", zapcore.DebugLevel},
		{"release mode", "release", "", zapcore.InfoLevel},
		{"explicit level wins", "debug", "warn", zapcore.WarnLevel},
		{"unknown level", "release", "loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Mode = tt.mode
			cfg.Log.Level = tt.level
			assert.Equal(t, tt.want, LevelFor(cfg))
		})
	}
}

func TestSetLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	SetLevel(cfg)
	assert.Equal(t, zapcore.ErrorLevel, level.Level())

	cfg.Log.Level = "debug"
	SetLevel(cfg)
	assert.True(t, level.Enabled(zapcore.DebugLevel))
}
