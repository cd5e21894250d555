package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shelfmatch/backend/config"
)

const service = "shelfmatch"

// New builds the application logger from the log section of the configuration.
// An empty output writes to stdout.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	if cfg.JSON {
		encoding = "json"
	}

	output := strings.TrimSpace(cfg.Output)
	if output == "" {
		output = "stdout"
	}

	zc := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]interface{}{"service": service},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "level",
			TimeKey:        "time",
			CallerKey:      "caller",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}

	return zc.Build()
}

// MaskSecret keeps the first few characters of a credential for log lines
func MaskSecret(s string, visible int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NOT CONFIGURED"
	}
	runes := []rune(s)
	if visible <= 0 || len(runes) <= visible {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:visible]) + "..."
}
