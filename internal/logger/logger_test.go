package logger_test

import (
	"reviewwidget/backend/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	dev := logger.NewLogger(true)
	assert.True(t, dev.Desugar().Core().Enabled(zapcore.DebugLevel))

	prod := logger.NewLogger(false)
	assert.False(t, prod.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Desugar().Core().Enabled(zapcore.InfoLevel))
}
