package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigByEnvironment(t *testing.T) {
	prod := DefaultConfig(true)
	assert.Equal(t, "info", prod.Level)
	assert.Equal(t, "json", prod.Format)
	assert.False(t, prod.ReportCaller, "生产环境不记录调用位置")

	dev := DefaultConfig(false)
	assert.Equal(t, "debug", dev.Level)
	assert.Equal(t, "pretty", dev.Format)
	assert.True(t, dev.ReportCaller)
}

func TestInitFallsBackOnBadLevel(t *testing.T) {
	Init(Config{Level: "bogus", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "非法级别回退到info")

	Init(Config{Level: "warn", Format: "json"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
