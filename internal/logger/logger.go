// Package logger 基于zerolog封装本服务的结构化日志。
// 每条日志携带service与version两个全局字段，便于多实例部署时聚合检索。
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// 服务标识，随每条日志输出
const (
	serviceName    = "resume-match-go"
	serviceVersion = "1.0.0"
)

// Logger 全局日志实例。Init 被调用前保持zerolog的默认行为，
// 包初始化阶段的日志不会丢失。
var Logger = log.Logger

// Config 日志行为配置
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // debug/info/warn/error
	Format       string `json:"format" yaml:"format"`               // json 或 pretty
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 为空时取RFC3339
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 记录调用位置，仅开发环境建议开启
}

// DefaultConfig 按运行环境给出默认配置。
// 生产环境输出JSON并收敛到info级别；开发环境输出彩色控制台格式，
// 带调用位置，方便定位解析与打分链路里的问题。
func DefaultConfig(production bool) Config {
	if production {
		return Config{Level: "info", Format: "json", TimeFormat: time.RFC3339}
	}
	return Config{Level: "debug", Format: "pretty", TimeFormat: time.RFC3339, ReportCaller: true}
}

// Init 重建全局日志实例。非法的级别字符串回退到info而不是报错，
// 日志配置错误不应该阻止服务启动。
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = timeFormat

	var output io.Writer = os.Stdout
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	}

	builder := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Str("version", serviceVersion)
	if cfg.ReportCaller {
		builder = builder.Caller()
	}

	Logger = builder.Logger()
	log.Logger = Logger
}

// Debug 开始一条调试级别的日志事件
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条信息级别的日志事件
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条警告级别的日志事件
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条错误级别的日志事件
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 开始一条致命级别的日志事件，记录后进程退出
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx 取出上下文里携带的日志实例，请求链路上的字段随之传递
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext 把全局日志实例挂到上下文上
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
