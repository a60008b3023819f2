package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/outbox"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/processor"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

// @title           Resume Match API
// @version         1.0
// @description     简历解析与岗位匹配服务
// @BasePath  /api/v1
func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	pflag.Parse()

	// 初始化日志系统
	initLogger(*configPath)

	// 1. 加载配置文件
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置文件失败")
	}

	ctx := context.Background()

	// 2. 初始化链路追踪
	shutdownTracer, err := tracing.InitTracerProvider(ctx, &cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("关闭链路追踪失败")
		}
	}()

	// 3. 初始化存储管理器
	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储管理器失败")
	}
	defer storageManager.Close()

	// 4. 初始化业务处理器
	matchHandler, err := initializeHandler(ctx, cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化匹配服务处理器失败")
	}
	logger.Info().Msg("匹配服务处理器初始化成功")

	// 5. 启动简历上传消费者 (需要MinIO、RabbitMQ与文本抽取器均可用)
	switch {
	case storageManager.MinIO == nil || storageManager.RabbitMQ == nil:
		logger.Warn().Msg("MinIO或RabbitMQ未配置，异步上传流程不可用")
	case !matchHandler.CanProcessFiles():
		logger.Warn().Msg("文本抽取器不可用，异步上传流程不可用")
	default:
		go func() {
			if err := matchHandler.StartResumeUploadConsumer(context.Background()); err != nil {
				logger.Fatal().Err(err).Msg("启动简历上传消费者失败")
			}
		}()
	}

	// 6. 启动发件箱中继，投递匹配完成事件
	if storageManager.MySQL != nil && storageManager.RabbitMQ != nil {
		if err := storageManager.RabbitMQ.EnsureExchange(constants.MatchEventsExchange, "topic", true); err != nil {
			logger.Fatal().Err(err).Msg("声明匹配事件交换机失败")
		}
		relay := outbox.NewMessageRelay(storageManager.MySQL.DB(), storageManager.RabbitMQ)
		relay.Start()
		defer relay.Stop()
	}

	// 7. 创建HTTP服务器
	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.Default(
		tracer,
		server.WithHostPorts(cfg.Server.Address),
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	// 8. 注册路由
	router.RegisterRoutes(h, matchHandler)

	// 9. 启动HTTP服务器
	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	// 10. 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	// 11. 优雅关闭HTTP服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("服务器关闭失败")
	}

	logger.Info().Msg("优雅退出完成")
}

// 初始化日志系统。配置文件可用时以其日志段为准，
// 否则按ENV环境变量回退到开发或生产默认值。
func initLogger(configPath string) {
	logConfig := logger.DefaultConfig(os.Getenv("ENV") == "production")

	if cfg, err := config.LoadConfig(configPath); err == nil && cfg != nil {
		logConfig.Level = cfg.Logger.Level
		logConfig.Format = cfg.Logger.Format
		logConfig.TimeFormat = cfg.Logger.TimeFormat
		logConfig.ReportCaller = cfg.Logger.ReportCaller
	}

	logger.Init(logConfig)
}

func initializeHandler(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*handler.MatchHandler, error) {
	store, err := processor.NewStorageRecordStore(storageManager)
	if err != nil {
		return nil, err
	}

	// 配置了Tika服务器时优先使用，否则回退到内置PDF解析器。
	// 抽取器初始化失败仅禁用文件上传路径，文本接口不受影响。
	var extractor processor.TextExtractor
	if cfg.Tika.ServerURL != "" {
		tikaTimeout := config.GetDuration(cfg.Tika.Timeout, 60*time.Second)
		pdfBackend := parser.NewTikaTextExtractor(cfg.Tika.ServerURL, parser.WithTikaTimeout(tikaTimeout))
		extractor = processor.NewFileTextExtractorWithPDF(pdfBackend)
		logger.Info().Str("server_url", cfg.Tika.ServerURL).Msg("使用Tika服务器提取PDF文本")
	} else if fileExtractor, err := processor.NewFileTextExtractor(ctx); err != nil {
		logger.Warn().Err(err).Msg("初始化文件文本抽取器失败，文件解析不可用")
	} else {
		extractor = fileExtractor
	}

	return handler.NewMatchHandler(cfg, storageManager, store, extractor), nil
}
