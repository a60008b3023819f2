package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/processor"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/tracing"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var consumerTracer = otel.Tracer("resume-match-go/api/consumer")

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	ResumeID string `json:"resume_id"`
	Status   string `json:"status"`
}

// 上传响应状态
const (
	UploadStatusSubmitted = "SUBMITTED_FOR_PROCESSING"
	UploadStatusDuplicate = "DUPLICATE_FILE_SKIPPED"
)

// CanProcessFiles 文件上传与异步解析流程是否可用。
// 文本抽取器初始化失败时只禁用文件路径，文本接口不受影响。
func (h *MatchHandler) CanProcessFiles() bool {
	return h.extractor != nil
}

// HandleResumeUpload 处理简历文件上传请求。
// 文件去重后写入对象存储，并投递解析消息由消费者异步处理。
func (h *MatchHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobID string, sourceChannel string) (*ResumeUploadResponse, error) {

	if h.storage == nil || h.storage.MinIO == nil || h.storage.RabbitMQ == nil {
		return nil, fmt.Errorf("文件上传依赖的存储组件未初始化")
	}
	if h.extractor == nil {
		// 没有抽取器时接收文件只会让消息在队列里无限堆积
		return nil, fmt.Errorf("文本抽取器未初始化，文件上传不可用")
	}

	// 读取文件内容并计算SHA-256 (需要在上传MinIO前，且reader只能读一次)
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	contentHash := storage.ContentHash(string(fileBytes))

	// 原子检查并登记内容指纹
	if h.storage.Redis != nil {
		exists, err := h.storage.Redis.CheckAndAddContentHash(ctx, contentHash)
		if err != nil {
			logger.Error().
				Err(err).
				Str("content_hash", contentHash).
				Msg("查询Redis去重集合失败")
			return nil, fmt.Errorf("检查文件重复性时Redis查询失败: %w", err)
		}
		if exists {
			logger.Info().
				Str("content_hash", contentHash).
				Str("filename", filename).
				Msg("检测到重复的文件内容，跳过处理")
			return &ResumeUploadResponse{
				ResumeID: "",
				Status:   UploadStatusDuplicate,
			}, nil
		}
	}

	// 生成UUIDv7作为简历记录ID
	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	resumeID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf" // 默认为PDF
	}

	// 上传原始文件到MinIO
	objectKey, err := h.storage.MinIO.UploadResumeFile(ctx, resumeID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackContentHash(ctx, contentHash)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 构建消息并发送到RabbitMQ
	message := storage.ResumeUploadMessage{
		ResumeID:            resumeID,
		UploadTimestamp:     time.Now(),
		OriginalFilename:    filename,
		OriginalFilePathOSS: objectKey,
		ContentHash:         contentHash,
		TargetJobID:         targetJobID,
		SourceChannel:       sourceChannel,
	}

	// 上传消息丢失会导致简历永远停在未解析状态，等待broker确认
	err = h.storage.RabbitMQ.PublishJSONWithConfirm(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		resumeID,
	)
	if err != nil {
		h.rollbackContentHash(ctx, contentHash)
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	return &ResumeUploadResponse{
		ResumeID: resumeID,
		Status:   UploadStatusSubmitted,
	}, nil
}

// rollbackContentHash 上传流程失败时回滚去重登记，允许同一文件重试
func (h *MatchHandler) rollbackContentHash(ctx context.Context, contentHash string) {
	if h.storage.Redis == nil {
		return
	}
	if err := h.storage.Redis.RemoveContentHash(ctx, contentHash); err != nil {
		logger.Warn().
			Err(err).
			Str("content_hash", contentHash).
			Msg("回滚内容指纹失败，同一文件在过期前将被去重拦截")
	}
}

// StartResumeUploadConsumer 启动简历上传消费者，异步完成文本提取与解析
func (h *MatchHandler) StartResumeUploadConsumer(ctx context.Context) error {
	if h.storage == nil || h.storage.MinIO == nil || h.storage.RabbitMQ == nil {
		return fmt.Errorf("消费者依赖的存储组件未初始化")
	}
	if h.extractor == nil {
		return fmt.Errorf("文本抽取器未初始化，无法启动简历解析消费者")
	}

	mqCfg := h.cfg.RabbitMQ
	logger.Info().
		Str("exchange", mqCfg.ResumeEventsExchange).
		Str("routing_key", mqCfg.UploadedRoutingKey).
		Str("queue", mqCfg.ResumeParseQueue).
		Msg("初始化简历解析队列")

	if err := h.storage.RabbitMQ.EnsureExchange(mqCfg.ResumeEventsExchange, "direct", true); err != nil {
		return fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(mqCfg.ResumeParseQueue, true); err != nil {
		return fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(mqCfg.ResumeParseQueue, mqCfg.ResumeEventsExchange, mqCfg.UploadedRoutingKey); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	_, err := h.storage.RabbitMQ.StartConsumer(mqCfg.ResumeParseQueue, mqCfg.PrefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析上传消息失败")
			return true // 消息格式损坏，重试无意义
		}
		return h.consumeUploadMessage(ctx, message)
	})
	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}

	return nil
}

// consumeUploadMessage 处理单条上传消息。
// 返回true表示确认消息；解析类失败属于确定性错误，确认后不再重试，
// 存储类失败返回false重新入队。
func (h *MatchHandler) consumeUploadMessage(ctx context.Context, message storage.ResumeUploadMessage) bool {
	ctx, span := consumerTracer.Start(ctx, "consumer.ProcessResumeUpload",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.message_id", message.ResumeID),
			attribute.String("resume.filename", message.OriginalFilename),
		))
	defer span.End()

	log := logger.Ctx(ctx).With().
		Str("resume_id", message.ResumeID).
		Str("filename", message.OriginalFilename).
		Logger()

	fileBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		log.Error().Err(err).Msg("从MinIO下载原始简历失败")
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeMinIO,
			attribute.String("object.key", message.OriginalFilePathOSS))
		tracing.RecordRabbitMQNack(span, message.ResumeID, "下载原始简历失败，消息重新入队")
		return false
	}

	text, err := h.extractor.ExtractText(ctx, fileBytes, message.OriginalFilename)
	if err != nil {
		log.Error().Err(err).Msg("提取简历文本失败")
		tracing.RecordError(span, err, tracing.ErrorTypeExtract)
		h.rollbackContentHash(ctx, message.ContentHash)
		return errors.Is(err, processor.ErrUnsupportedFormat) // 格式不支持时确认消息
	}
	span.SetAttributes(attribute.String("resume.text_preview", tracing.SafeResumeContent(text)))

	record, err := h.resumes.Analyze(ctx, text, message.OriginalFilename)
	if err != nil {
		log.Error().Err(err).Msg("解析简历文本失败")
		tracing.RecordError(span, err, tracing.ErrorTypeParse)
		h.rollbackContentHash(ctx, message.ContentHash)
		return errors.Is(err, processor.ErrParseFailed) // 解析失败是确定性错误
	}

	span.SetAttributes(
		attribute.String("resume.candidate_name", tracing.MaskPII(record.Contact.Name)),
		attribute.Float64("resume.parse_confidence", record.ParseConfidence),
	)

	// 保留上传时签发的记录ID
	record.ID = message.ResumeID

	savedID, err := h.store.SaveResume(ctx, record)
	if err != nil {
		log.Error().Err(err).Msg("持久化简历记录失败")
		tracing.RecordError(span, err, tracing.ErrorTypeMySQL)
		tracing.RecordRabbitMQNack(span, message.ResumeID, "持久化失败，消息重新入队")
		return false
	}

	// 解析文本归档失败不阻塞主流程
	if _, err := h.storage.MinIO.UploadParsedText(ctx, savedID, text); err != nil {
		log.Warn().Err(err).Msg("归档解析文本失败")
	}

	// 上传时指定了目标岗位则立即评分
	if message.TargetJobID != "" {
		if _, err := h.matches.Match(ctx, savedID, message.TargetJobID); err != nil {
			log.Warn().
				Err(err).
				Str("job_id", message.TargetJobID).
				Msg("针对目标岗位评分失败")
		}
	}

	log.Info().
		Str("saved_id", savedID).
		Float64("parse_confidence", record.ParseConfidence).
		Msg("简历异步解析完成")
	return true
}
