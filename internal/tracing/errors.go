package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorType 按出错的协作方或处理阶段分类，链路查询时按它聚合
type ErrorType string

const (
	// ErrorTypeMySQL 记录与匹配结果的持久化失败
	ErrorTypeMySQL ErrorType = "mysql"
	// ErrorTypeMinIO 简历原始文件的对象存储访问失败
	ErrorTypeMinIO ErrorType = "minio"
	// ErrorTypeRabbitMQ 消息投递与确认失败
	ErrorTypeRabbitMQ ErrorType = "rabbitmq"
	// ErrorTypeExtract 文件文本提取失败（内置解析器或Tika）
	ErrorTypeExtract ErrorType = "text_extract"
	// ErrorTypeParse 简历或岗位文本的结构化解析失败
	ErrorTypeParse ErrorType = "resume_parse"
	// ErrorTypeHTTP HTTP层错误
	ErrorTypeHTTP ErrorType = "http"
)

// RecordError 把错误挂到span上并标记span状态
func RecordError(span trace.Span, err error, errorType ErrorType) {
	RecordErrorWithInfo(span, err, errorType)
}

// RecordErrorWithInfo 记录错误并附带额外属性
func RecordErrorWithInfo(span trace.Span, err error, errorType ErrorType, attributes ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}

	span.RecordError(err)
	attrs := append([]attribute.KeyValue{
		attribute.String("error.type", string(errorType)),
		attribute.String("error.message", err.Error()),
	}, attributes...)
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Error, err.Error())
}

// RecordHTTPError 记录HTTP层错误，按状态码区分客户端与服务端错误
func RecordHTTPError(span trace.Span, err error, statusCode int) {
	if span == nil || err == nil {
		return
	}

	category := "client_error"
	if statusCode >= 500 {
		category = "server_error"
	}
	RecordErrorWithInfo(span, err, ErrorTypeHTTP,
		attribute.Int("http.status_code", statusCode),
		attribute.String("error.category", category),
	)
}

// recordPublishFailure RabbitMQ投递失败的公共记录逻辑
func recordPublishFailure(span trace.Span, messageID, failure, errMsg string) {
	if span == nil {
		return
	}

	span.SetAttributes(
		attribute.String("error.type", string(ErrorTypeRabbitMQ)),
		attribute.String("error.message", errMsg),
		attribute.String("messaging.message_id", messageID),
		attribute.String("messaging.error_type", failure),
		attribute.Bool("messaging.rabbitmq.confirmed", false),
	)
	span.SetStatus(codes.Error, errMsg)
}

// RecordRabbitMQNack 记录broker明确拒绝的消息
func RecordRabbitMQNack(span trace.Span, messageID string, reason string) {
	if reason == "" {
		reason = "message not acknowledged by broker"
	}
	recordPublishFailure(span, messageID, "nack", reason)
}

// RecordRabbitMQTimeout 记录等待broker确认超时的消息
func RecordRabbitMQTimeout(span trace.Span, messageID string, timeoutDuration string) {
	recordPublishFailure(span, messageID, "timeout", "confirm timeout after "+timeoutDuration)
}
