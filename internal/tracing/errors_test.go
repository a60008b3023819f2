package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestRecordErrorTagsCollaborator(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "storage.SaveResume")

	RecordError(span, errors.New("connection refused"), ErrorTypeMySQL)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	errType, ok := attrValue(spans[0].Attributes(), "error.type")
	require.True(t, ok)
	assert.Equal(t, string(ErrorTypeMySQL), errType)
}

func TestRecordHTTPErrorCategories(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "request")
	RecordHTTPError(span, errors.New("not found"), 404)
	span.End()

	_, span = tp.Tracer("test").Start(context.Background(), "request")
	RecordHTTPError(span, errors.New("boom"), 500)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	category, _ := attrValue(spans[0].Attributes(), "error.category")
	assert.Equal(t, "client_error", category)
	category, _ = attrValue(spans[1].Attributes(), "error.category")
	assert.Equal(t, "server_error", category)
}

func TestRecordRabbitMQNackDefaultsReason(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "publish")

	RecordRabbitMQNack(span, "msg-1", "")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	failure, _ := attrValue(spans[0].Attributes(), "messaging.error_type")
	assert.Equal(t, "nack", failure)
	msg, _ := attrValue(spans[0].Attributes(), "error.message")
	assert.Equal(t, "message not acknowledged by broker", msg)
}

func TestRecordErrorNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"), ErrorTypeExtract)
		RecordHTTPError(nil, nil, 500)
		RecordRabbitMQNack(nil, "msg-1", "")
	})
}
