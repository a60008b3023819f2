package handler

import (
	"context"
	"strings"
	"testing"

	"resume-match-go/internal/config"
	"resume-match-go/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUploadTestHandler 存储组件齐全但文本抽取器缺失的处理器
func newUploadTestHandler() *MatchHandler {
	cfg := &config.Config{}
	cfg.Matcher.RankConcurrency = 2
	cfg.Matcher.BatchConcurrency = 2
	storageManager := &storage.Storage{
		MinIO:    &storage.MinIO{},
		RabbitMQ: &storage.RabbitMQ{},
	}
	return NewMatchHandler(cfg, storageManager, newFakeRecordStore(), nil)
}

func TestHandleResumeUploadRejectedWithoutExtractor(t *testing.T) {
	h := newUploadTestHandler()
	require.False(t, h.CanProcessFiles())

	_, err := h.HandleResumeUpload(context.Background(),
		strings.NewReader("%PDF-1.4"), 8, "resume.pdf", "", "")
	require.Error(t, err, "抽取器缺失时上传必须被拒绝，消息不能进入队列")
	assert.Contains(t, err.Error(), "文本抽取器未初始化")
}

func TestStartConsumerRejectedWithoutExtractor(t *testing.T) {
	h := newUploadTestHandler()

	err := h.StartResumeUploadConsumer(context.Background())
	require.Error(t, err, "抽取器缺失时不能启动消费者，否则首条消息会解引用空接口")
	assert.Contains(t, err.Error(), "文本抽取器未初始化")
}
