package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-match-go/internal/logger"
)

// TikaTextExtractor 调用Apache Tika服务器提取PDF文本，
// 作为内置解析器的替代后端，适合扫描件等复杂PDF。
type TikaTextExtractor struct {
	serverURL          string
	client             *http.Client
	extractAnnotations bool
}

// TikaOption 配置选项函数
type TikaOption func(*TikaTextExtractor)

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaTextExtractor) {
		e.client.Timeout = timeout
	}
}

// WithTikaAnnotations 配置是否提取PDF链接注释文本
func WithTikaAnnotations(extract bool) TikaOption {
	return func(e *TikaTextExtractor) {
		e.extractAnnotations = extract
	}
}

// NewTikaTextExtractor 创建Tika文本提取器，serverURL形如 http://localhost:9998
func NewTikaTextExtractor(serverURL string, options ...TikaOption) *TikaTextExtractor {
	extractor := &TikaTextExtractor{
		serverURL:          serverURL,
		client:             &http.Client{Timeout: 60 * time.Second},
		extractAnnotations: true,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// ExtractTextFromBytes 将PDF内容提交到Tika服务器并返回纯文本
func (e *TikaTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/tika", e.serverURL), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("创建Tika请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}
	if !e.extractAnnotations {
		req.Header.Set("X-Tika-PDFExtractAnnotationText", "false")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Tika响应失败: %w", err)
	}

	logger.Ctx(ctx).Debug().
		Str("uri", uri).
		Int("text_length", len(textBytes)).
		Dur("elapsed", time.Since(start)).
		Msg("Tika提取完成")

	return string(textBytes), nil
}

// ExtractTextFromReader 从 io.Reader 提取文本内容
func (e *TikaTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri)
}
