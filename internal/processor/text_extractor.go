package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"resume-match-go/internal/parser"
)

// PDFTextExtractor PDF文本提取后端，内置Eino解析器与Tika服务器两种实现
type PDFTextExtractor interface {
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error)
}

// FileTextExtractor 按文件扩展名分发的文本提取器。
// PDF 交给可插拔的后端，纯文本类格式直接按 UTF-8 读取，
// 其余扩展名返回不支持格式错误。
type FileTextExtractor struct {
	pdf PDFTextExtractor
}

// NewFileTextExtractor 创建使用内置Eino PDF解析器的文本提取器
func NewFileTextExtractor(ctx context.Context) (*FileTextExtractor, error) {
	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化PDF提取器失败: %w", err)
	}
	return &FileTextExtractor{pdf: pdfExtractor}, nil
}

// NewFileTextExtractorWithPDF 创建使用指定PDF后端的文本提取器
func NewFileTextExtractorWithPDF(pdf PDFTextExtractor) *FileTextExtractor {
	return &FileTextExtractor{pdf: pdf}
}

// ExtractText 实现 TextExtractor 接口
func (e *FileTextExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.pdf.ExtractTextFromBytes(ctx, data, filename)
	case ".txt", ".text", ".md":
		return string(data), nil
	default:
		return "", NewUnsupportedFormatError(filename)
	}
}

var _ TextExtractor = (*FileTextExtractor)(nil)
