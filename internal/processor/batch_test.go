package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchAnalyzerIsolatesFailures(t *testing.T) {
	b := NewBatchAnalyzer(newResumeAnalyzer(), newFakeStore(), 4)
	inputs := []ResumeInput{
		{Filename: "good.txt", Text: "Jane Doe\nSkills\nPython, Docker"},
		{Filename: "empty.txt", Text: "   "},
		{Filename: "also-good.txt", Text: "Experience\nEngineer at Acme (2019-2021)"},
	}

	result, err := b.AnalyzeAll(context.Background(), inputs)
	require.NoError(t, err, "部分失败不应让批次报错")
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Resumes, 2)
	assert.Equal(t, "good.txt", result.Resumes[0].Filename, "结果保持输入顺序")
	assert.Equal(t, "also-good.txt", result.Resumes[1].Filename)
	assert.Contains(t, result.Errors, "empty.txt")
}

func TestBatchAnalyzerAllFail(t *testing.T) {
	b := NewBatchAnalyzer(newResumeAnalyzer(), nil, 2)
	inputs := []ResumeInput{
		{Filename: "a.txt", Text: ""},
		{Filename: "b.txt", Text: "  "},
	}

	result, err := b.AnalyzeAll(context.Background(), inputs)
	require.Error(t, err, "零个成功时批次整体报错")
	assert.Equal(t, 2, result.Failed)
}

func TestBatchAnalyzerEmptyInput(t *testing.T) {
	b := NewBatchAnalyzer(newResumeAnalyzer(), nil, 2)
	result, err := b.AnalyzeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
}

func TestBatchAnalyzerLargeBatchBounded(t *testing.T) {
	b := NewBatchAnalyzer(newResumeAnalyzer(), newFakeStore(), 3)
	var inputs []ResumeInput
	for i := 0; i < 50; i++ {
		inputs = append(inputs, ResumeInput{
			Filename: fmt.Sprintf("resume-%02d.txt", i),
			Text:     fmt.Sprintf("Candidate Number%02d\nSkills\nPython, Go", i),
		})
	}

	result, err := b.AnalyzeAll(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Succeeded)
	for i, r := range result.Resumes {
		assert.Equal(t, fmt.Sprintf("resume-%02d.txt", i), r.Filename)
	}
}

func TestFileTextExtractorPlainText(t *testing.T) {
	e := &FileTextExtractor{}
	text, err := e.ExtractText(context.Background(), []byte("hello resume"), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello resume", text)
}

func TestFileTextExtractorUnsupportedFormat(t *testing.T) {
	e := &FileTextExtractor{}
	_, err := e.ExtractText(context.Background(), []byte{0x50, 0x4b}, "resume.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
