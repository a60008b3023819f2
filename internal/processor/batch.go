package processor

import (
	"context"
	"fmt"
	"sync"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/types"
)

// ResumeInput 批量分析的单个输入
type ResumeInput struct {
	Filename string
	Text     string
}

// BatchResult 批量分析的汇总结果。
// 单个文件的失败被隔离在任务边界内，只计入失败数，
// 不会中断或污染其它文件的分析。
type BatchResult struct {
	Resumes   []*types.ResumeRecord
	Succeeded int
	Failed    int
	// Errors 按输入文件名记录失败原因
	Errors map[string]string
}

// BatchAnalyzer 简历批量分析器，持有有界工作池的并发上限
type BatchAnalyzer struct {
	analyzer    *ResumeAnalyzer
	store       RecordStore
	concurrency int
}

// NewBatchAnalyzer 创建批量分析器，store 可为 nil（仅分析不落存）
func NewBatchAnalyzer(analyzer *ResumeAnalyzer, store RecordStore, concurrency int) *BatchAnalyzer {
	if concurrency <= 0 {
		concurrency = defaultRankConcurrency
	}
	return &BatchAnalyzer{analyzer: analyzer, store: store, concurrency: concurrency}
}

// AnalyzeAll 并发分析一批简历文本，结果保持输入顺序。
// 整个批次只有在零个输入成功时才返回错误。
func (b *BatchAnalyzer) AnalyzeAll(ctx context.Context, inputs []ResumeInput) (*BatchResult, error) {
	records := make([]*types.ResumeRecord, len(inputs))
	errs := make([]error, len(inputs))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in ResumeInput) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := b.analyzer.Analyze(ctx, in.Text, in.Filename)
			if err != nil {
				errs[i] = err
				return
			}
			if b.store != nil {
				id, err := b.store.SaveResume(ctx, record)
				if err != nil {
					errs[i] = NewStorageError(record.ID, err.Error())
					return
				}
				record.ID = id
			}
			records[i] = record
		}(i, in)
	}
	wg.Wait()

	result := &BatchResult{Errors: make(map[string]string)}
	for i := range inputs {
		if errs[i] != nil {
			result.Failed++
			result.Errors[inputs[i].Filename] = errs[i].Error()
			logger.Ctx(ctx).Warn().Err(errs[i]).
				Str("filename", inputs[i].Filename).
				Msg("批量分析跳过失败的简历")
			continue
		}
		result.Succeeded++
		result.Resumes = append(result.Resumes, records[i])
	}

	if len(inputs) > 0 && result.Succeeded == 0 {
		return result, fmt.Errorf("批量分析全部失败: %d 个输入", len(inputs))
	}
	return result, nil
}
