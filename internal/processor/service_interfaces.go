package processor

import (
	"context"

	"resume-match-go/internal/matcher"
	"resume-match-go/internal/types"
)

// RecordStore 结构化记录的持久化接口。
// 查询不到记录时实现必须返回满足 errors.Is(err, ErrNotFound) 的错误。
type RecordStore interface {
	// SaveResume 按内容哈希去重保存简历，返回记录ID；
	// 内容已存在时返回已有记录的ID，不重复写入
	SaveResume(ctx context.Context, record *types.ResumeRecord) (string, error)
	GetResume(ctx context.Context, id string) (*types.ResumeRecord, error)

	SaveJob(ctx context.Context, record *types.JobRecord) (string, error)
	GetJob(ctx context.Context, id string) (*types.JobRecord, error)

	SaveMatch(ctx context.Context, result *types.MatchResult) error
	Statistics(ctx context.Context) (*types.MatchStatistics, error)
}

// TextExtractor 二进制文件内容到UTF-8文本的提取接口，
// 按文件扩展名识别格式，未知扩展名返回不支持格式错误
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// Matcher 简历-岗位打分接口
type Matcher interface {
	Match(resume *types.ResumeRecord, job *types.JobRecord) types.MatchResult
}

// 编译期断言
var _ Matcher = (*matcher.Scorer)(nil)
