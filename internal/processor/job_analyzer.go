package processor

import (
	"context"
	"strings"
	"time"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

// JobAnalyzer 岗位描述分析流水线，与简历侧共用技能库
type JobAnalyzer struct {
	jobExt *parser.JobExtractor
}

// NewJobAnalyzer 创建岗位分析器
func NewJobAnalyzer(db *knowledge.SkillDB) *JobAnalyzer {
	return &JobAnalyzer{jobExt: parser.NewJobExtractor(db)}
}

// Analyze 解析岗位描述文本，返回结构化岗位记录。
// 失败契约与简历侧一致：仅空文本报错，其余字段尽力抽取。
func (a *JobAnalyzer) Analyze(ctx context.Context, text, title, company string) (*types.JobRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewParseError(title, "岗位描述为空")
	}

	record := a.jobExt.Extract(text, title, company)
	record.ID = newID()
	record.CreatedAt = time.Now()

	logger.Ctx(ctx).Debug().
		Str("title", title).
		Int("requirements", len(record.Requirements)).
		Int("preferred", len(record.PreferredSkills)).
		Msg("岗位分析完成")

	return &record, nil
}
