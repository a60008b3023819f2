package processor

import (
	"context"
	"sync"

	"resume-match-go/internal/logger"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/types"
)

// defaultRankConcurrency 批量打分的默认并发上限。
// 不加上限的扇出在几十份简历同时打分时会耗尽资源。
const defaultRankConcurrency = 8

// MatchService 对外暴露匹配、排序、筛选三类操作，
// 记录的读取交给注入的存储实现
type MatchService struct {
	store       RecordStore
	scorer      Matcher
	concurrency int
}

// MatchServiceOption MatchService 的配置选项
type MatchServiceOption func(*MatchService)

// WithConcurrency 设置批量打分的并发上限
func WithConcurrency(n int) MatchServiceOption {
	return func(s *MatchService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewMatchService 创建匹配服务
func NewMatchService(store RecordStore, scorer Matcher, opts ...MatchServiceOption) *MatchService {
	s := &MatchService{
		store:       store,
		scorer:      scorer,
		concurrency: defaultRankConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match 计算一对简历和岗位的匹配结果并落存。
// 任一ID不存在时返回 ErrNotFound。
func (s *MatchService) Match(ctx context.Context, resumeID, jobID string) (*types.MatchResult, error) {
	resume, err := s.store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result := s.scorer.Match(resume, job)
	if err := s.store.SaveMatch(ctx, &result); err != nil {
		// 落存失败不影响结果返回，匹配本身是纯计算
		logger.Ctx(ctx).Warn().Err(err).
			Str("resume_id", resumeID).
			Str("job_id", jobID).
			Msg("匹配结果落存失败")
	}
	return &result, nil
}

// Rank 把一批简历对同一岗位打分后按整体得分降序排列。
// 岗位不存在时返回 ErrNotFound；单份简历的失败只记录日志并跳过，
// 不中断整个批次。全部简历都失败时返回空列表而非错误。
// 各简历的打分相互独立，在有界工作池中并发执行，
// 结果按输入顺序收集后再排序，保证同分结果的名次可复现。
func (s *MatchService) Rank(ctx context.Context, jobID string, resumeIDs []string, limit int) ([]types.MatchResult, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	type slot struct {
		result types.MatchResult
		err    error
	}
	slots := make([]slot, len(resumeIDs))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, id := range resumeIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			resume, err := s.store.GetResume(ctx, id)
			if err != nil {
				slots[i].err = err
				return
			}
			slots[i].result = s.scorer.Match(resume, job)
		}(i, id)
	}
	wg.Wait()

	// 按输入顺序收集成功项
	results := make([]types.MatchResult, 0, len(resumeIDs))
	failed := 0
	for i, sl := range slots {
		if sl.err != nil {
			failed++
			logger.Ctx(ctx).Warn().Err(sl.err).
				Str("resume_id", resumeIDs[i]).
				Str("job_id", jobID).
				Msg("批量打分跳过失败的简历")
			continue
		}
		results = append(results, sl.result)
	}
	if failed > 0 {
		logger.Ctx(ctx).Info().
			Int("total", len(resumeIDs)).
			Int("failed", failed).
			Str("job_id", jobID).
			Msg("批量打分部分失败")
	}

	ranked := matcher.RankResults(results, limit)
	for i := range ranked {
		if err := s.store.SaveMatch(ctx, &ranked[i]); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("排序结果落存失败")
			break
		}
	}
	return ranked, nil
}

// Filter 对已打分的结果集应用筛选条件。
// 条件非法时返回 ErrValidationFailed，绝不重新触发抽取或打分。
// Query 条件需要简历原文，按需从存储取回；取不回原文的结果不通过该条件。
func (s *MatchService) Filter(ctx context.Context, results []types.MatchResult, predicates matcher.FilterPredicates) ([]types.MatchResult, error) {
	filtered, err := matcher.FilterResults(results, predicates, s.resumeText(ctx))
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	return filtered, nil
}

// resumeText 返回 Query 条件使用的原文查找函数
func (s *MatchService) resumeText(ctx context.Context) matcher.ResumeTextFunc {
	return func(resumeID string) string {
		resume, err := s.store.GetResume(ctx, resumeID)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Str("resume_id", resumeID).
				Msg("取回简历原文失败，该结果不通过关键词条件")
			return ""
		}
		return resume.RawText
	}
}

// Statistics 返回累计的匹配统计信息
func (s *MatchService) Statistics(ctx context.Context) (*types.MatchStatistics, error) {
	return s.store.Statistics(ctx)
}
