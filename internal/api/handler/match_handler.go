package handler

import (
	"context"
	"errors"

	"resume-match-go/internal/config"
	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/processor"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/types"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// MatchHandler 匹配服务处理器，协调解析、打分与持久化
type MatchHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	store     processor.RecordStore
	resumes   *processor.ResumeAnalyzer
	jobs      *processor.JobAnalyzer
	matches   *processor.MatchService
	batch     *processor.BatchAnalyzer
	extractor processor.TextExtractor
}

// NewMatchHandler 创建匹配服务处理器
func NewMatchHandler(
	cfg *config.Config,
	storageManager *storage.Storage,
	store processor.RecordStore,
	extractor processor.TextExtractor,
) *MatchHandler {
	skills := knowledge.DefaultSkillDB()
	resumeAnalyzer := processor.NewResumeAnalyzer(skills)
	scorer := matcher.NewScorer(skills)

	return &MatchHandler{
		cfg:     cfg,
		storage: storageManager,
		store:   store,
		resumes: resumeAnalyzer,
		jobs:    processor.NewJobAnalyzer(skills),
		matches: processor.NewMatchService(store, scorer,
			processor.WithConcurrency(cfg.Matcher.RankConcurrency)),
		batch:     processor.NewBatchAnalyzer(resumeAnalyzer, store, cfg.Matcher.BatchConcurrency),
		extractor: extractor,
	}
}

// StatusForError 将业务错误映射为HTTP状态码
func StatusForError(err error) int {
	switch {
	case errors.Is(err, processor.ErrNotFound):
		return consts.StatusNotFound
	case errors.Is(err, processor.ErrUnsupportedFormat):
		return consts.StatusUnsupportedMediaType
	case errors.Is(err, processor.ErrParseFailed),
		errors.Is(err, processor.ErrValidationFailed):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}

// ResumeAnalyzeRequest 简历文本解析请求
type ResumeAnalyzeRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty"`
}

// HandleResumeAnalyze 解析简历文本为结构化记录并持久化
func (h *MatchHandler) HandleResumeAnalyze(ctx context.Context, req *ResumeAnalyzeRequest) (*types.ResumeRecord, error) {
	record, err := h.resumes.Analyze(ctx, req.Text, req.Filename)
	if err != nil {
		return nil, err
	}

	id, err := h.store.SaveResume(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	return record, nil
}

// JobAnalyzeRequest 岗位描述解析请求
type JobAnalyzeRequest struct {
	Text    string `json:"text"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// HandleJobAnalyze 解析岗位描述为结构化记录并持久化
func (h *MatchHandler) HandleJobAnalyze(ctx context.Context, req *JobAnalyzeRequest) (*types.JobRecord, error) {
	record, err := h.jobs.Analyze(ctx, req.Text, req.Title, req.Company)
	if err != nil {
		return nil, err
	}

	id, err := h.store.SaveJob(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	return record, nil
}

// HandleMatch 对单份简历和单个岗位评分
func (h *MatchHandler) HandleMatch(ctx context.Context, resumeID, jobID string) (*types.MatchResult, error) {
	if resumeID == "" || jobID == "" {
		return nil, processor.NewValidationError("resume_id和job_id不能为空")
	}
	return h.matches.Match(ctx, resumeID, jobID)
}

// RankRequest 候选人排序请求
type RankRequest struct {
	JobID     string   `json:"job_id"`
	ResumeIDs []string `json:"resume_ids"`
	Limit     int      `json:"limit,omitempty"`
}

// HandleRank 对一批简历按岗位匹配度降序排序
func (h *MatchHandler) HandleRank(ctx context.Context, req *RankRequest) ([]types.MatchResult, error) {
	if req.JobID == "" {
		return nil, processor.NewValidationError("job_id不能为空")
	}
	if len(req.ResumeIDs) == 0 {
		return nil, processor.NewValidationError("resume_ids不能为空")
	}
	return h.matches.Rank(ctx, req.JobID, req.ResumeIDs, req.Limit)
}

// FilterRequest 候选人筛选请求，先排序后按条件过滤
type FilterRequest struct {
	JobID              string   `json:"job_id"`
	ResumeIDs          []string `json:"resume_ids"`
	MinScore           float64  `json:"min_score,omitempty"`
	MinExperienceYears float64  `json:"min_experience_years,omitempty"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
	MinEducationLevel  string   `json:"min_education_level,omitempty"`
	Query              string   `json:"query,omitempty"`
}

// HandleFilter 排序后按硬性条件过滤候选人
func (h *MatchHandler) HandleFilter(ctx context.Context, req *FilterRequest) ([]types.MatchResult, error) {
	if req.JobID == "" {
		return nil, processor.NewValidationError("job_id不能为空")
	}
	if len(req.ResumeIDs) == 0 {
		return nil, processor.NewValidationError("resume_ids不能为空")
	}

	results, err := h.matches.Rank(ctx, req.JobID, req.ResumeIDs, 0)
	if err != nil {
		return nil, err
	}

	predicates := matcher.FilterPredicates{
		MinScore:           req.MinScore,
		MinExperienceYears: req.MinExperienceYears,
		RequiredSkills:     req.RequiredSkills,
		MinEducationLevel:  req.MinEducationLevel,
		Query:              req.Query,
	}

	return h.matches.Filter(ctx, results, predicates)
}

// BatchAnalyzeRequest 批量简历解析请求
type BatchAnalyzeRequest struct {
	Resumes []processor.ResumeInput `json:"resumes"`
}

// HandleBatchAnalyze 批量解析简历文本，单条失败不影响其他条目
func (h *MatchHandler) HandleBatchAnalyze(ctx context.Context, req *BatchAnalyzeRequest) (*processor.BatchResult, error) {
	if len(req.Resumes) == 0 {
		return nil, processor.NewValidationError("resumes不能为空")
	}
	return h.batch.AnalyzeAll(ctx, req.Resumes)
}

// HandleStatistics 查询语料统计信息
func (h *MatchHandler) HandleStatistics(ctx context.Context) (*types.MatchStatistics, error) {
	return h.matches.Statistics(ctx)
}
