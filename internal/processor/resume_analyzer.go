package processor

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

// ResumeAnalyzer 简历分析流水线：归一化 -> 分段 -> 实体抽取 -> 组装记录。
// 所有抽取器共享同一个技能库实例。
type ResumeAnalyzer struct {
	skills        *knowledge.SkillDB
	experienceExt *parser.ExperienceExtractor
	skillExt      *parser.SkillExtractor
}

// NewResumeAnalyzer 创建简历分析器
func NewResumeAnalyzer(db *knowledge.SkillDB) *ResumeAnalyzer {
	return &ResumeAnalyzer{
		skills:        db,
		experienceExt: parser.NewExperienceExtractor(db),
		skillExt:      parser.NewSkillExtractor(db),
	}
}

// Analyze 解析一份简历文本，返回结构化简历记录。
// 只有输入文本为空时返回解析错误；其余情况下各字段尽力抽取，
// 抽取不到的字段留空，通过 ParseConfidence 反映抽取完整度。
// 同一输入重复调用产出相同的可比较字段（ID与时间戳除外）。
func (a *ResumeAnalyzer) Analyze(ctx context.Context, text, filename string) (*types.ResumeRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewParseError(filename, "输入文本为空")
	}

	start := time.Now()
	cleaned := parser.NormalizeText(text)
	sections := parser.SegmentSections(cleaned)

	record := &types.ResumeRecord{
		ID:       newID(),
		Filename: filename,
		RawText:  cleaned,
	}

	record.Contact = parser.ExtractContactInfo(cleaned)
	record.Summary = parser.CleanSummary(sections[parser.SectionSummary])

	eduText := sections[parser.SectionEducation]
	if eduText == "" {
		// 教育段缺失时在整份文档上尝试
		eduText = cleaned
	}
	record.Education = parser.ExtractEducation(eduText)

	record.WorkExperience = a.experienceExt.Extract(sections[parser.SectionExperience])
	record.Skills = a.skillExt.Extract(cleaned)

	// 证书、项目与语言常散落在各段落里，在整份文档上识别
	record.Certifications = parser.ExtractCertifications(cleaned)
	record.Projects = parser.ExtractProjects(cleaned)
	record.Languages = parser.ExtractLanguages(cleaned)

	record.TotalExperienceYears = totalExperienceYears(record.WorkExperience)
	record.ParseConfidence = parseConfidence(record)
	record.CreatedAt = time.Now()

	logger.Ctx(ctx).Debug().
		Str("filename", filename).
		Int("skills", len(record.Skills)).
		Int("experience_entries", len(record.WorkExperience)).
		Float64("parse_confidence", record.ParseConfidence).
		Dur("elapsed", time.Since(start)).
		Msg("简历分析完成")

	return record, nil
}

// totalExperienceYears 全部经历时长（月）之和折算为年
func totalExperienceYears(entries []types.WorkExperienceRecord) float64 {
	var months int
	for _, e := range entries {
		if e.DurationMonths != nil {
			months += *e.DurationMonths
		}
	}
	return float64(months) / 12
}

// parseConfidence 五大板块（联系方式/教育/工作/技能/概要）
// 成功填充的比例，作为下游加权或标记低质量抽取的信号
func parseConfidence(r *types.ResumeRecord) float64 {
	populated := 0
	if r.Contact.Name != "" || r.Contact.Email != "" || r.Contact.Phone != "" {
		populated++
	}
	if len(r.Education) > 0 {
		populated++
	}
	if len(r.WorkExperience) > 0 {
		populated++
	}
	if len(r.Skills) > 0 {
		populated++
	}
	if r.Summary != "" {
		populated++
	}
	return float64(populated) / 5
}

// newID 生成记录标识，UUID v7 按时间有序便于作为存储主键
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}
