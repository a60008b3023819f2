package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/types"
)

// 熟练程度上下文窗口的半径（字符数）
const proficiencyContextWindow = 50

var (
	expertLevelKeywords       = []string{"expert", "advanced", "lead", "senior", "architect"}
	intermediateLevelKeywords = []string{"experienced", "proficient", "skilled"}
	beginnerLevelKeywords     = []string{"basic", "beginner", "learning", "familiar"}

	skillYearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)`)
)

// SkillExtractor 简历侧技能抽取器
type SkillExtractor struct {
	skills *knowledge.SkillDB
}

// NewSkillExtractor 创建技能抽取器
func NewSkillExtractor(db *knowledge.SkillDB) *SkillExtractor {
	return &SkillExtractor{skills: db}
}

// Extract 在整份文档上抽取技能记录。
// 不限定技能段，经历条目正文中内联出现的技能同样要识别。
// 每个规范名最多产出一条记录，熟练程度从首次出现位置的
// 上下文窗口推断，无线索时留空。
func (x *SkillExtractor) Extract(text string) []types.SkillRecord {
	entries := x.skills.FindAll(text)
	records := make([]types.SkillRecord, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ctx := x.skills.Context(e.Name, text, proficiencyContextWindow)
		rec := types.SkillRecord{
			Name:     e.Name,
			Category: e.Category,
			Level:    inferProficiency(ctx),
		}
		if years := extractSkillYears(ctx); years != nil {
			rec.YearsExperience = years
		}
		records = append(records, rec)
	}
	return records
}

// inferProficiency 根据上下文关键词推断熟练程度，无线索返回空值
func inferProficiency(ctx string) types.SkillLevel {
	lower := strings.ToLower(ctx)
	for _, kw := range expertLevelKeywords {
		if strings.Contains(lower, kw) {
			return types.SkillLevelExpert
		}
	}
	for _, kw := range intermediateLevelKeywords {
		if strings.Contains(lower, kw) {
			return types.SkillLevelIntermediate
		}
	}
	for _, kw := range beginnerLevelKeywords {
		if strings.Contains(lower, kw) {
			return types.SkillLevelBeginner
		}
	}
	return ""
}

// extractSkillYears 从上下文中解析"N+ years"形式的年限
func extractSkillYears(ctx string) *int {
	m := skillYearsPattern.FindStringSubmatch(ctx)
	if m == nil {
		return nil
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &years
}
