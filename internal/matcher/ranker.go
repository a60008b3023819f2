package matcher

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"resume-match-go/internal/types"
)

// ErrUnknownEducationLevel 筛选条件中的学历级别不在序数刻度内
var ErrUnknownEducationLevel = errors.New("未知的学历级别")

// RankResults 按整体得分降序排列匹配结果并赋予1开始的连续名次。
// 使用稳定排序，得分相同的结果保持输入顺序，保证排序可复现。
// 输入切片不被修改，返回新切片。limit 大于0时截断到前limit个。
func RankResults(results []types.MatchResult, limit int) []types.MatchResult {
	ranked := make([]types.MatchResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		pos := i + 1
		ranked[i].RankingPosition = &pos
	}
	return ranked
}

// FilterPredicates 筛选条件，全部条件按AND连接。
// 零值字段表示不启用该条件。MinScore 的取值范围是0-100。
// Query 对简历原文做大小写不敏感的子串匹配。
type FilterPredicates struct {
	MinScore           float64  `json:"min_score,omitempty"`
	MinExperienceYears float64  `json:"min_experience_years,omitempty"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
	MinEducationLevel  string   `json:"min_education_level,omitempty"`
	Query              string   `json:"query,omitempty"`
}

// ResumeTextFunc 按简历ID取回原文，供 Query 条件匹配。
// 取不到原文（返回空串）的结果不通过 Query 条件。
type ResumeTextFunc func(resumeID string) string

// Validate 校验筛选条件，学历级别必须在序数刻度内
func (p FilterPredicates) Validate() error {
	if p.MinEducationLevel != "" {
		if _, ok := EducationOrdinal(p.MinEducationLevel); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEducationLevel, p.MinEducationLevel)
		}
	}
	if p.MinScore < 0 || p.MinScore > 100 {
		return fmt.Errorf("最低分数超出范围 [0,100]: %v", p.MinScore)
	}
	return nil
}

// FilterResults 对已打分的结果集应用筛选条件。
// 只在现有结果上做谓词判断，绝不重新触发抽取或打分；
// 各条件相互独立，应用顺序不影响结果集。
// resumeText 只在 Query 条件启用时被调用，其余情况可传nil。
func FilterResults(results []types.MatchResult, p FilterPredicates, resumeText ResumeTextFunc) ([]types.MatchResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	filtered := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if !matchesPredicates(r, p, resumeText) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func matchesPredicates(r types.MatchResult, p FilterPredicates, resumeText ResumeTextFunc) bool {
	if r.OverallScore < p.MinScore {
		return false
	}
	if p.MinExperienceYears > 0 && r.ExperienceMatch.YearsExperience < p.MinExperienceYears {
		return false
	}
	if len(p.RequiredSkills) > 0 && !containsAllSkills(r.SkillMatch.MatchedSkills, p.RequiredSkills) {
		return false
	}
	if p.MinEducationLevel != "" {
		required, _ := EducationOrdinal(p.MinEducationLevel)
		if !meetsEducationFloor(r, required) {
			return false
		}
	}
	if p.Query != "" && !matchesQuery(r.ResumeID, p.Query, resumeText) {
		return false
	}
	return true
}

// matchesQuery 对简历原文做大小写不敏感的子串匹配
func matchesQuery(resumeID, query string, resumeText ResumeTextFunc) bool {
	if resumeText == nil {
		return false
	}
	text := resumeText(resumeID)
	if text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

func containsAllSkills(matched, required []string) bool {
	matchedSet := make(map[string]struct{}, len(matched))
	for _, s := range matched {
		matchedSet[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range required {
		if _, ok := matchedSet[strings.ToLower(s)]; !ok {
			return false
		}
	}
	return true
}

// meetsEducationFloor 按候选人最高学历的序数判断是否达到筛选下限。
// 打分阶段把最高学历序数带在结果里，筛选不依赖岗位侧是否声明学历要求，
// 未识别出学历的候选人（序数为0）不通过任何学历下限。
func meetsEducationFloor(r types.MatchResult, required int) bool {
	if required <= 0 {
		return true
	}
	return r.EducationMatch.HighestLevel >= required
}
