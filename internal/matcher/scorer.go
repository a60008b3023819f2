package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

// 四个分项得分的固定权重
const (
	weightSkills     = 0.40
	weightExperience = 0.30
	weightEducation  = 0.15
	weightSemantic   = 0.15

	// preferredSkillWeight 偏好技能在技能得分中的统一权重
	preferredSkillWeight = 0.5

	// neutralScore 岗位未声明要求时的中性得分。
	// 取80而不是100，用于把"无要求"和"完全满足"区分开，
	// 技能、经验、学历三个维度统一使用该约定。
	neutralScore = 80.0
)

// 学历级别的序数刻度
var educationOrdinals = map[string]int{
	"high_school": 1,
	"high school": 1,
	"certificate": 2,
	"diploma":     2,
	"associate":   3,
	"bachelor":    4,
	"master":      5,
	"doctorate":   6,
	"phd":         6,
}

// EducationOrdinal 返回学历级别的序数，未知级别返回0和false
func EducationOrdinal(level string) (int, bool) {
	ord, ok := educationOrdinals[strings.ToLower(strings.TrimSpace(level))]
	return ord, ok
}

// Scorer 确定性匹配打分器，依赖注入的技能库与简历、岗位两侧共用
type Scorer struct {
	skills *knowledge.SkillDB
	now    func() time.Time
}

// NewScorer 创建打分器
func NewScorer(db *knowledge.SkillDB) *Scorer {
	return &Scorer{skills: db, now: time.Now}
}

// Match 计算一份简历与一个岗位的匹配结果。
// 纯函数：只读两个输入和静态技能库，重复调用产出相同的分数。
func (s *Scorer) Match(resume *types.ResumeRecord, job *types.JobRecord) types.MatchResult {
	skillMatch := s.scoreSkills(resume, job)
	expMatch := s.scoreExperience(resume, job)
	eduMatch := s.scoreEducation(resume, job)
	semantic := SemanticSimilarity(resumeSemanticText(resume), jobSemanticText(job))

	overall := skillMatch.Score*weightSkills +
		expMatch.Score*weightExperience +
		eduMatch.Score*weightEducation +
		semantic*weightSemantic

	result := types.MatchResult{
		ResumeID:        resume.ID,
		JobID:           job.ID,
		SkillMatch:      skillMatch,
		ExperienceMatch: expMatch,
		EducationMatch:  eduMatch,
		SemanticScore:   semantic,
		OverallScore:    clampScore(overall),
		CreatedAt:       s.now(),
	}
	result.MatchLevel = matchLevel(result.OverallScore)
	result.Confidence = confidence(skillMatch, resume, eduMatch)
	result.Recommendations = recommendations(result, resume, job)
	return result
}

// scoreSkills 技能维度打分。
// 要求技能按类别加权：每个类别以 类别权重×技能数 计入总权重分母，
// 以 类别权重×命中数 计入命中权重分子；偏好技能统一按0.5权重计入。
// 得分 = 100×命中权重/总权重。岗位未列任何技能时取中性分80。
func (s *Scorer) scoreSkills(resume *types.ResumeRecord, job *types.JobRecord) types.SkillMatch {
	resumeSkills := make(map[string]struct{}, len(resume.Skills))
	for _, sk := range resume.Skills {
		resumeSkills[strings.ToLower(sk.Name)] = struct{}{}
	}

	var totalWeight, matchedWeight float64
	var matched, missing []string

	// 类别按名称排序遍历，保证命中/缺失列表顺序确定
	categories := make([]string, 0, len(job.RequiredSkills))
	for cat := range job.RequiredSkills {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		catWeight := knowledge.GroupWeight(cat)
		for _, skill := range job.RequiredSkills[cat] {
			totalWeight += catWeight
			if _, ok := resumeSkills[strings.ToLower(skill)]; ok {
				matchedWeight += catWeight
				matched = append(matched, skill)
			} else {
				missing = append(missing, skill)
			}
		}
	}

	for _, skill := range job.PreferredSkills {
		totalWeight += preferredSkillWeight
		if _, ok := resumeSkills[strings.ToLower(skill)]; ok {
			matchedWeight += preferredSkillWeight
			matched = append(matched, skill)
		}
	}

	if totalWeight == 0 {
		return types.SkillMatch{Score: neutralScore}
	}
	return types.SkillMatch{
		Score:         clampScore(100 * matchedWeight / totalWeight),
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

// scoreExperience 经验维度打分。
// need=0 表示未声明要求，得满分；满足下限时在80基础上
// 每超出一年加5分封顶100；不足时按比例线性给分，上限低于80，
// 保证"恰好达标"总是明显高于"未达标"。
func (s *Scorer) scoreExperience(resume *types.ResumeRecord, job *types.JobRecord) types.ExperienceMatch {
	have := resume.TotalExperienceYears
	need := parser.ParseExperienceYears(job.ExperienceRequired)

	match := types.ExperienceMatch{
		YearsExperience:   have,
		RequiredYears:     need,
		MeetsRequirements: have >= need,
		SeniorityMatch:    seniorityMatches(resume, job),
		RelevantYears:     relevantExperienceYears(resume, job),
	}

	switch {
	case need == 0:
		match.Score = 100
	case have >= need:
		match.Score = math.Min(100, 80+(have-need)*5)
	default:
		match.Score = math.Max(0, have/need*80)
	}
	return match
}

// scoreEducation 学历维度打分。
// 取简历中最高学历的序数与要求序数比较；
// 达标时每超出一级加5分，不足时按序数比例线性给分。
func (s *Scorer) scoreEducation(resume *types.ResumeRecord, job *types.JobRecord) types.EducationMatch {
	candidate := highestEducationOrdinal(resume)

	required, hasRequirement := EducationOrdinal(job.EducationRequired)
	if !hasRequirement || required == 0 {
		// 未声明学历要求与未声明经验要求同样取满分，
		// 技能维度的中性分80只用于"是否列出要求技能"的区分
		return types.EducationMatch{Score: 100, MeetsRequirements: true, HighestLevel: candidate}
	}

	if candidate == 0 {
		return types.EducationMatch{Score: 0}
	}
	if candidate >= required {
		return types.EducationMatch{
			Score:             math.Min(100, 80+5*float64(candidate-required)),
			MeetsRequirements: true,
			LevelMatch:        candidate == required,
			HighestLevel:      candidate,
		}
	}
	return types.EducationMatch{
		Score:        math.Max(0, 80*float64(candidate)/float64(required)),
		HighestLevel: candidate,
	}
}

// highestEducationOrdinal 简历全部教育经历中的最高学历序数
func highestEducationOrdinal(resume *types.ResumeRecord) int {
	highest := 0
	for _, edu := range resume.Education {
		if ord := degreeOrdinal(edu.Degree); ord > highest {
			highest = ord
		}
	}
	return highest
}

// degreeOrdinal 从学位自由文本映射到序数刻度
func degreeOrdinal(degree string) int {
	lower := strings.ToLower(degree)
	switch {
	case strings.Contains(lower, "phd") || strings.Contains(lower, "ph.d") ||
		strings.Contains(lower, "doctor"):
		return educationOrdinals["doctorate"]
	case strings.Contains(lower, "master") || strings.Contains(lower, "mba") ||
		strings.HasPrefix(lower, "m.s") || strings.HasPrefix(lower, "ms"):
		return educationOrdinals["master"]
	case strings.Contains(lower, "bachelor") ||
		strings.HasPrefix(lower, "b.s") || strings.HasPrefix(lower, "b.a"):
		return educationOrdinals["bachelor"]
	case strings.Contains(lower, "associate"):
		return educationOrdinals["associate"]
	case strings.Contains(lower, "diploma") || strings.Contains(lower, "certificate"):
		return educationOrdinals["certificate"]
	case strings.Contains(lower, "high school"):
		return educationOrdinals["high_school"]
	default:
		return 0
	}
}

// 各资历级别对应的经验年数区间，区间两端均含。
// 相邻级别有意重叠，处在过渡期的候选人两个级别都算匹配。
var seniorityYearRanges = map[types.SeniorityLevel][2]float64{
	types.SeniorityEntry:     {0, 2},
	types.SeniorityJunior:    {1, 3},
	types.SeniorityMid:       {3, 6},
	types.SenioritySenior:    {5, 10},
	types.SeniorityLead:      {7, 15},
	types.SeniorityExecutive: {10, 30},
}

// seniorityMatches 按经验年数区间判断候选人是否处在岗位要求的资历段。
// 职位头衔不参与判断，头衔通胀会让标题匹配给出系统性偏高的结果。
// 岗位未声明资历时视为匹配，未知的资历级别按零区间处理。
func seniorityMatches(resume *types.ResumeRecord, job *types.JobRecord) bool {
	if job.SeniorityLevel == "" {
		return true
	}
	yearRange := seniorityYearRanges[job.SeniorityLevel]
	years := resume.TotalExperienceYears
	return years >= yearRange[0] && years <= yearRange[1]
}

// relevantExperienceYears 岗位声明了行业时，只累计描述中提及该行业的经历时长
func relevantExperienceYears(resume *types.ResumeRecord, job *types.JobRecord) float64 {
	if job.Industry == "" {
		return resume.TotalExperienceYears
	}
	industry := strings.ToLower(job.Industry)
	var months int
	for _, exp := range resume.WorkExperience {
		if exp.DurationMonths == nil {
			continue
		}
		if strings.Contains(strings.ToLower(exp.Description), industry) {
			months += *exp.DurationMonths
		}
	}
	return float64(months) / 12
}

// matchLevel 整体得分到定性档位的映射
func matchLevel(overall float64) types.MatchLevel {
	switch {
	case overall >= 85:
		return types.MatchExcellent
	case overall >= 70:
		return types.MatchGood
	case overall >= 55:
		return types.MatchFair
	default:
		return types.MatchPoor
	}
}

// confidence 置信度为三个因子的均值，各因子先钳制到[0,1]再放大到0-100：
// 命中技能数/5（零命中时取0.3下限）、有任何工作经验取0.9否则0.5、
// 学历达标取0.9否则0.6。
func confidence(skillMatch types.SkillMatch, resume *types.ResumeRecord, eduMatch types.EducationMatch) float64 {
	skillFactor := float64(len(skillMatch.MatchedSkills)) / 5
	if len(skillMatch.MatchedSkills) == 0 {
		skillFactor = 0.3
	}
	if skillFactor > 1 {
		skillFactor = 1
	}

	expFactor := 0.5
	if resume.TotalExperienceYears > 0 {
		expFactor = 0.9
	}

	eduFactor := 0.6
	if eduMatch.MeetsRequirements {
		eduFactor = 0.9
	}

	return (skillFactor + expFactor + eduFactor) / 3 * 100
}

// recommendations 生成改进建议。
// 技能缺口建议只在整体得分低于70时给出，最多列5项；
// 经验与学历缺口只要存在就提示。
func recommendations(result types.MatchResult, resume *types.ResumeRecord, job *types.JobRecord) []string {
	var recs []string

	if result.OverallScore < 70 && len(result.SkillMatch.MissingSkills) > 0 {
		missing := result.SkillMatch.MissingSkills
		if len(missing) > 5 {
			missing = missing[:5]
		}
		recs = append(recs, fmt.Sprintf("Consider developing these skills: %s", strings.Join(missing, ", ")))
	}

	if !result.ExperienceMatch.MeetsRequirements {
		gap := result.ExperienceMatch.RequiredYears - result.ExperienceMatch.YearsExperience
		recs = append(recs, fmt.Sprintf("Gain %.1f more years of experience to meet the requirement", gap))
	}

	if !result.EducationMatch.MeetsRequirements && job.EducationRequired != "" {
		recs = append(recs, fmt.Sprintf("This position requires a %s level education", job.EducationRequired))
	}

	return recs
}

// resumeSemanticText 语义相似度的简历侧文本：
// 概要 + 全部经历描述 + 技能名 + 学历与专业 + 项目
func resumeSemanticText(resume *types.ResumeRecord) string {
	var b strings.Builder
	b.WriteString(resume.Summary)
	for _, exp := range resume.WorkExperience {
		b.WriteString("\n")
		b.WriteString(exp.Description)
	}
	for _, sk := range resume.Skills {
		b.WriteString("\n")
		b.WriteString(sk.Name)
	}
	for _, edu := range resume.Education {
		b.WriteString("\n")
		b.WriteString(edu.Degree)
		b.WriteString(" ")
		b.WriteString(edu.FieldOfStudy)
	}
	for _, p := range resume.Projects {
		b.WriteString("\n")
		b.WriteString(p)
	}
	return b.String()
}

// jobSemanticText 语义相似度的岗位侧文本：
// 描述全文 + 全部要求与偏好技能名 + 职责
func jobSemanticText(job *types.JobRecord) string {
	var b strings.Builder
	b.WriteString(job.Description)

	categories := make([]string, 0, len(job.RequiredSkills))
	for cat := range job.RequiredSkills {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		for _, skill := range job.RequiredSkills[cat] {
			b.WriteString("\n")
			b.WriteString(skill)
		}
	}
	for _, skill := range job.PreferredSkills {
		b.WriteString("\n")
		b.WriteString(skill)
	}
	for _, r := range job.Responsibilities {
		b.WriteString("\n")
		b.WriteString(r)
	}
	return b.String()
}
