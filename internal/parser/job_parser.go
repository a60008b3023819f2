package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/types"
)

var (
	requirementHeaderPattern    = regexp.MustCompile(`(?i)^(requirements?|qualifications?|skills|must\s+have|you\s+should\s+have|what\s+you.ll\s+need)\b`)
	preferredHeaderPattern      = regexp.MustCompile(`(?i)^(preferred|nice[\s\-]to[\s\-]have|bonus|plus|good\s+to\s+have)\b`)
	responsibilityHeaderPattern = regexp.MustCompile(`(?i)^(responsibilities|duties|what\s+you.ll\s+do|the\s+role)\b`)

	requiredIndicatorWords  = []string{"required", "must", "essential", "mandatory"}
	preferredIndicatorWords = []string{"preferred", "nice to have", "plus", "bonus", "desirable"}

	experienceYearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs?)(?:\s+of)?(?:\s+(?:relevant|professional|industry|hands.on))?\s*(?:experience)?`)

	salaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$\s?\d{2,3}(?:,\d{3})?(?:k)?\s*[-–to]+\s*\$?\s?\d{2,3}(?:,\d{3})?(?:k)?`),
		regexp.MustCompile(`(?i)\d{2,3}k\s*[-–to]+\s*\d{2,3}k`),
	}

	educationRequirementPatterns = []struct {
		level   string
		pattern *regexp.Regexp
	}{
		{"doctorate", regexp.MustCompile(`(?i)\b(ph\.?d\.?|doctorate|doctoral)\b`)},
		{"master", regexp.MustCompile(`(?i)\b(master(?:'?s)?|m\.?s\.?|mba)\b`)},
		{"bachelor", regexp.MustCompile(`(?i)\b(bachelor(?:'?s)?|b\.?s\.?|b\.?a\.?|undergraduate\s+degree)\b`)},
		{"associate", regexp.MustCompile(`(?i)\b(associate(?:'?s)?\s+degree)\b`)},
	}

	seniorityKeywordLevels = []struct {
		level    types.SeniorityLevel
		keywords []string
	}{
		{types.SeniorityExecutive, []string{"director", "manager", "vp", "vice president", "chief", "head of"}},
		{types.SeniorityLead, []string{"lead", "principal", "staff engineer"}},
		{types.SenioritySenior, []string{"senior", "sr."}},
		{types.SeniorityMid, []string{"mid-level", "intermediate", "experienced"}},
		{types.SeniorityEntry, []string{"entry", "junior", "associate", "graduate", "intern"}},
	}
)

// JobExtractor 岗位描述抽取器
type JobExtractor struct {
	skills *knowledge.SkillDB
}

// NewJobExtractor 创建岗位抽取器，与简历侧共用同一个技能库实例，
// 规范名的一致性是两侧技能互相匹配的前提
func NewJobExtractor(db *knowledge.SkillDB) *JobExtractor {
	return &JobExtractor{skills: db}
}

// Extract 解析岗位描述全文，组装结构化岗位记录。
// 各字段独立抽取，无匹配留空，不报错。
func (x *JobExtractor) Extract(text, title, company string) types.JobRecord {
	cleaned := NormalizeText(text)
	job := types.JobRecord{
		Title:       title,
		Company:     company,
		Description: text,
	}

	reqText, prefText, respLines := splitJobSubsections(cleaned)

	job.Requirements = x.extractRequirements(reqText)
	job.RequiredSkills = x.groupRequirements(job.Requirements)
	job.PreferredSkills = x.extractPreferredSkills(prefText, job.Requirements)
	job.Responsibilities = respLines

	job.ExperienceRequired = extractExperienceRequirement(cleaned)
	job.EducationRequired = extractEducationRequirement(cleaned)
	job.SalaryRange = extractSalaryRange(cleaned)
	job.SeniorityLevel = inferSeniority(title + "\n" + cleaned)
	if job.Company == "" {
		job.Company = extractJobCompany(cleaned)
	}
	job.Location = extractJobLocation(cleaned)

	return job
}

// splitJobSubsections 按子段标题把岗位描述切为
// 要求段、偏好段和职责行列表。未找到要求段标题时整篇视为要求段。
func splitJobSubsections(text string) (reqText, prefText string, respLines []string) {
	const (
		stateOther = iota
		stateRequirements
		statePreferred
		stateResponsibilities
	)
	state := stateOther

	var reqBuf, prefBuf []string
	sawReqHeader := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSuffix(strings.TrimSpace(line), ":")
		if trimmed == "" {
			continue
		}
		if len(strings.Fields(trimmed)) <= maxHeaderWords {
			switch {
			case preferredHeaderPattern.MatchString(trimmed):
				state = statePreferred
				continue
			case requirementHeaderPattern.MatchString(trimmed):
				state = stateRequirements
				sawReqHeader = true
				continue
			case responsibilityHeaderPattern.MatchString(trimmed):
				state = stateResponsibilities
				continue
			}
		}
		switch state {
		case stateRequirements:
			reqBuf = append(reqBuf, line)
		case statePreferred:
			prefBuf = append(prefBuf, line)
		case stateResponsibilities:
			respLines = append(respLines, bulletPrefixPattern.ReplaceAllString(line, ""))
		}
	}

	reqText = strings.Join(reqBuf, "\n")
	if !sawReqHeader {
		reqText = text
	}
	return reqText, strings.Join(prefBuf, "\n"), respLines
}

// extractRequirements 在要求段中识别技能库条目并给出要求强度。
// 要求强度的上下文限定在技能所在行内，跨行取窗口会让相邻条目的
// 指示词互相污染。行内出现必需指示词记1.0且必需，
// 偏好指示词记0.6且非必需，否则记0.8且非必需；
// 同时解析同一行中"<N>+ years"形式的最低年限。
func (x *JobExtractor) extractRequirements(reqText string) []types.JobRequirement {
	if strings.TrimSpace(reqText) == "" {
		return nil
	}
	var reqs []types.JobRequirement
	seen := make(map[string]struct{})
	for _, line := range strings.Split(reqText, "\n") {
		for _, e := range x.skills.FindAll(line) {
			if _, dup := seen[strings.ToLower(e.Name)]; dup {
				continue
			}
			seen[strings.ToLower(e.Name)] = struct{}{}

			importance, required := requirementStrength(line)
			req := types.JobRequirement{
				Skill:      e.Name,
				Category:   e.Category,
				Importance: importance,
				Required:   required,
			}
			if m := experienceYearsPattern.FindStringSubmatch(line); m != nil {
				if years, err := strconv.Atoi(m[1]); err == nil {
					req.MinimumYears = &years
				}
			}
			reqs = append(reqs, req)
		}
	}
	return reqs
}

func requirementStrength(ctx string) (importance float64, required bool) {
	lower := strings.ToLower(ctx)
	for _, w := range requiredIndicatorWords {
		if strings.Contains(lower, w) {
			return 1.0, true
		}
	}
	for _, w := range preferredIndicatorWords {
		if strings.Contains(lower, w) {
			return 0.6, false
		}
	}
	return 0.8, false
}

// groupRequirements 把要求按打分分组聚合成类别到技能名列表的映射
func (x *JobExtractor) groupRequirements(reqs []types.JobRequirement) map[string][]string {
	if len(reqs) == 0 {
		return nil
	}
	grouped := make(map[string][]string)
	for _, r := range reqs {
		group := "other"
		if e, ok := x.skills.Lookup(r.Skill); ok {
			group = e.Group
		}
		grouped[group] = append(grouped[group], r.Skill)
	}
	return grouped
}

// extractPreferredSkills 收集偏好段中的技能，排除已进入要求列表的项
func (x *JobExtractor) extractPreferredSkills(prefText string, reqs []types.JobRequirement) []string {
	if strings.TrimSpace(prefText) == "" {
		return nil
	}
	inReqs := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		inReqs[strings.ToLower(r.Skill)] = struct{}{}
	}
	var preferred []string
	for _, name := range x.skills.FindAllNames(prefText) {
		if _, dup := inReqs[strings.ToLower(name)]; dup {
			continue
		}
		preferred = append(preferred, name)
	}
	return preferred
}

// extractExperienceRequirement 抽取经验要求原文，如 "3+ years"
func extractExperienceRequirement(text string) string {
	if m := experienceYearsPattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// ParseExperienceYears 从经验要求原文解析数字下限，解析失败返回0，
// 0 在打分中代表"未声明要求"
func ParseExperienceYears(requirement string) float64 {
	m := experienceYearsPattern.FindStringSubmatch(requirement)
	if m == nil {
		return 0
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(years)
}

func extractEducationRequirement(text string) string {
	for _, p := range educationRequirementPatterns {
		if p.pattern.MatchString(text) {
			return p.level
		}
	}
	return ""
}

func extractSalaryRange(text string) string {
	for _, p := range salaryPatterns {
		if m := p.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// inferSeniority 按关键词映射推断资历级别，高级别优先匹配
func inferSeniority(text string) types.SeniorityLevel {
	lower := strings.ToLower(text)
	for _, s := range seniorityKeywordLevels {
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				return s.level
			}
		}
	}
	return ""
}

var (
	jobCompanyPattern  = regexp.MustCompile(`(?i)(?:company|employer|about)\s*:\s*([^\n]+)`)
	jobLocationPattern = regexp.MustCompile(`(?i)location\s*:\s*([^\n]+)`)
)

func extractJobCompany(text string) string {
	if m := jobCompanyPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractJobLocation(text string) string {
	if m := jobLocationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
