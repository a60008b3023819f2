package parser

import (
	"regexp"
	"strings"
	"time"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/types"
)

var (
	// 带括号的4位年份区间，如 (2020-2023)、(2020 2023)
	parenYearRangePattern = regexp.MustCompile(`\((19|20)\d{2}[\s\-–]*((19|20)\d{2}|present|current)?\)?`)

	// 条目首行中内嵌的日期括号，从公司名中剥离
	embeddedDateParenPattern = regexp.MustCompile(`\([^)]*(19|20)\d{2}[^)]*\)`)

	bulletPrefixPattern = regexp.MustCompile(`^\s*[-•*·]\s*`)

	achievementKeywords = []string{
		"achieved", "improved", "increased", "reduced",
		"led", "managed", "developed", "created",
	}
)

// ExperienceExtractor 工作经历抽取器，技能库用于条目内技能识别
type ExperienceExtractor struct {
	skills *knowledge.SkillDB
	now    func() time.Time
}

// NewExperienceExtractor 创建工作经历抽取器
func NewExperienceExtractor(db *knowledge.SkillDB) *ExperienceExtractor {
	return &ExperienceExtractor{skills: db, now: time.Now}
}

// WithClock 替换时钟，仅测试使用
func (x *ExperienceExtractor) WithClock(now func() time.Time) *ExperienceExtractor {
	x.now = now
	return x
}

// Extract 从经历段文本抽取工作经历列表。
// 先按条目起始行切分，无任何起始行时退化为按块切分。
// 各字段均为尽力而为，抽取失败留空，不报错。
func (x *ExperienceExtractor) Extract(sectionText string) []types.WorkExperienceRecord {
	blocks := splitExperienceBlocks(sectionText)
	records := make([]types.WorkExperienceRecord, 0, len(blocks))
	for _, block := range blocks {
		records = append(records, x.parseEntry(block))
	}
	return records
}

// isEntryStartLine 判断一行是否开启新的经历条目。
// 条件：包含 " at " 或带括号的4位年份区间，且词数在3到20之间，
// 词数上限是对"职位+公司"行长度的启发式约束。
func isEntryStartLine(line string) bool {
	wordCount := len(strings.Fields(line))
	if wordCount < 3 || wordCount > 20 {
		return false
	}
	lower := strings.ToLower(line)
	return strings.Contains(lower, " at ") || parenYearRangePattern.MatchString(lower)
}

// splitExperienceBlocks 将经历段切为逐条目的文本块
func splitExperienceBlocks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	var blocks []string
	var current []string
	started := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isEntryStartLine(line) {
			if started && len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = current[:0]
			}
			started = true
		}
		if started {
			current = append(current, line)
		}
	}
	if started && len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	if len(blocks) > 0 {
		return blocks
	}

	// 退化路径：按空行或项目符号切块，保留长度不低于20字符的块
	var fallback []string
	for _, chunk := range splitOnBlankOrBullets(text) {
		if len(strings.TrimSpace(chunk)) >= 20 {
			fallback = append(fallback, strings.TrimSpace(chunk))
		}
	}
	return fallback
}

func splitOnBlankOrBullets(text string) []string {
	if strings.Contains(text, "\n\n") {
		return strings.Split(text, "\n\n")
	}
	var chunks []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if bulletPrefixPattern.MatchString(line) && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

// parseEntry 解析单条经历：首行拆出职位与公司，
// 其余行按成就关键词分入成就或职责，整块文本用于日期与技能抽取。
func (x *ExperienceExtractor) parseEntry(block string) types.WorkExperienceRecord {
	var rec types.WorkExperienceRecord
	lines := NonEmptyLines(block)
	if len(lines) == 0 {
		return rec
	}

	rec.Title, rec.Company = splitTitleCompany(lines[0])
	rec.Description = block

	for _, line := range lines[1:] {
		line = bulletPrefixPattern.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		if isAchievementLine(line) {
			rec.Achievements = append(rec.Achievements, line)
		} else {
			rec.Responsibilities = append(rec.Responsibilities, line)
		}
	}

	dr := ExtractDateRange(block)
	rec.StartDate = dr.Start
	rec.EndDate = dr.End
	rec.DurationMonths = DurationMonths(dr.Start, dr.End, x.now())

	rec.SkillsUsed = x.skills.FindAllNames(block)
	return rec
}

// splitTitleCompany 将条目首行拆为职位和公司。
// 依次尝试 " at "、管道符、连字符、逗号四种分隔符，
// 公司名一侧剥离内嵌的日期括号。
func splitTitleCompany(line string) (title, company string) {
	separators := []string{" at ", "|", " - ", ","}
	for _, sep := range separators {
		var idx int
		if sep == " at " {
			idx = strings.Index(strings.ToLower(line), sep)
		} else {
			idx = strings.Index(line, sep)
		}
		if idx <= 0 {
			continue
		}
		title = strings.TrimSpace(line[:idx])
		company = strings.TrimSpace(line[idx+len(sep):])
		company = strings.TrimSpace(embeddedDateParenPattern.ReplaceAllString(company, ""))
		return title, company
	}
	return strings.TrimSpace(embeddedDateParenPattern.ReplaceAllString(line, "")), ""
}

func isAchievementLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range achievementKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
