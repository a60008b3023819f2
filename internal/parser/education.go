package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resume-match-go/internal/types"
)

var (
	// 学位及其后所跟专业方向，按顺序尝试
	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(bachelor(?:'?s)?|b\.?[sa]\.?)\s*(?:degree\s*)?(?:of|in)?\s*([^,\n(]*?)(?:\s+(?:from|at)\b|\s*[-|,(]|\s+(?:19|20)\d{2}|$)`),
		regexp.MustCompile(`(?i)\b(master(?:'?s)?|m\.?[sa]\.?|mba)\s*(?:degree\s*)?(?:of|in)?\s*([^,\n(]*?)(?:\s+(?:from|at)\b|\s*[-|,(]|\s+(?:19|20)\d{2}|$)`),
		regexp.MustCompile(`(?i)\b(ph\.?d\.?|doctorate|doctoral)\s*(?:degree\s*)?(?:of|in)?\s*([^,\n(]*?)(?:\s+(?:from|at)\b|\s*[-|,(]|\s+(?:19|20)\d{2}|$)`),
		regexp.MustCompile(`(?i)\b(associate(?:'?s)?|a\.?[sa]\.?)\s*(?:degree\s*)?(?:of|in)?\s*([^,\n(]*?)(?:\s+(?:from|at)\b|\s*[-|,(]|\s+(?:19|20)\d{2}|$)`),
		regexp.MustCompile(`(?i)\b(diploma|certificate)\s*(?:of|in)?\s*([^,\n(]*?)(?:\s+(?:from|at)\b|\s*[-|,(]|\s+(?:19|20)\d{2}|$)`),
	}

	institutionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(university\s+of\s+[a-z\s]+?)(?:\s*[-|,(\n]|\s+(?:19|20)\d{2}|$)`),
		regexp.MustCompile(`(?i)\b([a-z][a-z\s.&']+?\s+(?:university|college|institute|school))\b`),
	}

	gpaPattern      = regexp.MustCompile(`(?i)\bgpa[:\s]*([0-4](?:\.\d{1,2})?)\b`)
	gradYearExtract = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// ExtractEducation 从教育段文本抽取教育经历。
// 段落缺失时调用方可传入整份文档。按条目边界切块后逐块解析，
// 任一字段无匹配则留空，长度不足10个字符的块视为噪声丢弃。
func ExtractEducation(sectionText string) []types.EducationRecord {
	var records []types.EducationRecord
	for _, chunk := range splitEducationChunks(sectionText) {
		if len(strings.TrimSpace(chunk)) <= 10 {
			continue
		}
		rec := parseEducationChunk(chunk)
		// 既无学位也无毕业年份的块视为噪声
		if rec.Degree == "" && rec.GraduationYear == nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// splitEducationChunks 按条目边界切块。
// 空行是首选边界；归一化后的文本不含空行，
// 此时含学位关键词的行作为新条目的起点。
func splitEducationChunks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if strings.Contains(text, "\n\n") {
		return strings.Split(text, "\n\n")
	}

	var chunks []string
	var current []string
	currentHasDegree := false
	for _, line := range strings.Split(text, "\n") {
		hasDegree := containsDegreeKeyword(line)
		// 机构名常在学位行的上一行，只有当前块已含学位行时才另起新块
		if hasDegree && currentHasDegree {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = current[:0]
			currentHasDegree = false
		}
		current = append(current, line)
		currentHasDegree = currentHasDegree || hasDegree
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}

var degreeKeywords = []string{"bachelor", "master", "phd", "ph.d", "doctorate", "associate", "diploma", "certificate", "b.s", "m.s", "mba"}

func containsDegreeKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range degreeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func parseEducationChunk(chunk string) types.EducationRecord {
	var rec types.EducationRecord

	for _, p := range degreePatterns {
		if m := p.FindStringSubmatch(chunk); m != nil {
			rec.Degree = strings.TrimSpace(m[1])
			rec.FieldOfStudy = strings.TrimSpace(m[2])
			break
		}
	}

	for _, p := range institutionPatterns {
		if m := p.FindStringSubmatch(chunk); m != nil {
			rec.Institution = strings.TrimSpace(m[1])
			break
		}
	}
	if rec.Institution == "" {
		lines := NonEmptyLines(chunk)
		if len(lines) > 0 {
			rec.Institution = lines[0]
		}
	}

	if m := gradYearExtract.FindStringSubmatch(chunk); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			rec.GraduationYear = &year
		}
	}

	if m := gpaPattern.FindStringSubmatch(chunk); m != nil {
		if gpa, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.GPA = &gpa
		}
	}

	return rec
}
