package parser

import (
	"regexp"
	"strings"
)

// 规范段落名
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
)

// 段落标题模式，按声明顺序逐一尝试
var sectionHeaderPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{SectionSummary, regexp.MustCompile(`(?i)^(professional\s+)?(summary|objective|profile|about)\b`)},
	{SectionExperience, regexp.MustCompile(`(?i)^(work\s+|professional\s+|employment\s+)?(experience|employment|career|work\s+history)\b`)},
	{SectionEducation, regexp.MustCompile(`(?i)^(education|academic|qualifications)\b`)},
	{SectionSkills, regexp.MustCompile(`(?i)^((technical|core)\s+)?(skills|technologies|competencies)\b`)},
	{SectionProjects, regexp.MustCompile(`(?i)^(projects|portfolio)\b`)},
	{SectionCertifications, regexp.MustCompile(`(?i)^(certifications?|licenses?)\b`)},
	{SectionLanguages, regexp.MustCompile(`(?i)^languages\b`)},
}

// maxHeaderWords 段落标题行的最大词数，超过则视为正文
const maxHeaderWords = 5

// SegmentSections 将清洗后的文本按段落标题切分为规范段落名到段落文本的映射。
// 首个标题之前的内容默认归入 summary 段。
// 未出现的段落在结果中缺失，调用方应视缺失为"无数据"而非错误。
// 全文无任何标题时返回仅含 summary 的单段结果，这是预期行为。
func SegmentSections(text string) map[string]string {
	sections := make(map[string]string)
	if text == "" {
		return sections
	}

	current := SectionSummary
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		block := strings.TrimSpace(strings.Join(buf, "\n"))
		if block == "" {
			buf = buf[:0]
			return
		}
		if prev, ok := sections[current]; ok {
			sections[current] = prev + "\n" + block
		} else {
			sections[current] = block
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name, ok := matchSectionHeader(trimmed); ok {
			flush()
			current = name
			continue
		}
		buf = append(buf, trimmed)
	}
	flush()

	return sections
}

// matchSectionHeader 判断单行是否为段落标题，是则返回规范段落名
func matchSectionHeader(line string) (string, bool) {
	if len(strings.Fields(line)) > maxHeaderWords {
		return "", false
	}
	// 标题行通常以冒号或整行形式出现，去掉尾部冒号再匹配
	candidate := strings.TrimSuffix(strings.TrimSpace(line), ":")
	for _, h := range sectionHeaderPatterns {
		if h.pattern.MatchString(candidate) {
			return h.name, true
		}
	}
	return "", false
}
