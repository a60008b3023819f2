package parser

import (
	"regexp"
	"strings"
	"unicode"

	"resume-match-go/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// 北美风格电话号码，按顺序尝试，先匹配到的生效
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[\s\-.]?\(\d{3}\)[\s\-.]?\d{3}[\s\-.]?\d{4}`),
		regexp.MustCompile(`\+?1?[\s\-.]?\d{3}[\s\-.]\d{3}[\s\-.]\d{4}`),
		regexp.MustCompile(`\+?\d{1,3}[\s\-.]?\d{10,11}`),
	}

	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9\-_%]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9\-_]+`)

	// "City, ST" 或 "City, State" 形式的地址行
	locationPattern = regexp.MustCompile(`(?m)^([A-Z][a-zA-Z.\s]+,\s*(?:[A-Z]{2}|[A-Z][a-zA-Z\s]+))$`)

	jobTitleKeywords = []string{
		"engineer", "developer", "manager", "analyst", "director", "specialist",
		"consultant", "architect", "scientist", "designer", "administrator",
	}
)

// ExtractContactInfo 在整份清洗后的文档上抽取联系方式。
// 联系方式通常出现在任何段落标题之前，所以不做段落限定。
// 所有字段都是尽力而为，无匹配则留空，不报错。
func ExtractContactInfo(text string) types.ContactInfo {
	var info types.ContactInfo

	if m := emailPattern.FindString(text); m != "" {
		info.Email = m
	}
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			info.Phone = strings.TrimSpace(m)
			break
		}
	}
	if m := linkedinPattern.FindString(text); m != "" {
		info.LinkedIn = m
	}
	if m := githubPattern.FindString(text); m != "" {
		info.GitHub = m
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		info.Location = strings.TrimSpace(m[1])
	}
	info.Name = extractCandidateName(text)

	return info
}

// extractCandidateName 从文档头部启发式识别候选人姓名。
// 扫描前10个非空行，跳过含'@'、数字或括号的行；
// 优先选择2到4个词、每个字母词都首字母大写、且不含职位关键词的行；
// 没有满足条件的行时，退而取前两个词均为大写字母开头的首行。
func extractCandidateName(text string) string {
	lines := NonEmptyLines(text)
	if len(lines) > 10 {
		lines = lines[:10]
	}

	var fallback string
	for _, line := range lines {
		if strings.ContainsAny(line, "@()") || strings.ContainsFunc(line, unicode.IsDigit) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}
		if fallback == "" && isCapitalizedWord(words[0]) && isCapitalizedWord(words[1]) {
			fallback = line
		}
		if len(words) > 4 {
			continue
		}
		if allWordsCapitalized(words) && !containsJobTitleKeyword(line) {
			return line
		}
	}
	return fallback
}

func isCapitalizedWord(w string) bool {
	runes := []rune(w)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func allWordsCapitalized(words []string) bool {
	for _, w := range words {
		hasLetter := false
		for _, r := range w {
			if unicode.IsLetter(r) {
				hasLetter = true
				break
			}
		}
		if !hasLetter {
			continue
		}
		if !unicode.IsUpper([]rune(w)[0]) {
			return false
		}
	}
	return true
}

func containsJobTitleKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range jobTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
