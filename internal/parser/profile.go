package parser

import (
	"regexp"
	"strings"
)

var (
	// 证书识别模式：动词短语、缩写机构与主流厂商前缀三类
	certificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:certified|certification)[ \t]+[\w \t]+`),
		regexp.MustCompile(`(?i)\b[A-Z]{2,}[ \t]+certified`),
		regexp.MustCompile(`(?i)\b(?:AWS|Azure|Google|Microsoft|Oracle|Cisco|CompTIA)[ \t\w]+`),
	}

	// 项目识别模式：显式的Project条目与成果动词开头的描述
	projectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)project[:\s]+(.+)$`),
		regexp.MustCompile(`(?im)\bbuilt\s+(.+)$`),
		regexp.MustCompile(`(?im)\bdeveloped\s+(.+)$`),
		regexp.MustCompile(`(?im)\bcreated\s+(.+)$`),
	}

	// 语言能力的封闭词表，按整词匹配
	knownLanguages = []string{
		"English", "Spanish", "French", "German", "Italian", "Portuguese",
		"Chinese", "Japanese", "Korean", "Arabic", "Hindi", "Russian",
		"Dutch", "Swedish", "Norwegian", "Danish", "Finnish",
	}

	languagePatterns = buildLanguagePatterns()

	whitespaceRun = regexp.MustCompile(`\s+`)
)

func buildLanguagePatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(knownLanguages))
	for _, lang := range knownLanguages {
		patterns[lang] = regexp.MustCompile(`(?i)\b` + lang + `\b`)
	}
	return patterns
}

// maxProjects 单份简历保留的项目条目上限
const maxProjects = 10

// minSummaryLength 低于该长度的概要视为噪声丢弃
const minSummaryLength = 20

// CleanSummary 清洗概要段：压缩空白为单个空格，
// 过短的概要（通常是段落标题残留）返回空串。
func CleanSummary(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minSummaryLength {
		return ""
	}
	return whitespaceRun.ReplaceAllString(trimmed, " ")
}

// ExtractCertifications 在整份文档上识别证书与认证。
// 简历常把认证写在经历或概要里而不是单独的段落，
// 所以不依赖分段结果。命中按首次出现的顺序去重。
func ExtractCertifications(text string) []string {
	var certs []string
	seen := make(map[string]struct{})
	for _, p := range certificationPatterns {
		for _, m := range p.FindAllString(text, -1) {
			cert := strings.TrimSpace(m)
			if cert == "" {
				continue
			}
			key := strings.ToLower(cert)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			certs = append(certs, cert)
		}
	}
	return certs
}

// ExtractProjects 在整份文档上识别项目描述。
// 捕获组取到行尾，不足10个字符的命中视为噪声丢弃，最多保留10条。
func ExtractProjects(text string) []string {
	var projects []string
	for _, p := range projectPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			desc := strings.TrimSpace(m[1])
			if len(desc) <= 10 {
				continue
			}
			projects = append(projects, desc)
			if len(projects) >= maxProjects {
				return projects
			}
		}
	}
	return projects
}

// ExtractLanguages 在整份文档上按封闭词表识别语言能力，
// 返回顺序与词表一致，保证同一输入产出相同结果。
func ExtractLanguages(text string) []string {
	var langs []string
	for _, lang := range knownLanguages {
		if languagePatterns[lang].MatchString(text) {
			langs = append(langs, lang)
		}
	}
	return langs
}
