// Package parser 实现简历与岗位描述的文本解析流水线：
// 归一化 -> 分段 -> 实体抽取。各阶段都是纯函数，可独立调用。
package parser

import (
	"regexp"
	"strings"
)

// 行内允许保留的字符：单词字符、常见标点、邮箱和URL中的安全符号
var disallowedCharPattern = regexp.MustCompile(`[^\w\s.,;:()\-+#@/&%$'"!?]`)

// 行内连续空白
var whitespaceRunPattern = regexp.MustCompile(`[ \t\x{00A0}]+`)

// NormalizeText 清洗原始提取文本。
// 逐行处理：压缩行内空白、剔除白名单以外的字符、去除首尾空白，
// 丢弃清洗后变为空的行。必须保留行的顺序和逐行结构，
// 分段器依赖行的相邻关系识别段落边界，不能做段落重排。
// 空输入返回空串，不产生错误。
func NormalizeText(raw string) string {
	if raw == "" {
		return ""
	}

	// 统一换行符
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = disallowedCharPattern.ReplaceAllString(line, " ")
		line = whitespaceRunPattern.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// NonEmptyLines 返回文本中全部非空行，保持原有顺序
func NonEmptyLines(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
