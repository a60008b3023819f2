package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PresentSentinel 在职经历的结束日期哨兵值
const PresentSentinel = "Present"

var (
	yearTokenPattern      = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	monthYearTokenPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(19\d{2}|20\d{2})\b`)
	numericDatePattern    = regexp.MustCompile(`\b(0?[1-9]|1[0-2])/(?:[0-3]?\d/)?(19\d{2}|20\d{2})\b`)
	openEndedPattern      = regexp.MustCompile(`(?i)\b(present|current|now)\b`)
)

var monthOrdinals = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// DateRange 从文本中抽取出的起止日期
type DateRange struct {
	Start string
	End   string
}

// ExtractDateRange 在经历条目文本中搜索日期标记并组装起止区间。
// 依次识别"月份名+年份"、MM/DD/YYYY、纯4位年份三类标记；
// "present"、"current"、"now" 视为开放结束标记。
// 两个日期标记时前者为起、后者为止；一个标记加开放标记时结束取哨兵值。
// 无任何标记时返回零值，不报错。
func ExtractDateRange(text string) DateRange {
	openEnded := openEndedPattern.MatchString(text)

	tokens := collectDateTokens(text)
	var dr DateRange
	switch {
	case len(tokens) >= 2:
		dr.Start = tokens[0]
		dr.End = tokens[1]
		if openEnded && tokens[1] == tokens[0] {
			dr.End = PresentSentinel
		}
	case len(tokens) == 1:
		dr.Start = tokens[0]
		if openEnded {
			dr.End = PresentSentinel
		}
	}
	return dr
}

type dateSpan struct {
	start, end int
	token      string
}

// collectDateTokens 按出现位置收集文本中的日期标记。
// 月份名+年份的组合优先于其中裸露的年份，避免同一位置重复计数。
func collectDateTokens(text string) []string {
	var spans []dateSpan

	for _, loc := range monthYearTokenPattern.FindAllStringIndex(text, -1) {
		spans = append(spans, dateSpan{loc[0], loc[1], text[loc[0]:loc[1]]})
	}
	for _, loc := range numericDatePattern.FindAllStringIndex(text, -1) {
		if !overlaps(spans, loc) {
			spans = append(spans, dateSpan{loc[0], loc[1], text[loc[0]:loc[1]]})
		}
	}
	for _, loc := range yearTokenPattern.FindAllStringIndex(text, -1) {
		if !overlaps(spans, loc) {
			spans = append(spans, dateSpan{loc[0], loc[1], text[loc[0]:loc[1]]})
		}
	}

	// 按出现位置排序（插入排序，标记数量很小）
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	tokens := make([]string, 0, len(spans))
	for _, s := range spans {
		tokens = append(tokens, s.token)
	}
	return tokens
}

func overlaps(spans []dateSpan, loc []int) bool {
	for _, s := range spans {
		if loc[0] < s.end && loc[1] > s.start {
			return true
		}
	}
	return false
}

// parseDateToken 将日期标记解析为年和月，月份未知时取1月。
// 解析失败返回 ok=false。
func parseDateToken(token string, now time.Time) (year, month int, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, 0, false
	}
	if strings.EqualFold(token, PresentSentinel) ||
		strings.EqualFold(token, "current") || strings.EqualFold(token, "now") {
		return now.Year(), int(now.Month()), true
	}

	if m := monthYearTokenPattern.FindStringSubmatch(token); m != nil {
		mon, found := monthOrdinals[strings.ToLower(m[1][:3])]
		if !found {
			return 0, 0, false
		}
		y, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, false
		}
		return y, mon, true
	}

	if m := numericDatePattern.FindStringSubmatch(token); m != nil {
		mon, err1 := strconv.Atoi(m[1])
		y, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return y, mon, true
	}

	if m := yearTokenPattern.FindStringSubmatch(token); m != nil {
		y, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, false
		}
		return y, 1, true
	}

	return 0, 0, false
}

// DurationMonths 计算起止日期之间的整月数。
// 结束日期为哨兵值时按 now 计算。任一端解析失败返回 nil，
// 调用方不得把"未知时长"当作0个月。
func DurationMonths(start, end string, now time.Time) *int {
	if start == "" || end == "" {
		return nil
	}
	sy, sm, ok := parseDateToken(start, now)
	if !ok {
		return nil
	}
	ey, em, ok := parseDateToken(end, now)
	if !ok {
		return nil
	}
	months := (ey-sy)*12 + (em - sm)
	if months < 0 {
		return nil
	}
	return &months
}
