package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

func TestExtractDateRangeYearPair(t *testing.T) {
	dr := ExtractDateRange("Software Engineer at Google (2020-2023)")
	assert.Equal(t, "2020", dr.Start)
	assert.Equal(t, "2023", dr.End)
}

func TestExtractDateRangeOpenEnded(t *testing.T) {
	dr := ExtractDateRange("Jan 2020 - Present")
	assert.Equal(t, "Jan 2020", dr.Start)
	assert.Equal(t, PresentSentinel, dr.End)
}

func TestExtractDateRangeSingleYear(t *testing.T) {
	dr := ExtractDateRange("Graduated in 2019")
	assert.Equal(t, "2019", dr.Start)
	assert.Empty(t, dr.End)
}

func TestExtractDateRangeNoDates(t *testing.T) {
	dr := ExtractDateRange("no dates in this text")
	assert.Empty(t, dr.Start)
	assert.Empty(t, dr.End)
}

func TestDurationMonthsYearPair(t *testing.T) {
	got := DurationMonths("2019", "2023", fixedNow)
	require.NotNil(t, got)
	assert.Equal(t, 48, *got)
}

func TestDurationMonthsPresent(t *testing.T) {
	// 固定"当前时间"为2023年6月，2019年1月起算为53个月
	got := DurationMonths("2019", PresentSentinel, fixedNow)
	require.NotNil(t, got)
	assert.Equal(t, 53, *got)
}

func TestDurationMonthsMonthGranularity(t *testing.T) {
	got := DurationMonths("Mar 2020", "Jun 2022", fixedNow)
	require.NotNil(t, got)
	assert.Equal(t, 27, *got)
}

func TestDurationMonthsUnparseable(t *testing.T) {
	assert.Nil(t, DurationMonths("unknown", "2023", fixedNow),
		"无法解析的日期必须返回nil而不是0")
	assert.Nil(t, DurationMonths("", "", fixedNow))
	assert.Nil(t, DurationMonths("2023", "2019", fixedNow), "负时长视为解析失败")
}
