package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSummaryCollapsesWhitespace(t *testing.T) {
	summary := CleanSummary("Backend engineer with a decade\n   of experience building\tdistributed systems")
	assert.Equal(t, "Backend engineer with a decade of experience building distributed systems", summary)
}

func TestCleanSummaryDropsShortNoise(t *testing.T) {
	assert.Empty(t, CleanSummary("Summary"), "段落标题残留不应作为概要保留")
	assert.Empty(t, CleanSummary("   \n  "))
}

func TestExtractCertificationsFromBody(t *testing.T) {
	text := `John worked on cloud migrations.
AWS Certified Solutions Architect
Holds a certification in Scrum practices
PMP certified since 2019`

	certs := ExtractCertifications(text)
	assert.NotEmpty(t, certs)

	joined := fmt.Sprint(certs)
	assert.Contains(t, joined, "AWS Certified Solutions Architect")
	assert.Contains(t, joined, "PMP certified")
}

func TestExtractCertificationsDeduplicates(t *testing.T) {
	text := "AWS Certified Developer\nAWS Certified Developer"
	certs := ExtractCertifications(text)

	seen := make(map[string]int)
	for _, c := range certs {
		seen[c]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "证书 %q 重复出现", c)
	}
}

func TestExtractProjectsFromActionVerbs(t *testing.T) {
	text := `Experience
Built a real-time fraud detection pipeline
Developed internal billing dashboards for finance
Created x`

	projects := ExtractProjects(text)
	assert.Contains(t, projects, "a real-time fraud detection pipeline")
	assert.Contains(t, projects, "internal billing dashboards for finance")
	for _, p := range projects {
		assert.Greater(t, len(p), 10, "过短的命中应被当作噪声丢弃")
	}
}

func TestExtractProjectsCapped(t *testing.T) {
	var text string
	for i := 0; i < 15; i++ {
		text += fmt.Sprintf("Project: internal service number %02d rollout\n", i)
	}
	projects := ExtractProjects(text)
	assert.Len(t, projects, 10)
}

func TestExtractLanguagesWholeWord(t *testing.T) {
	text := "Fluent in English and Spanish. Worked with Polish teams."
	langs := ExtractLanguages(text)
	assert.Equal(t, []string{"English", "Spanish"}, langs)
}

func TestExtractLanguagesNoPartialMatch(t *testing.T) {
	// Finnish 不应命中单词内部的片段
	langs := ExtractLanguages("Refinnished the basement")
	assert.NotContains(t, langs, "Finnish")
}
