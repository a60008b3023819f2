package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentSectionsBasic(t *testing.T) {
	sections := SegmentSections("Experience\nfoo\nEducation\nbar")

	require.Len(t, sections, 2)
	assert.Equal(t, "foo", sections[SectionExperience])
	assert.Equal(t, "bar", sections[SectionEducation])
	_, hasSummary := sections[SectionSummary]
	assert.False(t, hasSummary, "标题前没有内容时不应出现summary段")
}

func TestSegmentSectionsPreHeaderContent(t *testing.T) {
	text := "John Doe\njohn@example.com\nWork Experience\nEngineer at Acme"
	sections := SegmentSections(text)

	assert.Equal(t, "John Doe\njohn@example.com", sections[SectionSummary],
		"首个标题之前的内容归入summary")
	assert.Equal(t, "Engineer at Acme", sections[SectionExperience])
}

func TestSegmentSectionsNoHeaders(t *testing.T) {
	text := "Just a plain paragraph\nwith no headers anywhere"
	sections := SegmentSections(text)

	require.Len(t, sections, 1)
	assert.Equal(t, text, sections[SectionSummary], "无标题文档整体归入summary")
}

func TestSegmentSectionsHeaderVariants(t *testing.T) {
	cases := map[string]string{
		"Professional Summary": SectionSummary,
		"WORK EXPERIENCE":      SectionExperience,
		"Employment History":   SectionExperience,
		"Education:":           SectionEducation,
		"Technical Skills":     SectionSkills,
		"Core Competencies":    SectionSkills,
		"Projects":             SectionProjects,
		"Certifications":       SectionCertifications,
		"Languages":            SectionLanguages,
	}
	for header, want := range cases {
		name, ok := matchSectionHeader(header)
		assert.True(t, ok, "应识别标题: %s", header)
		assert.Equal(t, want, name, "标题 %s 归属错误", header)
	}
}

func TestSegmentSectionsLongLineNotHeader(t *testing.T) {
	line := "Experience with building large scale distributed systems for years"
	_, ok := matchSectionHeader(line)
	assert.False(t, ok, "超过5个词的行不是标题")
}

func TestSegmentSectionsRepeatedHeaderAppends(t *testing.T) {
	text := "Experience\nfirst job\nEducation\ndegree\nExperience\nsecond job"
	sections := SegmentSections(text)
	assert.Equal(t, "first job\nsecond job", sections[SectionExperience])
}
