package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEducationBachelor(t *testing.T) {
	recs := ExtractEducation("Bachelor of Science in Computer Science from Stanford University, 2018, GPA: 3.8")

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Degree, "Bachelor")
	assert.Contains(t, recs[0].FieldOfStudy, "Computer Science")
	assert.Contains(t, recs[0].Institution, "Stanford University")
	require.NotNil(t, recs[0].GraduationYear)
	assert.Equal(t, 2018, *recs[0].GraduationYear)
	require.NotNil(t, recs[0].GPA)
	assert.Equal(t, 3.8, *recs[0].GPA)
}

func TestExtractEducationUniversityOf(t *testing.T) {
	recs := ExtractEducation("Master of Engineering, University of Michigan, 2020")

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Degree, "Master")
	assert.Contains(t, recs[0].Institution, "University of Michigan")
}

func TestExtractEducationMultipleEntries(t *testing.T) {
	text := "Master of Science in AI from MIT, 2021\nBachelor of Arts in Mathematics from Boston College, 2019"
	recs := ExtractEducation(text)

	require.Len(t, recs, 2, "学位关键词行应切分出两条教育经历")
	assert.Contains(t, recs[0].Degree, "Master")
	assert.Contains(t, recs[1].Degree, "Bachelor")
}

func TestExtractEducationInstitutionFallback(t *testing.T) {
	recs := ExtractEducation("Acme Technical Academy\nDiploma in Welding, 2015")
	require.NotEmpty(t, recs)
	assert.Equal(t, "Acme Technical Academy", recs[0].Institution,
		"无模式命中时机构名退化为块的首行")
}

func TestExtractEducationEmptyAndNoise(t *testing.T) {
	assert.Empty(t, ExtractEducation(""))
	assert.Empty(t, ExtractEducation("short"))
	assert.Empty(t, ExtractEducation("nothing educational in this sentence at all"))
}
