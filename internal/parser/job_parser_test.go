package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/types"
)

const sampleJobPosting = `Senior Backend Engineer
Company: Acme Corp
Location: Remote

Requirements:
- 5+ years of experience with Python required
- Strong knowledge of PostgreSQL
- Docker and Kubernetes must have

Preferred:
- Experience with Terraform is a plus

Responsibilities:
- Design and build backend services
- Mentor junior engineers

Salary: $140,000 - $180,000
Bachelor's degree in Computer Science required`

func newJobExtractor() *JobExtractor {
	return NewJobExtractor(knowledge.DefaultSkillDB())
}

func TestJobExtractorRequirements(t *testing.T) {
	job := newJobExtractor().Extract(sampleJobPosting, "Senior Backend Engineer", "")

	skills := make(map[string]types.JobRequirement)
	for _, r := range job.Requirements {
		skills[r.Skill] = r
	}
	require.Contains(t, skills, "Python")
	require.Contains(t, skills, "PostgreSQL")
	require.Contains(t, skills, "Docker")
	require.Contains(t, skills, "Kubernetes")

	assert.True(t, skills["Python"].Required, "required 指示词附近的技能应标记为必需")
	assert.Equal(t, 1.0, skills["Python"].Importance)
	require.NotNil(t, skills["Python"].MinimumYears)
	assert.Equal(t, 5, *skills["Python"].MinimumYears)

	assert.False(t, skills["PostgreSQL"].Required)
	assert.Equal(t, 0.8, skills["PostgreSQL"].Importance)
}

func TestJobExtractorRequiredSkillsGrouping(t *testing.T) {
	job := newJobExtractor().Extract(sampleJobPosting, "Senior Backend Engineer", "")

	assert.Contains(t, job.RequiredSkills[knowledge.GroupProgrammingLanguages], "Python")
	assert.Contains(t, job.RequiredSkills[knowledge.GroupDatabases], "PostgreSQL")
	assert.Contains(t, job.RequiredSkills[knowledge.GroupCloudDevOps], "Docker")
}

func TestJobExtractorPreferredSkills(t *testing.T) {
	job := newJobExtractor().Extract(sampleJobPosting, "Senior Backend Engineer", "")

	assert.Contains(t, job.PreferredSkills, "Terraform")
	assert.NotContains(t, job.PreferredSkills, "Python", "已进入要求列表的技能不重复进偏好列表")
}

func TestJobExtractorMetadata(t *testing.T) {
	job := newJobExtractor().Extract(sampleJobPosting, "Senior Backend Engineer", "")

	assert.Equal(t, "Acme Corp", job.Company)
	assert.Equal(t, "Remote", job.Location)
	assert.Equal(t, types.SenioritySenior, job.SeniorityLevel)
	assert.Equal(t, "bachelor", job.EducationRequired)
	assert.NotEmpty(t, job.SalaryRange)
	assert.NotEmpty(t, job.ExperienceRequired)
	assert.NotEmpty(t, job.Responsibilities)
}

func TestJobExtractorExplicitCompanyWins(t *testing.T) {
	job := newJobExtractor().Extract(sampleJobPosting, "Senior Backend Engineer", "Globex")
	assert.Equal(t, "Globex", job.Company)
}

func TestParseExperienceYears(t *testing.T) {
	assert.Equal(t, 3.0, ParseExperienceYears("3+ years"))
	assert.Equal(t, 5.0, ParseExperienceYears("at least 5 years of experience"))
	assert.Equal(t, 0.0, ParseExperienceYears("extensive experience"), "无法解析时返回0表示未声明要求")
	assert.Equal(t, 0.0, ParseExperienceYears(""))
}

func TestJobExtractorNoRequirementHeader(t *testing.T) {
	job := newJobExtractor().Extract("We need someone who knows Python and MySQL well.", "Engineer", "")
	names := make([]string, 0, len(job.Requirements))
	for _, r := range job.Requirements {
		names = append(names, r.Skill)
	}
	assert.Contains(t, names, "Python", "无要求段标题时整篇视为要求段")
	assert.Contains(t, names, "MySQL")
}
