package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/types"
)

func TestSkillExtractorDeduplicates(t *testing.T) {
	x := NewSkillExtractor(knowledge.DefaultSkillDB())
	text := "Python developer. Python scripting. More python."

	recs := x.Extract(text)
	count := 0
	for _, r := range recs {
		if r.Name == "Python" {
			count++
		}
	}
	assert.Equal(t, 1, count, "同一规范名只允许一条记录")
}

func TestSkillExtractorCanonicalizesSynonyms(t *testing.T) {
	x := NewSkillExtractor(knowledge.DefaultSkillDB())
	recs := x.Extract("Frontend in js, deployed on k8s")

	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "JavaScript", "js 应归一为 JavaScript")
	assert.Contains(t, names, "Kubernetes", "k8s 应归一为 Kubernetes")
}

func TestSkillExtractorProficiencyFromContext(t *testing.T) {
	x := NewSkillExtractor(knowledge.DefaultSkillDB())

	recs := x.Extract("Expert level Python programming")
	require.Len(t, recs, 1)
	assert.Equal(t, types.SkillLevelExpert, recs[0].Level)

	recs = x.Extract("Proficient in Java")
	require.Len(t, recs, 1)
	assert.Equal(t, types.SkillLevelIntermediate, recs[0].Level)

	recs = x.Extract("Familiar with Rust")
	require.Len(t, recs, 1)
	assert.Equal(t, types.SkillLevelBeginner, recs[0].Level)

	recs = x.Extract("Worked with MongoDB")
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Level, "无上下文线索时熟练程度留空")
}

func TestSkillExtractorYearsFromContext(t *testing.T) {
	x := NewSkillExtractor(knowledge.DefaultSkillDB())
	recs := x.Extract("5+ years of Terraform in production")

	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].YearsExperience)
	assert.Equal(t, 5, *recs[0].YearsExperience)
}

func TestSkillExtractorEmptyText(t *testing.T) {
	x := NewSkillExtractor(knowledge.DefaultSkillDB())
	assert.Empty(t, x.Extract(""))
}
