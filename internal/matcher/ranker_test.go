package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func resultWith(id string, score float64) types.MatchResult {
	return types.MatchResult{
		ResumeID:     id,
		JobID:        "job-1",
		OverallScore: score,
	}
}

func TestRankResultsOrdering(t *testing.T) {
	results := []types.MatchResult{
		resultWith("r1", 60),
		resultWith("r2", 90),
		resultWith("r3", 75),
	}

	ranked := RankResults(results, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "r2", ranked[0].ResumeID)
	assert.Equal(t, "r3", ranked[1].ResumeID)
	assert.Equal(t, "r1", ranked[2].ResumeID)
}

func TestRankResultsStableTies(t *testing.T) {
	results := []types.MatchResult{
		resultWith("r1", 80),
		resultWith("r2", 80),
		resultWith("r3", 90),
	}

	ranked := RankResults(results, 0)
	assert.Equal(t, "r3", ranked[0].ResumeID)
	assert.Equal(t, "r1", ranked[1].ResumeID, "同分结果保持输入顺序")
	assert.Equal(t, "r2", ranked[2].ResumeID)
}

func TestRankResultsPositionsContiguous(t *testing.T) {
	results := []types.MatchResult{
		resultWith("r1", 50), resultWith("r2", 50),
		resultWith("r3", 70), resultWith("r4", 30),
	}

	ranked := RankResults(results, 0)
	for i, r := range ranked {
		require.NotNil(t, r.RankingPosition)
		assert.Equal(t, i+1, *r.RankingPosition, "名次必须是从1开始的连续序列")
	}
}

func TestRankResultsLimit(t *testing.T) {
	results := []types.MatchResult{
		resultWith("r1", 50), resultWith("r2", 90), resultWith("r3", 70),
	}
	ranked := RankResults(results, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "r2", ranked[0].ResumeID)
	assert.Equal(t, "r3", ranked[1].ResumeID)
}

func TestRankResultsDoesNotMutateInput(t *testing.T) {
	results := []types.MatchResult{resultWith("r1", 50), resultWith("r2", 90)}
	RankResults(results, 0)
	assert.Equal(t, "r1", results[0].ResumeID, "输入切片不得被重排")
	assert.Nil(t, results[0].RankingPosition)
}

func TestFilterResultsMinScore(t *testing.T) {
	results := []types.MatchResult{resultWith("r1", 60), resultWith("r2", 85)}

	filtered, err := FilterResults(results, FilterPredicates{MinScore: 70}, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "r2", filtered[0].ResumeID)
}

func TestFilterResultsConjunctionCommutes(t *testing.T) {
	mk := func(id string, score float64, years float64, skills ...string) types.MatchResult {
		r := resultWith(id, score)
		r.ExperienceMatch.YearsExperience = years
		r.SkillMatch.MatchedSkills = skills
		return r
	}
	results := []types.MatchResult{
		mk("r1", 75, 5, "Python"),
		mk("r2", 75, 5, "Java"),
		mk("r3", 60, 5, "Python"),
		mk("r4", 90, 1, "Python"),
	}

	both, err := FilterResults(results, FilterPredicates{MinScore: 70, RequiredSkills: []string{"Python"}}, nil)
	require.NoError(t, err)

	// 先按分数再按技能，与一次性给出两个条件等价
	byScore, err := FilterResults(results, FilterPredicates{MinScore: 70}, nil)
	require.NoError(t, err)
	thenSkill, err := FilterResults(byScore, FilterPredicates{RequiredSkills: []string{"Python"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, both, thenSkill, "筛选条件的应用顺序不影响结果集")

	require.Len(t, both, 2)
	assert.Equal(t, "r1", both[0].ResumeID)
	assert.Equal(t, "r4", both[1].ResumeID)
}

func TestFilterResultsMinExperience(t *testing.T) {
	r1 := resultWith("r1", 80)
	r1.ExperienceMatch.YearsExperience = 2
	r2 := resultWith("r2", 80)
	r2.ExperienceMatch.YearsExperience = 6

	filtered, err := FilterResults([]types.MatchResult{r1, r2}, FilterPredicates{MinExperienceYears: 3}, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "r2", filtered[0].ResumeID)
}

func TestFilterResultsUnknownEducationLevel(t *testing.T) {
	_, err := FilterResults(nil, FilterPredicates{MinEducationLevel: "wizard"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEducationLevel)
}

func TestFilterResultsEducationFloor(t *testing.T) {
	noEducation := resultWith("r1", 90)
	noEducation.EducationMatch.MeetsRequirements = true // 岗位未声明学历要求时打分阶段总是达标

	doctorate := resultWith("r2", 90)
	doctorate.EducationMatch.MeetsRequirements = true
	doctorate.EducationMatch.HighestLevel, _ = EducationOrdinal("doctorate")

	results := []types.MatchResult{noEducation, doctorate}

	filtered, err := FilterResults(results, FilterPredicates{MinEducationLevel: "doctorate"}, nil)
	require.NoError(t, err)
	require.Len(t, filtered, 1, "无学历的候选人不应通过博士学历下限")
	assert.Equal(t, "r2", filtered[0].ResumeID)
}

func TestFilterResultsEducationFloorOrdering(t *testing.T) {
	bachelor := resultWith("r1", 80)
	bachelor.EducationMatch.HighestLevel, _ = EducationOrdinal("bachelor")

	// 学士通过学士下限，但不通过硕士下限
	filtered, err := FilterResults([]types.MatchResult{bachelor}, FilterPredicates{MinEducationLevel: "bachelor"}, nil)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	filtered, err = FilterResults([]types.MatchResult{bachelor}, FilterPredicates{MinEducationLevel: "master"}, nil)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterResultsQuery(t *testing.T) {
	texts := map[string]string{
		"r1": "Led Kubernetes migrations across three data centers",
		"r2": "Maintained legacy billing batch jobs",
	}
	lookup := func(id string) string { return texts[id] }

	results := []types.MatchResult{resultWith("r1", 80), resultWith("r2", 80)}

	filtered, err := FilterResults(results, FilterPredicates{Query: "kubernetes"}, lookup)
	require.NoError(t, err)
	require.Len(t, filtered, 1, "关键词匹配必须大小写不敏感")
	assert.Equal(t, "r1", filtered[0].ResumeID)
}

func TestFilterResultsQueryMissingText(t *testing.T) {
	results := []types.MatchResult{resultWith("r1", 80)}

	// 取不到原文时不通过关键词条件
	filtered, err := FilterResults(results, FilterPredicates{Query: "go"}, func(string) string { return "" })
	require.NoError(t, err)
	assert.Empty(t, filtered)

	filtered, err = FilterResults(results, FilterPredicates{Query: "go"}, nil)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestFilterPredicatesValidate(t *testing.T) {
	assert.NoError(t, FilterPredicates{}.Validate())
	assert.NoError(t, FilterPredicates{MinEducationLevel: "bachelor"}.Validate())
	assert.Error(t, FilterPredicates{MinScore: 120}.Validate())
}
