package processor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/knowledge"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/types"
)

// fakeStore 内存实现，仅测试使用
type fakeStore struct {
	mu      sync.Mutex
	resumes map[string]*types.ResumeRecord
	jobs    map[string]*types.JobRecord
	matches []*types.MatchResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		resumes: make(map[string]*types.ResumeRecord),
		jobs:    make(map[string]*types.JobRecord),
	}
}

func (f *fakeStore) SaveResume(_ context.Context, r *types.ResumeRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes[r.ID] = r
	return r.ID, nil
}

func (f *fakeStore) GetResume(_ context.Context, id string) (*types.ResumeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resumes[id]
	if !ok {
		return nil, NewNotFoundError(id, "简历不存在")
	}
	return r, nil
}

func (f *fakeStore) SaveJob(_ context.Context, j *types.JobRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.ID] = j
	return j.ID, nil
}

func (f *fakeStore) GetJob(_ context.Context, id string) (*types.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, NewNotFoundError(id, "岗位不存在")
	}
	return j, nil
}

func (f *fakeStore) SaveMatch(_ context.Context, m *types.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches = append(f.matches, m)
	return nil
}

func (f *fakeStore) Statistics(_ context.Context) (*types.MatchStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &types.MatchStatistics{
		TotalResumes: int64(len(f.resumes)),
		TotalJobs:    int64(len(f.jobs)),
		TotalMatches: int64(len(f.matches)),
	}, nil
}

func storeWith(t *testing.T, resumes []*types.ResumeRecord, jobs []*types.JobRecord) *fakeStore {
	t.Helper()
	store := newFakeStore()
	ctx := context.Background()
	for _, r := range resumes {
		_, err := store.SaveResume(ctx, r)
		require.NoError(t, err)
	}
	for _, j := range jobs {
		_, err := store.SaveJob(ctx, j)
		require.NoError(t, err)
	}
	return store
}

func testResume(id string, years float64, skills ...string) *types.ResumeRecord {
	r := &types.ResumeRecord{ID: id, TotalExperienceYears: years}
	for _, s := range skills {
		r.Skills = append(r.Skills, types.SkillRecord{Name: s, Category: types.CategoryTechnical})
	}
	return r
}

func newService(store RecordStore) *MatchService {
	return NewMatchService(store, matcher.NewScorer(knowledge.DefaultSkillDB()))
}

func TestMatchServiceMatch(t *testing.T) {
	job := &types.JobRecord{
		ID:                 "job-1",
		RequiredSkills:     map[string][]string{"technical": {"Python"}},
		ExperienceRequired: "3+ years",
	}
	store := storeWith(t, []*types.ResumeRecord{testResume("r1", 5, "Python")}, []*types.JobRecord{job})
	svc := newService(store)

	result, err := svc.Match(context.Background(), "r1", "job-1")
	require.NoError(t, err)
	assert.Equal(t, "r1", result.ResumeID)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, 100.0, result.SkillMatch.Score)
	assert.Len(t, store.matches, 1, "匹配结果应落存")
}

func TestMatchServiceMatchNotFound(t *testing.T) {
	store := storeWith(t, []*types.ResumeRecord{testResume("r1", 1)}, nil)
	svc := newService(store)

	_, err := svc.Match(context.Background(), "r1", "missing-job")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Match(context.Background(), "missing-resume", "job-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchServiceRank(t *testing.T) {
	job := &types.JobRecord{
		ID:             "job-1",
		RequiredSkills: map[string][]string{"technical": {"Python", "React"}},
	}
	store := storeWith(t, []*types.ResumeRecord{
		testResume("r1", 2, "Python"),
		testResume("r2", 2, "Python", "React"),
		testResume("r3", 2),
	}, []*types.JobRecord{job})
	svc := newService(store)

	ranked, err := svc.Rank(context.Background(), "job-1", []string{"r1", "r2", "r3"}, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "r2", ranked[0].ResumeID, "命中最多的简历应排第一")
	assert.Equal(t, "r1", ranked[1].ResumeID)
	assert.Equal(t, "r3", ranked[2].ResumeID)
	for i, r := range ranked {
		require.NotNil(t, r.RankingPosition)
		assert.Equal(t, i+1, *r.RankingPosition)
	}
}

func TestMatchServiceRankSkipsMissingResumes(t *testing.T) {
	job := &types.JobRecord{ID: "job-1"}
	store := storeWith(t, []*types.ResumeRecord{testResume("r1", 2, "Python")}, []*types.JobRecord{job})
	svc := newService(store)

	ranked, err := svc.Rank(context.Background(), "job-1", []string{"r1", "ghost-1", "ghost-2"}, 0)
	require.NoError(t, err, "个别简历缺失不应让整个批次失败")
	require.Len(t, ranked, 1)
	assert.Equal(t, "r1", ranked[0].ResumeID)
}

func TestMatchServiceRankJobNotFound(t *testing.T) {
	svc := newService(newFakeStore())
	_, err := svc.Rank(context.Background(), "missing", []string{"r1"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchServiceRankStableForEqualScores(t *testing.T) {
	job := &types.JobRecord{ID: "job-1", RequiredSkills: map[string][]string{"technical": {"Python"}}}
	store := storeWith(t, []*types.ResumeRecord{
		testResume("r1", 3, "Python"),
		testResume("r2", 3, "Python"),
	}, []*types.JobRecord{job})
	svc := newService(store)

	for i := 0; i < 5; i++ {
		ranked, err := svc.Rank(context.Background(), "job-1", []string{"r1", "r2"}, 0)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "r1", ranked[0].ResumeID, "同分结果必须保持输入顺序（第%d次）", i+1)
		assert.Equal(t, "r2", ranked[1].ResumeID)
	}
}

func TestMatchServiceFilterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(newFakeStore())

	_, err := svc.Filter(ctx, nil, matcher.FilterPredicates{MinEducationLevel: "wizard"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	filtered, err := svc.Filter(ctx, []types.MatchResult{{OverallScore: 90}}, matcher.FilterPredicates{MinScore: 80})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestMatchServiceFilterQueryUsesRawText(t *testing.T) {
	ctx := context.Background()
	kubernetes := testResume("r1", 5, "Kubernetes")
	kubernetes.RawText = "Operated Kubernetes clusters in production"
	billing := testResume("r2", 5, "Java")
	billing.RawText = "Maintained billing batch jobs"
	store := storeWith(t, []*types.ResumeRecord{kubernetes, billing}, nil)
	svc := newService(store)

	results := []types.MatchResult{
		{ResumeID: "r1", OverallScore: 80},
		{ResumeID: "r2", OverallScore: 80},
		{ResumeID: "missing", OverallScore: 80},
	}

	filtered, err := svc.Filter(ctx, results, matcher.FilterPredicates{Query: "kubernetes"})
	require.NoError(t, err)
	require.Len(t, filtered, 1, "关键词条件只保留原文命中的结果，取不到原文的结果被排除")
	assert.Equal(t, "r1", filtered[0].ResumeID)
}
