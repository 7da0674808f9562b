package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillMatchPercent(t *testing.T) {
	c := Candidate{TopSkills: []string{"React", "Node.js", "AWS"}}

	t.Run("no required skills is 100", func(t *testing.T) {
		assert.Equal(t, 100, SkillMatchPercent(JobPosting{}, c))
		assert.Equal(t, 3, SkillOverlap(JobPosting{}, c))
	})

	t.Run("partial overlap", func(t *testing.T) {
		job := JobPosting{RequiredSkills: []string{"AWS", "PostgreSQL", "React", "Node.js"}}
		assert.Equal(t, 3, SkillOverlap(job, c))
		assert.Equal(t, 75, SkillMatchPercent(job, c))
	})

	t.Run("rounds to nearest", func(t *testing.T) {
		job := JobPosting{RequiredSkills: []string{"React", "Go", "Rust"}}
		assert.Equal(t, 33, SkillMatchPercent(job, c))
		job.RequiredSkills = []string{"React", "AWS", "Rust"}
		assert.Equal(t, 67, SkillMatchPercent(job, c))
	})
}

func TestDynamicScore(t *testing.T) {
	assert.Equal(t, 96, DynamicScore(92, 100))
	assert.Equal(t, 84, DynamicScore(92, 75))
	assert.Equal(t, 79, DynamicScore(78, 79), "half rounds up")
	assert.Equal(t, 0, DynamicScore(0, 0))
	assert.Equal(t, 100, DynamicScore(100, 100))

	for base := 0; base <= 100; base += 7 {
		for pct := 0; pct <= 100; pct += 11 {
			got := DynamicScore(base, pct)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestScore(t *testing.T) {
	job := JobPosting{}
	scored := Score(job, sampleCandidates())
	require.Len(t, scored, 3)
	for _, s := range scored {
		assert.Equal(t, 100, s.SkillMatchPercent)
		assert.Equal(t, DynamicScore(s.MatchScore.Overall, 100), s.DynamicScore)
	}
}

func TestSort(t *testing.T) {
	scored := []ScoredCandidate{
		{Candidate: Candidate{ID: "a", YearsOfExperience: 2}, DynamicScore: 65},
		{Candidate: Candidate{ID: "b", YearsOfExperience: 9}, DynamicScore: 95},
		{Candidate: Candidate{ID: "c", YearsOfExperience: 4}, DynamicScore: 78},
	}
	scores := func(in []ScoredCandidate) []int {
		out := make([]int, 0, len(in))
		for _, s := range in {
			out = append(out, s.DynamicScore)
		}
		return out
	}

	desc := append([]ScoredCandidate(nil), scored...)
	Sort(desc, SortScoreDesc)
	assert.Equal(t, []int{95, 78, 65}, scores(desc))

	asc := append([]ScoredCandidate(nil), scored...)
	Sort(asc, SortScoreAsc)
	assert.Equal(t, []int{65, 78, 95}, scores(asc))

	exp := append([]ScoredCandidate(nil), scored...)
	Sort(exp, SortExpDesc)
	assert.Equal(t, "b", exp[0].ID)
	Sort(exp, SortExpAsc)
	assert.Equal(t, "a", exp[0].ID)

	unknown := append([]ScoredCandidate(nil), scored...)
	Sort(unknown, SortKey("name"))
	assert.Equal(t, scored, unknown)
}

func TestSort_StableOnTies(t *testing.T) {
	scored := []ScoredCandidate{
		{Candidate: Candidate{ID: "first"}, DynamicScore: 80},
		{Candidate: Candidate{ID: "second"}, DynamicScore: 80},
		{Candidate: Candidate{ID: "third"}, DynamicScore: 90},
	}
	Sort(scored, SortScoreDesc)
	assert.Equal(t, "third", scored[0].ID)
	assert.Equal(t, "first", scored[1].ID)
	assert.Equal(t, "second", scored[2].ID)
}

func TestRank(t *testing.T) {
	job := AllPositions()
	ranked := Rank(job, sampleCandidates(), SortScoreDesc)
	require.Len(t, ranked, 3)
	assert.Equal(t, "cand-001", ranked[0].ID)
	assert.Equal(t, "cand-003", ranked[1].ID)
	assert.Equal(t, "cand-002", ranked[2].ID)
}

func TestFitLevelFor(t *testing.T) {
	assert.Equal(t, FitStrong, FitLevelFor(85))
	assert.Equal(t, FitModerate, FitLevelFor(84))
	assert.Equal(t, FitModerate, FitLevelFor(65))
	assert.Equal(t, FitWeak, FitLevelFor(64))
}

func TestJobPosting_Apply(t *testing.T) {
	base := JobPosting{ID: "job-001", Title: "Senior Full-Stack Engineer", Location: "Sydney",
		SalaryMin: 140000, SalaryMax: 180000, RequiredSkills: []string{"AWS"}}

	loc := "Remote"
	skills := []string{"Go"}
	merged := JobOverride{Location: &loc}.Merge(JobOverride{RequiredSkills: &skills})

	got := base.Apply(merged)
	assert.Equal(t, "Remote", got.Location)
	assert.Equal(t, []string{"Go"}, got.RequiredSkills)
	assert.Equal(t, "Senior Full-Stack Engineer", got.Title)
	assert.Equal(t, []string{"AWS"}, base.RequiredSkills, "base job is not mutated")

	assert.True(t, JobOverride{}.IsZero())
	assert.False(t, merged.IsZero())
	assert.Equal(t, base.RequiredSkills, base.Apply(JobOverride{}).RequiredSkills)
}

func TestJobPosting_Apply_CleansOverrideSkills(t *testing.T) {
	c := Candidate{TopSkills: []string{"React"}}
	base := JobPosting{RequiredSkills: []string{"AWS"}}

	skills := []string{"react", "", "  "}
	job := base.Apply(JobOverride{RequiredSkills: &skills})
	assert.Equal(t, []string{"react"}, job.RequiredSkills)
	assert.Equal(t, 100, SkillMatchPercent(job, c))

	skills = []string{" React ", "REACT", "Go"}
	job = base.Apply(JobOverride{RequiredSkills: &skills})
	assert.Equal(t, []string{"React", "Go"}, job.RequiredSkills)
	assert.Equal(t, 50, SkillMatchPercent(job, c))

	blank := []string{""}
	job = base.Apply(JobOverride{RequiredSkills: &blank})
	assert.Empty(t, job.RequiredSkills)
	assert.Equal(t, 100, SkillMatchPercent(job, Candidate{}))
	assert.True(t, SkillsMatch(job, Candidate{}))
}

func TestSortKey_Valid(t *testing.T) {
	assert.True(t, SortScoreDesc.Valid())
	assert.True(t, SortExpAsc.Valid())
	assert.False(t, SortKey("").Valid())
}
