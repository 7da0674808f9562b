package matching

import (
	"math"
	"sort"

	"github.com/ecodeclub/ekit/slice"
)

// round rounds half away from negative infinity, matching browser Math.round.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// SkillOverlap counts the job's required skills found among the candidate's top
// skills. When the job requires nothing, every top skill counts.
func SkillOverlap(job JobPosting, c Candidate) int {
	if len(job.RequiredSkills) == 0 {
		return len(c.TopSkills)
	}
	n := 0
	for _, req := range job.RequiredSkills {
		if hasSkill(c.TopSkills, req) {
			n++
		}
	}
	return n
}

// SkillMatchPercent is the share of required skills covered, 0-100.
// A job without required skills yields 100.
func SkillMatchPercent(job JobPosting, c Candidate) int {
	if len(job.RequiredSkills) == 0 {
		return 100
	}
	return round(100 * float64(SkillOverlap(job, c)) / float64(len(job.RequiredSkills)))
}

// DynamicScore averages the stored base score with the live skill match.
func DynamicScore(base, skillMatchPercent int) int {
	return round(float64(base+skillMatchPercent) / 2)
}

// Score attaches job-specific scores to each candidate.
func Score(job JobPosting, candidates []Candidate) []ScoredCandidate {
	return slice.Map(candidates, func(_ int, c Candidate) ScoredCandidate {
		pct := SkillMatchPercent(job, c)
		return ScoredCandidate{
			Candidate:         c,
			SkillMatchPercent: pct,
			DynamicScore:      DynamicScore(c.MatchScore.Overall, pct),
		}
	})
}

// Sort orders scored candidates in place by key. The sort is stable so ties keep
// their input order; an unknown key leaves the slice untouched.
func Sort(scored []ScoredCandidate, key SortKey) {
	var less func(a, b ScoredCandidate) bool
	switch key {
	case SortScoreDesc:
		less = func(a, b ScoredCandidate) bool { return a.DynamicScore > b.DynamicScore }
	case SortScoreAsc:
		less = func(a, b ScoredCandidate) bool { return a.DynamicScore < b.DynamicScore }
	case SortExpDesc:
		less = func(a, b ScoredCandidate) bool { return a.YearsOfExperience > b.YearsOfExperience }
	case SortExpAsc:
		less = func(a, b ScoredCandidate) bool { return a.YearsOfExperience < b.YearsOfExperience }
	default:
		return
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return less(scored[i], scored[j])
	})
}

// Rank filters, scores and sorts candidates for a job.
func Rank(job JobPosting, candidates []Candidate, key SortKey) []ScoredCandidate {
	scored := Score(job, Filter(job, candidates))
	Sort(scored, key)
	return scored
}
