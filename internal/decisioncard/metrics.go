package decisioncard

import (
	"math"

	"github.com/jonathan/hiring-desk/internal/types"
)

// Metrics is the recruiter dashboard summary.
type Metrics struct {
	TotalCandidates      int `json:"total_candidates"`
	AverageMatchScore    int `json:"average_match_score"`
	ActiveInterviews     int `json:"active_interviews"`
	InterviewsInPipeline int `json:"interviews_in_pipeline"`
	SkillMatchThreshold  int `json:"skill_match_threshold"`
}

// ComputeMetrics summarises cards. Missing suitability counts as DefaultScore.
func ComputeMetrics(cards []DecisionCard) Metrics {
	m := Metrics{
		TotalCandidates:     len(cards),
		SkillMatchThreshold: SkillMatchThreshold,
	}
	if len(cards) == 0 {
		return m
	}

	sum := 0
	for _, c := range cards {
		if c.SuitabilityPercentage != nil && *c.SuitabilityPercentage > 0 {
			sum += *c.SuitabilityPercentage
		} else {
			sum += DefaultScore
		}
	}
	m.AverageMatchScore = int(math.Floor(float64(sum)/float64(len(cards)) + 0.5))
	for _, c := range cards {
		switch c.Status {
		case types.StatusReady:
			m.ActiveInterviews++
		case types.StatusAwaitingMedia:
			m.InterviewsInPipeline++
		}
	}
	return m
}
