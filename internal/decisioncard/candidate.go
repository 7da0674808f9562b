package decisioncard

import (
	"strings"

	"github.com/jonathan/hiring-desk/internal/db"
	"github.com/jonathan/hiring-desk/internal/matching"
)

const (
	defaultAvailability = "full-time"
	topSkillCount       = 3
)

// ToCandidate derives the ranked-list item for app.
func ToCandidate(app *db.Application) matching.Candidate {
	overall := overallScore(app)
	return matching.Candidate{
		ID:                app.ID.String(),
		Name:              app.Name,
		Location:          location(app),
		YearsOfExperience: years(app),
		EngineeringType:   engineeringType(app),
		Availability:      availability(app),
		ExpectedSalary:    app.ExpectedSalary,
		MatchScore: matching.MatchScore{
			Overall:    overall,
			Skill:      skillScore(app, overall),
			Experience: experienceScore(app, overall),
			FitLevel:   matching.FitLevelFor(overall),
		},
		TopSkills: topSkills(app),
	}
}

// ToCandidates maps ToCandidate over apps.
func ToCandidates(apps []db.Application) []matching.Candidate {
	out := make([]matching.Candidate, 0, len(apps))
	for i := range apps {
		out = append(out, ToCandidate(&apps[i]))
	}
	return out
}

func overallScore(app *db.Application) int {
	if r := app.ResumeData; r != nil && r.SuitabilityPercentage != nil && *r.SuitabilityPercentage > 0 {
		return *r.SuitabilityPercentage
	}
	return DefaultScore
}

func skillScore(app *db.Application, overall int) int {
	if g := app.GitHubData; g != nil && g.ConfidencePercentage != nil && *g.ConfidencePercentage > 0 {
		return *g.ConfidencePercentage
	}
	return overall
}

// experienceScore grows ten points per year from a base of forty.
func experienceScore(app *db.Application, overall int) int {
	r := app.ResumeData
	if r == nil || r.YearsExperience == nil {
		return overall
	}
	score := 40 + 10*(*r.YearsExperience)
	if score > 100 {
		return 100
	}
	return score
}

func years(app *db.Application) int {
	if r := app.ResumeData; r != nil && r.YearsExperience != nil {
		return *r.YearsExperience
	}
	if g := app.GitHubData; g != nil && strings.Contains(strings.ToLower(g.InferredSeniority), "senior") {
		return 5
	}
	return 3
}

func location(app *db.Application) string {
	if loc := strings.TrimSpace(app.Location); loc != "" {
		return loc
	}
	return matching.RemoteLocation
}

func availability(app *db.Application) string {
	if a := strings.TrimSpace(app.Availability); a != "" {
		return a
	}
	return defaultAvailability
}

func topSkills(app *db.Application) []string {
	if g := app.GitHubData; g != nil && len(g.CoreStrengths) > 0 {
		return head(g.CoreStrengths, topSkillCount)
	}
	if r := app.ResumeData; r != nil && len(r.Skills) > 0 {
		return head(r.Skills, topSkillCount)
	}
	return []string{}
}

func head(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
