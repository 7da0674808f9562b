package matching

import (
	"strings"

	"github.com/ecodeclub/ekit/slice"
)

// EngineeringTypeForTitle infers the engineering type a job title asks for.
// An empty result means the title imposes no constraint.
func EngineeringTypeForTitle(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "full-stack") || strings.Contains(t, "fullstack"):
		return TypeFullStack
	case strings.Contains(t, "frontend") || strings.Contains(t, "front-end"):
		return TypeFrontend
	case strings.Contains(t, "backend") || strings.Contains(t, "back-end"):
		return TypeBackend
	case strings.Contains(t, "devops") || strings.Contains(t, "dev ops"):
		return TypeDevOps
	default:
		return ""
	}
}

// City returns the part of a "City, Country" location before the first comma.
func City(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

// IsRemote reports whether a candidate location denotes remote work.
func IsRemote(location string) bool {
	return strings.EqualFold(City(location), RemoteLocation)
}

// EngineeringTypeMatches checks the candidate against the type implied by the job title.
func EngineeringTypeMatches(job JobPosting, c Candidate) bool {
	want := EngineeringTypeForTitle(job.Title)
	return want == "" || strings.EqualFold(want, c.EngineeringType)
}

// LocationMatches applies the location rule: "All Locations" passes everyone,
// "Remote" passes remote candidates only, and a city passes candidates in that
// city or remote candidates.
func LocationMatches(job JobPosting, c Candidate) bool {
	jobCity := City(job.Location)
	switch {
	case jobCity == "" || strings.EqualFold(jobCity, AllLocations):
		return true
	case strings.EqualFold(jobCity, RemoteLocation):
		return IsRemote(c.Location)
	default:
		return strings.EqualFold(City(c.Location), jobCity) || IsRemote(c.Location)
	}
}

// AvailabilityMatches passes everyone for "all", otherwise requires equality.
func AvailabilityMatches(job JobPosting, c Candidate) bool {
	return job.EmploymentType == AllEmployment || job.EmploymentType == c.Availability
}

// SalaryMatches passes when the job has no minimum or the expected salary is in range.
func SalaryMatches(job JobPosting, c Candidate) bool {
	if job.SalaryMin == 0 {
		return true
	}
	return c.ExpectedSalary >= job.SalaryMin && c.ExpectedSalary <= job.SalaryMax
}

// SkillMatches reports whether a required skill and a candidate skill overlap.
// Matching is a case-insensitive substring test in either direction.
func SkillMatches(required, have string) bool {
	r := strings.ToLower(strings.TrimSpace(required))
	h := strings.ToLower(strings.TrimSpace(have))
	if r == "" || h == "" {
		return false
	}
	return strings.Contains(h, r) || strings.Contains(r, h)
}

func hasSkill(skills []string, required string) bool {
	_, ok := slice.Find(skills, func(s string) bool {
		return SkillMatches(required, s)
	})
	return ok
}

// SkillsMatch passes when the job requires nothing or at least one required skill
// is found among the candidate's top skills.
func SkillsMatch(job JobPosting, c Candidate) bool {
	if len(job.RequiredSkills) == 0 {
		return true
	}
	_, ok := slice.Find(job.RequiredSkills, func(req string) bool {
		return hasSkill(c.TopSkills, req)
	})
	return ok
}

// Matches is the conjunction of every filter predicate.
func Matches(job JobPosting, c Candidate) bool {
	return EngineeringTypeMatches(job, c) &&
		LocationMatches(job, c) &&
		AvailabilityMatches(job, c) &&
		SalaryMatches(job, c) &&
		SkillsMatch(job, c)
}

// Filter keeps the candidates that match job, preserving their order.
// It never returns nil.
func Filter(job JobPosting, candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Matches(job, c) {
			out = append(out, c)
		}
	}
	return out
}
