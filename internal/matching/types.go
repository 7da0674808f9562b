// Package matching ranks candidates against a job posting.
//
// Everything here is pure: callers pass a job and a candidate list and get a new
// list back. Scores computed here (DynamicScore, SkillMatchPercent) are derived on
// every call and never persisted.
package matching

// Engineering types used by jobs and candidates.
const (
	TypeFrontend  = "Frontend"
	TypeBackend   = "Backend"
	TypeFullStack = "Full-Stack"
	TypeDevOps    = "DevOps"
)

// Sentinel values that disable a filter.
const (
	AllLocations   = "All Locations"
	AllEmployment  = "all"
	AllPositionsID = "all"
	RemoteLocation = "Remote"
)

// FitLevel is a categorical label derived from a score.
type FitLevel string

// Fit levels.
const (
	FitStrong   FitLevel = "strong"
	FitModerate FitLevel = "moderate"
	FitWeak     FitLevel = "weak"
)

// Fit level thresholds.
const (
	StrongThreshold = 85
	WeakThreshold   = 65
)

// SortKey selects the ordering of a ranked list.
type SortKey string

// Supported sort keys.
const (
	SortScoreDesc SortKey = "score-desc"
	SortScoreAsc  SortKey = "score-asc"
	SortExpDesc   SortKey = "exp-desc"
	SortExpAsc    SortKey = "exp-asc"
)

// Valid reports whether k is one of the supported sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortScoreDesc, SortScoreAsc, SortExpDesc, SortExpAsc:
		return true
	}
	return false
}

// JobPosting is the job a candidate list is ranked against. EngineeringType is
// informational; filtering infers the type from Title.
type JobPosting struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company,omitempty"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employment_type"`
	SalaryMin       int      `json:"salary_min"`
	SalaryMax       int      `json:"salary_max"`
	Currency        string   `json:"currency"`
	RequiredSkills  []string `json:"required_skills"`
	EngineeringType string   `json:"engineering_type,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// MatchScore is the stored baseline score of a candidate.
type MatchScore struct {
	Overall    int      `json:"overall_score"`
	Skill      int      `json:"skill_match_score"`
	Experience int      `json:"experience_match_score"`
	FitLevel   FitLevel `json:"fit_level"`
}

// Candidate is a candidate list item.
type Candidate struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Location          string     `json:"location"`
	YearsOfExperience int        `json:"years_of_experience"`
	CurrentCompany    string     `json:"current_company,omitempty"`
	EngineeringType   string     `json:"engineering_type"`
	Availability      string     `json:"availability"`
	ExpectedSalary    int        `json:"expected_salary"`
	MatchScore        MatchScore `json:"match_score"`
	TopSkills         []string   `json:"top_skills"`
}

// ScoredCandidate is a candidate with its scores against a specific job.
type ScoredCandidate struct {
	Candidate
	SkillMatchPercent int `json:"skill_match_percent"`
	DynamicScore      int `json:"dynamic_score"`
}

// AllPositions returns the sentinel job that imposes no constraint.
func AllPositions() JobPosting {
	return JobPosting{
		ID:             AllPositionsID,
		Title:          "All Positions",
		Location:       AllLocations,
		EmploymentType: AllEmployment,
		SalaryMin:      0,
		SalaryMax:      999999,
		Currency:       "AUD",
		RequiredSkills: []string{},
	}
}

// FitLevelFor maps a score onto a fit level.
func FitLevelFor(score int) FitLevel {
	switch {
	case score >= StrongThreshold:
		return FitStrong
	case score < WeakThreshold:
		return FitWeak
	default:
		return FitModerate
	}
}
