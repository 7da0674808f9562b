// Package types provides type definitions for structured data shared by the
// intake service, the worker and the recruiter API.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ApplicationStatus is the processing state of an application.
type ApplicationStatus string

// Application statuses.
const (
	StatusProcessing    ApplicationStatus = "processing"
	StatusAwaitingMedia ApplicationStatus = "awaiting_media"
	StatusReady         ApplicationStatus = "ready"
	StatusFailed        ApplicationStatus = "failed"
)

// Focus values accepted on intake.
const (
	FocusFullstack = "fullstack"
	FocusFrontend  = "frontend"
	FocusBackend   = "backend"
)

// ResumeData is the structured result of resume extraction, stored as JSONB.
type ResumeData struct {
	RoleLabel             string              `json:"role_label,omitempty"`
	Built                 []string            `json:"built"`
	Skills                []string            `json:"skills"`
	YearsExperience       *int                `json:"years_experience,omitempty"`
	ExperienceSummary     string              `json:"experience_summary,omitempty"`
	RiskFlags             []string            `json:"risk_flags"`
	SuitabilityPercentage *int                `json:"suitability_percentage,omitempty"`
	BuiltVerification     []BuiltVerification `json:"built_verification,omitempty"`
	Error                 string              `json:"error,omitempty"`
}

// OK reports whether extraction succeeded.
func (r *ResumeData) OK() bool {
	return r != nil && r.Error == ""
}

// BuiltVerification records how well a "built" claim is backed by a repository.
type BuiltVerification struct {
	Item        string `json:"item"`
	Confidence  int    `json:"confidence"`
	MatchedRepo string `json:"matched_repo,omitempty"`
	RepoURL     string `json:"repo_url,omitempty"`
}

// RepoSummary is a scored GitHub repository.
type RepoSummary struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Score       int    `json:"score"`
	Readme      string `json:"readme,omitempty"`
}

// GitHubActivity summarises public activity.
type GitHubActivity struct {
	PublicRepos  int      `json:"public_repos"`
	TotalStars   int      `json:"total_stars"`
	TopLanguages []string `json:"top_languages"`
}

// GitHubData is the result of GitHub analysis, stored as JSONB.
type GitHubData struct {
	Username             string         `json:"username,omitempty"`
	Source               string         `json:"source,omitempty"`
	Ownership            []string       `json:"ownership"`
	Patterns             []string       `json:"patterns"`
	Quality              []string       `json:"quality"`
	RiskFlags            []string       `json:"risk_flags"`
	InferredSeniority    string         `json:"inferred_seniority,omitempty"`
	CoreStrengths        []string       `json:"core_strengths"`
	CollaborationStyle   string         `json:"collaboration_style,omitempty"`
	Recommendations      []string       `json:"recommendations"`
	Justification        string         `json:"justification,omitempty"`
	ConfidencePercentage *int           `json:"confidence_percentage,omitempty"`
	Activity             GitHubActivity `json:"activity"`
	Repos                []RepoSummary  `json:"repos,omitempty"`
	Raw                  map[string]any `json:"raw,omitempty"`
}

// MediaUpdateRequest attaches demo links to an application.
type MediaUpdateRequest struct {
	VideoURL            string  `json:"video_url" validate:"required"`
	DeployURL           *string `json:"deploy_url,omitempty" validate:"omitempty,url"`
	CanViewWithoutLogin *bool   `json:"can_view_without_login,omitempty"`
	CanEmbed            *bool   `json:"can_embed,omitempty"`
}

// ApplicationCreateRequest holds the non-file fields of an intake submission.
type ApplicationCreateRequest struct {
	Name           string `validate:"required,min=1"`
	Email          string `validate:"required,contact_email"`
	Phone          string
	GitHubURL      string `validate:"required"`
	Focus          string `validate:"omitempty,oneof=fullstack frontend backend"`
	Location       string
	Availability   string `validate:"omitempty,oneof=full-time part-time contract internship"`
	ExpectedSalary int    `validate:"gte=0"`
}

// ApplicationResponse is returned by the create and media endpoints.
type ApplicationResponse struct {
	ID      string            `json:"id"`
	Status  ApplicationStatus `json:"status"`
	Message string            `json:"message"`
}

// ApplicationStatusResponse reports processing progress.
type ApplicationStatusResponse struct {
	ID              string            `json:"id"`
	Status          ApplicationStatus `json:"status"`
	ResumeProcessed bool              `json:"resume_processed"`
	GitHubProcessed bool              `json:"github_processed"`
	MediaSubmitted  bool              `json:"media_submitted"`
}
